package ids

import "testing"

func TestNew(t *testing.T) {
	id := New()

	if len(id) != 36 {
		t.Fatalf("expected ID length 36, got %d: %q", len(id), id)
	}
	if !Valid(id) {
		t.Fatalf("expected %q to be a valid UUID", id)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	if Valid("cat-1") {
		t.Error("expected cat-1 to be rejected")
	}
	if !Valid("6f1c2a4e-8d3b-4b5a-9c7d-0e1f2a3b4c5d") {
		t.Error("expected a well-formed UUID to be accepted")
	}
}
