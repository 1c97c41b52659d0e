package todo

import "testing"

func filterFixture() []Task {
	return []Task{
		{ID: "a", Title: "Draft report", Priority: PriorityMedium, CategoryID: "cat-1", Tags: []string{"tag-1"}, DueDate: MustParseDate("2026-01-10")},
		{ID: "b", Title: "Book flights", Description: "Check the REPORT first", Completed: true, Priority: PriorityHigh, Tags: []string{"tag-2"}},
		{ID: "c", Title: "Pay rent", Priority: PriorityLow, CategoryID: "cat-2", DueDate: MustParseDate("2026-01-31")},
		{ID: "d", Title: "Call bank", Priority: PriorityHigh, CategoryID: "cat-1", Tags: []string{"tag-1", "tag-2"}, DueDate: MustParseDate("2026-02-01")},
		{ID: "e", Title: "Read book", Priority: PriorityMedium, Tags: []string{}},
	}
}

func TestFilterTasksIdentity(t *testing.T) {
	tasks := filterFixture()

	got := FilterTasks(tasks, Filter{})
	if !equalStrings(taskIDs(got), taskIDs(tasks)) {
		t.Fatalf("expected identity, got %v", taskIDs(got))
	}

	got[0].Title = "changed"
	if tasks[0].Title == "changed" {
		t.Fatal("expected FilterTasks to return a copy")
	}

	if got := FilterTasks(nil, Filter{}); len(got) != 0 {
		t.Fatalf("expected no tasks, got %v", taskIDs(got))
	}
}

func TestFilterTasksCompletedPartitions(t *testing.T) {
	tasks := filterFixture()

	done := FilterTasks(tasks, Filter{Completed: BoolPtr(true)})
	open := FilterTasks(tasks, Filter{Completed: BoolPtr(false)})

	if len(done)+len(open) != len(tasks) {
		t.Fatalf("expected partition of %d tasks, got %d + %d", len(tasks), len(done), len(open))
	}
	seen := make(map[string]bool)
	for _, task := range append(done, open...) {
		if seen[task.ID] {
			t.Fatalf("task %s appears in both halves", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestFilterTasksPredicates(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"priority", Filter{Priority: PriorityHigh}, []string{"b", "d"}},
		{"category", Filter{CategoryID: "cat-1"}, []string{"a", "d"}},
		{"unknown category", Filter{CategoryID: "cat-9"}, nil},
		{"tags intersect", Filter{TagIDs: []string{"tag-2", "tag-9"}}, []string{"b", "d"}},
		{"search title", Filter{Search: "BOOK"}, []string{"b", "e"}},
		{"search description", Filter{Search: "report"}, []string{"a", "b"}},
		{"due from", Filter{DueFrom: MustParseDate("2026-01-31")}, []string{"c", "d"}},
		{"due to", Filter{DueTo: MustParseDate("2026-01-31")}, []string{"a", "c"}},
		{"due range", Filter{DueFrom: MustParseDate("2026-01-11"), DueTo: MustParseDate("2026-01-31")}, []string{"c"}},
		{"combined", Filter{Completed: BoolPtr(false), Priority: PriorityHigh, TagIDs: []string{"tag-1"}}, []string{"d"}},
		{"nothing matches", Filter{Priority: PriorityLow, CategoryID: "cat-1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskIDs(FilterTasks(filterFixture(), tt.filter))
			if !equalStrings(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterTasksDateRangeSkipsUndated(t *testing.T) {
	tasks := []Task{{ID: "undated", Title: "x"}}

	if got := FilterTasks(tasks, Filter{DueFrom: MustParseDate("2000-01-01")}); len(got) != 0 {
		t.Fatalf("expected undated task to be excluded, got %v", taskIDs(got))
	}
	if got := FilterTasks(tasks, Filter{DueTo: MustParseDate("2100-01-01")}); len(got) != 0 {
		t.Fatalf("expected undated task to be excluded, got %v", taskIDs(got))
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !(Filter{}).IsEmpty() {
		t.Fatal("expected zero filter to be empty")
	}
	if (Filter{TagIDs: []string{"x"}}).IsEmpty() {
		t.Fatal("expected tag filter to be non-empty")
	}
	if (Filter{Completed: BoolPtr(false)}).IsEmpty() {
		t.Fatal("expected completed=false filter to be non-empty")
	}
}
