package age

import (
	"testing"
	"time"
)

func TestSince(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want time.Duration
		ok   bool
	}{
		{name: "past", at: now.Add(-10 * time.Minute), want: 10 * time.Minute, ok: true},
		{name: "now", at: now, want: 0, ok: true},
		{name: "future clamps", at: now.Add(4 * time.Minute), want: 0, ok: true},
		{name: "unset", at: time.Time{}, want: 0, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Since(tc.at, now)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("Since() = (%v, %v), want (%v, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}
