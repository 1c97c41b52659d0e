// Package age computes elapsed times for display.
package age

import "time"

// Since returns how long ago t was, clamped at zero. The bool is false when
// t is unset.
func Since(t time.Time, now time.Time) (time.Duration, bool) {
	if t.IsZero() {
		return 0, false
	}
	if now.Before(t) {
		return 0, true
	}
	return now.Sub(t), true
}
