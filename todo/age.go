package todo

import (
	"time"

	internalage "github.com/amonks/tasktree/internal/age"
)

// AgeData computes how long ago the task was created and whether timing
// data exists.
func AgeData(task Task, now time.Time) (time.Duration, bool) {
	return internalage.Since(task.CreatedAt, now)
}

// DueIn returns the whole days from today until the task's due date. The
// bool is false when the task has no due date.
func DueIn(task Task, now time.Time) (int, bool) {
	if task.DueDate.IsZero() {
		return 0, false
	}
	return DateOf(now).DaysUntil(task.DueDate), true
}
