package todo

import "strings"

// Filter selects tasks. Zero-valued fields impose no constraint; set
// fields combine with AND.
type Filter struct {
	// Completed filters by exact completion state.
	Completed *bool

	// Priority filters by exact priority.
	Priority Priority

	// CategoryID filters by exact category id.
	CategoryID string

	// TagIDs matches tasks carrying at least one of the tags.
	TagIDs []string

	// Search matches a case-insensitive substring of the title or description.
	Search string

	// DueFrom and DueTo bound the due date, inclusive. Tasks without a due
	// date never match a bound.
	DueFrom Date
	DueTo   Date
}

// IsEmpty reports whether the filter imposes no constraint.
func (f Filter) IsEmpty() bool {
	return f.Completed == nil &&
		f.Priority == "" &&
		f.CategoryID == "" &&
		len(f.TagIDs) == 0 &&
		f.Search == "" &&
		f.DueFrom.IsZero() &&
		f.DueTo.IsZero()
}

// Validate checks the filter's enumerated fields.
func (f Filter) Validate() error {
	if err := ValidatePriority(f.Priority); err != nil {
		return err
	}
	return nil
}

// FilterTasks returns the tasks matching every predicate of f, in input order.
func FilterTasks(tasks []Task, f Filter) []Task {
	if f.IsEmpty() {
		return append([]Task(nil), tasks...)
	}

	search := strings.ToLower(f.Search)
	var tagSet map[string]bool
	if len(f.TagIDs) > 0 {
		tagSet = make(map[string]bool, len(f.TagIDs))
		for _, id := range f.TagIDs {
			tagSet[id] = true
		}
	}

	var result []Task
	for _, task := range tasks {
		if f.Completed != nil && task.Completed != *f.Completed {
			continue
		}
		if f.Priority != "" && task.Priority != f.Priority {
			continue
		}
		if f.CategoryID != "" && task.CategoryID != f.CategoryID {
			continue
		}
		if tagSet != nil && !hasAnyTag(task, tagSet) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Title), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}
		if !f.DueFrom.IsZero() && (task.DueDate.IsZero() || task.DueDate.Before(f.DueFrom)) {
			continue
		}
		if !f.DueTo.IsZero() && (task.DueDate.IsZero() || task.DueDate.After(f.DueTo)) {
			continue
		}
		result = append(result, task)
	}
	return result
}

func hasAnyTag(task Task, tagSet map[string]bool) bool {
	for _, id := range task.Tags {
		if tagSet[id] {
			return true
		}
	}
	return false
}
