package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateOptions configures a new task.
type CreateOptions struct {
	Title string

	Description string

	// Priority defaults to PriorityMedium when empty.
	Priority Priority

	StartDate Date
	DueDate   Date

	CategoryID string
	Tags       []string

	// ParentID places the task under another task. Unknown ids are kept and
	// make the task a root.
	ParentID string

	Completed bool
}

// UpdateOptions configures fields to update on a task.
// Nil pointers mean "don't update this field"; pointers to zero values
// clear optional fields.
type UpdateOptions struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	StartDate   *Date
	DueDate     *Date
	CategoryID  *string
	Tags        *[]string
	ParentID    *string
}

// IsEmpty reports whether no field is set.
func (o UpdateOptions) IsEmpty() bool {
	return o.Title == nil && o.Description == nil && o.Completed == nil &&
		o.Priority == nil && o.StartDate == nil && o.DueDate == nil &&
		o.CategoryID == nil && o.Tags == nil && o.ParentID == nil
}

// ListTasks returns the tasks matching filter in stored order.
func (s *Store) ListTasks(filter Filter) ([]Task, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return FilterTasks(doc.Todos, filter), nil
}

// Tree returns the filtered tasks as a forest with each sibling group in
// display order. Tasks whose parent is filtered out become roots.
func (s *Store) Tree(filter Filter) ([]*TaskNode, error) {
	tasks, err := s.ListTasks(filter)
	if err != nil {
		return nil, err
	}
	forest := BuildTree(tasks)
	SortTree(forest)
	return forest, nil
}

// Timeline projects the filtered tasks onto a day grid. The bool is false
// when none of them has a date. Padding outside 0..MaxPaddingDays is an
// error.
func (s *Store) Timeline(filter Filter, opts TimelineOptions) (Timeline, bool, error) {
	if err := ValidatePadding(opts.PaddingDays); err != nil {
		return Timeline{}, false, err
	}
	tasks, err := s.ListTasks(filter)
	if err != nil {
		return Timeline{}, false, err
	}
	if opts.Now.IsZero() {
		opts.Now = s.now()
	}
	tl, ok := ProjectTimeline(tasks, opts)
	return tl, ok, nil
}

// GetTask returns the task with the exact id.
func (s *Store) GetTask(id string) (*Task, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	i := taskIndex(doc.Todos, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	task := doc.Todos[i]
	return &task, nil
}

// ResolveTaskID returns the full id of the task identified by an exact id
// or unique prefix.
func (s *Store) ResolveTaskID(idOrPrefix string) (string, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return "", err
	}
	return NewIDIndex(doc.Todos).Resolve(idOrPrefix, ErrTaskNotFound)
}

// ResolveTaskIDs resolves several ids or prefixes, reporting every missing one.
func (s *Store) ResolveTaskIDs(prefixes []string) ([]string, error) {
	doc, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	index := NewIDIndex(doc.Todos)
	resolved := make([]string, 0, len(prefixes))
	var missing []string
	for _, prefix := range prefixes {
		id, err := index.Resolve(prefix, ErrTaskNotFound)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				missing = append(missing, prefix)
				continue
			}
			return nil, err
		}
		resolved = append(resolved, id)
	}
	if err := missingTaskIDsError(missing); err != nil {
		return nil, err
	}
	return resolved, nil
}

// CreateTask validates opts and appends a new task.
func (s *Store) CreateTask(opts CreateOptions) (*Task, error) {
	if err := ValidateTaskInput(opts); err != nil {
		return nil, err
	}

	priority := opts.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := s.timestamp()
	task := Task{
		ID:          s.newID(),
		Title:       strings.TrimSpace(opts.Title),
		Description: opts.Description,
		Completed:   opts.Completed,
		Priority:    priority,
		StartDate:   opts.StartDate,
		DueDate:     opts.DueDate,
		CategoryID:  strings.TrimSpace(opts.CategoryID),
		Tags:        normalizeTags(opts.Tags),
		ParentID:    strings.TrimSpace(opts.ParentID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.update("todos", "create", func(doc *Document) error {
		if taskIndex(doc.Todos, task.ID) >= 0 {
			return fmt.Errorf("%w: task id %s", ErrConflict, task.ID)
		}
		doc.Todos = append(doc.Todos, task)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies the supplied fields to the task with the exact id.
func (s *Store) UpdateTask(id string, opts UpdateOptions) (*Task, error) {
	if err := ValidateUpdateInput(opts); err != nil {
		return nil, err
	}

	var updated Task
	err := s.update("todos", "update", func(doc *Document) error {
		i := taskIndex(doc.Todos, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		task := &doc.Todos[i]

		if opts.ParentID != nil {
			parentID := strings.TrimSpace(*opts.ParentID)
			if err := validateParent(task.ID, parentID, doc.Todos); err != nil {
				return err
			}
			task.ParentID = parentID
		}
		if opts.Title != nil {
			task.Title = strings.TrimSpace(*opts.Title)
		}
		if opts.Description != nil {
			task.Description = *opts.Description
		}
		if opts.Completed != nil {
			task.Completed = *opts.Completed
		}
		if opts.Priority != nil {
			task.Priority = *opts.Priority
		}
		if opts.StartDate != nil {
			task.StartDate = *opts.StartDate
		}
		if opts.DueDate != nil {
			task.DueDate = *opts.DueDate
		}
		if opts.CategoryID != nil {
			task.CategoryID = strings.TrimSpace(*opts.CategoryID)
		}
		if opts.Tags != nil {
			task.Tags = normalizeTags(*opts.Tags)
		}

		s.touch(task)
		updated = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ToggleTask flips the completion state of the task with the exact id.
func (s *Store) ToggleTask(id string) (*Task, error) {
	var updated Task
	err := s.update("todos", "toggle", func(doc *Document) error {
		i := taskIndex(doc.Todos, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		doc.Todos[i].Completed = !doc.Todos[i].Completed
		s.touch(&doc.Todos[i])
		updated = doc.Todos[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetCompleted sets the completion state of every listed task. Nothing is
// written if any id is missing.
func (s *Store) SetCompleted(taskIDs []string, completed bool) ([]Task, error) {
	var result []Task
	err := s.update("todos", "complete", func(doc *Document) error {
		var missing []string
		indexes := make([]int, 0, len(taskIDs))
		for _, id := range taskIDs {
			i := taskIndex(doc.Todos, id)
			if i < 0 {
				missing = append(missing, id)
				continue
			}
			indexes = append(indexes, i)
		}
		if err := missingTaskIDsError(missing); err != nil {
			return err
		}

		for _, i := range indexes {
			doc.Todos[i].Completed = completed
			s.touch(&doc.Todos[i])
			result = append(result, doc.Todos[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTask removes the task with the exact id. Its children keep their
// parent id and become roots.
func (s *Store) DeleteTask(id string) (*Task, error) {
	var deleted Task
	err := s.update("todos", "delete", func(doc *Document) error {
		i := taskIndex(doc.Todos, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		deleted = doc.Todos[i]
		doc.Todos = append(doc.Todos[:i], doc.Todos[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// touch refreshes UpdatedAt, never letting it precede CreatedAt.
func (s *Store) touch(task *Task) {
	now := s.timestamp()
	if now.Before(task.CreatedAt) {
		now = task.CreatedAt
	}
	task.UpdatedAt = now
}

func taskIndex(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func missingTaskIDsError(missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, strings.Join(missing, ", "))
}

// Overdue reports whether an incomplete task's due date is before today.
func Overdue(task Task, now time.Time) bool {
	return !task.Completed && !task.DueDate.IsZero() && task.DueDate.Before(DateOf(now))
}
