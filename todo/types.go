// Package todo implements the task tracker's core: tasks arranged in a
// parent/child forest, categories and tags, and the queries every surface
// shares.
//
// The pure functions operate on in-memory slices:
//   - FilterTasks narrows a collection by predicates
//   - BuildTree, SortTree and Flatten arrange tasks into a forest
//   - SortForDisplay imposes the canonical display order
//   - ProjectTimeline lays dated tasks out on a day grid
//
// Store wraps a single JSON document and exposes the create, update, toggle
// and delete operations together with their cascades.
package todo

import "time"

// Priority represents the importance of a task.
type Priority string

const (
	// PriorityHigh sorts first.
	PriorityHigh Priority = "high"

	// PriorityMedium is the default priority.
	PriorityMedium Priority = "medium"

	// PriorityLow sorts last.
	PriorityLow Priority = "low"
)

// ValidPriorities returns all valid priority values, highest first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// PriorityRank returns the sort rank for a priority. Unknown values rank last.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// PriorityPtr returns a pointer to the provided priority.
func PriorityPtr(priority Priority) *Priority {
	return &priority
}

// BoolPtr returns a pointer to the provided bool.
func BoolPtr(value bool) *bool {
	return &value
}

// StringPtr returns a pointer to the provided string.
func StringPtr(value string) *string {
	return &value
}

// Length limits for user-supplied names.
const (
	MaxTitleLength        = 200
	MaxCategoryNameLength = 50
	MaxTagNameLength      = 30
)

// Task is a single tracked item.
type Task struct {
	// ID is a UUID assigned at creation.
	ID string `json:"id" yaml:"id"`

	// Title is the trimmed, non-empty summary (max 200 chars).
	Title string `json:"title" yaml:"title"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Completed bool `json:"completed" yaml:"completed"`

	Priority Priority `json:"priority" yaml:"priority"`

	StartDate Date `json:"startDate,omitzero" yaml:"startDate,omitempty"`
	DueDate   Date `json:"dueDate,omitzero" yaml:"dueDate,omitempty"`

	// CategoryID weakly references a Category; unknown ids mean no category.
	CategoryID string `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`

	// Tags holds Tag ids without duplicates.
	Tags []string `json:"tags" yaml:"tags"`

	// ParentID weakly references another Task. Tasks whose parent is
	// missing are roots.
	ParentID string `json:"parentId,omitempty" yaml:"parentId,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// HasTag reports whether the task carries the tag id.
func (t Task) HasTag(tagID string) bool {
	for _, id := range t.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}

// HasDates reports whether the task has a start or due date.
func (t Task) HasDates() bool {
	return !t.StartDate.IsZero() || !t.DueDate.IsZero()
}

// Category groups tasks under a colored label.
type Category struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// EntityID implements Named.
func (c Category) EntityID() string { return c.ID }

// EntityName implements Named.
func (c Category) EntityName() string { return c.Name }

// Tag is a free-form label attached to tasks.
type Tag struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// EntityID implements Named.
func (t Tag) EntityID() string { return t.ID }

// EntityName implements Named.
func (t Tag) EntityName() string { return t.Name }

// DocumentVersion is the current version of the persisted document.
const DocumentVersion = 1

// Document is the persisted record store: every task, category and tag.
type Document struct {
	Version    int        `json:"version" yaml:"version"`
	Todos      []Task     `json:"todos" yaml:"todos"`
	Categories []Category `json:"categories" yaml:"categories"`
	Tags       []Tag      `json:"tags" yaml:"tags"`
}

// normalize fills defaults for documents written by older versions.
func (d *Document) normalize() {
	if d.Version == 0 {
		d.Version = DocumentVersion
	}
	if d.Todos == nil {
		d.Todos = []Task{}
	}
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Tags == nil {
		d.Tags = []Tag{}
	}
	for i := range d.Todos {
		if d.Todos[i].Priority == "" {
			d.Todos[i].Priority = PriorityMedium
		}
		d.Todos[i].Tags = normalizeTags(d.Todos[i].Tags)
	}
}

// isBlank reports whether the document has never been written.
func (d *Document) isBlank() bool {
	return d.Version == 0 && len(d.Todos) == 0 && len(d.Categories) == 0 && len(d.Tags) == 0
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	clone := &Document{
		Version:    d.Version,
		Todos:      make([]Task, len(d.Todos)),
		Categories: append([]Category(nil), d.Categories...),
		Tags:       append([]Tag(nil), d.Tags...),
	}
	for i, task := range d.Todos {
		task.Tags = append([]string(nil), task.Tags...)
		clone.Todos[i] = task
	}
	return clone
}

// normalizeTags drops empty and duplicate ids, keeping first occurrences.
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}
