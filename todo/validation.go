package todo

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amonks/tasktree/internal/validation"
)

// Error kinds. Every error returned by this package that describes bad
// input, a missing record or a name collision wraps one of these.
var (
	ErrInvalid  = errors.New("invalid input")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// kindError is a sentinel that unwraps to its error kind.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

var (
	// ErrEmptyTitle is returned when a task title is empty after trimming.
	ErrEmptyTitle = newKindError(ErrInvalid, "title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = newKindError(ErrInvalid, "title exceeds maximum length")

	// ErrInvalidPriority is returned for priorities other than high, medium or low.
	ErrInvalidPriority = newKindError(ErrInvalid, "invalid priority")

	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = newKindError(ErrInvalid, "invalid date")

	// ErrInvalidPadding is returned for timeline padding outside
	// 0..MaxPaddingDays.
	ErrInvalidPadding = newKindError(ErrInvalid, "invalid padding")

	// ErrSelfParent is returned when a task is made its own parent.
	ErrSelfParent = newKindError(ErrInvalid, "task cannot be its own parent")

	// ErrParentCycle is returned when a parent assignment would create a cycle.
	ErrParentCycle = newKindError(ErrInvalid, "parent assignment would create a cycle")

	// ErrNameRequired is returned when a category or tag name is empty.
	ErrNameRequired = newKindError(ErrInvalid, "name is required")

	// ErrNameTooLong is returned when a category or tag name is too long.
	ErrNameTooLong = newKindError(ErrInvalid, "name exceeds maximum length")

	// ErrColorRequired is returned when a category has no color.
	ErrColorRequired = newKindError(ErrInvalid, "color is required")

	// ErrAmbiguousIDPrefix is returned when an id prefix matches several records.
	ErrAmbiguousIDPrefix = newKindError(ErrInvalid, "ambiguous id prefix")

	// ErrNameConflict is returned when a category or tag name is already taken.
	ErrNameConflict = newKindError(ErrConflict, "name already exists")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = newKindError(ErrNotFound, "task not found")

	// ErrCategoryNotFound is returned when a category with the given ID doesn't exist.
	ErrCategoryNotFound = newKindError(ErrNotFound, "category not found")

	// ErrTagNotFound is returned when a tag with the given ID doesn't exist.
	ErrTagNotFound = newKindError(ErrNotFound, "tag not found")
)

// ParsePriority normalizes and validates a priority. An empty value parses
// to the empty Priority.
func ParsePriority(value string) (Priority, error) {
	normalized := Priority(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", nil
	}
	if !normalized.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, normalized, ValidPriorities())
	}
	return normalized, nil
}

// ValidateTitle checks a task title after trimming.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, MaxTitleLength)
	}
	return nil
}

// ValidatePriority checks that a non-empty priority is known.
func ValidatePriority(priority Priority) error {
	if priority == "" || priority.IsValid() {
		return nil
	}
	return validation.FormatInvalidValueError(ErrInvalidPriority, priority, ValidPriorities())
}

// ValidateTaskInput checks the fields of a task about to be created.
func ValidateTaskInput(opts CreateOptions) error {
	if err := ValidateTitle(opts.Title); err != nil {
		return err
	}
	return ValidatePriority(opts.Priority)
}

// ValidateUpdateInput checks the supplied fields of a partial update.
func ValidateUpdateInput(opts UpdateOptions) error {
	if opts.Title != nil {
		if err := ValidateTitle(*opts.Title); err != nil {
			return err
		}
	}
	if opts.Priority != nil {
		if *opts.Priority == "" {
			return fmt.Errorf("%w: priority cannot be empty", ErrInvalidPriority)
		}
		if err := ValidatePriority(*opts.Priority); err != nil {
			return err
		}
	}
	return nil
}

// EntityKind names a collection of uniquely named records.
type EntityKind string

const (
	KindCategory EntityKind = "category"
	KindTag      EntityKind = "tag"
)

// MaxNameLength returns the name length limit for the kind.
func (k EntityKind) MaxNameLength() int {
	switch k {
	case KindCategory:
		return MaxCategoryNameLength
	case KindTag:
		return MaxTagNameLength
	default:
		return MaxTitleLength
	}
}

// Named is a record with a unique name.
type Named interface {
	EntityID() string
	EntityName() string
}

// ValidateNamedEntity checks a category or tag name against the length
// limit for kind and against the existing records, ignoring the record
// with selfID (pass "" on create). Names are compared case-sensitively
// after trimming.
func ValidateNamedEntity[T Named](kind EntityKind, name, selfID string, existing []T) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%s %w", kind, ErrNameRequired)
	}
	if n := utf8.RuneCountInString(name); n > kind.MaxNameLength() {
		return fmt.Errorf("%s %w: %d > %d", kind, ErrNameTooLong, n, kind.MaxNameLength())
	}
	for _, item := range existing {
		if item.EntityID() == selfID && selfID != "" {
			continue
		}
		if strings.TrimSpace(item.EntityName()) == name {
			return fmt.Errorf("%s %w: %q", kind, ErrNameConflict, name)
		}
	}
	return nil
}

// validateParent rejects parent assignments that make taskID its own
// ancestor. Unknown parents are allowed; they make the task a root.
func validateParent(taskID, parentID string, tasks []Task) error {
	if parentID == "" {
		return nil
	}
	if taskID != "" && parentID == taskID {
		return ErrSelfParent
	}
	if taskID == "" {
		return nil
	}

	parents := make(map[string]string, len(tasks))
	for _, task := range tasks {
		parents[task.ID] = task.ParentID
	}

	visited := make(map[string]bool)
	for current := parentID; current != ""; current = parents[current] {
		if current == taskID {
			return fmt.Errorf("%w: %s is a descendant of %s", ErrParentCycle, parentID, taskID)
		}
		if visited[current] {
			break
		}
		visited[current] = true
	}
	return nil
}
