package bridge

import (
	"fmt"
	"math"
	"strings"

	internalstrings "github.com/amonks/tasktree/internal/strings"
	"github.com/amonks/tasktree/todo"
)

// arguments wraps a tool call's argument object. Each accessor reports
// whether the key was present; a present null counts as absent.
type arguments map[string]any

func invalidArgument(key, want string, value any) error {
	return fmt.Errorf("%w: %s must be %s, got %T", todo.ErrInvalid, key, want, value)
}

func (a arguments) str(key string) (string, bool, error) {
	value, ok := a[key]
	if !ok || value == nil {
		return "", false, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", false, invalidArgument(key, "a string", value)
	}
	return s, true, nil
}

func (a arguments) boolean(key string) (bool, bool, error) {
	value, ok := a[key]
	if !ok || value == nil {
		return false, false, nil
	}
	switch v := value.(type) {
	case bool:
		return v, true, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true, nil
		case "false":
			return false, true, nil
		}
	}
	return false, false, invalidArgument(key, "a boolean", value)
}

func (a arguments) integer(key string) (int, bool, error) {
	value, ok := a[key]
	if !ok || value == nil {
		return 0, false, nil
	}
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false, invalidArgument(key, "a whole number", value)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	}
	return 0, false, invalidArgument(key, "a number", value)
}

// strs accepts a JSON array of strings or a comma-separated string.
func (a arguments) strs(key string) ([]string, bool, error) {
	value, ok := a[key]
	if !ok || value == nil {
		return nil, false, nil
	}
	switch v := value.(type) {
	case string:
		return internalstrings.SplitList(v), true, nil
	case []string:
		return v, true, nil
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false, invalidArgument(key, "an array of strings", value)
			}
			result = append(result, s)
		}
		return result, true, nil
	}
	return nil, false, invalidArgument(key, "an array of strings", value)
}

// date parses a YYYY-MM-DD argument. An empty string is present and zero.
func (a arguments) date(key string) (todo.Date, bool, error) {
	value, ok, err := a.str(key)
	if err != nil || !ok {
		return todo.Date{}, false, err
	}
	d, err := todo.ParseDate(value)
	if err != nil {
		return todo.Date{}, false, fmt.Errorf("%s: %w", key, err)
	}
	return d, true, nil
}

func (b *Bridge) taskID(args arguments) (string, error) {
	ref, _, err := args.str("id")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("%w: id is required", todo.ErrInvalid)
	}
	return b.store.ResolveTaskID(ref)
}

// parentRef resolves parentId to a full task id. An empty value clears.
func (b *Bridge) parentRef(args arguments) (string, bool, error) {
	ref, ok, err := args.str("parentId")
	if err != nil || !ok {
		return "", ok, err
	}
	if strings.TrimSpace(ref) == "" {
		return "", true, nil
	}
	id, err := b.store.ResolveTaskID(ref)
	if err != nil {
		return "", false, fmt.Errorf("parent: %w", err)
	}
	return id, true, nil
}

// categoryRef resolves categoryId by name, id or prefix. An empty value clears.
func (b *Bridge) categoryRef(args arguments) (string, bool, error) {
	ref, ok, err := args.str("categoryId")
	if err != nil || !ok {
		return "", ok, err
	}
	if strings.TrimSpace(ref) == "" {
		return "", true, nil
	}
	category, err := b.store.ResolveCategory(ref)
	if err != nil {
		return "", false, err
	}
	return category.ID, true, nil
}

func (b *Bridge) tagRefs(args arguments) ([]string, bool, error) {
	refs, ok, err := args.strs("tagIds")
	if err != nil || !ok {
		return nil, ok, err
	}
	tagIDs := make([]string, 0, len(refs))
	for _, ref := range refs {
		tag, err := b.store.ResolveTag(ref)
		if err != nil {
			return nil, false, err
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	return tagIDs, true, nil
}

func (b *Bridge) filter(args arguments) (todo.Filter, error) {
	var filter todo.Filter
	completed, ok, err := args.boolean("completed")
	if err != nil {
		return filter, err
	}
	if ok {
		filter.Completed = &completed
	}

	priority, _, err := args.str("priority")
	if err != nil {
		return filter, err
	}
	if filter.Priority, err = todo.ParsePriority(priority); err != nil {
		return filter, err
	}
	if filter.CategoryID, _, err = b.categoryRef(args); err != nil {
		return filter, err
	}
	if filter.TagIDs, _, err = b.tagRefs(args); err != nil {
		return filter, err
	}
	if filter.Search, _, err = args.str("search"); err != nil {
		return filter, err
	}
	if filter.DueFrom, _, err = args.date("dueDateFrom"); err != nil {
		return filter, err
	}
	if filter.DueTo, _, err = args.date("dueDateTo"); err != nil {
		return filter, err
	}
	return filter, nil
}
