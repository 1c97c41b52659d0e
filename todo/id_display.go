package todo

import (
	"fmt"

	"github.com/amonks/tasktree/internal/ids"
)

// IDIndex indexes record IDs for prefix matching and display.
type IDIndex struct {
	ids []string
}

// NewIDIndex builds an IDIndex from a slice of tasks.
func NewIDIndex(tasks []Task) IDIndex {
	taskIDs := make([]string, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	return IDIndex{ids: taskIDs}
}

// NewNamedIndex builds an IDIndex over categories or tags.
func NewNamedIndex[T Named](items []T) IDIndex {
	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.EntityID())
	}
	return IDIndex{ids: itemIDs}
}

// Resolve returns the full ID for an exact ID or unique prefix. Missing IDs
// return notFound.
func (index IDIndex) Resolve(prefix string, notFound error) (string, error) {
	match, found, ambiguous := ids.MatchPrefix(index.ids, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", notFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
	}
	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID,
// keyed by lowercased ID.
func (index IDIndex) PrefixLengths() map[string]int {
	return ids.UniquePrefixLengths(index.ids)
}
