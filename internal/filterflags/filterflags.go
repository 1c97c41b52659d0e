// Package filterflags binds the shared task filter flags to cobra commands.
package filterflags

import (
	"errors"

	"github.com/amonks/tasktree/todo"
	"github.com/spf13/cobra"
)

// Resolver looks up categories and tags by name, id or id prefix.
type Resolver interface {
	ResolveCategory(ref string) (*todo.Category, error)
	ResolveTag(ref string) (*todo.Tag, error)
}

// Flags holds the raw flag values.
type Flags struct {
	Done     bool
	Open     bool
	Priority string
	Category string
	Tags     []string
	Search   string
	DueFrom  string
	DueTo    string
}

// Add registers the filter flags on cmd.
func Add(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().BoolVar(&flags.Done, "done", false, "Only completed tasks")
	cmd.Flags().BoolVar(&flags.Open, "open", false, "Only incomplete tasks")
	cmd.Flags().StringVar(&flags.Priority, "priority", "", "Filter by priority (high, medium, low)")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Filter by category name or id")
	cmd.Flags().StringArrayVar(&flags.Tags, "tag", nil, "Filter by tag name or id (repeatable, matches any)")
	cmd.Flags().StringVar(&flags.Search, "search", "", "Case-insensitive text search in title and description")
	cmd.Flags().StringVar(&flags.DueFrom, "due-from", "", "Only tasks due on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.DueTo, "due-to", "", "Only tasks due on or before this date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("done", "open")
}

// Filter converts the flags into a todo.Filter, resolving category and tag
// references.
func (f *Flags) Filter(resolver Resolver) (todo.Filter, error) {
	var filter todo.Filter

	if f.Done && f.Open {
		return filter, errors.New("--done and --open cannot be combined")
	}
	if f.Done {
		filter.Completed = todo.BoolPtr(true)
	}
	if f.Open {
		filter.Completed = todo.BoolPtr(false)
	}

	priority, err := todo.ParsePriority(f.Priority)
	if err != nil {
		return filter, err
	}
	filter.Priority = priority

	if f.Category != "" {
		category, err := resolver.ResolveCategory(f.Category)
		if err != nil {
			return filter, err
		}
		filter.CategoryID = category.ID
	}
	for _, ref := range f.Tags {
		tag, err := resolver.ResolveTag(ref)
		if err != nil {
			return filter, err
		}
		filter.TagIDs = append(filter.TagIDs, tag.ID)
	}

	filter.Search = f.Search
	if filter.DueFrom, err = todo.ParseDate(f.DueFrom); err != nil {
		return filter, err
	}
	if filter.DueTo, err = todo.ParseDate(f.DueTo); err != nil {
		return filter, err
	}
	return filter, nil
}
