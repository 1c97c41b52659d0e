package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	internalstrings "github.com/amonks/tasktree/internal/strings"
	"github.com/amonks/tasktree/todo"
)

// filterFromQuery reads the shared task filter query parameters.
func filterFromQuery(c *gin.Context) (todo.Filter, error) {
	var filter todo.Filter

	if raw := strings.TrimSpace(c.Query("completed")); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid completed value %q", raw)
		}
		filter.Completed = &completed
	}

	priority, err := todo.ParsePriority(c.Query("priority"))
	if err != nil {
		return filter, err
	}
	filter.Priority = priority

	filter.CategoryID = strings.TrimSpace(c.Query("categoryId"))
	for _, raw := range c.QueryArray("tagIds") {
		filter.TagIDs = append(filter.TagIDs, internalstrings.SplitList(raw)...)
	}
	filter.Search = c.Query("search")

	if filter.DueFrom, err = todo.ParseDate(c.Query("dueDateFrom")); err != nil {
		return filter, err
	}
	if filter.DueTo, err = todo.ParseDate(c.Query("dueDateTo")); err != nil {
		return filter, err
	}
	return filter, nil
}

func paddingFromQuery(c *gin.Context, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query("padding"))
	if raw == "" {
		return fallback, nil
	}
	padding, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", todo.ErrInvalidPadding, raw)
	}
	if err := todo.ValidatePadding(padding); err != nil {
		return 0, err
	}
	return padding, nil
}
