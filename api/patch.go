package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/amonks/tasktree/todo"
)

// updateOptionsFromPatch converts a PATCH body into update options. Absent
// fields are left alone; null or "" clears optional fields.
func updateOptionsFromPatch(fields map[string]json.RawMessage) (todo.UpdateOptions, error) {
	var opts todo.UpdateOptions

	for key, raw := range fields {
		switch key {
		case "title":
			value, err := patchString(key, raw)
			if err != nil {
				return opts, err
			}
			opts.Title = &value
		case "description":
			value, err := patchString(key, raw)
			if err != nil {
				return opts, err
			}
			opts.Description = &value
		case "completed":
			var value bool
			if err := json.Unmarshal(raw, &value); err != nil {
				return opts, fmt.Errorf("completed must be a boolean")
			}
			opts.Completed = &value
		case "priority":
			value, err := patchString(key, raw)
			if err != nil {
				return opts, err
			}
			priority, err := todo.ParsePriority(value)
			if err != nil {
				return opts, err
			}
			opts.Priority = &priority
		case "startDate", "dueDate":
			value, err := patchString(key, raw)
			if err != nil {
				return opts, err
			}
			date, err := todo.ParseDate(value)
			if err != nil {
				return opts, err
			}
			if key == "startDate" {
				opts.StartDate = &date
			} else {
				opts.DueDate = &date
			}
		case "categoryId":
			value, err := patchString(key, raw)
			if err != nil {
				return opts, err
			}
			opts.CategoryID = &value
		case "parentId":
			value, err := patchString(key, raw)
			if err != nil {
				return opts, err
			}
			opts.ParentID = &value
		case "tags":
			var tags []string
			if !isNull(raw) {
				if err := json.Unmarshal(raw, &tags); err != nil {
					return opts, fmt.Errorf("tags must be an array of strings")
				}
			}
			if tags == nil {
				tags = []string{}
			}
			opts.Tags = &tags
		}
	}
	return opts, nil
}

func patchString(key string, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return value, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

type categoryPatch struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type tagPatch struct {
	Name *string `json:"name"`
}
