package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/tasktree/todo"
)

// TaskData represents the data used to render the TOML template.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID string
	Title    string
	Priority string
	// StartDate and DueDate are YYYY-MM-DD or empty.
	StartDate string
	DueDate   string
	// Category and Tags hold names, or ids for records without a name.
	Category string
	Tags     []string
	// Parent is the parent task id.
	Parent string
	// Completed is only rendered for updates.
	Completed   bool
	Description string
}

// DefaultCreateData returns TaskData with default values for creating a new task.
func DefaultCreateData() TaskData {
	return TaskData{
		Priority: string(todo.PriorityMedium),
	}
}

// DataFromTask creates TaskData from an existing task for editing. Category
// and tag ids are shown by name where known.
func DataFromTask(t *todo.Task, categoryNames, tagNames map[string]string) TaskData {
	data := TaskData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Priority:    string(t.Priority),
		StartDate:   t.StartDate.String(),
		DueDate:     t.DueDate.String(),
		Category:    lookupName(categoryNames, t.CategoryID),
		Parent:      t.ParentID,
		Completed:   t.Completed,
		Description: t.Description,
	}
	for _, tagID := range t.Tags {
		data.Tags = append(data.Tags, lookupName(tagNames, tagID))
	}
	return data
}

func lookupName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

var taskTemplate = template.Must(template.New("task").Funcs(template.FuncMap{
	"quoteList": func(values []string) string {
		quoted := make([]string, 0, len(values))
		for _, value := range values {
			quoted = append(quoted, fmt.Sprintf("%q", value))
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	},
}).Parse(`title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # high, medium, low
start = {{ printf "%q" .StartDate }} # YYYY-MM-DD
due = {{ printf "%q" .DueDate }} # YYYY-MM-DD
category = {{ printf "%q" .Category }}
tags = {{ quoteList .Tags }}
parent = {{ printf "%q" .Parent }}
{{- if .IsUpdate }}
completed = {{ .Completed }}
{{- end }}
---
{{ .Description }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask represents the parsed result from the TOML editor output.
type ParsedTask struct {
	Title     string   `toml:"title"`
	Priority  string   `toml:"priority"`
	Start     string   `toml:"start"`
	Due       string   `toml:"due"`
	Category  string   `toml:"category"`
	Tags      []string `toml:"tags"`
	Parent    string   `toml:"parent"`
	Completed *bool    `toml:"completed"`

	Description string `toml:"-"`

	StartDate todo.Date `toml:"-"`
	DueDate   todo.Date `toml:"-"`
}

// ParseTaskTOML parses the TOML content from the editor.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Description = strings.TrimRight(strings.TrimLeft(body, "\n"), " \n")
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Category = strings.TrimSpace(parsed.Category)
	parsed.Parent = strings.TrimSpace(parsed.Parent)

	if err := todo.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	priority, err := todo.ParsePriority(parsed.Priority)
	if err != nil {
		return nil, err
	}
	if priority == "" {
		priority = todo.PriorityMedium
	}
	parsed.Priority = string(priority)

	if parsed.StartDate, err = todo.ParseDate(parsed.Start); err != nil {
		return nil, err
	}
	if parsed.DueDate, err = todo.ParseDate(parsed.Due); err != nil {
		return nil, err
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func createTaskTempFile() (*os.File, error) {
	return os.CreateTemp("", "tt-task-*.md")
}

// EditTask opens the editor with pre-populated data and returns the parsed result.
func EditTask(data TaskData) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTaskTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited))
}
