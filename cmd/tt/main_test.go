package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amonks/tasktree/todo"
)

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "tt" {
		t.Fatalf("expected root command name tt, got %q", rootCmd.Use)
	}
}

func TestShouldUseEditor(t *testing.T) {
	cases := []struct {
		name        string
		hasFlags    bool
		edit        bool
		noEdit      bool
		interactive bool
		want        bool
	}{
		{"edit wins", true, true, false, false, true},
		{"no-edit wins", false, false, true, true, false},
		{"flags skip editor", true, false, false, true, false},
		{"interactive default", false, false, false, true, true},
		{"non-interactive default", false, false, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shouldUseEditor(tc.hasFlags, tc.edit, tc.noEdit, tc.interactive))
		})
	}
}

func TestResolveDescriptionFromStdin(t *testing.T) {
	value, err := resolveDescriptionFromStdin("-", strings.NewReader("line one\nline two\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", value)

	value, err = resolveDescriptionFromStdin("literal", strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "literal", value)
}

func TestShortID(t *testing.T) {
	id := "0123456789abcdef"
	assert.Equal(t, "01234567", shortID(id, 2))
	assert.Equal(t, "0123456789", shortID(id, 10))
	assert.Equal(t, "abc", shortID("abc", 1))
}

func TestPrintTaskTree(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	forest := []*todo.TaskNode{{
		Task: todo.Task{ID: "root", Title: "Root", Priority: todo.PriorityHigh},
		Children: []*todo.TaskNode{
			{
				Task: todo.Task{ID: "a", Title: "A", Priority: todo.PriorityMedium, DueDate: todo.MustParseDate("2026-03-01")},
				Children: []*todo.TaskNode{
					{Task: todo.Task{ID: "a1", Title: "A1", Priority: todo.PriorityLow, Completed: true}},
				},
			},
			{Task: todo.Task{ID: "b", Title: "B", Priority: todo.PriorityLow}},
		},
	}}

	var out bytes.Buffer
	identity := func(id string) string { return id }
	for _, root := range forest {
		printTaskTree(&out, root, "", true, true, identity, now)
	}

	want := strings.Join([]string{
		"○ Root (root) [high]",
		"├── ○ A (a) [medium] due 2026-03-01 (overdue)",
		"│   └── ✓ A1 (a1) [low]",
		"└── ○ B (b) [low]",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
}

func TestPrintGantt(t *testing.T) {
	tasks := []todo.Task{
		{ID: "a", Title: "Alpha", StartDate: todo.MustParseDate("2026-01-30"), DueDate: todo.MustParseDate("2026-02-02")},
	}
	tl, ok := todo.ProjectTimeline(tasks, todo.TimelineOptions{Now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.True(t, ok)

	var out bytes.Buffer
	printGantt(&out, tl)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	pad := strings.Repeat(" ", ganttLabelWidth+1)
	assert.Equal(t, pad+"JaFe", lines[0], "narrow bands fall back to the month name")
	assert.Equal(t, pad+"0112", lines[1])
	assert.Contains(t, lines[2], "Alpha")
	assert.True(t, strings.HasSuffix(lines[2], "####"))
	assert.Equal(t, "2026-01-30 to 2026-02-02 (4 days)", lines[3])
}

func TestTaskFlagAliases(t *testing.T) {
	require.NoError(t, addCmd.Flags().Parse([]string{"--desc", "text", "--due-date", "2026-01-02"}))
	t.Cleanup(func() {
		addFlags = taskFlags{}
		addCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	})

	assert.Equal(t, "text", addFlags.description)
	assert.Equal(t, "2026-01-02", addFlags.due)
	assert.True(t, addCmd.Flags().Changed("description"))
}

func TestDueLabel(t *testing.T) {
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	due := func(value string) todo.Task {
		return todo.Task{DueDate: todo.MustParseDate(value)}
	}

	assert.Equal(t, "-", dueLabel(todo.Task{}, now))
	assert.Equal(t, "2026-03-02 (today)", dueLabel(due("2026-03-02"), now))
	assert.Equal(t, "2026-03-03 (tomorrow)", dueLabel(due("2026-03-03"), now))
	assert.Equal(t, "2026-03-09 (in 7 days)", dueLabel(due("2026-03-09"), now))
	assert.Equal(t, "2026-03-01 (1 day ago)", dueLabel(due("2026-03-01"), now))
	assert.Equal(t, "2026-02-20 (10 days ago)", dueLabel(due("2026-02-20"), now))
}
