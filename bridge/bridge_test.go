package bridge

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amonks/tasktree/todo"
)

var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	ids := []string{"a1f0", "b2e1", "c3d2", "d4c3", "e5b4", "f6a5"}
	next := 0
	store, err := todo.New(todo.NewMemoryBackend(todo.Document{}), todo.OpenOptions{
		Seed: true,
		Now:  func() time.Time { return testNow },
		NewID: func() string {
			id := ids[next]
			next++
			return id
		},
	})
	require.NoError(t, err)
	b, err := New(Options{Store: store, PaddingDays: 1, Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	return b
}

func call(t *testing.T, b *Bridge, name string, args map[string]any) (string, bool) {
	t.Helper()
	for _, tool := range b.tools() {
		if tool.definition.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args
		result, err := tool.handle(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, result)
		require.Len(t, result.Content, 1)
		switch content := result.Content[0].(type) {
		case mcp.TextContent:
			return content.Text, result.IsError
		case *mcp.TextContent:
			return content.Text, result.IsError
		default:
			t.Fatalf("unexpected content %T", content)
		}
	}
	t.Fatalf("no tool named %s", name)
	return "", false
}

func callJSON[T any](t *testing.T, b *Bridge, name string, args map[string]any) T {
	t.Helper()
	text, isError := call(t, b, name, args)
	require.False(t, isError, text)
	var value T
	require.NoError(t, json.Unmarshal([]byte(text), &value), text)
	return value
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestAddAndGetTodo(t *testing.T) {
	b := newTestBridge(t)

	created := callJSON[todo.Task](t, b, "add_todo", map[string]any{
		"title":      "  Ship release ",
		"priority":   "high",
		"dueDate":    "2026-03-05",
		"categoryId": "Work",
		"tagIds":     []any{"Important", "tag-2"},
	})
	assert.Equal(t, "a1f0", created.ID)
	assert.Equal(t, "Ship release", created.Title)
	assert.Equal(t, todo.PriorityHigh, created.Priority)
	assert.Equal(t, "2026-03-05", created.DueDate.String())
	assert.Equal(t, "cat-1", created.CategoryID)
	assert.Equal(t, []string{"tag-1", "tag-2"}, created.Tags)

	got := callJSON[todo.Task](t, b, "get_todo", map[string]any{"id": "a1"})
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
}

func TestAddTodoValidation(t *testing.T) {
	b := newTestBridge(t)

	text, isError := call(t, b, "add_todo", map[string]any{"title": "   "})
	assert.True(t, isError)
	assert.Equal(t, todo.ErrEmptyTitle.Error(), text)

	text, isError = call(t, b, "add_todo", map[string]any{"title": "x", "priority": "urgent"})
	assert.True(t, isError)
	assert.Contains(t, text, "invalid priority")

	text, isError = call(t, b, "add_todo", map[string]any{"title": "x", "dueDate": "soon"})
	assert.True(t, isError)
	assert.Contains(t, text, "invalid date")

	text, isError = call(t, b, "add_todo", map[string]any{"title": "x", "categoryId": "Nope"})
	assert.True(t, isError)
	assert.Contains(t, text, "category not found")

	tasks := callJSON[[]todo.Task](t, b, "list_todos", nil)
	assert.Empty(t, tasks)
}

func TestUpdateTodoClearsFields(t *testing.T) {
	b := newTestBridge(t)
	callJSON[todo.Task](t, b, "add_todo", map[string]any{"title": "Parent"})
	callJSON[todo.Task](t, b, "add_todo", map[string]any{
		"title":     "Child",
		"parentId":  "a1",
		"startDate": "2026-03-01",
		"dueDate":   "2026-03-09",
	})

	updated := callJSON[todo.Task](t, b, "update_todo", map[string]any{
		"id":       "b2",
		"title":    "Renamed",
		"dueDate":  "",
		"parentId": "",
	})
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.DueDate.IsZero())
	assert.Equal(t, "2026-03-01", updated.StartDate.String())
	assert.Empty(t, updated.ParentID)

	unchanged := callJSON[todo.Task](t, b, "update_todo", map[string]any{"id": "b2"})
	assert.Equal(t, "Renamed", unchanged.Title)

	text, isError := call(t, b, "update_todo", map[string]any{"id": "a1", "parentId": "a1"})
	assert.True(t, isError)
	assert.Contains(t, text, "own parent")
}

func TestCompleteTodo(t *testing.T) {
	b := newTestBridge(t)
	callJSON[todo.Task](t, b, "add_todo", map[string]any{"title": "Finish"})

	done := callJSON[todo.Task](t, b, "complete_todo", map[string]any{"id": "a1f0"})
	assert.True(t, done.Completed)

	reopened := callJSON[todo.Task](t, b, "complete_todo", map[string]any{"id": "a", "completed": false})
	assert.False(t, reopened.Completed)

	text, isError := call(t, b, "complete_todo", map[string]any{"id": "zz"})
	assert.True(t, isError)
	assert.Contains(t, text, "task not found")
}

func TestDeleteTodo(t *testing.T) {
	b := newTestBridge(t)
	callJSON[todo.Task](t, b, "add_todo", map[string]any{"title": "Temporary"})

	deleted := callJSON[todo.Task](t, b, "delete_todo", map[string]any{"id": "a1f0"})
	assert.Equal(t, "Temporary", deleted.Title)

	_, isError := call(t, b, "get_todo", map[string]any{"id": "a1f0"})
	assert.True(t, isError)

	text, isError := call(t, b, "delete_todo", map[string]any{})
	assert.True(t, isError)
	assert.Contains(t, text, "id is required")
}

func TestListTodos(t *testing.T) {
	b := newTestBridge(t)
	callJSON[todo.Task](t, b, "add_todo", map[string]any{"title": "Low root", "priority": "low"})
	callJSON[todo.Task](t, b, "add_todo", map[string]any{"title": "High root", "priority": "high"})
	callJSON[todo.Task](t, b, "add_todo", map[string]any{"title": "Nested", "parentId": "a1f0"})
	callJSON[todo.Task](t, b, "complete_todo", map[string]any{"id": "b2e1"})

	flat := callJSON[[]todo.Task](t, b, "list_todos", map[string]any{"completed": false})
	require.Len(t, flat, 2)
	assert.Equal(t, "Nested", flat[0].Title)
	assert.Equal(t, "Low root", flat[1].Title)

	tree := callJSON[[]todo.TaskNode](t, b, "list_todos", map[string]any{"tree": true})
	require.Len(t, tree, 2)
	assert.Equal(t, "Low root", tree[0].Title)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Nested", tree[0].Children[0].Title)
	assert.Equal(t, "High root", tree[1].Title)

	searched := callJSON[[]todo.Task](t, b, "list_todos", map[string]any{"search": "NEST"})
	require.Len(t, searched, 1)
	assert.Equal(t, "c3d2", searched[0].ID)
}

func TestGetGantt(t *testing.T) {
	b := newTestBridge(t)

	empty := callJSON[map[string]any](t, b, "get_gantt", nil)
	assert.Equal(t, map[string]any{"empty": true}, empty)

	callJSON[todo.Task](t, b, "add_todo", map[string]any{
		"title":     "Sprint",
		"startDate": "2026-03-02",
		"dueDate":   "2026-03-04",
	})

	timeline := callJSON[todo.Timeline](t, b, "get_gantt", nil)
	assert.Equal(t, "2026-03-01", timeline.MinDate.String())
	assert.Equal(t, "2026-03-05", timeline.MaxDate.String())
	assert.Equal(t, 5, timeline.TotalDays)
	assert.Equal(t, 1, timeline.TodayIndex)
	require.Len(t, timeline.Bars, 1)
	assert.Equal(t, 1, timeline.Bars[0].Position)
	assert.Equal(t, 3, timeline.Bars[0].Width)

	unpadded := callJSON[todo.Timeline](t, b, "get_gantt", map[string]any{"padding": float64(0)})
	assert.Equal(t, 3, unpadded.TotalDays)

	text, isError := call(t, b, "get_gantt", map[string]any{"padding": 1.5})
	assert.True(t, isError)
	assert.Contains(t, text, "whole number")

	text, isError = call(t, b, "get_gantt", map[string]any{"padding": float64(60000)})
	assert.True(t, isError)
	assert.Contains(t, text, "invalid padding")
}

func TestListCatalog(t *testing.T) {
	b := newTestBridge(t)

	categories := callJSON[[]todo.Category](t, b, "list_categories", nil)
	require.Len(t, categories, 3)
	assert.Equal(t, "Work", categories[0].Name)

	tags := callJSON[[]todo.Tag](t, b, "list_tags", nil)
	require.Len(t, tags, 2)
	assert.Equal(t, "Meeting", tags[1].Name)
}

func TestToolsList(t *testing.T) {
	b := newTestBridge(t)

	response := b.MCPServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)

	for _, name := range []string{
		"list_todos", "get_todo", "add_todo", "update_todo", "complete_todo",
		"delete_todo", "get_gantt", "list_categories", "list_tags",
	} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}
