package bridge

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amonks/tasktree/todo"
)

type toolHandler func(ctx context.Context, args arguments) (any, error)

type tool struct {
	definition mcp.Tool
	handle     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func (b *Bridge) tools() []tool {
	return []tool{
		b.newTool(mcp.NewTool("list_todos",
			mcp.WithDescription("List tasks matching the filters, in display order or as a tree."),
			withFilterParams(),
			mcp.WithBoolean("tree", mcp.Description("Return the tasks as a nested tree instead of a flat list")),
		), b.listTodos),
		b.newTool(mcp.NewTool("get_todo",
			mcp.WithDescription("Get one task by id or unique id prefix."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task id or unique prefix")),
		), b.getTodo),
		b.newTool(mcp.NewTool("add_todo",
			mcp.WithDescription("Create a task."),
			mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
			withTaskParams(),
		), b.addTodo),
		b.newTool(mcp.NewTool("update_todo",
			mcp.WithDescription("Update the supplied fields of a task. Empty strings clear dates, category and parent."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task id or unique prefix")),
			mcp.WithString("title", mcp.Description("New title")),
			withTaskParams(),
			mcp.WithBoolean("completed", mcp.Description("Completion state")),
		), b.updateTodo),
		b.newTool(mcp.NewTool("complete_todo",
			mcp.WithDescription("Mark a task completed, or incomplete with completed=false."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task id or unique prefix")),
			mcp.WithBoolean("completed", mcp.Description("Completion state (default true)")),
		), b.completeTodo),
		b.newTool(mcp.NewTool("delete_todo",
			mcp.WithDescription("Delete a task. Its children become roots."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Task id or unique prefix")),
		), b.deleteTodo),
		b.newTool(mcp.NewTool("get_gantt",
			mcp.WithDescription("Project the dated tasks onto a day grid."),
			withFilterParams(),
			mcp.WithNumber("padding", mcp.Description("Days of padding on both sides")),
		), b.getGantt),
		b.newTool(mcp.NewTool("list_categories",
			mcp.WithDescription("List categories."),
		), b.listCategories),
		b.newTool(mcp.NewTool("list_tags",
			mcp.WithDescription("List tags."),
		), b.listTags),
	}
}

// newTool adapts a handler that returns a value to one that returns JSON
// text content. Errors become tool errors.
func (b *Bridge) newTool(definition mcp.Tool, handler toolHandler) tool {
	return tool{
		definition: definition,
		handle: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			result, err := handler(ctx, arguments(req.GetArguments()))
			if err != nil {
				if !isDomainError(err) {
					b.logger.Printf("mcp %s: %v", definition.Name, err)
				}
				return mcp.NewToolResultError(err.Error()), nil
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(string(data)), nil
		},
	}
}

func isDomainError(err error) bool {
	return errors.Is(err, todo.ErrInvalid) || errors.Is(err, todo.ErrNotFound) || errors.Is(err, todo.ErrConflict)
}

func withFilterParams() mcp.ToolOption {
	return func(t *mcp.Tool) {
		for _, opt := range []mcp.ToolOption{
			mcp.WithBoolean("completed", mcp.Description("Only completed (true) or open (false) tasks")),
			mcp.WithString("priority", mcp.Enum(priorityValues()...), mcp.Description("Exact priority")),
			mcp.WithString("categoryId", mcp.Description("Category id, prefix or name")),
			mcp.WithArray("tagIds", mcp.Items(map[string]any{"type": "string"}), mcp.Description("Tags; tasks carrying any of them match")),
			mcp.WithString("search", mcp.Description("Case-insensitive text in title or description")),
			mcp.WithString("dueDateFrom", mcp.Description("Earliest due date, YYYY-MM-DD")),
			mcp.WithString("dueDateTo", mcp.Description("Latest due date, YYYY-MM-DD")),
		} {
			opt(t)
		}
	}
}

func withTaskParams() mcp.ToolOption {
	return func(t *mcp.Tool) {
		for _, opt := range []mcp.ToolOption{
			mcp.WithString("description", mcp.Description("Longer notes")),
			mcp.WithString("priority", mcp.Enum(priorityValues()...), mcp.Description("Priority (default medium)")),
			mcp.WithString("startDate", mcp.Description("Start date, YYYY-MM-DD")),
			mcp.WithString("dueDate", mcp.Description("Due date, YYYY-MM-DD")),
			mcp.WithString("parentId", mcp.Description("Parent task id or unique prefix")),
			mcp.WithString("categoryId", mcp.Description("Category id, prefix or name")),
			mcp.WithArray("tagIds", mcp.Items(map[string]any{"type": "string"}), mcp.Description("Tag ids, prefixes or names")),
		} {
			opt(t)
		}
	}
}

func priorityValues() []string {
	var values []string
	for _, priority := range todo.ValidPriorities() {
		values = append(values, string(priority))
	}
	return values
}

func (b *Bridge) listTodos(_ context.Context, args arguments) (any, error) {
	filter, err := b.filter(args)
	if err != nil {
		return nil, err
	}
	asTree, _, err := args.boolean("tree")
	if err != nil {
		return nil, err
	}
	if asTree {
		forest, err := b.store.Tree(filter)
		if err != nil {
			return nil, err
		}
		return forest, nil
	}
	tasks, err := b.store.ListTasks(filter)
	if err != nil {
		return nil, err
	}
	return todo.SortForDisplay(tasks), nil
}

func (b *Bridge) getTodo(_ context.Context, args arguments) (any, error) {
	id, err := b.taskID(args)
	if err != nil {
		return nil, err
	}
	return b.store.GetTask(id)
}

func (b *Bridge) addTodo(_ context.Context, args arguments) (any, error) {
	title, _, err := args.str("title")
	if err != nil {
		return nil, err
	}
	opts := todo.CreateOptions{Title: title}
	if opts.Description, _, err = args.str("description"); err != nil {
		return nil, err
	}
	if value, _, err := args.str("priority"); err != nil {
		return nil, err
	} else if opts.Priority, err = todo.ParsePriority(value); err != nil {
		return nil, err
	}
	if opts.StartDate, _, err = args.date("startDate"); err != nil {
		return nil, err
	}
	if opts.DueDate, _, err = args.date("dueDate"); err != nil {
		return nil, err
	}
	if opts.ParentID, _, err = b.parentRef(args); err != nil {
		return nil, err
	}
	if opts.CategoryID, _, err = b.categoryRef(args); err != nil {
		return nil, err
	}
	if opts.Tags, _, err = b.tagRefs(args); err != nil {
		return nil, err
	}
	return b.store.CreateTask(opts)
}

func (b *Bridge) updateTodo(_ context.Context, args arguments) (any, error) {
	id, err := b.taskID(args)
	if err != nil {
		return nil, err
	}

	var opts todo.UpdateOptions
	if value, ok, err := args.str("title"); err != nil {
		return nil, err
	} else if ok {
		opts.Title = &value
	}
	if value, ok, err := args.str("description"); err != nil {
		return nil, err
	} else if ok {
		opts.Description = &value
	}
	if value, ok, err := args.str("priority"); err != nil {
		return nil, err
	} else if ok {
		priority, err := todo.ParsePriority(value)
		if err != nil {
			return nil, err
		}
		if priority == "" {
			priority = todo.PriorityMedium
		}
		opts.Priority = &priority
	}
	if value, ok, err := args.date("startDate"); err != nil {
		return nil, err
	} else if ok {
		opts.StartDate = &value
	}
	if value, ok, err := args.date("dueDate"); err != nil {
		return nil, err
	} else if ok {
		opts.DueDate = &value
	}
	if value, ok, err := b.parentRef(args); err != nil {
		return nil, err
	} else if ok {
		opts.ParentID = &value
	}
	if value, ok, err := b.categoryRef(args); err != nil {
		return nil, err
	} else if ok {
		opts.CategoryID = &value
	}
	if value, ok, err := b.tagRefs(args); err != nil {
		return nil, err
	} else if ok {
		opts.Tags = &value
	}
	if value, ok, err := args.boolean("completed"); err != nil {
		return nil, err
	} else if ok {
		opts.Completed = &value
	}

	if opts.IsEmpty() {
		return b.store.GetTask(id)
	}
	return b.store.UpdateTask(id, opts)
}

func (b *Bridge) completeTodo(_ context.Context, args arguments) (any, error) {
	id, err := b.taskID(args)
	if err != nil {
		return nil, err
	}
	completed, ok, err := args.boolean("completed")
	if err != nil {
		return nil, err
	}
	if !ok {
		completed = true
	}
	tasks, err := b.store.SetCompleted([]string{id}, completed)
	if err != nil {
		return nil, err
	}
	return tasks[0], nil
}

func (b *Bridge) deleteTodo(_ context.Context, args arguments) (any, error) {
	id, err := b.taskID(args)
	if err != nil {
		return nil, err
	}
	return b.store.DeleteTask(id)
}

type emptyTimeline struct {
	Empty bool `json:"empty"`
}

func (b *Bridge) getGantt(_ context.Context, args arguments) (any, error) {
	filter, err := b.filter(args)
	if err != nil {
		return nil, err
	}
	padding, ok, err := args.integer("padding")
	if err != nil {
		return nil, err
	}
	if !ok {
		padding = b.paddingDays
	}
	timeline, found, err := b.store.Timeline(filter, todo.TimelineOptions{PaddingDays: padding})
	if err != nil {
		return nil, err
	}
	if !found {
		return emptyTimeline{Empty: true}, nil
	}
	return timeline, nil
}

func (b *Bridge) listCategories(context.Context, arguments) (any, error) {
	return b.store.ListCategories()
}

func (b *Bridge) listTags(context.Context, arguments) (any, error) {
	return b.store.ListTags()
}
