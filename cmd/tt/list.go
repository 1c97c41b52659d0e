package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktree/internal/filterflags"
	"github.com/amonks/tasktree/internal/ui"
	"github.com/amonks/tasktree/todo"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks as a tree",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listFilter filterflags.Flags
	listFlat   bool
	listJSON   bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	filterflags.Add(listCmd, &listFilter)
	listCmd.Flags().BoolVar(&listFlat, "flat", false, "Print a table in display order instead of a tree")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	filter, err := listFilter.Filter(store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listFlat {
		tasks, err := store.ListTasks(filter)
		if err != nil {
			return err
		}
		tasks = todo.SortForDisplay(tasks)
		if listJSON {
			return encodeJSON(out, tasks)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		doc, err := store.Snapshot()
		if err != nil {
			return err
		}
		highlight, err := taskHighlighter(store)
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatTaskTable(tasks, doc, highlight, time.Now()))
		return nil
	}

	forest, err := store.Tree(filter)
	if err != nil {
		return err
	}
	if listJSON {
		if forest == nil {
			forest = []*todo.TaskNode{}
		}
		return encodeJSON(out, forest)
	}
	if len(forest) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, root := range forest {
		printTaskTree(out, root, "", true, true, highlight, now)
	}
	return nil
}

// printTaskTree prints a task and its descendants with ASCII connectors.
func printTaskTree(out io.Writer, node *todo.TaskNode, prefix string, isRoot, isLast bool, highlight func(string) string, now time.Time) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if isRoot {
		connector = ""
	}

	fmt.Fprintf(out, "%s%s%s\n", prefix, connector, taskLine(node.Task, highlight, now))

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, child := range node.Children {
		printTaskTree(out, child, childPrefix, false, i == len(node.Children)-1, highlight, now)
	}
}

func taskLine(task todo.Task, highlight func(string) string, now time.Time) string {
	var b strings.Builder
	b.WriteString(statusIcon(task.Completed))
	b.WriteString(" ")
	b.WriteString(task.Title)
	fmt.Fprintf(&b, " (%s)", highlight(task.ID))
	fmt.Fprintf(&b, " [%s]", task.Priority)
	if !task.DueDate.IsZero() {
		fmt.Fprintf(&b, " due %s", task.DueDate)
		if todo.Overdue(task, now) {
			b.WriteString(" (overdue)")
		}
	}
	return b.String()
}

func statusIcon(completed bool) string {
	if completed {
		return "✓"
	}
	return "○"
}

func formatTaskTable(tasks []todo.Task, doc *todo.Document, highlight func(string) string, now time.Time) string {
	categoryNames, tagNames := catalogNames(doc)
	builder := ui.NewTableBuilder([]string{"ID", "DONE", "PRIORITY", "TITLE", "DUE", "CATEGORY", "TAGS", "UPDATED"}, len(tasks))
	for _, task := range tasks {
		done := ""
		if task.Completed {
			done = "x"
		}
		category := categoryNames[task.CategoryID]
		if category == "" {
			category = "-"
		}
		tags := strings.Join(tagNameList(task, tagNames), ",")
		if tags == "" {
			tags = "-"
		}
		due := dateOrDash(task.DueDate)
		if todo.Overdue(task, now) {
			due += "!"
		}
		builder.AddRow([]string{
			highlight(task.ID),
			done,
			string(task.Priority),
			ui.TruncateTableCell(task.Title),
			due,
			category,
			tags,
			ui.FormatTimeAgo(task.UpdatedAt, now),
		})
	}
	return builder.String()
}
