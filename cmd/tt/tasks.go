package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktree/internal/editor"
	"github.com/amonks/tasktree/internal/markdown"
	"github.com/amonks/tasktree/internal/ui"
	"github.com/amonks/tasktree/todo"
)

var addCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Create a task",
	RunE:  runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show task details",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark tasks as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetCompleted(cmd, args, true)
	},
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>...",
	Short: "Mark tasks as not completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetCompleted(cmd, args, false)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task's completion state",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete tasks (their children become top-level tasks)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

// taskFlags holds the field flags shared by add and update.
type taskFlags struct {
	title       string
	description string
	priority    string
	start       string
	due         string
	category    string
	tags        []string
	parent      string
	edit        bool
	noEdit      bool
}

var (
	addFlags    taskFlags
	updateFlags taskFlags
	showJSON    bool
)

var taskFieldFlags = []string{"title", "description", "priority", "start", "due", "category", "tag", "parent"}

func init() {
	rootCmd.AddCommand(addCmd, updateCmd, showCmd, doneCmd, reopenCmd, toggleCmd, deleteCmd)

	addTaskFlags(addCmd, &addFlags)
	addTaskFlags(updateCmd, &updateFlags)
	updateCmd.Flags().StringVar(&updateFlags.title, "title", "", "New title")
	addTaskFlagAliases(addCmd, updateCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output JSON")
}

func addTaskFlags(cmd *cobra.Command, flags *taskFlags) {
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "Description (use '-' to read from stdin)")
	cmd.Flags().StringVarP(&flags.priority, "priority", "p", "", "Priority (high, medium, low)")
	cmd.Flags().StringVar(&flags.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.category, "category", "", "Category name or id")
	cmd.Flags().StringArrayVar(&flags.tags, "tag", nil, "Tag name or id (repeatable)")
	cmd.Flags().StringVar(&flags.parent, "parent", "", "Parent task id or prefix")
	cmd.Flags().BoolVarP(&flags.edit, "edit", "e", false, "Open $EDITOR (default if interactive and no flags)")
	cmd.Flags().BoolVar(&flags.noEdit, "no-edit", false, "Do not open $EDITOR")
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	if err := resolveDescriptionFlag(cmd, &addFlags.description); err != nil {
		return err
	}

	title := strings.Join(args, " ")
	hasFlags := len(args) > 0 || hasChangedFlags(cmd, taskFieldFlags...)

	var opts todo.CreateOptions
	if shouldUseEditor(hasFlags, addFlags.edit, addFlags.noEdit, editor.IsInteractive()) {
		data := editor.DefaultCreateData()
		data.Title = title
		if addFlags.priority != "" {
			data.Priority = addFlags.priority
		}
		data.StartDate = addFlags.start
		data.DueDate = addFlags.due
		data.Category = addFlags.category
		data.Tags = addFlags.tags
		data.Parent = addFlags.parent
		data.Description = addFlags.description

		parsed, err := editor.EditTask(data)
		if err != nil {
			return err
		}
		opts, err = createOptionsFromParsed(store, parsed)
		if err != nil {
			return err
		}
	} else {
		if title == "" {
			return errors.New("title is required (pass it as arguments or use --edit)")
		}
		opts, err = createOptionsFromFlags(store, title, addFlags)
		if err != nil {
			return err
		}
	}

	created, err := store.CreateTask(opts)
	if err != nil {
		return err
	}

	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", highlight(created.ID), created.Title)
	return nil
}

func createOptionsFromFlags(store *todo.Store, title string, flags taskFlags) (todo.CreateOptions, error) {
	opts := todo.CreateOptions{
		Title:       title,
		Description: flags.description,
	}

	priority, err := todo.ParsePriority(flags.priority)
	if err != nil {
		return opts, err
	}
	opts.Priority = priority

	if opts.StartDate, err = todo.ParseDate(flags.start); err != nil {
		return opts, err
	}
	if opts.DueDate, err = todo.ParseDate(flags.due); err != nil {
		return opts, err
	}
	if opts.CategoryID, err = resolveCategoryRef(store, flags.category); err != nil {
		return opts, err
	}
	if opts.Tags, err = resolveTagRefs(store, flags.tags); err != nil {
		return opts, err
	}
	if opts.ParentID, err = resolveParentRef(store, flags.parent); err != nil {
		return opts, err
	}
	return opts, nil
}

func createOptionsFromParsed(store *todo.Store, parsed *editor.ParsedTask) (todo.CreateOptions, error) {
	opts := todo.CreateOptions{
		Title:       parsed.Title,
		Description: parsed.Description,
		Priority:    todo.Priority(parsed.Priority),
		StartDate:   parsed.StartDate,
		DueDate:     parsed.DueDate,
	}
	if parsed.Completed != nil {
		opts.Completed = *parsed.Completed
	}

	var err error
	if opts.CategoryID, err = resolveCategoryRef(store, parsed.Category); err != nil {
		return opts, err
	}
	if opts.Tags, err = resolveTagRefs(store, parsed.Tags); err != nil {
		return opts, err
	}
	if opts.ParentID, err = resolveParentRef(store, parsed.Parent); err != nil {
		return opts, err
	}
	return opts, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	if err := resolveDescriptionFlag(cmd, &updateFlags.description); err != nil {
		return err
	}

	id, err := store.ResolveTaskID(args[0])
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, taskFieldFlags...)

	var opts todo.UpdateOptions
	if shouldUseEditor(hasFlags, updateFlags.edit, updateFlags.noEdit, editor.IsInteractive()) {
		task, err := store.GetTask(id)
		if err != nil {
			return err
		}
		doc, err := store.Snapshot()
		if err != nil {
			return err
		}
		categoryNames, tagNames := catalogNames(doc)

		parsed, err := editor.EditTask(editor.DataFromTask(task, categoryNames, tagNames))
		if err != nil {
			return err
		}
		opts, err = updateOptionsFromParsed(store, parsed)
		if err != nil {
			return err
		}
	} else {
		if !hasFlags {
			return errors.New("at least one update flag is required (use --edit to open editor)")
		}
		opts, err = updateOptionsFromFlags(cmd, store, updateFlags)
		if err != nil {
			return err
		}
	}

	updated, err := store.UpdateTask(id, opts)
	if err != nil {
		return err
	}

	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", highlight(updated.ID), updated.Title)
	return nil
}

// updateOptionsFromFlags sets only the fields whose flags were passed. An
// empty value clears an optional field.
func updateOptionsFromFlags(cmd *cobra.Command, store *todo.Store, flags taskFlags) (todo.UpdateOptions, error) {
	var opts todo.UpdateOptions
	changed := cmd.Flags().Changed

	if changed("title") {
		opts.Title = todo.StringPtr(flags.title)
	}
	if changed("description") {
		opts.Description = todo.StringPtr(flags.description)
	}
	if changed("priority") {
		priority, err := todo.ParsePriority(flags.priority)
		if err != nil {
			return opts, err
		}
		if priority == "" {
			priority = todo.PriorityMedium
		}
		opts.Priority = todo.PriorityPtr(priority)
	}
	if changed("start") {
		start, err := todo.ParseDate(flags.start)
		if err != nil {
			return opts, err
		}
		opts.StartDate = &start
	}
	if changed("due") {
		due, err := todo.ParseDate(flags.due)
		if err != nil {
			return opts, err
		}
		opts.DueDate = &due
	}
	if changed("category") {
		categoryID, err := resolveCategoryRef(store, flags.category)
		if err != nil {
			return opts, err
		}
		opts.CategoryID = &categoryID
	}
	if changed("tag") {
		tags, err := resolveTagRefs(store, flags.tags)
		if err != nil {
			return opts, err
		}
		opts.Tags = &tags
	}
	if changed("parent") {
		parentID, err := resolveParentRef(store, flags.parent)
		if err != nil {
			return opts, err
		}
		opts.ParentID = &parentID
	}
	return opts, nil
}

func updateOptionsFromParsed(store *todo.Store, parsed *editor.ParsedTask) (todo.UpdateOptions, error) {
	priority := todo.Priority(parsed.Priority)
	opts := todo.UpdateOptions{
		Title:       todo.StringPtr(parsed.Title),
		Description: todo.StringPtr(parsed.Description),
		Priority:    &priority,
		StartDate:   &parsed.StartDate,
		DueDate:     &parsed.DueDate,
		Completed:   parsed.Completed,
	}

	categoryID, err := resolveCategoryRef(store, parsed.Category)
	if err != nil {
		return opts, err
	}
	opts.CategoryID = &categoryID

	tags, err := resolveTagRefs(store, parsed.Tags)
	if err != nil {
		return opts, err
	}
	opts.Tags = &tags

	parentID, err := resolveParentRef(store, parsed.Parent)
	if err != nil {
		return opts, err
	}
	opts.ParentID = &parentID
	return opts, nil
}

func resolveCategoryRef(store *todo.Store, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	category, err := store.ResolveCategory(ref)
	if err != nil {
		return "", err
	}
	return category.ID, nil
}

func resolveTagRefs(store *todo.Store, refs []string) ([]string, error) {
	result := make([]string, 0, len(refs))
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		tag, err := store.ResolveTag(ref)
		if err != nil {
			return nil, err
		}
		result = append(result, tag.ID)
	}
	return result, nil
}

func resolveParentRef(store *todo.Store, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", nil
	}
	return store.ResolveTaskID(ref)
}

func runShow(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}

	ids, err := store.ResolveTaskIDs(args)
	if err != nil {
		return err
	}
	tasks := make([]todo.Task, 0, len(ids))
	for _, id := range ids {
		task, err := store.GetTask(id)
		if err != nil {
			return err
		}
		tasks = append(tasks, *task)
	}

	if showJSON {
		return encodeJSON(cmd.OutOrStdout(), tasks)
	}

	doc, err := store.Snapshot()
	if err != nil {
		return err
	}
	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}

	now := time.Now()
	out := cmd.OutOrStdout()
	for i, task := range tasks {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printTaskDetail(out, task, doc, highlight, now)
	}
	return nil
}

func printTaskDetail(out io.Writer, task todo.Task, doc *todo.Document, highlight func(string) string, now time.Time) {
	categoryNames, tagNames := catalogNames(doc)

	status := "open"
	if task.Completed {
		status = "done"
	}

	fmt.Fprintf(out, "ID:       %s\n", highlight(task.ID))
	fmt.Fprintf(out, "Title:    %s\n", task.Title)
	fmt.Fprintf(out, "Status:   %s\n", status)
	fmt.Fprintf(out, "Priority: %s\n", task.Priority)
	fmt.Fprintf(out, "Start:    %s\n", dateOrDash(task.StartDate))
	fmt.Fprintf(out, "Due:      %s\n", dueLabel(task, now))
	if name, ok := categoryNames[task.CategoryID]; ok {
		color := ""
		for _, category := range doc.Categories {
			if category.ID == task.CategoryID {
				color = category.Color
			}
		}
		fmt.Fprintf(out, "Category: %s\n", ui.CategoryLabel(name, color))
	} else {
		fmt.Fprintf(out, "Category: -\n")
	}
	if tags := tagNameList(task, tagNames); len(tags) > 0 {
		fmt.Fprintf(out, "Tags:     %s\n", strings.Join(tags, ", "))
	} else {
		fmt.Fprintf(out, "Tags:     -\n")
	}
	if task.ParentID != "" {
		fmt.Fprintf(out, "Parent:   %s\n", highlight(task.ParentID))
	}
	fmt.Fprintf(out, "Created:  %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Updated:  %s\n", task.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if age, ok := todo.AgeData(task, now); ok {
		fmt.Fprintf(out, "Age:      %s\n", ui.FormatDurationShort(age))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Description:")
	if strings.TrimSpace(task.Description) == "" {
		fmt.Fprintln(out, "-")
		return
	}
	fmt.Fprintln(out, string(markdown.SafeRender(80, 0, []byte(task.Description))))
}

func runSetCompleted(cmd *cobra.Command, args []string, completed bool) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	ids, err := store.ResolveTaskIDs(args)
	if err != nil {
		return err
	}
	tasks, err := store.SetCompleted(ids, completed)
	if err != nil {
		return err
	}

	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}
	verb := "Completed"
	if !completed {
		verb = "Reopened"
	}
	for _, task := range tasks {
		fmt.Fprintf(cmd.OutOrStdout(), "%s task %s: %s\n", verb, highlight(task.ID), task.Title)
	}
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	id, err := store.ResolveTaskID(args[0])
	if err != nil {
		return err
	}
	task, err := store.ToggleTask(id)
	if err != nil {
		return err
	}

	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}
	verb := "Reopened"
	if task.Completed {
		verb = "Completed"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s task %s: %s\n", verb, highlight(task.ID), task.Title)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	ids, err := store.ResolveTaskIDs(args)
	if err != nil {
		return err
	}

	// Highlight before deleting so prefixes still reflect the deleted ids.
	highlight, err := taskHighlighter(store)
	if err != nil {
		return err
	}
	for _, id := range ids {
		task, err := store.DeleteTask(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", highlight(task.ID), task.Title)
	}
	return nil
}

// dueLabel formats the due date with its distance from today.
func dueLabel(task todo.Task, now time.Time) string {
	days, ok := todo.DueIn(task, now)
	if !ok {
		return "-"
	}
	switch {
	case days == 0:
		return task.DueDate.String() + " (today)"
	case days == 1:
		return task.DueDate.String() + " (tomorrow)"
	case days > 1:
		return fmt.Sprintf("%s (in %d days)", task.DueDate, days)
	case days == -1:
		return task.DueDate.String() + " (1 day ago)"
	default:
		return fmt.Sprintf("%s (%d days ago)", task.DueDate, -days)
	}
}
