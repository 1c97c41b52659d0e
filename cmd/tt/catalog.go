package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktree/internal/ui"
	"github.com/amonks/tasktree/todo"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryUpdateCmd = &cobra.Command{
	Use:   "update <name-or-id>",
	Short: "Rename or recolor a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryUpdate,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a category and clear it from tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryDelete,
}

var tagCmd = &cobra.Command{
	Use:     "tag",
	Aliases: []string{"tags"},
	Short:   "Manage tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE:  runTagList,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <name-or-id> <new-name>",
	Short: "Rename a tag",
	Args:  cobra.ExactArgs(2),
	RunE:  runTagRename,
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <name-or-id>",
	Short: "Delete a tag and remove it from tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagDelete,
}

var (
	categoryListJSON    bool
	categoryAddColor    string
	categoryUpdateName  string
	categoryUpdateColor string
	tagListJSON         bool
)

const defaultCategoryColor = "#6B7280"

func init() {
	rootCmd.AddCommand(categoryCmd, tagCmd)
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryUpdateCmd, categoryDeleteCmd)
	tagCmd.AddCommand(tagListCmd, tagAddCmd, tagRenameCmd, tagDeleteCmd)

	categoryListCmd.Flags().BoolVar(&categoryListJSON, "json", false, "Output JSON")
	categoryAddCmd.Flags().StringVar(&categoryAddColor, "color", defaultCategoryColor, "Display color")
	categoryUpdateCmd.Flags().StringVar(&categoryUpdateName, "name", "", "New name")
	categoryUpdateCmd.Flags().StringVar(&categoryUpdateColor, "color", "", "New color")
	tagListCmd.Flags().BoolVar(&tagListJSON, "json", false, "Output JSON")
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	categories, err := store.ListCategories()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if categoryListJSON {
		if categories == nil {
			categories = []todo.Category{}
		}
		return encodeJSON(out, categories)
	}
	if len(categories) == 0 {
		fmt.Fprintln(out, "No categories.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"ID", "NAME", "COLOR"}, len(categories))
	for _, category := range categories {
		builder.AddRow([]string{category.ID, ui.CategoryLabel(category.Name, category.Color), category.Color})
	}
	fmt.Fprint(out, builder.String())
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	category, err := store.CreateCategory(args[0], categoryAddColor)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created category %s: %s\n", category.ID, category.Name)
	return nil
}

func runCategoryUpdate(cmd *cobra.Command, args []string) error {
	if !hasChangedFlags(cmd, "name", "color") {
		return fmt.Errorf("at least one of --name or --color is required")
	}
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	category, err := store.ResolveCategory(args[0])
	if err != nil {
		return err
	}

	var opts todo.CategoryUpdate
	if cmd.Flags().Changed("name") {
		opts.Name = todo.StringPtr(categoryUpdateName)
	}
	if cmd.Flags().Changed("color") {
		opts.Color = todo.StringPtr(categoryUpdateColor)
	}
	updated, err := store.UpdateCategory(category.ID, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s: %s\n", updated.ID, updated.Name)
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	category, err := store.ResolveCategory(args[0])
	if err != nil {
		return err
	}
	deleted, affected, err := store.DeleteCategory(category.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s (%d tasks updated)\n", deleted.Name, affected)
	return nil
}

func runTagList(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	tags, err := store.ListTags()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tagListJSON {
		if tags == nil {
			tags = []todo.Tag{}
		}
		return encodeJSON(out, tags)
	}
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags.")
		return nil
	}

	builder := ui.NewTableBuilder([]string{"ID", "NAME"}, len(tags))
	for _, tag := range tags {
		builder.AddRow([]string{tag.ID, tag.Name})
	}
	fmt.Fprint(out, builder.String())
	return nil
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	tag, err := store.CreateTag(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s: %s\n", tag.ID, tag.Name)
	return nil
}

func runTagRename(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	tag, err := store.ResolveTag(args[0])
	if err != nil {
		return err
	}
	updated, err := store.RenameTag(tag.ID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Renamed tag %s: %s\n", updated.ID, updated.Name)
	return nil
}

func runTagDelete(cmd *cobra.Command, args []string) error {
	store, _, err := openDefaultStore()
	if err != nil {
		return err
	}
	tag, err := store.ResolveTag(args[0])
	if err != nil {
		return err
	}
	deleted, affected, err := store.DeleteTag(tag.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s (%d tasks updated)\n", deleted.Name, affected)
	return nil
}
