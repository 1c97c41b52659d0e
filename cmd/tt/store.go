package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/tasktree/internal/config"
	"github.com/amonks/tasktree/internal/ui"
	"github.com/amonks/tasktree/todo"
)

func loadConfig() (*config.Config, error) {
	if rootConfigPath != "" {
		return config.LoadFile(rootConfigPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}

// openStore opens the task document selected by --data, the environment or
// the config files.
func openStore(cfg *config.Config, recorder todo.WriteRecorder) (*todo.Store, error) {
	path := rootDataPath
	if path == "" {
		var err error
		if path, err = cfg.DataPath(); err != nil {
			return nil, err
		}
	}
	return todo.Open(path, todo.OpenOptions{
		Seed:     cfg.SeedEnabled(),
		Recorder: recorder,
	})
}

func openDefaultStore() (*todo.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

// taskHighlighter returns a function that highlights the unique prefix of
// task ids and shortens them for display.
func taskHighlighter(store *todo.Store) (func(string) string, error) {
	doc, err := store.Snapshot()
	if err != nil {
		return nil, err
	}
	lengths := todo.NewIDIndex(doc.Todos).PrefixLengths()
	return func(id string) string {
		return ui.HighlightID(shortID(id, ui.PrefixLength(lengths, id)), ui.PrefixLength(lengths, id))
	}, nil
}

const shortIDLength = 8

// shortID trims an id to the longer of its unique prefix and shortIDLength.
func shortID(id string, prefixLen int) string {
	n := max(prefixLen, shortIDLength)
	if n >= len(id) {
		return id
	}
	return id[:n]
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimRight(string(input), "\r\n")
	return value, nil
}

func resolveDescriptionFlag(cmd *cobra.Command, description *string) error {
	if !cmd.Flags().Changed("description") {
		return nil
	}
	value, err := resolveDescriptionFromStdin(*description, cmd.InOrStdin())
	if err != nil {
		return err
	}
	*description = value
	return nil
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

func shouldUseEditor(hasFlags bool, editFlag bool, noEditFlag bool, interactive bool) bool {
	if editFlag {
		return true
	}
	if noEditFlag {
		return false
	}
	if hasFlags {
		return false
	}
	return interactive
}

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// catalogNames indexes category and tag names by id.
func catalogNames(doc *todo.Document) (map[string]string, map[string]string) {
	categories := make(map[string]string, len(doc.Categories))
	for _, category := range doc.Categories {
		categories[category.ID] = category.Name
	}
	tags := make(map[string]string, len(doc.Tags))
	for _, tag := range doc.Tags {
		tags[tag.ID] = tag.Name
	}
	return categories, tags
}

func tagNameList(task todo.Task, names map[string]string) []string {
	result := make([]string, 0, len(task.Tags))
	for _, id := range task.Tags {
		if name, ok := names[id]; ok {
			result = append(result, name)
		}
	}
	return result
}

func dateOrDash(d todo.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}
