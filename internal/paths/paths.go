// Package paths resolves the default on-disk locations used by tasktree.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataFileName is the name of the default document.
const DataFileName = "todos.json"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultStateDir returns the default tasktree state directory.
func DefaultStateDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".local", "state", "tasktree"), nil
}

// DefaultDataPath returns the default document path.
func DefaultDataPath() (string, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DataFileName), nil
}
