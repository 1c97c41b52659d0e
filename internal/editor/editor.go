// Package editor opens task files in the user's editor.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

const fallbackEditor = "vi"

// editorCommand returns the editor argv for path. $VISUAL wins over
// $EDITOR, and either may carry arguments such as "code --wait".
func editorCommand(getenv func(string) string, path string) []string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(getenv(name)); len(fields) > 0 {
			return append(fields, path)
		}
	}
	return []string{fallbackEditor, path}
}

// Edit opens path in the user's editor and waits for it to exit.
func Edit(path string) error {
	argv := editorCommand(os.Getenv, path)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor %s exited with status %d", argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("run editor %s: %w", argv[0], err)
	}
	return nil
}
