// Package main implements the tt CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tt",
	Short:         "Tasktree - hierarchical task tracking",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var (
	rootDataPath   string
	rootConfigPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDataPath, "data", "", "Path to the task document (overrides config and $TASKTREE_DATA)")
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to a project config file (default ./.tasktree.toml)")
}
