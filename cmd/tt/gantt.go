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

var ganttCmd = &cobra.Command{
	Use:   "gantt",
	Short: "Show dated tasks on a day timeline",
	Args:  cobra.NoArgs,
	RunE:  runGantt,
}

var (
	ganttFilter  filterflags.Flags
	ganttPadding int
	ganttJSON    bool
)

const ganttLabelWidth = 28

func init() {
	rootCmd.AddCommand(ganttCmd)
	filterflags.Add(ganttCmd, &ganttFilter)
	ganttCmd.Flags().IntVar(&ganttPadding, "padding", 0, "Days of padding on each side (default from config)")
	ganttCmd.Flags().BoolVar(&ganttJSON, "json", false, "Output JSON")
}

func runGantt(cmd *cobra.Command, args []string) error {
	store, cfg, err := openDefaultStore()
	if err != nil {
		return err
	}
	filter, err := ganttFilter.Filter(store)
	if err != nil {
		return err
	}

	padding := cfg.PaddingDays()
	if cmd.Flags().Changed("padding") {
		padding = ganttPadding
	}

	tl, ok, err := store.Timeline(filter, todo.TimelineOptions{PaddingDays: padding, Now: time.Now()})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if ganttJSON {
		if !ok {
			return encodeJSON(out, map[string]bool{"empty": true})
		}
		return encodeJSON(out, tl)
	}
	if !ok {
		fmt.Fprintln(out, "No dated tasks.")
		return nil
	}
	printGantt(out, tl)
	return nil
}

// printGantt renders a month row, a day-of-month row and one bar per task.
func printGantt(out io.Writer, tl todo.Timeline) {
	pad := strings.Repeat(" ", ganttLabelWidth+1)

	months := []rune(strings.Repeat(" ", tl.TotalDays))
	for _, band := range tl.Months {
		label := []rune(band.Label())
		if len(label) > band.Span {
			label = []rune(band.Month.String()[:3])
		}
		for i := 0; i < len(label) && i < band.Span; i++ {
			months[band.Start+i] = label[i]
		}
	}
	fmt.Fprintf(out, "%s%s\n", pad, strings.TrimRight(string(months), " "))

	var days strings.Builder
	for _, day := range tl.Days {
		fmt.Fprintf(&days, "%d", day.Date.Day()%10)
	}
	fmt.Fprintf(out, "%s%s\n", pad, days.String())

	for _, bar := range tl.Bars {
		label := ui.Truncate(bar.Title, ganttLabelWidth)
		label += strings.Repeat(" ", max(ganttLabelWidth-len([]rune(label)), 0))
		fmt.Fprintf(out, "%s %s\n", label, ui.GanttBar(bar.Position, bar.Width, tl.TotalDays, tl.TodayIndex, bar.Completed))
	}
	fmt.Fprintf(out, "%s to %s (%d days)\n", tl.MinDate, tl.MaxDate, tl.TotalDays)
}
