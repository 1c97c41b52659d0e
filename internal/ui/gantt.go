package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gantt cell glyphs.
const (
	GanttEmpty = '.'
	GanttToday = '|'
	GanttOpen  = '#'
	GanttDone  = '='
)

var (
	ganttOpenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	ganttDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ganttTodayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	ganttMuted      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// GanttBar draws one bar on a row of total cells. Cells outside the bar are
// empty, except the today column (todayIndex < 0 hides it).
func GanttBar(position, width, total, todayIndex int, done bool) string {
	if total <= 0 {
		return ""
	}
	cells := []rune(strings.Repeat(string(GanttEmpty), total))
	if todayIndex >= 0 && todayIndex < total {
		cells[todayIndex] = GanttToday
	}
	fill := GanttOpen
	if done {
		fill = GanttDone
	}
	for i := max(position, 0); i < position+width && i < total; i++ {
		cells[i] = fill
	}
	return styleGanttCells(cells)
}

// styleGanttCells colors runs of identical glyphs.
func styleGanttCells(cells []rune) string {
	var builder strings.Builder
	for start := 0; start < len(cells); {
		end := start
		for end < len(cells) && cells[end] == cells[start] {
			end++
		}
		run := string(cells[start:end])
		switch cells[start] {
		case GanttOpen:
			run = ganttOpenStyle.Render(run)
		case GanttDone:
			run = ganttDoneStyle.Render(run)
		case GanttToday:
			run = ganttTodayStyle.Render(run)
		default:
			run = ganttMuted.Render(run)
		}
		builder.WriteString(run)
		start = end
	}
	return builder.String()
}

// CategoryLabel renders a category name in its color.
func CategoryLabel(name, color string) string {
	if name == "" {
		return ""
	}
	if color == "" {
		return name
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(name)
}
