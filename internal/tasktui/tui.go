// Package tasktui is the interactive tree browser behind "tt browse".
package tasktui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/tasktree/internal/markdown"
	internalstrings "github.com/amonks/tasktree/internal/strings"
	"github.com/amonks/tasktree/internal/ui"
	"github.com/amonks/tasktree/todo"
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

// Options configures the browser.
type Options struct {
	// Filter limits which tasks are shown.
	Filter todo.Filter

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type model struct {
	store       *todo.Store
	filter      todo.Filter
	now         func() time.Time
	width       int
	height      int
	rows        list.Model
	detail      viewport.Model
	collapsed   map[string]bool
	forest      []*todo.TaskNode
	categories  map[string]todo.Category
	tags        map[string]string
	selectedID  string
	showHelp    bool
	status      string
	statusLevel statusLevel
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(ctx context.Context, store *todo.Store, opts Options) error {
	if store == nil {
		return errors.New("store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(store, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(store *todo.Store, opts Options) model {
	rows := list.New(nil, rowDelegate{}, 0, 0)
	rows.Title = "Tasks"
	rows.SetShowStatusBar(false)
	rows.SetFilteringEnabled(false)
	rows.SetShowHelp(false)
	rows.SetShowPagination(false)
	rows.SetShowTitle(false)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return model{
		store:     store,
		filter:    opts.Filter,
		now:       now,
		rows:      rows,
		detail:    viewport.New(0, 0),
		collapsed: make(map[string]bool),
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case loadedMsg:
		m.handleLoaded(msg)
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Toggle failed: %v", msg.err), statusError)
			return m, nil
		}
		state := "open"
		if msg.task.Completed {
			state = "done"
		}
		m.setStatus(fmt.Sprintf("Marked %q %s", msg.task.Title, state), statusInfo)
		return m, m.loadCmd()
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading tasks..."
	}
	header := titleBarStyle.Width(m.width).Render(fmt.Sprintf("Tasktree  %d tasks", todo.CountNodes(m.forest)))
	contentHeight := max(m.height-3, 1)
	leftWidth, rightWidth := splitWidths(m.width)

	listContent := m.rows.View()
	if len(m.rows.Items()) == 0 {
		listContent = valueMuted.Render("No tasks.")
	}
	detailContent := m.detail.View()
	if m.showHelp {
		detailContent = helpContent()
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		paneActiveStyle.Width(leftWidth).Height(contentHeight).Render(listContent),
		paneStyle.Width(rightWidth).Height(contentHeight).Render(detailContent),
	)
	return strings.Join([]string{header, content, m.renderStatusLine()}, "\n")
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		m.showHelp = false
		return m, nil
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "home", "g":
		m.moveSelection(-len(m.rows.Items()))
	case "end", "G":
		m.moveSelection(len(m.rows.Items()))
	case "enter", " ", "space":
		m.toggleCollapsed()
	case "x":
		if item, ok := m.currentRow(); ok {
			return m, m.toggleCmd(item.Node.ID)
		}
	case "r":
		m.setStatus("Reloading", statusInfo)
		return m, m.loadCmd()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) moveSelection(delta int) {
	count := len(m.rows.Items())
	if count == 0 {
		return
	}
	next := min(max(m.rows.Index()+delta, 0), count-1)
	m.rows.Select(next)
	m.syncSelection()
}

func (m *model) toggleCollapsed() {
	item, ok := m.currentRow()
	if !ok || !item.HasChildren() {
		return
	}
	id := item.Node.ID
	if m.collapsed[id] {
		delete(m.collapsed, id)
	} else {
		m.collapsed[id] = true
	}
	m.rebuildRows()
}

func (m *model) handleLoaded(msg loadedMsg) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), statusError)
		return
	}
	m.forest = msg.forest
	m.categories = make(map[string]todo.Category, len(msg.categories))
	for _, category := range msg.categories {
		m.categories[category.ID] = category
	}
	m.tags = make(map[string]string, len(msg.tags))
	for _, tag := range msg.tags {
		m.tags[tag.ID] = tag.Name
	}
	if m.statusLevel == statusInfo && m.status == "Reloading" {
		m.setStatus("", statusNone)
	}
	m.rebuildRows()
}

// rebuildRows flattens the forest with the current collapse set and keeps
// the selection on the same task when it is still visible.
func (m *model) rebuildRows() {
	flat := todo.Flatten(m.forest, m.collapsed)
	items := make([]list.Item, 0, len(flat))
	selected := 0
	for i, row := range flat {
		items = append(items, rowItem{FlatNode: row, overdue: todo.Overdue(row.Node.Task, m.now())})
		if row.Node.ID == m.selectedID {
			selected = i
		}
	}
	m.rows.SetItems(items)
	if len(items) > 0 {
		m.rows.Select(selected)
	}
	m.syncSelection()
}

func (m *model) syncSelection() {
	item, ok := m.currentRow()
	if !ok {
		m.selectedID = ""
		m.detail.SetContent("")
		return
	}
	m.selectedID = item.Node.ID
	m.detail.SetContent(m.renderDetail(item.Node.Task))
	m.detail.GotoTop()
}

func (m model) currentRow() (rowItem, bool) {
	item := m.rows.SelectedItem()
	if item == nil {
		return rowItem{}, false
	}
	row, ok := item.(rowItem)
	return row, ok
}

func (m model) renderDetail(task todo.Task) string {
	status := "open"
	if task.Completed {
		status = "done"
	}
	category := "-"
	if c, ok := m.categories[task.CategoryID]; ok {
		category = c.Name
	}
	var tagNames []string
	for _, id := range task.Tags {
		if name, ok := m.tags[id]; ok {
			tagNames = append(tagNames, name)
		}
	}
	tags := "-"
	if len(tagNames) > 0 {
		tags = strings.Join(tagNames, ", ")
	}
	due := dateOrDash(task.DueDate)
	if todo.Overdue(task, m.now()) {
		due = overdueStyle.Render(due + " (overdue)")
	}

	lines := []string{
		labelStyle.Render(task.Title),
		"",
		field("ID", task.ID),
		field("Status", status),
		field("Priority", string(task.Priority)),
		field("Start", dateOrDash(task.StartDate)),
		field("Due", due),
		field("Category", category),
		field("Tags", tags),
		field("Created", ui.FormatTimeAgo(task.CreatedAt, m.now())),
	}
	if description := internalstrings.TrimTrailingNewlines(task.Description); description != "" {
		width := max(m.detail.Width, 20)
		rendered := markdown.SafeRender(width, 0, []byte(description))
		lines = append(lines, "", labelStyle.Render("Description"), internalstrings.TrimTrailingNewlines(string(rendered)))
	}
	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
}

func dateOrDash(d todo.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func (m *model) resize() {
	contentHeight := max(m.height-3, 1)
	leftWidth, rightWidth := splitWidths(m.width)
	m.rows.SetSize(max(leftWidth-4, 1), max(contentHeight-2, 1))
	m.detail.Width = max(rightWidth-4, 1)
	m.detail.Height = max(contentHeight-2, 1)
	if item, ok := m.currentRow(); ok {
		m.detail.SetContent(m.renderDetail(item.Node.Task))
	}
}

func splitWidths(width int) (int, int) {
	left := width / 2
	if left < 30 {
		left = 30
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

func (m model) renderStatusLine() string {
	if m.status == "" {
		return helpBarStyle.Width(m.width).Render(ui.Truncate(helpSummary, m.width))
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(m.status)
}

const helpSummary = "Keys: up/down move | enter/space collapse | x toggle done | r reload | ? help | q quit"

func helpContent() string {
	return strings.Join([]string{
		labelStyle.Render("Navigation"),
		"up/down or j/k: move selection",
		"home/end or g/G: first/last row",
		"pgup/pgdown: scroll details",
		"",
		labelStyle.Render("Tasks"),
		"enter or space: collapse/expand subtasks",
		"x: toggle completion",
		"r: reload from disk",
		"",
		labelStyle.Render("Help"),
		"press ? or esc to close",
		"q or ctrl+c: quit",
	}, "\n")
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) loadCmd() tea.Cmd {
	store, filter := m.store, m.filter
	return func() tea.Msg {
		forest, err := store.Tree(filter)
		if err != nil {
			return loadedMsg{err: err}
		}
		doc, err := store.Snapshot()
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{forest: forest, categories: doc.Categories, tags: doc.Tags}
	}
}

func (m model) toggleCmd(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		task, err := store.ToggleTask(id)
		if err != nil {
			return toggledMsg{err: err}
		}
		return toggledMsg{task: *task}
	}
}

type loadedMsg struct {
	forest     []*todo.TaskNode
	categories []todo.Category
	tags       []todo.Tag
	err        error
}

type toggledMsg struct {
	task todo.Task
	err  error
}

type rowItem struct {
	todo.FlatNode
	overdue bool
}

func (item rowItem) FilterValue() string { return item.Node.Title }

type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(rowItem)
	if !ok {
		return
	}
	style := rowStyle
	if index == m.Index() {
		style = rowSelectedStyle
	} else if item.Node.Completed {
		style = rowDoneStyle
	}
	fmt.Fprint(w, style.Render(formatRow(item, m.Width())))
}

// formatRow renders one tree line: indentation, a collapse marker, the
// completion mark and the title.
func formatRow(item rowItem, width int) string {
	marker := " "
	if item.HasChildren() {
		marker = "▾"
		if item.Collapsed {
			marker = "▸"
		}
	}
	check := "○"
	if item.Node.Completed {
		check = "✓"
	}
	line := strings.Repeat("  ", item.Depth) + marker + " " + check + " " + item.Node.Title
	if item.Node.Priority == todo.PriorityHigh {
		line += " !"
	}
	if item.overdue {
		line += " (overdue)"
	}
	return ui.Truncate(line, width)
}
