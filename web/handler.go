// Package web serves the browser UI: a collapsible task tree and a Gantt
// chart, both rendered server-side from the shared store.
package web

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	internalstrings "github.com/amonks/tasktree/internal/strings"
	"github.com/amonks/tasktree/todo"
)

// Options configures the web handler.
type Options struct {
	// Store is required.
	Store *todo.Store

	// PaddingDays extends the Gantt range on both sides.
	PaddingDays int

	// DayWidth is the Gantt column width in pixels. Defaults to 28.
	DayWidth int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	Logger *log.Logger
}

// Handler serves the web client.
type Handler struct {
	store       *todo.Store
	paddingDays int
	dayWidth    int
	now         func() time.Time
	logger      *log.Logger
	mux         *http.ServeMux
	templates   *templateWrapper
}

const defaultDayWidth = 28

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	handler := &Handler{
		store:       opts.Store,
		paddingDays: min(max(opts.PaddingDays, 0), todo.MaxPaddingDays),
		dayWidth:    opts.DayWidth,
		now:         opts.Now,
		logger:      opts.Logger,
		templates:   newTemplateWrapper(),
	}
	if handler.dayWidth <= 0 {
		handler.dayWidth = defaultDayWidth
	}
	if handler.now == nil {
		handler.now = time.Now
	}
	if handler.logger == nil {
		handler.logger = log.New(os.Stderr, "tt: ", log.LstdFlags)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/web/{$}", handler.handleList)
	mux.HandleFunc("/web/gantt", handler.handleGantt)
	mux.HandleFunc("/web/todos/create", handler.handleCreate)
	mux.HandleFunc("/web/todos/toggle", handler.handleToggle)
	mux.HandleFunc("/web/todos/delete", handler.handleDelete)
	handler.mux = mux
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tw.tmpl.ExecuteTemplate(w, name, data)
}

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type listRow struct {
	todo.FlatNode

	Indent        int
	CollapseURL   string
	CategoryName  string
	CategoryColor string
	TagNames      []string
	Overdue       bool
}

// navigation carries the header links, which keep the current filters.
type navigation struct {
	Nav       string
	ListHref  string
	GanttHref string
}

func newNavigation(active string, query url.Values) navigation {
	kept := url.Values{}
	for key, values := range query {
		if key == "error" || key == "collapsed" {
			continue
		}
		kept[key] = values
	}
	nav := navigation{Nav: active, ListHref: "/web/", GanttHref: "/web/gantt"}
	if encoded := kept.Encode(); encoded != "" {
		nav.ListHref += "?" + encoded
		nav.GanttHref += "?" + encoded
	}
	return nav
}

type listPage struct {
	navigation

	Rows            []listRow
	Total           int
	Error           string
	Query           string
	Form            filterValues
	CompletedOpts   []selectOption
	PriorityOpts    []selectOption
	CategoryOpts    []selectOption
	TagOpts         []selectOption
	NewPriorityOpts []selectOption
	ParentOpts      []selectOption
}

// filterValues holds the raw filter query parameters so the form can be
// redisplayed as submitted.
type filterValues struct {
	Completed   string
	Priority    string
	CategoryID  string
	TagID       string
	Search      string
	DueDateFrom string
	DueDateTo   string
}

func filterValuesFromQuery(query url.Values) filterValues {
	return filterValues{
		Completed:   strings.TrimSpace(query.Get("completed")),
		Priority:    strings.TrimSpace(query.Get("priority")),
		CategoryID:  strings.TrimSpace(query.Get("categoryId")),
		TagID:       strings.TrimSpace(query.Get("tagId")),
		Search:      query.Get("search"),
		DueDateFrom: strings.TrimSpace(query.Get("dueDateFrom")),
		DueDateTo:   strings.TrimSpace(query.Get("dueDateTo")),
	}
}

func (v filterValues) filter() (todo.Filter, error) {
	var filter todo.Filter
	switch v.Completed {
	case "":
	case "true":
		filter.Completed = todo.BoolPtr(true)
	case "false":
		filter.Completed = todo.BoolPtr(false)
	default:
		return filter, fmt.Errorf("invalid completed value %q", v.Completed)
	}

	var err error
	if filter.Priority, err = todo.ParsePriority(v.Priority); err != nil {
		return filter, err
	}
	filter.CategoryID = v.CategoryID
	if v.TagID != "" {
		filter.TagIDs = []string{v.TagID}
	}
	filter.Search = v.Search
	if filter.DueFrom, err = todo.ParseDate(v.DueDateFrom); err != nil {
		return filter, err
	}
	if filter.DueTo, err = todo.ParseDate(v.DueDateTo); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	query := r.URL.Query()
	form := filterValuesFromQuery(query)
	page := listPage{
		navigation: newNavigation("list", query),
		Error:      query.Get("error"),
		Query:      r.URL.RawQuery,
		Form:       form,
	}

	filter, err := form.filter()
	if err != nil {
		page.Error = err.Error()
		filter = todo.Filter{}
	}

	doc, err := h.store.Snapshot()
	if err != nil {
		h.renderError(w, err)
		return
	}
	forest := todo.BuildTree(todo.FilterTasks(doc.Todos, filter))
	todo.SortTree(forest)

	collapsed := parseCollapsed(query.Get("collapsed"))
	categories := categoryIndex(doc.Categories)
	tagNames := tagIndex(doc.Tags)
	now := h.now()

	for _, flat := range todo.Flatten(forest, collapsed) {
		row := listRow{
			FlatNode:    flat,
			Indent:      flat.Depth * 24,
			CollapseURL: collapseURL(query, flat.Node.ID),
			Overdue:     todo.Overdue(flat.Node.Task, now),
		}
		if category, ok := categories[flat.Node.CategoryID]; ok {
			row.CategoryName = category.Name
			row.CategoryColor = category.Color
		}
		for _, tagID := range flat.Node.Tags {
			if name, ok := tagNames[tagID]; ok {
				row.TagNames = append(row.TagNames, name)
			}
		}
		page.Rows = append(page.Rows, row)
	}
	page.Total = todo.CountNodes(forest)

	page.CompletedOpts = []selectOption{
		{Value: "", Label: "All", Selected: form.Completed == ""},
		{Value: "false", Label: "Open", Selected: form.Completed == "false"},
		{Value: "true", Label: "Done", Selected: form.Completed == "true"},
	}
	page.PriorityOpts = priorityOptions(form.Priority, "Any priority")
	page.NewPriorityOpts = priorityOptions(string(todo.PriorityMedium), "")
	page.CategoryOpts = append([]selectOption{{Value: "", Label: "Any category"}}, categoryOptions(doc.Categories, form.CategoryID)...)
	page.TagOpts = append([]selectOption{{Value: "", Label: "Any tag"}}, tagOptions(doc.Tags, form.TagID)...)
	page.ParentOpts = []selectOption{{Value: "", Label: "No parent"}}
	for _, task := range todo.SortForDisplay(doc.Todos) {
		page.ParentOpts = append(page.ParentOpts, selectOption{Value: task.ID, Label: task.Title})
	}

	if err := h.templates.Render(w, "list", page); err != nil {
		h.logf("render list: %v", err)
	}
}

type ganttDay struct {
	todo.Day
	Left  int
	Label int
}

type ganttMonth struct {
	Label string
	Left  int
	Width int
}

type ganttBar struct {
	todo.Bar
	Left  int
	Width int
	Label string
}

type ganttPage struct {
	navigation

	Error      string
	Empty      bool
	DayWidth   int
	GridWidth  int
	TodayLeft  int
	HasToday   bool
	Days       []ganttDay
	Months     []ganttMonth
	Bars       []ganttBar
	RangeLabel string
}

func (h *Handler) handleGantt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	query := r.URL.Query()
	page := ganttPage{navigation: newNavigation("gantt", query), DayWidth: h.dayWidth}

	filter, err := filterValuesFromQuery(query).filter()
	if err != nil {
		page.Error = err.Error()
		filter = todo.Filter{}
	}

	timeline, ok, err := h.store.Timeline(filter, todo.TimelineOptions{PaddingDays: h.paddingDays, Now: h.now()})
	if err != nil {
		h.renderError(w, err)
		return
	}
	if !ok {
		page.Empty = true
	} else {
		page = h.ganttLayout(page, timeline)
	}

	if err := h.templates.Render(w, "gantt", page); err != nil {
		h.logf("render gantt: %v", err)
	}
}

// ganttLayout converts day-unit geometry to pixels.
func (h *Handler) ganttLayout(page ganttPage, timeline todo.Timeline) ganttPage {
	page.GridWidth = timeline.TotalDays * h.dayWidth
	page.RangeLabel = timeline.MinDate.String() + " to " + timeline.MaxDate.String()
	if timeline.TodayIndex >= 0 {
		page.HasToday = true
		page.TodayLeft = timeline.TodayIndex*h.dayWidth + h.dayWidth/2
	}
	for i, day := range timeline.Days {
		page.Days = append(page.Days, ganttDay{Day: day, Left: i * h.dayWidth, Label: day.Date.Day()})
	}
	for _, month := range timeline.Months {
		page.Months = append(page.Months, ganttMonth{
			Label: month.Label(),
			Left:  month.Start * h.dayWidth,
			Width: month.Span * h.dayWidth,
		})
	}
	for _, bar := range timeline.Bars {
		label := bar.Start.String()
		if !bar.End.Equal(bar.Start) {
			label += " → " + bar.End.String()
		}
		page.Bars = append(page.Bars, ganttBar{
			Bar:   bar,
			Left:  bar.Position * h.dayWidth,
			Width: bar.Width * h.dayWidth,
			Label: label,
		})
	}
	return page
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "", "invalid form input")
		return
	}
	returnQuery := r.PostForm.Get("return")

	opts, err := createOptionsFromForm(r.PostForm)
	if err == nil {
		_, err = h.store.CreateTask(opts)
	}
	if err != nil {
		redirectWithError(w, r, returnQuery, err.Error())
		return
	}
	redirectToList(w, r, returnQuery)
}

func createOptionsFromForm(form url.Values) (todo.CreateOptions, error) {
	opts := todo.CreateOptions{
		Title:       form.Get("title"),
		Description: internalstrings.NormalizeNewlines(form.Get("description")),
		CategoryID:  strings.TrimSpace(form.Get("categoryId")),
		ParentID:    strings.TrimSpace(form.Get("parentId")),
		Tags:        form["tagIds"],
	}
	var err error
	if opts.Priority, err = todo.ParsePriority(form.Get("priority")); err != nil {
		return opts, err
	}
	if opts.StartDate, err = todo.ParseDate(form.Get("startDate")); err != nil {
		return opts, err
	}
	if opts.DueDate, err = todo.ParseDate(form.Get("dueDate")); err != nil {
		return opts, err
	}
	return opts, nil
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	h.handleTaskAction(w, r, func(id string) error {
		_, err := h.store.ToggleTask(id)
		return err
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.handleTaskAction(w, r, func(id string) error {
		_, err := h.store.DeleteTask(id)
		return err
	})
}

func (h *Handler) handleTaskAction(w http.ResponseWriter, r *http.Request, action func(id string) error) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "", "invalid form input")
		return
	}
	returnQuery := r.PostForm.Get("return")
	id := strings.TrimSpace(r.PostForm.Get("id"))
	if id == "" {
		redirectWithError(w, r, returnQuery, "task id is required")
		return
	}
	if err := action(id); err != nil {
		redirectWithError(w, r, returnQuery, err.Error())
		return
	}
	redirectToList(w, r, returnQuery)
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	h.logf("web request failed: %v", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

// parseCollapsed reads a comma-separated id list.
func parseCollapsed(value string) map[string]bool {
	collapsed := make(map[string]bool)
	for _, id := range internalstrings.SplitList(value) {
		collapsed[id] = true
	}
	return collapsed
}

// collapseURL links to the current page with id's collapse state flipped.
func collapseURL(query url.Values, id string) string {
	collapsed := parseCollapsed(query.Get("collapsed"))
	if collapsed[id] {
		delete(collapsed, id)
	} else {
		collapsed[id] = true
	}
	ids := make([]string, 0, len(collapsed))
	for collapsedID := range collapsed {
		ids = append(ids, collapsedID)
	}
	slices.Sort(ids)

	next := url.Values{}
	for key, values := range query {
		if key == "collapsed" || key == "error" {
			continue
		}
		next[key] = values
	}
	if len(ids) > 0 {
		next.Set("collapsed", strings.Join(ids, ","))
	}
	if encoded := next.Encode(); encoded != "" {
		return "/web/?" + encoded
	}
	return "/web/"
}

func redirectToList(w http.ResponseWriter, r *http.Request, returnQuery string) {
	query, _ := url.ParseQuery(returnQuery)
	query.Del("error")
	target := "/web/"
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, returnQuery, message string) {
	query, _ := url.ParseQuery(returnQuery)
	query.Set("error", message)
	http.Redirect(w, r, "/web/?"+query.Encode(), http.StatusSeeOther)
}

func categoryIndex(categories []todo.Category) map[string]todo.Category {
	index := make(map[string]todo.Category, len(categories))
	for _, category := range categories {
		index[category.ID] = category
	}
	return index
}

func tagIndex(tags []todo.Tag) map[string]string {
	index := make(map[string]string, len(tags))
	for _, tag := range tags {
		index[tag.ID] = tag.Name
	}
	return index
}

func priorityOptions(selected, anyLabel string) []selectOption {
	var options []selectOption
	if anyLabel != "" {
		options = append(options, selectOption{Value: "", Label: anyLabel, Selected: selected == ""})
	}
	for _, priority := range todo.ValidPriorities() {
		options = append(options, selectOption{
			Value:    string(priority),
			Label:    string(priority),
			Selected: string(priority) == selected,
		})
	}
	return options
}

func categoryOptions(categories []todo.Category, selected string) []selectOption {
	options := make([]selectOption, 0, len(categories))
	for _, category := range categories {
		options = append(options, selectOption{Value: category.ID, Label: category.Name, Selected: category.ID == selected})
	}
	return options
}

func tagOptions(tags []todo.Tag, selected string) []selectOption {
	options := make([]selectOption, 0, len(tags))
	for _, tag := range tags {
		options = append(options, selectOption{Value: tag.ID, Label: tag.Name, Selected: tag.ID == selected})
	}
	return options
}

func writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
