package web

import (
	"html/template"
	"strings"

	"github.com/amonks/tasktree/todo"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"eq":        func(a, b string) bool { return a == b },
		"join":      strings.Join,
		"priority":  func(p todo.Priority) string { return string(p) },
		"dateLabel": dateLabel,
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func dateLabel(d todo.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

const pageTemplate = `{{define "head"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tasktree {{if eq .Nav "gantt"}}Timeline{{else}}Tasks{{end}}</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
      backdrop-filter: blur(6px);
    }
    header h1 {
      margin: 0 0 8px 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .tabs {
      display: flex;
      gap: 12px;
    }
    .tab {
      padding: 8px 14px;
      border-radius: 999px;
      text-decoration: none;
      color: #5b5148;
      border: 1px solid transparent;
    }
    .tab.active {
      color: #1d1712;
      border-color: #d1c6b6;
      background: #f5efe4;
      font-weight: 600;
    }
    main {
      display: flex;
      flex-direction: column;
      gap: 18px;
      padding: 18px 24px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px 20px;
    }
    .pane h2 {
      margin: 0 0 12px 0;
      font-size: 16px;
    }
    form.inline {
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
      align-items: flex-end;
    }
    .field {
      display: flex;
      flex-direction: column;
      gap: 6px;
      font-size: 13px;
      color: #4f4540;
    }
    input[type="text"],
    input[type="date"],
    select,
    textarea {
      padding: 8px 10px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      font-size: 14px;
      background: #fffdf9;
      box-sizing: border-box;
    }
    button {
      padding: 8px 14px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    button.small {
      padding: 3px 8px;
      font-size: 12px;
    }
    button.danger {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .button-link {
      display: inline-block;
      padding: 6px 12px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      background: #f7f2e8;
      text-decoration: none;
      color: #2b2520;
      font-size: 14px;
    }
    .tree {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 4px;
    }
    .row {
      display: flex;
      align-items: center;
      gap: 10px;
      padding: 8px 10px;
      border-radius: 10px;
      border: 1px solid transparent;
    }
    .row:hover {
      border-color: #e3d9c9;
      background: #fbf7f0;
    }
    .row.done .item-title {
      text-decoration: line-through;
      color: #8a8077;
    }
    .twisty {
      display: inline-block;
      width: 18px;
      text-align: center;
      text-decoration: none;
      color: #72685f;
    }
    .item-title {
      font-weight: 600;
      flex: 1;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
    }
    .item-meta.overdue {
      color: #a33b2f;
      font-weight: 600;
    }
    .badge {
      display: inline-block;
      padding: 2px 8px;
      border-radius: 999px;
      font-size: 12px;
      border: 1px solid #d7cdbd;
      background: #f7f2e8;
    }
    .badge.high {
      background: #f4d7d2;
      border-color: #d7a7a1;
    }
    .badge.low {
      background: #e4efe0;
      border-color: #b9cfb0;
    }
    .swatch {
      display: inline-block;
      width: 10px;
      height: 10px;
      border-radius: 50%;
      margin-right: 4px;
    }
    .row-actions {
      display: flex;
      gap: 6px;
    }
    .row-actions form {
      margin: 0;
    }
    .muted {
      color: #72685f;
      font-size: 13px;
    }
    .error {
      padding: 10px 12px;
      border-radius: 8px;
      background: #f9e2de;
      border: 1px solid #e1b2ab;
      color: #7b2a20;
    }
    .gantt {
      overflow-x: auto;
    }
    .gantt-grid {
      position: relative;
    }
    .gantt-months,
    .gantt-days {
      position: relative;
      height: 22px;
      font-size: 11px;
      color: #5b5148;
    }
    .gantt-month {
      position: absolute;
      top: 0;
      height: 22px;
      border-left: 1px solid #d7cdbd;
      padding-left: 4px;
      box-sizing: border-box;
      font-weight: 600;
    }
    .gantt-day {
      position: absolute;
      top: 0;
      height: 22px;
      text-align: center;
      box-sizing: border-box;
    }
    .gantt-day.weekend {
      background: #f1ebe0;
    }
    .gantt-day.today {
      background: #2b2520;
      color: #ffffff;
      border-radius: 4px;
    }
    .gantt-rows {
      position: relative;
    }
    .gantt-row {
      position: relative;
      height: 28px;
      border-top: 1px solid #f0e9dd;
    }
    .gantt-bar {
      position: absolute;
      top: 4px;
      height: 20px;
      border-radius: 6px;
      background: #c9b28f;
      color: #1d1712;
      font-size: 12px;
      padding: 2px 6px;
      box-sizing: border-box;
      white-space: nowrap;
      overflow: hidden;
      text-overflow: ellipsis;
    }
    .gantt-bar.done {
      background: #b9cfb0;
      color: #4f4540;
    }
    .gantt-today {
      position: absolute;
      top: 0;
      bottom: 0;
      width: 2px;
      background: #a33b2f;
    }
  </style>
</head>
<body>
  <header>
    <h1>Tasktree</h1>
    <nav class="tabs">
      <a class="tab{{if eq .Nav "list"}} active{{end}}" href="{{.ListHref}}">Tasks</a>
      <a class="tab{{if eq .Nav "gantt"}} active{{end}}" href="{{.GanttHref}}">Timeline</a>
    </nav>
  </header>
  <main>
    {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{end}}

{{define "foot"}}
  </main>
</body>
</html>
{{end}}

{{define "list"}}{{template "head" .}}
    <section class="pane">
      <h2>Filter</h2>
      <form class="inline" method="get" action="/web/">
        <label class="field">Status
          <select name="completed">{{range .CompletedOpts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
        </label>
        <label class="field">Priority
          <select name="priority">{{range .PriorityOpts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
        </label>
        <label class="field">Category
          <select name="categoryId">{{range .CategoryOpts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
        </label>
        <label class="field">Tag
          <select name="tagId">{{range .TagOpts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
        </label>
        <label class="field">Search
          <input type="text" name="search" value="{{.Form.Search}}">
        </label>
        <label class="field">Due from
          <input type="date" name="dueDateFrom" value="{{.Form.DueDateFrom}}">
        </label>
        <label class="field">Due to
          <input type="date" name="dueDateTo" value="{{.Form.DueDateTo}}">
        </label>
        <button type="submit">Apply</button>
        <a class="button-link" href="/web/">Clear</a>
      </form>
    </section>

    <section class="pane">
      <h2>New task</h2>
      <form class="inline" method="post" action="/web/todos/create">
        <input type="hidden" name="return" value="{{.Query}}">
        <label class="field">Title
          <input type="text" name="title" required>
        </label>
        <label class="field">Priority
          <select name="priority">{{range .NewPriorityOpts}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
        </label>
        <label class="field">Category
          <select name="categoryId"><option value="">None</option>{{range .CategoryOpts}}{{if .Value}}<option value="{{.Value}}">{{.Label}}</option>{{end}}{{end}}</select>
        </label>
        <label class="field">Tags
          <select name="tagIds" multiple>{{range .TagOpts}}{{if .Value}}<option value="{{.Value}}">{{.Label}}</option>{{end}}{{end}}</select>
        </label>
        <label class="field">Parent
          <select name="parentId">{{range .ParentOpts}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>
        </label>
        <label class="field">Start
          <input type="date" name="startDate">
        </label>
        <label class="field">Due
          <input type="date" name="dueDate">
        </label>
        <label class="field">Description
          <input type="text" name="description">
        </label>
        <button type="submit">Add</button>
      </form>
    </section>

    <section class="pane">
      <h2>Tasks <span class="muted">({{.Total}})</span></h2>
      {{if .Rows}}
      <ul class="tree">
        {{range .Rows}}
        <li class="row{{if .Node.Completed}} done{{end}}" style="padding-left: {{.Indent}}px">
          {{if .HasChildren}}<a class="twisty" href="{{.CollapseURL}}" title="{{if .Collapsed}}Expand{{else}}Collapse{{end}}">{{if .Collapsed}}▸{{else}}▾{{end}}</a>{{else}}<span class="twisty"></span>{{end}}
          <span class="item-title">{{.Node.Title}}</span>
          <span class="badge {{priority .Node.Priority}}">{{priority .Node.Priority}}</span>
          {{if .CategoryName}}<span class="item-meta"><span class="swatch" style="background: {{.CategoryColor}}"></span>{{.CategoryName}}</span>{{end}}
          {{if .TagNames}}<span class="item-meta">{{join .TagNames ", "}}</span>{{end}}
          {{if not .Node.DueDate.IsZero}}<span class="item-meta{{if .Overdue}} overdue{{end}}">due {{dateLabel .Node.DueDate}}</span>{{end}}
          <span class="row-actions">
            <form method="post" action="/web/todos/toggle">
              <input type="hidden" name="id" value="{{.Node.ID}}">
              <input type="hidden" name="return" value="{{$.Query}}">
              <button class="small" type="submit">{{if .Node.Completed}}Reopen{{else}}Done{{end}}</button>
            </form>
            <form method="post" action="/web/todos/delete">
              <input type="hidden" name="id" value="{{.Node.ID}}">
              <input type="hidden" name="return" value="{{$.Query}}">
              <button class="small danger" type="submit">Delete</button>
            </form>
          </span>
        </li>
        {{end}}
      </ul>
      {{else}}
      <p class="muted">No tasks.</p>
      {{end}}
    </section>
{{template "foot" .}}{{end}}

{{define "gantt"}}{{template "head" .}}
    <section class="pane gantt">
      {{if .Empty}}
      <p class="muted">No tasks with dates.</p>
      {{else}}
      <h2>{{.RangeLabel}}</h2>
      <div class="gantt-grid" style="width: {{.GridWidth}}px">
        <div class="gantt-months">
          {{range .Months}}<div class="gantt-month" style="left: {{.Left}}px; width: {{.Width}}px">{{.Label}}</div>{{end}}
        </div>
        <div class="gantt-days">
          {{range .Days}}<div class="gantt-day{{if .Weekend}} weekend{{end}}{{if .Today}} today{{end}}" style="left: {{.Left}}px; width: {{$.DayWidth}}px">{{.Label}}</div>{{end}}
        </div>
        <div class="gantt-rows">
          {{if .HasToday}}<div class="gantt-today" style="left: {{.TodayLeft}}px"></div>{{end}}
          {{range .Bars}}
          <div class="gantt-row">
            <div class="gantt-bar{{if .Completed}} done{{end}}" style="left: {{.Left}}px; width: {{.Width}}px" title="{{.Title}} ({{.Label}})">{{.Title}}</div>
          </div>
          {{end}}
        </div>
      </div>
      {{end}}
    </section>
{{template "foot" .}}{{end}}
`
