package todo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateTaskDefaultsAndToggle(t *testing.T) {
	store := newMemoryStore(t, Document{})

	task := mustCreateTask(t, store, CreateOptions{Title: "  Draft report  ", Priority: PriorityMedium})
	if task.Title != "Draft report" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Completed || task.Priority != PriorityMedium {
		t.Fatalf("unexpected defaults %+v", task)
	}
	if task.Tags == nil {
		t.Fatal("expected empty tag set, got nil")
	}
	if !task.UpdatedAt.Equal(task.CreatedAt) {
		t.Fatalf("expected updatedAt == createdAt on create")
	}

	open, err := store.ListTasks(Filter{Completed: BoolPtr(false)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !equalStrings(taskIDs(open), []string{task.ID}) {
		t.Fatalf("expected task among open tasks, got %v", taskIDs(open))
	}

	toggled, err := store.ToggleTask(task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Fatal("expected task to be completed")
	}
	if !toggled.UpdatedAt.After(toggled.CreatedAt) {
		t.Fatal("expected toggle to refresh updatedAt")
	}

	open, _ = store.ListTasks(Filter{Completed: BoolPtr(false)})
	done, _ := store.ListTasks(Filter{Completed: BoolPtr(true)})
	if len(open) != 0 || !equalStrings(taskIDs(done), []string{task.ID}) {
		t.Fatalf("expected task to move to completed, open=%v done=%v", taskIDs(open), taskIDs(done))
	}
}

func TestCreateTaskDefaultPriority(t *testing.T) {
	store := newMemoryStore(t, Document{})

	task := mustCreateTask(t, store, CreateOptions{Title: "x", Tags: []string{"t1", "t1", "", "t2"}})
	if task.Priority != PriorityMedium {
		t.Fatalf("expected medium default, got %q", task.Priority)
	}
	if !equalStrings(task.Tags, []string{"t1", "t2"}) {
		t.Fatalf("expected de-duplicated tags, got %v", task.Tags)
	}
}

func TestCreateTaskValidationSkipsWrite(t *testing.T) {
	log := &writeLog{}
	store, err := New(NewMemoryBackend(Document{}), OpenOptions{Recorder: log})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := store.CreateTask(CreateOptions{Title: "   "}); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := store.CreateTask(CreateOptions{Title: strings.Repeat("a", 201)}); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}

	tasks, _ := store.ListTasks(Filter{})
	if len(tasks) != 0 || len(log.writes) != 0 {
		t.Fatalf("expected no writes, got tasks=%d writes=%v", len(tasks), log.writes)
	}
}

func TestTreeScenario(t *testing.T) {
	store := newMemoryStore(t, Document{})

	a := mustCreateTask(t, store, CreateOptions{Title: "A"})
	b := mustCreateTask(t, store, CreateOptions{Title: "B", ParentID: a.ID})
	c := mustCreateTask(t, store, CreateOptions{Title: "C", ParentID: "missing-id"})

	forest, err := store.Tree(Filter{})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(forest) != 2 {
		t.Fatalf("expected two roots, got %v", rootIDs(forest))
	}

	roots := map[string]*TaskNode{}
	for _, node := range forest {
		roots[node.ID] = node
	}
	if roots[a.ID] == nil || roots[c.ID] == nil {
		t.Fatalf("expected roots A and C, got %v", rootIDs(forest))
	}
	if got := rootIDs(roots[a.ID].Children); !equalStrings(got, []string{b.ID}) {
		t.Fatalf("expected B under A, got %v", got)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	store := newMemoryStore(t, Document{})
	task := mustCreateTask(t, store, CreateOptions{
		Title:      "Original",
		Priority:   PriorityLow,
		StartDate:  MustParseDate("2026-01-01"),
		DueDate:    MustParseDate("2026-01-03"),
		CategoryID: "cat-1",
		Tags:       []string{"tag-1"},
	})

	updated, err := store.UpdateTask(task.ID, UpdateOptions{
		Priority: PriorityPtr(PriorityHigh),
		DueDate:  &Date{},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Original" || updated.CategoryID != "cat-1" || !equalStrings(updated.Tags, []string{"tag-1"}) {
		t.Fatalf("expected untouched fields to be kept, got %+v", updated)
	}
	if updated.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %q", updated.Priority)
	}
	if !updated.DueDate.IsZero() || updated.StartDate.String() != "2026-01-01" {
		t.Fatalf("expected due date cleared and start kept, got %s / %s", updated.StartDate, updated.DueDate)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) {
		t.Fatal("expected updatedAt to be refreshed")
	}

	tags := []string{}
	cleared, err := store.UpdateTask(task.ID, UpdateOptions{Tags: &tags, CategoryID: StringPtr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(cleared.Tags) != 0 || cleared.CategoryID != "" {
		t.Fatalf("expected tags and category cleared, got %+v", cleared)
	}
}

func TestUpdateTaskErrors(t *testing.T) {
	store := newMemoryStore(t, Document{})
	parent := mustCreateTask(t, store, CreateOptions{Title: "parent"})
	child := mustCreateTask(t, store, CreateOptions{Title: "child", ParentID: parent.ID})

	tests := []struct {
		name    string
		id      string
		opts    UpdateOptions
		wantErr error
	}{
		{"missing", "nope", UpdateOptions{Title: StringPtr("x")}, ErrTaskNotFound},
		{"empty title", child.ID, UpdateOptions{Title: StringPtr(" ")}, ErrEmptyTitle},
		{"bad priority", child.ID, UpdateOptions{Priority: PriorityPtr("urgent")}, ErrInvalidPriority},
		{"self parent", parent.ID, UpdateOptions{ParentID: StringPtr(parent.ID)}, ErrSelfParent},
		{"cycle", parent.ID, UpdateOptions{ParentID: StringPtr(child.ID)}, ErrParentCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.UpdateTask(tt.id, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	got, err := store.GetTask(parent.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ParentID != "" || !got.UpdatedAt.Equal(parent.UpdatedAt) {
		t.Fatalf("expected rejected updates to leave parent untouched, got %+v", got)
	}
}

func TestDeleteTaskDoesNotCascade(t *testing.T) {
	store := newMemoryStore(t, Document{})
	parent := mustCreateTask(t, store, CreateOptions{Title: "parent"})
	child := mustCreateTask(t, store, CreateOptions{Title: "child", ParentID: parent.ID})

	deleted, err := store.DeleteTask(parent.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != parent.ID {
		t.Fatalf("expected deleted parent, got %s", deleted.ID)
	}

	remaining, err := store.GetTask(child.ID)
	if err != nil {
		t.Fatalf("expected child to survive: %v", err)
	}
	if remaining.ParentID != parent.ID {
		t.Fatalf("expected dangling parent id to be kept, got %q", remaining.ParentID)
	}

	forest, _ := store.Tree(Filter{})
	if got := rootIDs(forest); !equalStrings(got, []string{child.ID}) {
		t.Fatalf("expected orphan to be a root, got %v", got)
	}

	if _, err := store.DeleteTask(parent.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSetCompletedAllOrNothing(t *testing.T) {
	store := newMemoryStore(t, Document{})
	a := mustCreateTask(t, store, CreateOptions{Title: "a"})
	b := mustCreateTask(t, store, CreateOptions{Title: "b"})

	if _, err := store.SetCompleted([]string{a.ID, "missing"}, true); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	got, _ := store.GetTask(a.ID)
	if got.Completed {
		t.Fatal("expected no change when an id is missing")
	}

	done, err := store.SetCompleted([]string{a.ID, b.ID}, true)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if len(done) != 2 || !done[0].Completed || !done[1].Completed {
		t.Fatalf("expected both completed, got %+v", done)
	}
}

func TestResolveTaskID(t *testing.T) {
	store, err := New(NewMemoryBackend(Document{}), OpenOptions{
		NewID: func() func() string {
			ids := []string{"abc111", "abd222", "ffe333"}
			n := 0
			return func() string {
				id := ids[n]
				n++
				return id
			}
		}(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, title := range []string{"one", "two", "three"} {
		mustCreateTask(t, store, CreateOptions{Title: title})
	}

	if id, err := store.ResolveTaskID("ff"); err != nil || id != "ffe333" {
		t.Fatalf("expected ffe333, got %q (%v)", id, err)
	}
	if _, err := store.ResolveTaskID("ab"); !errors.Is(err, ErrAmbiguousIDPrefix) {
		t.Fatalf("expected ambiguous prefix error, got %v", err)
	}
	if _, err := store.ResolveTaskID("zz"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	resolved, err := store.ResolveTaskIDs([]string{"abc", "abd"})
	if err != nil || !equalStrings(resolved, []string{"abc111", "abd222"}) {
		t.Fatalf("unexpected resolution %v (%v)", resolved, err)
	}
	if _, err := store.ResolveTaskIDs([]string{"abc", "nope", "nada"}); err == nil || !strings.Contains(err.Error(), "nope, nada") {
		t.Fatalf("expected all missing ids in error, got %v", err)
	}
}

func TestStoreTimeline(t *testing.T) {
	store := newMemoryStore(t, Document{})
	mustCreateTask(t, store, CreateOptions{Title: "undated"})

	if _, ok, err := store.Timeline(Filter{}, TimelineOptions{}); err != nil || ok {
		t.Fatalf("expected empty timeline, got ok=%v err=%v", ok, err)
	}

	task := mustCreateTask(t, store, CreateOptions{
		Title:     "dated",
		StartDate: MustParseDate("2026-01-01"),
		DueDate:   MustParseDate("2026-01-03"),
	})
	mustCreateTask(t, store, CreateOptions{Title: "later", DueDate: MustParseDate("2026-01-05")})

	tl, ok, err := store.Timeline(Filter{}, TimelineOptions{})
	if err != nil || !ok {
		t.Fatalf("expected timeline, got ok=%v err=%v", ok, err)
	}
	bar := barFor(t, tl, task.ID)
	if bar.Position != 0 || bar.Width != 3 || tl.TotalDays != 5 {
		t.Fatalf("unexpected geometry %+v over %d days", bar, tl.TotalDays)
	}
	if tl.TodayIndex != 0 {
		t.Fatalf("expected the store clock to mark 2026-01-01 as today, got %d", tl.TodayIndex)
	}
}

func TestStoreTimelineRejectsPadding(t *testing.T) {
	store := newMemoryStore(t, Document{})
	mustCreateTask(t, store, CreateOptions{Title: "dated", DueDate: MustParseDate("2026-01-03")})

	for _, padding := range []int{-1, MaxPaddingDays + 1, 60000} {
		_, _, err := store.Timeline(Filter{}, TimelineOptions{PaddingDays: padding})
		if !errors.Is(err, ErrInvalidPadding) || !errors.Is(err, ErrInvalid) {
			t.Fatalf("padding %d: expected ErrInvalidPadding, got %v", padding, err)
		}
	}

	tl, ok, err := store.Timeline(Filter{}, TimelineOptions{PaddingDays: MaxPaddingDays})
	if err != nil || !ok {
		t.Fatalf("expected timeline at the maximum padding, got ok=%v err=%v", ok, err)
	}
	if tl.TotalDays != 2*MaxPaddingDays+1 {
		t.Fatalf("expected %d days, got %d", 2*MaxPaddingDays+1, tl.TotalDays)
	}
}

func TestOpenPersistsAndSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "todos.json")

	store, err := Open(path, OpenOptions{Seed: true, Now: testClock()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	categories, _ := store.ListCategories()
	tags, _ := store.ListTags()
	if len(categories) != 3 || len(tags) != 2 {
		t.Fatalf("expected seeded catalog, got %d categories and %d tags", len(categories), len(tags))
	}

	task := mustCreateTask(t, store, CreateOptions{Title: "persisted", CategoryID: "cat-1"})

	if _, _, err := store.DeleteCategory("cat-2"); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	reopened, err := Open(path, OpenOptions{Seed: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	categories, _ = reopened.ListCategories()
	if len(categories) != 2 {
		t.Fatalf("expected seeding to happen once, got %d categories", len(categories))
	}
	got, err := reopened.GetTask(task.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Title != "persisted" || got.CategoryID != "cat-1" {
		t.Fatalf("unexpected task after reopen %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"version": 1`) || !strings.Contains(string(data), `"todos"`) {
		t.Fatalf("unexpected document layout:\n%s", data)
	}
}

func TestOpenReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	legacy := `{
  "todos": [
    {"id": "1", "title": "Old", "description": "", "completed": false, "startDate": null,
     "dueDate": "2026-1-5", "categoryId": null, "tags": null, "parentId": null,
     "createdAt": "2026-01-01T00:00:00.000Z", "updatedAt": "2026-01-01T00:00:00.000Z"}
  ],
  "categories": [],
  "tags": []
}`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store, err := Open(path, OpenOptions{Seed: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	task, err := store.GetTask("1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.Priority != PriorityMedium || task.DueDate.String() != "2026-01-05" || task.Tags == nil {
		t.Fatalf("expected legacy defaults to be filled, got %+v", task)
	}
	categories, _ := store.ListCategories()
	if len(categories) != 0 {
		t.Fatalf("expected an existing document not to be seeded, got %d categories", len(categories))
	}
}

func TestRecorderSeesWrites(t *testing.T) {
	log := &writeLog{}
	store, err := New(NewMemoryBackend(Document{}), OpenOptions{Recorder: log})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	task := mustCreateTask(t, store, CreateOptions{Title: "x"})
	if _, err := store.ToggleTask(task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := store.CreateTag("urgent"); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	want := []recordedWrite{{"todos", "create"}, {"todos", "toggle"}, {"tags", "create"}}
	if len(log.writes) != len(want) {
		t.Fatalf("expected %v, got %v", want, log.writes)
	}
	for i := range want {
		if log.writes[i] != want[i] {
			t.Fatalf("write %d = %v, want %v", i, log.writes[i], want[i])
		}
	}
}
