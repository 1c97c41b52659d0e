package todo

import (
	"fmt"
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// testClock returns a clock that advances one minute per call.
func testClock() func() time.Time {
	current := testEpoch
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type recordedWrite struct {
	collection string
	op         string
}

type writeLog struct {
	writes []recordedWrite
}

func (l *writeLog) RecordWrite(collection, op string) {
	l.writes = append(l.writes, recordedWrite{collection: collection, op: op})
}

func newMemoryStore(t *testing.T, doc Document) *Store {
	t.Helper()
	store, err := New(NewMemoryBackend(doc), OpenOptions{
		Now:   testClock(),
		NewID: sequentialIDs("id"),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func mustCreateTask(t *testing.T, store *Store, opts CreateOptions) *Task {
	t.Helper()
	task, err := store.CreateTask(opts)
	if err != nil {
		t.Fatalf("create task %q: %v", opts.Title, err)
	}
	return task
}

func taskIDs(tasks []Task) []string {
	result := make([]string, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, task.ID)
	}
	return result
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
