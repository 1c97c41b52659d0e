package todo

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amonks/tasktree/internal/ids"
	"github.com/amonks/tasktree/internal/state"
)

// Backend loads and commits the record document.
type Backend interface {
	// Load returns the current document. The caller may modify it.
	Load() (*Document, error)

	// Update loads the document, applies fn and persists the result. Nothing
	// is persisted when fn returns an error.
	Update(fn func(doc *Document) error) error
}

// WriteRecorder observes successful writes, e.g. for metrics.
type WriteRecorder interface {
	RecordWrite(collection, op string)
}

// Store provides the task, category and tag operations over a Backend.
type Store struct {
	backend  Backend
	now      func() time.Time
	newID    func() string
	recorder WriteRecorder
}

// OpenOptions configures a Store.
type OpenOptions struct {
	// Seed writes the default categories and tags into a document that has
	// never been written.
	Seed bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// NewID returns a fresh record id. Defaults to random UUIDs.
	NewID func() string

	// Recorder is notified after every successful write.
	Recorder WriteRecorder
}

// Open opens the JSON document at path, creating it on first write.
func Open(path string, opts OpenOptions) (*Store, error) {
	if path == "" {
		return nil, errors.New("document path is required")
	}
	return New(state.NewStore[Document](path), opts)
}

// New returns a Store over backend.
func New(backend Backend, opts OpenOptions) (*Store, error) {
	s := &Store{
		backend:  backend,
		now:      opts.Now,
		newID:    opts.NewID,
		recorder: opts.Recorder,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = ids.New
	}

	if opts.Seed {
		if err := s.seed(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Snapshot returns the current document.
func (s *Store) Snapshot() (*Document, error) {
	doc, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	doc.normalize()
	return doc, nil
}

// update runs fn against the current document and persists the result.
func (s *Store) update(collection, op string, fn func(doc *Document) error) error {
	err := s.backend.Update(func(doc *Document) error {
		doc.normalize()
		return fn(doc)
	})
	if err != nil {
		return err
	}
	if s.recorder != nil {
		s.recorder.RecordWrite(collection, op)
	}
	return nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// Default seed records for a new document.
var (
	defaultCategories = []Category{
		{ID: "cat-1", Name: "Work", Color: "#3B82F6"},
		{ID: "cat-2", Name: "Personal", Color: "#10B981"},
		{ID: "cat-3", Name: "Urgent", Color: "#EF4444"},
	}
	defaultTags = []Tag{
		{ID: "tag-1", Name: "Important"},
		{ID: "tag-2", Name: "Meeting"},
	}
)

func (s *Store) seed() error {
	return s.backend.Update(func(doc *Document) error {
		if !doc.isBlank() {
			return nil
		}
		now := s.timestamp()
		doc.normalize()
		for _, category := range defaultCategories {
			category.CreatedAt = now
			doc.Categories = append(doc.Categories, category)
		}
		for _, tag := range defaultTags {
			tag.CreatedAt = now
			doc.Tags = append(doc.Tags, tag)
		}
		return nil
	})
}

// MemoryBackend keeps the document in memory.
type MemoryBackend struct {
	mu  sync.Mutex
	doc *Document
}

// NewMemoryBackend returns a backend holding a copy of doc.
func NewMemoryBackend(doc Document) *MemoryBackend {
	return &MemoryBackend{doc: doc.Clone()}
}

// Load implements Backend.
func (m *MemoryBackend) Load() (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone(), nil
}

// Update implements Backend.
func (m *MemoryBackend) Update(fn func(doc *Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	working := m.doc.Clone()
	if err := fn(working); err != nil {
		return err
	}
	m.doc = working
	return nil
}
