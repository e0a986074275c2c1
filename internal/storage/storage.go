package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	todoerrors "github.com/kuryletso/todo-cli/internal/errors"
	"github.com/kuryletso/todo-cli/internal/task"
)

// Store owns the in-memory task collection and the file backing it.
// Every mutation rewrites the whole file. A Store is not safe for use by
// concurrent processes.
type Store struct {
	path    string
	codec   codec
	tasks   []task.Task
	loadErr error
	now     func() time.Time
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates the parent directory of path and loads all tasks from it.
// A missing, empty or malformed file yields an empty store; a malformed file
// is additionally reported by LoadError.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:   path,
		codec:  codecFor(path),
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // user data directory
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// LoadError returns a *CorruptFileError when the file existed but could not
// be parsed, nil otherwise.
func (s *Store) LoadError() error {
	return s.loadErr
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) load() error {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("task file does not exist yet", "path", s.path)
		return nil
	}
	if err != nil {
		return err
	}

	tasks, err := decodeTasks(s.codec, content)
	if err != nil {
		s.loadErr = &CorruptFileError{Path: s.path, Err: err}
		s.logger.Warn("ignoring malformed task file; the next change overwrites it", "path", s.path, "err", err)
		return nil
	}

	s.tasks = tasks
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(tasks))
	return nil
}

// Save rewrites the whole task file.
func (s *Store) Save() error {
	content, err := encodeTasks(s.codec, s.tasks)
	if err != nil {
		return err
	}
	if err = atomicWrite(s.path, content); err != nil {
		return err
	}
	s.loadErr = nil
	s.logger.Debug("saved tasks", "path", s.path, "count", len(s.tasks))
	return nil
}

// atomicWrite writes data to a temp file next to path and renames it over path.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	//nolint:gosec // G302: 0644 is appropriate for user-readable task files
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *Store) nextID() int {
	maxID := 0
	for _, t := range s.tasks {
		maxID = max(maxID, t.ID)
	}
	return maxID + 1
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool {
		return t.ID == id
	})
}

// Add creates a new active task and persists the store.
func (s *Store) Add(title string, date task.Date, description string) (task.Task, error) {
	if strings.TrimSpace(title) == "" {
		return task.Task{}, todoerrors.EmptyTitleError{}
	}

	t := task.Task{
		ID:          s.nextID(),
		Title:       title,
		Description: description,
		TaskDate:    date,
		CreatedAt:   s.now().UTC(),
		Status:      task.StatusActive,
	}

	s.tasks = append(s.tasks, t)
	if err := s.Save(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return task.Task{}, err
	}
	return t, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (task.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// Patch lists the fields Update should change. Nil fields are left alone,
// so an empty Description clears it while a nil one keeps it.
type Patch struct {
	Title       *string
	Description *string
	TaskDate    *task.Date
	Status      *task.Status
}

// Update applies p to the task with the given ID and persists the store.
// It reports false when no such task exists.
func (s *Store) Update(id int, p Patch) (task.Task, bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false, nil
	}

	t := s.tasks[i]
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return task.Task{}, true, todoerrors.EmptyTitleError{}
		}
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.TaskDate != nil {
		t.TaskDate = *p.TaskDate
	}
	if p.Status != nil {
		if !task.IsValidStatus(*p.Status) {
			return task.Task{}, true, todoerrors.InvalidStatusError{Value: string(*p.Status)}
		}
		t.Status = *p.Status
	}

	prev := s.tasks[i]
	s.tasks[i] = t
	if err := s.Save(); err != nil {
		s.tasks[i] = prev
		return task.Task{}, true, err
	}
	return t, true, nil
}

// Delete removes the task with the given ID and reports whether it existed.
func (s *Store) Delete(id int) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	prev := s.tasks
	s.tasks = slices.Delete(slices.Clone(s.tasks), i, i+1)
	if err := s.Save(); err != nil {
		s.tasks = prev
		return true, err
	}
	return true, nil
}

// List returns the tasks matching f, ordered by date. Tasks sharing a date
// keep their insertion order.
func (s *Store) List(f Filter) []task.Task {
	result := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			result = append(result, t)
		}
	}
	slices.SortStableFunc(result, func(a, b task.Task) int {
		return a.TaskDate.Compare(b.TaskDate)
	})
	return result
}

// Filter controls which tasks List returns. Zero fields match everything.
type Filter struct {
	Status task.Status
	Date   task.Date
}

// Matches returns true if the task should be included.
func (f Filter) Matches(t task.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if !f.Date.IsZero() && t.TaskDate != f.Date {
		return false
	}
	return true
}
