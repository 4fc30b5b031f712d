// Package taskstore owns the canonical task collection and keeps it persisted
// in a single key-value slot.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/agalitsyn/taskflow/internal/model"
)

// DefaultKey is the slot the collection is stored under.
const DefaultKey = "taskflow-tasks"

// ErrPersistence wraps failures of the storage write. The in-memory change is
// kept when it is returned.
var ErrPersistence = errors.New("could not persist tasks")

type Option func(*Store)

func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.now = clock }
}

func WithIDGenerator(gen model.IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l lgr.L) Option {
	return func(s *Store) { s.log = l }
}

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

type Store struct {
	mu    sync.Mutex
	tasks []model.Task

	storage model.KeyValueStorage
	key     string
	now     func() time.Time
	newID   model.IDGenerator
	log     lgr.L
}

// Open loads the collection from storage. Absent or malformed data yields an
// empty collection; a failing storage read is returned as an error.
func Open(ctx context.Context, storage model.KeyValueStorage, opts ...Option) (*Store, error) {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		now:     time.Now,
		log:     lgr.NoOp,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newID == nil {
		gen, err := model.NewIDGenerator(s.now)
		if err != nil {
			return nil, err
		}
		s.newID = gen
	}

	data, err := storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("could not load tasks: %w", err)
	}
	if len(data) == 0 {
		s.log.Logf("[DEBUG] slot %q is empty", s.key)
		return s, nil
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		s.log.Logf("[WARN] slot %q is unreadable, starting empty: %v", s.key, err)
		return s, nil
	}
	s.tasks = model.SortTasks(tasks)
	s.log.Logf("[DEBUG] loaded %d tasks from slot %q", len(s.tasks), s.key)
	return s, nil
}

// List returns a sorted copy of the collection.
func (s *Store) List() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SortTasks(s.tasks)
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Create appends a task built from draft. The draft is expected to be
// validated by the caller.
func (s *Store) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := model.NewTask(s.newID(), draft, s.now())
	s.tasks = model.SortTasks(append(s.tasks, task))
	s.log.Logf("[DEBUG] created task id=%s", task.ID)
	return task, s.persist(ctx)
}

// Update merges patch into the task with the given id. An unknown id is a
// no-op reported with ok == false.
func (s *Store) Update(ctx context.Context, id string, patch model.TaskPatch) (task model.Task, ok bool, err error) {
	return s.mutate(ctx, id, func(t *model.Task) {
		t.Apply(patch)
	})
}

func (s *Store) Complete(ctx context.Context, id string) (task model.Task, ok bool, err error) {
	at := s.now()
	return s.mutate(ctx, id, func(t *model.Task) {
		t.Complete(at)
	})
}

func (s *Store) Uncomplete(ctx context.Context, id string) (task model.Task, ok bool, err error) {
	return s.mutate(ctx, id, func(t *model.Task) {
		t.Uncomplete()
	})
}

// Delete removes the task with the given id. An unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) (ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Logf("[DEBUG] delete: task id=%s not found", id)
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.log.Logf("[DEBUG] deleted task id=%s", id)
	return true, s.persist(ctx)
}

// Clear drops every task and removes the slot. It returns the number of
// tasks removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.tasks)
	s.tasks = nil
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.log.Logf("[WARN] could not delete slot %q: %v", s.key, err)
		return n, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.log.Logf("[DEBUG] cleared %d tasks from slot %q", n, s.key)
	return n, nil
}

func (s *Store) mutate(ctx context.Context, id string, fn func(*model.Task)) (model.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Logf("[DEBUG] task id=%s not found", id)
		return model.Task{}, false, nil
	}
	fn(&s.tasks[i])
	task := s.tasks[i]
	s.tasks = model.SortTasks(s.tasks)
	s.log.Logf("[DEBUG] updated task id=%s", id)
	return task, true, s.persist(ctx)
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool {
		return t.ID == id
	})
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context) error {
	data, err := encodeTasks(s.tasks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		s.log.Logf("[WARN] could not write slot %q: %v", s.key, err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
