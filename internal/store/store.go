// Package store owns the in-memory todo collection and broadcasts a full
// snapshot of it to subscribers after every mutation.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

// Listener receives a full copy of the collection.
type Listener func(todos []models.Todo)

type subscription struct {
	id       uuid.UUID
	listener Listener
}

type Store struct {
	mu    sync.RWMutex
	todos []models.Todo

	// notifyMu serializes mutate+broadcast so listeners observe snapshots
	// in mutation order. Listeners run without mu held and may read.
	notifyMu sync.Mutex

	subsMu sync.RWMutex
	subs   []subscription
}

// New returns a store holding a copy of seed in the given order.
func New(seed ...models.Todo) *Store {
	s := &Store{todos: make([]models.Todo, 0, len(seed))}
	for _, t := range seed {
		s.todos = append(s.todos, t.Clone())
	}
	return s
}

// List returns the current collection in insertion order.
func (s *Store) List() []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns the todo with the given id.
func (s *Store) Get(id int64) (models.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.todos[i].Clone(), true
	}
	return models.Todo{}, false
}

// MaxID returns the largest id in the collection, or 0 when it is empty.
func (s *Store) MaxID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max int64
	for _, t := range s.todos {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// Len returns the number of todos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

// FilterByStatus returns the todos with the given status without notifying.
func (s *Store) FilterByStatus(status models.TodoStatus) []models.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.Todo, 0)
	for _, t := range s.todos {
		if t.Status == status {
			filtered = append(filtered, t.Clone())
		}
	}
	return filtered
}

// Insert appends t and notifies subscribers.
func (s *Store) Insert(t models.Todo) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.todos = append(s.todos, t.Clone())
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(snapshot)
}

// Patch applies u to the todo with the given id. Subscribers are notified
// only when the todo exists.
func (s *Store) Patch(id int64, u Update) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	u.apply(&s.todos[i])
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(snapshot)
	return true
}

// Remove deletes the todo with the given id and reports whether it existed.
// Subscribers are notified either way.
func (s *Store) Remove(id int64) bool {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	kept := s.todos[:0:0]
	removed := false
	for _, t := range s.todos {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.todos = kept
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.broadcast(snapshot)
	return removed
}

// Subscribe registers fn and immediately delivers the current collection to
// it. The returned func removes the subscription; calling it twice is safe.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := uuid.New()
	s.subsMu.Lock()
	s.subs = append(s.subs, subscription{id: id, listener: fn})
	s.subsMu.Unlock()

	fn(s.List())

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	return len(s.subs)
}

func (s *Store) unsubscribe(id uuid.UUID) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *Store) broadcast(snapshot []models.Todo) {
	s.subsMu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	for i, sub := range subs {
		// Every listener gets its own copy.
		if i == len(subs)-1 {
			sub.listener(snapshot)
			continue
		}
		sub.listener(cloneAll(snapshot))
	}
}

func (s *Store) indexLocked(id int64) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []models.Todo {
	return cloneAll(s.todos)
}

func cloneAll(todos []models.Todo) []models.Todo {
	out := make([]models.Todo, len(todos))
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out
}
