// Package todo layers id assignment, completion timestamps and derived
// statistics over the in-memory store.
package todo

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/pkg/models"
)

// ErrNotFound is returned by mutations addressed to a missing todo. The
// mutation itself is a no-op, so callers may ignore it.
var ErrNotFound = errors.New("todo not found")

type Service struct {
	store  *store.Store
	logger *log.Logger
	now    func() time.Time

	// addMu keeps "compute next id, insert" atomic.
	addMu sync.Mutex
}

type Option func(*Service)

// WithClock overrides time.Now for completion timestamps and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(st *store.Store, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTask assigns the next id to draft, inserts it and returns the stored
// todo. Drafts that are already completed get a completion timestamp.
func (s *Service) AddTask(draft models.Draft) models.Todo {
	s.addMu.Lock()
	defer s.addMu.Unlock()

	now := s.now()
	t := models.Todo{
		ID:          s.store.MaxID() + 1,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		CreatedAt:   draft.CreatedAt,
	}
	if t.Status == "" {
		t.Status = models.TodoStatusPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		t.DueDate = &due
	}
	if t.Status == models.TodoStatusCompleted {
		t.CompletedAt = &now
	}

	s.store.Insert(t)
	s.logger.Info("created todo", "todo_id", t.ID, "status", t.Status)
	return t.Clone()
}

// SetStatus changes the status of a todo. Moving to completed stamps the
// completion time; moving away from completed keeps the old stamp.
func (s *Service) SetStatus(id int64, status models.TodoStatus) error {
	u := store.StatusUpdate{Status: status}
	if status == models.TodoStatusCompleted {
		now := s.now()
		u.CompletedAt = &now
	}

	if !s.store.Patch(id, u) {
		s.logger.Warn("todo not found", "todo_id", id)
		return ErrNotFound
	}
	s.logger.Info("updated todo status", "todo_id", id, "status", status)
	return nil
}

// UpdateDetails patches title, description and due date.
func (s *Service) UpdateDetails(id int64, u store.DetailsUpdate) error {
	if u.Empty() {
		if _, ok := s.store.Get(id); !ok {
			return ErrNotFound
		}
		s.logger.Debug("no fields to update", "todo_id", id)
		return nil
	}

	if !s.store.Patch(id, u) {
		s.logger.Warn("todo not found", "todo_id", id)
		return ErrNotFound
	}
	s.logger.Info("updated todo", "todo_id", id)
	return nil
}

// RemoveTask deletes a todo. Subscribers are notified even when the id is
// unknown, in which case ErrNotFound is returned.
func (s *Service) RemoveTask(id int64) error {
	if !s.store.Remove(id) {
		s.logger.Warn("todo not found", "todo_id", id)
		return ErrNotFound
	}
	s.logger.Info("deleted todo", "todo_id", id)
	return nil
}

func (s *Service) List() []models.Todo {
	return s.store.List()
}

func (s *Service) Get(id int64) (models.Todo, bool) {
	return s.store.Get(id)
}

func (s *Service) FilterByStatus(status models.TodoStatus) []models.Todo {
	return s.store.FilterByStatus(status)
}

func (s *Service) Subscribe(fn store.Listener) func() {
	return s.store.Subscribe(fn)
}

func (s *Service) Watch(ctx context.Context) <-chan []models.Todo {
	return s.store.Watch(ctx)
}

// Stats counts todos per status. Todos with an unrecognized status are part
// of Total but of none of the buckets.
func (s *Service) Stats() models.Stats {
	return ComputeStats(s.store.List())
}

// CompletionRate returns the completed share as a rounded percentage, or 0
// for an empty collection.
func (s *Service) CompletionRate() int {
	return CompletionRate(s.Stats())
}

// IsOverdue reports whether t has a due date in the past and is not done.
func (s *Service) IsOverdue(t models.Todo) bool {
	return IsOverdue(t, s.now())
}

// Overdue returns the overdue todos in collection order.
func (s *Service) Overdue() []models.Todo {
	now := s.now()
	overdue := make([]models.Todo, 0)
	for _, t := range s.store.List() {
		if IsOverdue(t, now) {
			overdue = append(overdue, t)
		}
	}
	return overdue
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

func ComputeStats(todos []models.Todo) models.Stats {
	stats := models.Stats{Total: len(todos)}
	for _, t := range todos {
		switch t.Status {
		case models.TodoStatusCompleted:
			stats.Completed++
		case models.TodoStatusInProgress:
			stats.InProgress++
		case models.TodoStatusPending:
			stats.Pending++
		}
	}
	return stats
}

func CompletionRate(stats models.Stats) int {
	if stats.Total == 0 {
		return 0
	}
	return int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
}

func IsOverdue(t models.Todo, now time.Time) bool {
	if t.DueDate == nil || t.Status == models.TodoStatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}
