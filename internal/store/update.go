package store

import (
	"time"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

// Update is a field-specific change applied by Patch.
type Update interface {
	apply(t *models.Todo)
}

// StatusUpdate sets the status. CompletedAt, when non-nil, replaces the
// completion timestamp; a nil CompletedAt leaves the existing one untouched.
type StatusUpdate struct {
	Status      models.TodoStatus
	CompletedAt *time.Time
}

func (u StatusUpdate) apply(t *models.Todo) {
	t.Status = u.Status
	if u.CompletedAt != nil {
		completed := *u.CompletedAt
		t.CompletedAt = &completed
	}
}

// DetailsUpdate changes the descriptive fields. Nil fields are left as is.
type DetailsUpdate struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
}

// Empty reports whether u would change nothing.
func (u DetailsUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil && !u.ClearDueDate
}

func (u DetailsUpdate) apply(t *models.Todo) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	switch {
	case u.ClearDueDate:
		t.DueDate = nil
	case u.DueDate != nil:
		due := *u.DueDate
		t.DueDate = &due
	}
}
