package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type TodoStatus string

const (
	TodoStatusPending    TodoStatus = "pending"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

var ErrUnknownStatus = errors.New("unknown todo status")

// Statuses lists the recognized statuses in dashboard order.
var Statuses = []TodoStatus{
	TodoStatusPending,
	TodoStatusInProgress,
	TodoStatusCompleted,
}

// Label returns the human readable form of the status. Unknown statuses are
// returned verbatim.
func (s TodoStatus) Label() string {
	switch s {
	case TodoStatusCompleted:
		return "Completed"
	case TodoStatusInProgress:
		return "In Progress"
	case TodoStatusPending:
		return "Pending"
	default:
		return string(s)
	}
}

func (s TodoStatus) Known() bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s in the pending -> in_progress ->
// completed cycle.
func (s TodoStatus) Next() TodoStatus {
	switch s {
	case TodoStatusPending:
		return TodoStatusInProgress
	case TodoStatusInProgress:
		return TodoStatusCompleted
	default:
		return TodoStatusPending
	}
}

// ParseTodoStatus accepts wire values and labels, ignoring case.
func ParseTodoStatus(s string) (TodoStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	status := TodoStatus(normalized)
	if !status.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdDate"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedDate,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Todo) Clone() Todo {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		c.CompletedAt = &completed
	}
	return c
}

// Draft is the caller supplied part of a new todo. Ids and completion
// timestamps are assigned by the service.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TodoStatus `json:"status,omitempty"`
	CreatedAt   time.Time  `json:"createdDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
}
