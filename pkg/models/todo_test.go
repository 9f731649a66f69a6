package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseTodoStatus(t *testing.T) {
	cases := map[string]TodoStatus{
		"pending":     TodoStatusPending,
		"in_progress": TodoStatusInProgress,
		"In Progress": TodoStatusInProgress,
		"in-progress": TodoStatusInProgress,
		"COMPLETED":   TodoStatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseTodoStatus(in)
		if err != nil {
			t.Errorf("ParseTodoStatus(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTodoStatus(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseTodoStatus("archived"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("Expected ErrUnknownStatus, got %v", err)
	}
}

func TestTodoStatusLabel(t *testing.T) {
	if TodoStatusInProgress.Label() != "In Progress" {
		t.Errorf("Expected In Progress, got %s", TodoStatusInProgress.Label())
	}
	if TodoStatus("archived").Label() != "archived" {
		t.Errorf("Expected unknown status to be returned verbatim")
	}
}

func TestTodoStatusNext(t *testing.T) {
	s := TodoStatusPending
	for _, want := range []TodoStatus{TodoStatusInProgress, TodoStatusCompleted, TodoStatusPending} {
		s = s.Next()
		if s != want {
			t.Fatalf("Expected %s, got %s", want, s)
		}
	}
}

func TestTodoClone(t *testing.T) {
	due := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	orig := Todo{ID: 1, Title: "a", DueDate: &due}

	c := orig.Clone()
	*c.DueDate = c.DueDate.Add(time.Hour)

	if !orig.DueDate.Equal(due) {
		t.Errorf("Clone shares DueDate with original")
	}
	if c.CompletedAt != nil {
		t.Errorf("Expected nil CompletedAt in clone")
	}
}
