// Package seed provides the initial dashboard records and loads
// replacements from TOML, YAML or JSON files.
package seed

import (
	"time"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// Defaults returns the eight records the dashboard starts with: three
// completed, two in progress and three pending.
func Defaults() []models.Todo {
	return []models.Todo{
		{
			ID:          1,
			Title:       "Complete project documentation",
			Description: "Write comprehensive documentation for the todo dashboard",
			Status:      models.TodoStatusInProgress,
			CreatedAt:   day("2024-01-10"),
			DueDate:     dayPtr("2024-01-20"),
		},
		{
			ID:          2,
			Title:       "Review pull requests",
			Description: "Review and merge pending pull requests",
			Status:      models.TodoStatusPending,
			CreatedAt:   day("2024-01-12"),
			DueDate:     dayPtr("2024-01-18"),
		},
		{
			ID:          3,
			Title:       "Update dependencies",
			Description: "Update Go modules and other third-party packages",
			Status:      models.TodoStatusCompleted,
			CreatedAt:   day("2024-01-08"),
			DueDate:     dayPtr("2024-01-15"),
			CompletedAt: dayPtr("2024-01-14"),
		},
		{
			ID:          4,
			Title:       "Fix bug in login module",
			Description: "Resolve authentication issues",
			Status:      models.TodoStatusCompleted,
			CreatedAt:   day("2024-01-05"),
			DueDate:     dayPtr("2024-01-12"),
			CompletedAt: dayPtr("2024-01-11"),
		},
		{
			ID:          5,
			Title:       "Implement dashboard charts",
			Description: "Add visualization charts for todo statistics",
			Status:      models.TodoStatusInProgress,
			CreatedAt:   day("2024-01-13"),
			DueDate:     dayPtr("2024-01-22"),
		},
		{
			ID:          6,
			Title:       "Write unit tests",
			Description: "Increase test coverage to 80%",
			Status:      models.TodoStatusPending,
			CreatedAt:   day("2024-01-14"),
			DueDate:     dayPtr("2024-01-25"),
		},
		{
			ID:          7,
			Title:       "Setup CI/CD pipeline",
			Description: "Configure automated deployment",
			Status:      models.TodoStatusPending,
			CreatedAt:   day("2024-01-15"),
			DueDate:     dayPtr("2024-01-30"),
		},
		{
			ID:          8,
			Title:       "Optimize performance",
			Description: "Improve application load time",
			Status:      models.TodoStatusCompleted,
			CreatedAt:   day("2024-01-06"),
			DueDate:     dayPtr("2024-01-10"),
			CompletedAt: dayPtr("2024-01-09"),
		},
	}
}
