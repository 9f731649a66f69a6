package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	position       INTEGER NOT NULL,
	id             INTEGER PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL,
	status         TEXT NOT NULL,
	created_date   TEXT NOT NULL,
	due_date       TEXT,
	completed_date TEXT
);
`

// SQLite mirrors the collection into a single todos table so it can be
// queried with plain SQL.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the mirror database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// SQLite works best with a single writer; it also keeps :memory: on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Name() string {
	return "sqlite:" + s.path
}

// Write replaces the table contents with todos in one transaction.
func (s *SQLite) Write(ctx context.Context, todos []models.Todo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("failed to clear todos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO todos (position, id, title, description, status, created_date, due_date, completed_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range todos {
		_, err := stmt.ExecContext(ctx,
			i, t.ID, t.Title, t.Description, string(t.Status),
			formatTime(t.CreatedAt), formatOptionalTime(t.DueDate), formatOptionalTime(t.CompletedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert todo %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mirror: %w", err)
	}
	return nil
}

// List reads the mirrored todos back in collection order.
func (s *SQLite) List(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, status, created_date, due_date, completed_date
		FROM todos
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		var (
			t         models.Todo
			status    string
			created   string
			due       sql.NullString
			completed sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &status, &created, &due, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		t.Status = models.TodoStatus(status)
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("failed to parse created_date: %w", err)
		}
		if t.DueDate, err = parseOptionalTime(due); err != nil {
			return nil, fmt.Errorf("failed to parse due_date: %w", err)
		}
		if t.CompletedAt, err = parseOptionalTime(completed); err != nil {
			return nil, fmt.Errorf("failed to parse completed_date: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return todos, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseOptionalTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
