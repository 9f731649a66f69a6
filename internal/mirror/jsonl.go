package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

// JSONL writes one todo per line, replacing the file atomically through a
// temporary file in the same directory.
type JSONL struct {
	Path string
}

func NewJSONL(path string) *JSONL {
	return &JSONL{Path: path}
}

func (j *JSONL) Name() string {
	return "jsonl:" + j.Path
}

func (j *JSONL) Write(ctx context.Context, todos []models.Todo) error {
	dir := filepath.Dir(j.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create mirror directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "todos-*.jsonl")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	enc := json.NewEncoder(tempFile)
	for _, t := range todos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("failed to write mirror line: %w", err)
		}
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil

	if err := os.Rename(filename, j.Path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (j *JSONL) Close() error {
	return nil
}
