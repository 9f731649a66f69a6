package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nick-dorsch/todoboard/internal/export"
	"github.com/nick-dorsch/todoboard/internal/mirror"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func stubMenu(t *testing.T, selected string) {
	t.Helper()
	original := runMenu
	t.Cleanup(func() {
		runMenu = original
	})
	runMenu = func() (string, error) {
		return selected, nil
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	_, err := run(t, "frobnicate")
	if !errors.Is(err, errUnknownCommand) {
		t.Fatalf("expected errUnknownCommand, got %v", err)
	}
}

func TestExecuteRoutesMenuSelection(t *testing.T) {
	stubMenu(t, "stats")

	output, err := run(t)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(output, "Completion Rate: 38%") {
		t.Errorf("expected stats output, got: %s", output)
	}
}

func TestExecuteMenuQuit(t *testing.T) {
	stubMenu(t, "")

	output, err := run(t)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if output != "" {
		t.Errorf("expected no output when the menu is quit, got: %s", output)
	}
}

func TestList(t *testing.T) {
	output, err := run(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"TITLE", "Review pull requests", "Optimize performance", "In Progress"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestListByStatus(t *testing.T) {
	output, err := run(t, "list", "-status", "completed")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(output, "Update dependencies") {
		t.Errorf("output missing completed todo: %s", output)
	}
	if strings.Contains(output, "Review pull requests") {
		t.Errorf("output contains pending todo: %s", output)
	}

	if _, err := run(t, "list", "-status", "blocked"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStats(t *testing.T) {
	output, err := run(t, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Total:           8", "Completed:     3", "In Progress:   2", "Pending:       3", "Completion Rate: 38%"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestExportToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.json")

	output, err := run(t, "export", "-format", "json", "-out", out)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if output != "" {
		t.Errorf("expected nothing on stdout, got: %s", output)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var report export.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if len(report.Todos) != 8 || report.CompletionRate != 38 {
		t.Errorf("unexpected report: %d todos, rate %d", len(report.Todos), report.CompletionRate)
	}
}

func TestExportCSVToStdout(t *testing.T) {
	output, err := run(t, "export", "-format", "csv")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 9 {
		t.Errorf("expected header and 8 rows, got %d lines", len(lines))
	}

	if _, err := run(t, "export", "-format", "xml"); !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSeedFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	content := `
[[todos]]
title = "Only one"
status = "completed"
createdDate = "2024-03-01"
completedDate = "2024-03-02"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}

	output, err := run(t, "-seed", path, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(output, "Total:           1") || !strings.Contains(output, "Completion Rate: 100%") {
		t.Errorf("expected stats for the seed file, got: %s", output)
	}

	if _, err := run(t, "-seed", filepath.Join(t.TempDir(), "missing.toml"), "stats"); err == nil {
		t.Error("expected error for a missing seed file")
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	mirrorPath := filepath.Join(dir, "todos.jsonl")
	cfgPath := filepath.Join(dir, "config.toml")
	content := "env = \"dev\"\n\n[mirror]\njsonl = \"" + filepath.ToSlash(mirrorPath) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := run(t, "-config", cfgPath, "stats"); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if _, err := os.Stat(mirrorPath); err != nil {
		t.Errorf("expected mirror configured in the file to be written: %v", err)
	}

	if _, err := run(t, "-config", filepath.Join(dir, "missing.toml"), "stats"); err == nil {
		t.Error("expected error for a missing config file")
	}
}

func TestMirrorFlags(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "todos.jsonl")
	sqlitePath := filepath.Join(dir, "todos.db")

	if _, err := run(t, "-mirror-jsonl", jsonlPath, "-mirror-sqlite", sqlitePath, "list"); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	f, err := os.Open(jsonlPath)
	if err != nil {
		t.Fatalf("failed to open jsonl mirror: %v", err)
	}
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	if lines != 8 {
		t.Errorf("expected 8 jsonl lines, got %d", lines)
	}

	ctx := context.Background()
	db, err := mirror.OpenSQLite(ctx, sqlitePath)
	if err != nil {
		t.Fatalf("failed to open sqlite mirror: %v", err)
	}
	defer db.Close()
	todos, err := db.List(ctx)
	if err != nil {
		t.Fatalf("failed to list sqlite mirror: %v", err)
	}
	if len(todos) != 8 {
		t.Errorf("expected 8 mirrored todos, got %d", len(todos))
	}
}

func TestWebStopsWhenContextIsDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	if err := execute(ctx, []string{"web", "-port", "0"}, &stdout, &stderr); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
}
