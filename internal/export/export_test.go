package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nick-dorsch/todoboard/internal/seed"
	"github.com/nick-dorsch/todoboard/internal/store"
	"github.com/nick-dorsch/todoboard/internal/todo"
)

var fixedNow = time.Date(2024, 1, 19, 12, 0, 0, 0, time.UTC)

func newExporter() *Exporter {
	clock := func() time.Time { return fixedNow }
	svc := todo.NewService(store.New(seed.Defaults()...), log.New(io.Discard), todo.WithClock(clock))
	return NewExporter(svc, clock)
}

func TestExportJSON(t *testing.T) {
	data, err := newExporter().Export("json")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("Failed to unmarshal report: %v", err)
	}
	if report.Stats.Total != 8 || report.CompletionRate != 38 {
		t.Errorf("Unexpected report stats: %+v rate %d", report.Stats, report.CompletionRate)
	}
	if len(report.Todos) != 8 {
		t.Errorf("Expected 8 todos, got %d", len(report.Todos))
	}
	if !report.GeneratedAt.Equal(fixedNow) {
		t.Errorf("Expected GeneratedAt %v, got %v", fixedNow, report.GeneratedAt)
	}
}

func TestExportCSV(t *testing.T) {
	data, err := newExporter().Export("CSV")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse csv: %v", err)
	}
	if len(records) != 9 {
		t.Fatalf("Expected header + 8 rows, got %d", len(records))
	}
	// Todo 2 is the only overdue record at fixedNow.
	row := records[2]
	if row[0] != "2" || row[7] != "true" {
		t.Errorf("Expected todo 2 to be overdue, got %v", row)
	}
	if records[1][6] != "" {
		t.Errorf("Expected empty completed_date for todo 1, got %q", records[1][6])
	}
}

func TestExportPDF(t *testing.T) {
	data, err := newExporter().Export("pdf")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("Expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if _, err := newExporter().Export("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(nil, "N/A"); got != "N/A" {
		t.Errorf("Expected placeholder, got %s", got)
	}
	d := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(&d, "N/A"); got != "2024-01-20" {
		t.Errorf("Expected 2024-01-20, got %s", got)
	}
}
