// Package export renders the dashboard as a json, csv or pdf report.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nick-dorsch/todoboard/pkg/models"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Source is the read side of the todo service.
type Source interface {
	List() []models.Todo
	Stats() models.Stats
	CompletionRate() int
	IsOverdue(t models.Todo) bool
}

type Report struct {
	GeneratedAt    time.Time     `json:"generatedAt"`
	Stats          models.Stats  `json:"stats"`
	CompletionRate int           `json:"completionRate"`
	Todos          []models.Todo `json:"todos"`
}

type Exporter struct {
	src Source
	now func() time.Time
}

func NewExporter(src Source, now func() time.Time) *Exporter {
	if now == nil {
		now = time.Now
	}
	return &Exporter{src: src, now: now}
}

// Formats lists the accepted format names.
func Formats() []string {
	return []string{"json", "csv", "pdf"}
}

func (e *Exporter) Export(format string) ([]byte, error) {
	report := Report{
		GeneratedAt:    e.now(),
		Stats:          e.src.Stats(),
		CompletionRate: e.src.CompletionRate(),
		Todos:          e.src.List(),
	}

	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(report, "", "  ")
	case "csv":
		return e.csv(report)
	case "pdf":
		return e.pdf(report)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func (e *Exporter) csv(report Report) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "title", "description", "status", "created_date", "due_date", "completed_date", "overdue"})
	for _, t := range report.Todos {
		_ = w.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Description,
			string(t.Status),
			t.CreatedAt.Format(time.DateOnly),
			FormatDate(t.DueDate, ""),
			FormatDate(t.CompletedAt, ""),
			strconv.FormatBool(e.src.IsOverdue(t)),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (e *Exporter) pdf(report Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Todo Dashboard", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Todo Dashboard Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	s := report.Stats
	pdf.MultiCell(0, 6, fmt.Sprintf("Generated %s", report.GeneratedAt.Format(time.DateTime)), "0", "L", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Total %d | Completed %d | In Progress %d | Pending %d | Completion %d%%",
		s.Total, s.Completed, s.InProgress, s.Pending, report.CompletionRate), "0", "L", false)
	pdf.Ln(4)

	for _, t := range report.Todos {
		line := fmt.Sprintf("#%d [%s] %s (due %s)", t.ID, t.Status.Label(), t.Title, FormatDate(t.DueDate, "N/A"))
		if e.src.IsOverdue(t) {
			line += " OVERDUE"
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 6, line, "0", "L", false)
		if t.Description != "" {
			pdf.SetFont("Arial", "", 9)
			pdf.MultiCell(0, 5, t.Description, "0", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatDate renders t as a calendar date, or placeholder when t is nil.
func FormatDate(t *time.Time, placeholder string) string {
	if t == nil {
		return placeholder
	}
	return t.Format(time.DateOnly)
}
