package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

// Lister is the part of the task service the exporter needs.
type Lister interface {
	List(ctx context.Context) ([]model.Task, error)
}

type Exporter struct{ tasks Lister }

func NewExporter(tasks Lister) *Exporter { return &Exporter{tasks: tasks} }

// ErrUnknownFormat is returned for anything other than json, csv or pdf.
type ErrUnknownFormat string

func (e ErrUnknownFormat) Error() string { return fmt.Sprintf("unknown format %s", string(e)) }

// Export renders every task and returns the body with its content type.
func (e *Exporter) Export(ctx context.Context, format string) ([]byte, string, error) {
	format = strings.ToLower(format)
	switch format {
	case "json", "csv", "pdf":
	default:
		return nil, "", ErrUnknownFormat(format)
	}

	all, err := e.tasks.List(ctx)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case "json":
		b, err := json.MarshalIndent(all, "", "  ")
		return b, "application/json", err
	case "csv":
		b, err := exportCSV(all)
		return b, "text/csv", err
	default:
		b, err := exportPDF(all)
		return b, "application/pdf", err
	}
}

func exportCSV(all []model.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "title", "completed", "created_at"})
	for _, t := range all {
		completed := "0"
		if t.Completed {
			completed = "1"
		}
		_ = w.Write([]string{strconv.FormatInt(t.ID, 10), t.Title, completed, t.CreatedAt.UTC().Format(time.RFC3339)})
	}
	w.Flush()
	return b.Bytes(), w.Error()
}

func exportPDF(all []model.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Todo list")
	pdf.Ln(12)

	completed := 0
	for _, t := range all {
		if t.Completed {
			completed++
		}
	}
	stats := model.NewStats(len(all), completed)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Total: %d  Active: %d  Completed: %d", stats.Total, stats.Active, stats.Completed), "0", "L", false)
	pdf.Ln(2)
	for _, t := range all {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		line := fmt.Sprintf("%s #%d %s (%s)", box, t.ID, t.Title, t.CreatedAt.UTC().Format("02.01.2006"))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
