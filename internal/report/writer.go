package report

import (
	"io"
	"time"

	"github.com/nao1215/coloringbook/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// WriteSummary outputs the outcome of a process or generate run.
	WriteSummary(summary model.SummarySnapshot) (int, error)

	// WriteManifest outputs an assembled book.
	WriteManifest(manifest *model.BookManifest) (int, error)

	// WriteBooks outputs a listing of recorded books.
	WriteBooks(books []BookRow) (int, error)
}

// BookRow is one line of the book history.
type BookRow struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Paper     string    `json:"paper"`
	PageCount int       `json:"page_count"`
	Seed      uint64    `json:"seed,omitempty"`
	OutputPDF string    `json:"output_pdf"`
}

// MultiWriter writes to multiple Writers, e.g. the terminal and a file.
// It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteSummary writes the summary to every writer.
func (m *MultiWriter) WriteSummary(summary model.SummarySnapshot) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSummary(summary) })
}

// WriteManifest writes the manifest to every writer.
func (m *MultiWriter) WriteManifest(manifest *model.BookManifest) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteManifest(manifest) })
}

// WriteBooks writes the listing to every writer.
func (m *MultiWriter) WriteBooks(books []BookRow) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteBooks(books) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// percent formats a 0..1 fraction.
func percent(f float64) string {
	return formatFloat(f*100, 1) + "%"
}

// elapsed rounds a duration for display.
func elapsed(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}
