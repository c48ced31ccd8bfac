package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/coloringbook/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text for the terminal and run logs.
//
// Design decision: Plain ASCII without colors, so the same text can be
// appended to the run log file unchanged.
type SimpleWriter struct {
	baseWriter

	// verbose lists every exported page, not just the counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every page in summaries and manifests.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSummary outputs the run summary.
func (w *SimpleWriter) WriteSummary(s model.SummarySnapshot) (int, error) {
	var sb strings.Builder
	writeTitle(&sb, "SUMMARY: "+strings.ToUpper(s.Command))

	fmt.Fprintf(&sb, "  Generated: %d\n", s.Generated)
	if len(s.Models) > 0 {
		fmt.Fprintf(&sb, "  Models:    %s\n", strings.Join(s.Models, ", "))
	}
	fmt.Fprintf(&sb, "  Processed: %d\n", s.Processed)
	fmt.Fprintf(&sb, "  Failed:    %d\n", s.Failed())
	fmt.Fprintf(&sb, "  Elapsed:   %s\n\n", elapsed(s.Elapsed))

	if len(s.Skipped) > 0 {
		writeSection(&sb, "SKIPPED")
		for _, item := range s.Skipped {
			fmt.Fprintf(&sb, "  [x] %s (%s): %s\n", item.Name, item.Stage, item.Reason)
		}
		sb.WriteString("\n")
	}

	if len(s.Warnings) > 0 {
		writeSection(&sb, "WARNINGS")
		for _, warn := range s.Warnings {
			fmt.Fprintf(&sb, "  [!] %s: %s\n", warn.Name, warn.Message)
		}
		sb.WriteString("\n")
	}

	if w.verbose && len(s.Pages) > 0 {
		writeSection(&sb, "PAGES")
		for _, p := range s.Pages {
			fmt.Fprintf(&sb, "  [+] %s -> %s (ink %s)\n", p.Source, p.Path, percent(p.InkCoverage))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	return io.WriteString(w.output, sb.String())
}

// WriteManifest outputs a book manifest.
func (w *SimpleWriter) WriteManifest(m *model.BookManifest) (int, error) {
	var sb strings.Builder
	writeTitle(&sb, "BOOK")

	fmt.Fprintf(&sb, "  PDF:       %s\n", m.OutputPDF)
	fmt.Fprintf(&sb, "  Created:   %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "  Pages:     %d\n", m.PageCount)
	fmt.Fprintf(&sb, "  Paper:     %s at %d DPI (%dx%d px)\n", m.Paper, m.DPI, m.PageWidth, m.PageHeight)
	fmt.Fprintf(&sb, "  Bleed:     %s (%d px)\n", m.Bleed, m.BleedPx)
	if m.Shuffle {
		fmt.Fprintf(&sb, "  Shuffle:   seed %d\n", m.Seed)
	}
	fmt.Fprintf(&sb, "  Ink:       mean %s, stddev %s\n\n", percent(m.InkMean), percent(m.InkStdDev))

	if w.verbose {
		writeSection(&sb, "PAGES")
		for _, p := range m.Pages {
			fmt.Fprintf(&sb, "  %3d  %s\n", p.Position, p.Source)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	return io.WriteString(w.output, sb.String())
}

// WriteBooks outputs the book history.
func (w *SimpleWriter) WriteBooks(books []BookRow) (int, error) {
	if len(books) == 0 {
		return io.WriteString(w.output, "No books recorded yet.\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %-20s %-7s %-6s %s\n", "ID", "CREATED", "PAPER", "PAGES", "PDF")
	for _, b := range books {
		fmt.Fprintf(&sb, "%-6d %-20s %-7s %-6d %s\n",
			b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04:05"), b.Paper, b.PageCount, b.OutputPDF)
	}
	return io.WriteString(w.output, sb.String())
}

func writeTitle(sb *strings.Builder, title string) {
	sb.WriteString("\n" + strings.Repeat("=", ruleWidth) + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")
}

func writeSection(sb *strings.Builder, name string) {
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
	sb.WriteString(name + "\n")
	sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
}

func formatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}
