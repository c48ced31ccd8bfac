package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/coloringbook/internal/model"
)

// MarkdownWriter outputs reports in Markdown, for sharing next to a book.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteSummary outputs the run summary.
func (w *MarkdownWriter) WriteSummary(s model.SummarySnapshot) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run Summary: " + s.Command)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", elapsed(s.Elapsed)},
			{"Generated", strconv.Itoa(s.Generated)},
			{"Processed", strconv.Itoa(s.Processed)},
			{"Failed", strconv.Itoa(s.Failed())},
		},
	})
	md.PlainText("")

	if len(s.Models) > 0 {
		md.H2("Models")
		md.PlainText("")
		md.BulletList(s.Models...)
		md.PlainText("")
	}

	if s.Processed > 0 && s.Failed() > 0 {
		writeOutcomeChart(md, s)
	}

	switch {
	case s.Failed() > 0:
		md.Warningf("%d item(s) were skipped. See the table below and the run log.", s.Failed())
	case len(s.Warnings) > 0:
		md.Note("All items were processed, with warnings.")
	default:
		md.Tip("All items were processed.")
	}
	md.PlainText("")

	if len(s.Skipped) > 0 {
		md.H2("Skipped")
		md.PlainText("")
		rows := make([][]string, len(s.Skipped))
		for i, item := range s.Skipped {
			rows[i] = []string{item.Name, item.Stage, truncateString(item.Reason, 80)}
		}
		md.Table(markdown.TableSet{Header: []string{"Item", "Stage", "Reason"}, Rows: rows})
		md.PlainText("")
	}

	if len(s.Warnings) > 0 {
		md.H2("Warnings")
		md.PlainText("")
		items := make([]string, len(s.Warnings))
		for i, warn := range s.Warnings {
			items[i] = "`" + warn.Name + "`: " + warn.Message
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if len(s.Pages) > 0 {
		md.H2("Pages")
		md.PlainText("")
		rows := make([][]string, len(s.Pages))
		for i, p := range s.Pages {
			rows[i] = []string{p.Source, p.Path, percent(p.InkCoverage)}
		}
		md.Table(markdown.TableSet{Header: []string{"Source", "Page", "Ink"}, Rows: rows})
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func writeOutcomeChart(md *markdown.Markdown, s model.SummarySnapshot) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outcome"),
		piechart.WithShowData(true),
	)
	chart.LabelAndIntValue("Processed", uint64(s.Processed)) //nolint:gosec // counts are non-negative
	chart.LabelAndIntValue("Skipped", uint64(s.Failed()))    //nolint:gosec // counts are non-negative

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteManifest outputs a book manifest.
func (w *MarkdownWriter) WriteManifest(m *model.BookManifest) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Coloring Book")
	md.PlainText("")

	rows := [][]string{
		{"PDF", "`" + m.OutputPDF + "`"},
		{"Created", m.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		{"Pages", strconv.Itoa(m.PageCount)},
		{"Paper", m.Paper},
		{"DPI", strconv.Itoa(m.DPI)},
		{"Bleed", m.Bleed + " (" + strconv.Itoa(m.BleedPx) + " px)"},
		{"Page size", strconv.Itoa(m.PageWidth) + " x " + strconv.Itoa(m.PageHeight) + " px"},
		{"Ink coverage", "mean " + percent(m.InkMean) + ", stddev " + percent(m.InkStdDev)},
	}
	if m.Shuffle {
		rows = append(rows, []string{"Shuffle seed", strconv.FormatUint(m.Seed, 10)})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	md.H2("Page Order")
	md.PlainText("")
	pageRows := make([][]string, len(m.Pages))
	for i, p := range m.Pages {
		pageRows[i] = []string{strconv.Itoa(p.Position), p.Source, percent(p.InkCoverage)}
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Source", "Ink"}, Rows: pageRows})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WriteBooks outputs the book history.
func (w *MarkdownWriter) WriteBooks(books []BookRow) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Books")
	md.PlainText("")
	if len(books) == 0 {
		md.PlainText("No books recorded yet.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(books))
	for i, b := range books {
		rows[i] = []string{
			strconv.FormatInt(b.ID, 10),
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.Paper,
			strconv.Itoa(b.PageCount),
			"`" + b.OutputPDF + "`",
		}
	}
	md.Table(markdown.TableSet{Header: []string{"ID", "Created", "Paper", "Pages", "PDF"}, Rows: rows})
	return len(md.String()), md.Build()
}

// truncateString truncates a string to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
