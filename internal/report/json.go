package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/coloringbook/internal/model"
)

// JSONWriter outputs reports in JSON format for scripts.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	// version is stamped into summaries.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithVersion stamps the tool version into summaries.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONSummary wraps a run summary with output-only fields.
type JSONSummary struct {
	Version string `json:"version,omitempty"`
	model.SummarySnapshot
	Failed int `json:"failed"`
}

// WriteSummary outputs the run summary.
func (w *JSONWriter) WriteSummary(summary model.SummarySnapshot) (int, error) {
	return w.writeJSON(JSONSummary{Version: w.version, SummarySnapshot: summary, Failed: summary.Failed()})
}

// WriteManifest outputs the manifest as stored on disk.
func (w *JSONWriter) WriteManifest(manifest *model.BookManifest) (int, error) {
	return w.writeJSON(manifest)
}

// WriteBooks outputs the listing as an array; an empty listing is [].
func (w *JSONWriter) WriteBooks(books []BookRow) (int, error) {
	if books == nil {
		books = []BookRow{}
	}
	return w.writeJSON(books)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
