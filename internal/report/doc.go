// Package report renders run summaries, book manifests and the book history.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal and the run log
//   - JSONWriter: structured JSON for scripts
//   - MarkdownWriter: Markdown for sharing alongside a finished book
//
// Design decision: Rendering is kept apart from the data (model package) so a
// new format never touches the structures the pipeline fills in.
package report
