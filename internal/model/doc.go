// Package model defines the data that flows between the coloring-book stages.
//
// This package contains the following main types:
//   - PageJob: per-item state carried through the transform pipeline
//   - ExportedPage: a finished coloring page in the output pool
//   - BookManifest: the record of one assembled book
//   - RunSummary: a concurrency-safe accumulator shared by every item of a run
//
// Design decision: The models live in their own package so that pipeline,
// book, database and report can all use them without import cycles. Every
// exported struct is JSON-serializable because manifests and ledger rows are
// stored as JSON.
package model
