// Package database provides the SQLite ledger of coloringbook.
//
// The ledger records:
//   - every exported page with its digest, size, resolution and ink coverage
//   - every assembled book with its full manifest as JSON
//
// It lets the history command list past books and reprint their manifests
// long after the log files are gone.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the ledger
// is a single file under the XDG data directory and the CGO-free driver keeps
// cross-compilation simple. WAL mode lets a history query run while a batch
// is still recording pages.
package database
