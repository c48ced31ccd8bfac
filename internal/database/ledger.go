package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/coloringbook/internal/model"
)

// FileName is the ledger file inside the database directory.
const FileName = "coloringbook.db"

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Ledger provides SQLite-based storage for exported pages and assembled books.
// It is safe for concurrent use: the pool holds a single connection, so
// writes from parallel workers are serialized.
type Ledger struct {
	db     *sql.DB
	dbPath string
}

// Options configures Ledger behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the ledger in dbDir.
func Open(dbDir string, opts Options) (*Ledger, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("ledger not found at %s: %w", dbPath, ErrNotFound)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		mode = "rw"
	}

	db, err := sql.Open("sqlite", dbPath+"?mode="+mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	l := &Ledger{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := l.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return l, nil
}

// Path returns the database file path.
func (l *Ledger) Path() string { return l.dbPath }

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createTables() error {
	schema := `
	-- One row per page file; re-exporting a page replaces its row.
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		dpi INTEGER NOT NULL,
		digest TEXT NOT NULL,
		ink_coverage REAL NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pages_digest ON pages(digest);
	CREATE INDEX IF NOT EXISTS idx_pages_created ON pages(created_at);

	CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		paper TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		seed INTEGER NOT NULL DEFAULT 0,
		output_pdf TEXT NOT NULL,
		manifest_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_books_created ON books(created_at);
	`
	_, err := l.db.ExecContext(context.Background(), schema)
	return err
}

// RecordPage inserts or replaces the ledger row of an exported page.
func (l *Ledger) RecordPage(ctx context.Context, page *model.ExportedPage) error {
	query := `
	INSERT INTO pages (path, source, width, height, dpi, digest, ink_coverage, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		source = excluded.source,
		width = excluded.width,
		height = excluded.height,
		dpi = excluded.dpi,
		digest = excluded.digest,
		ink_coverage = excluded.ink_coverage,
		created_at = excluded.created_at
	`
	_, err := l.db.ExecContext(ctx, query,
		page.Path,
		page.Source,
		page.Width,
		page.Height,
		page.DPI,
		page.Digest,
		page.InkCoverage,
		page.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record page: %w", err)
	}
	return nil
}

// GetPage returns the ledger row of the page at path.
func (l *Ledger) GetPage(ctx context.Context, path string) (*model.ExportedPage, error) {
	query := `
	SELECT path, source, width, height, dpi, digest, ink_coverage, created_at
	FROM pages WHERE path = ?
	`
	page, err := scanPage(l.db.QueryRowContext(ctx, query, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

// PagesByDigest returns every recorded page with the given content digest,
// which finds duplicate pages exported under different names.
func (l *Ledger) PagesByDigest(ctx context.Context, digest string) ([]*model.ExportedPage, error) {
	query := `
	SELECT path, source, width, height, dpi, digest, ink_coverage, created_at
	FROM pages WHERE digest = ? ORDER BY path
	`
	return l.queryPages(ctx, query, digest)
}

// ListPages returns the most recently exported pages first. limit <= 0
// returns all of them.
func (l *Ledger) ListPages(ctx context.Context, limit int) ([]*model.ExportedPage, error) {
	query := `
	SELECT path, source, width, height, dpi, digest, ink_coverage, created_at
	FROM pages ORDER BY created_at DESC, path
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return l.queryPages(ctx, query, args...)
}

func (l *Ledger) queryPages(ctx context.Context, query string, args ...any) ([]*model.ExportedPage, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []*model.ExportedPage
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPage(s scanner) (*model.ExportedPage, error) {
	var page model.ExportedPage
	var created string
	if err := s.Scan(&page.Path, &page.Source, &page.Width, &page.Height, &page.DPI,
		&page.Digest, &page.InkCoverage, &created); err != nil {
		return nil, err
	}
	page.CreatedAt = parseTimestamp(created)
	return &page, nil
}

// BookRecord is the summary row of an assembled book, used for listings
// without loading the full manifest.
type BookRecord struct {
	ID        int64
	CreatedAt time.Time
	Paper     string
	PageCount int
	Seed      uint64
	OutputPDF string
}

// RecordBook stores an assembled book and returns its ledger ID.
func (l *Ledger) RecordBook(ctx context.Context, m *model.BookManifest) (int64, error) {
	manifestJSON, err := json.Marshal(m)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize manifest: %w", err)
	}

	query := `
	INSERT INTO books (created_at, paper, page_count, seed, output_pdf, manifest_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := l.db.ExecContext(ctx, query,
		m.CreatedAt.UTC().Format(timeLayout),
		m.Paper,
		m.PageCount,
		// SQLite integers are signed; the bit pattern round-trips.
		int64(m.Seed), //nolint:gosec // stored bit-for-bit
		m.OutputPDF,
		string(manifestJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record book: %w", err)
	}
	return result.LastInsertId()
}

// ListBooks returns recorded books, newest first.
func (l *Ledger) ListBooks(ctx context.Context) ([]BookRecord, error) {
	query := `
	SELECT id, created_at, paper, page_count, seed, output_pdf
	FROM books ORDER BY created_at DESC, id DESC
	`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []BookRecord
	for rows.Next() {
		var b BookRecord
		var created string
		var seed int64
		if err := rows.Scan(&b.ID, &created, &b.Paper, &b.PageCount, &seed, &b.OutputPDF); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		b.CreatedAt = parseTimestamp(created)
		b.Seed = uint64(seed) //nolint:gosec // stored bit-for-bit
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetBookManifest returns the stored manifest of book id.
func (l *Ledger) GetBookManifest(ctx context.Context, id int64) (*model.BookManifest, error) {
	var manifestJSON string
	err := l.db.QueryRowContext(ctx, `SELECT manifest_json FROM books WHERE id = ?`, id).Scan(&manifestJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	var m model.BookManifest
	if err := json.Unmarshal([]byte(manifestJSON), &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite CURRENT_TIMESTAMP
	"2006-01-02T15:04:05",
}

// parseTimestamp tries each known format and returns the zero time if none
// matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
