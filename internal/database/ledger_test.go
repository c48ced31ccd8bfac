package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/coloringbook/internal/model"
)

// setupTestLedger creates a temporary ledger for testing.
func setupTestLedger(t *testing.T) *Ledger {
	t.Helper()

	l, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func samplePage(path string, created time.Time) *model.ExportedPage {
	return &model.ExportedPage{
		Path:        path,
		Source:      filepath.Base(path) + ".src.png",
		Width:       2550,
		Height:      3300,
		DPI:         300,
		Digest:      "abc123",
		InkCoverage: 0.125,
		CreatedAt:   created,
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		l, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open ledger: %v", err)
		}
		defer l.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if l.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("Path() = %q", l.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Open() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("reopens an existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		l, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if err := l.RecordPage(context.Background(), samplePage("/out/a_coloring.png", time.Now())); err != nil {
			t.Fatal(err)
		}
		_ = l.Close()

		l, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer l.Close()
		if _, err := l.GetPage(context.Background(), "/out/a_coloring.png"); err != nil {
			t.Errorf("GetPage() after reopen error = %v", err)
		}
	})
}

func TestRecordPage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLedger(t)
	created := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	page := samplePage("/out/cat_coloring.png", created)
	if err := l.RecordPage(ctx, page); err != nil {
		t.Fatalf("RecordPage() error = %v", err)
	}

	got, err := l.GetPage(ctx, page.Path)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if got.Path != page.Path || got.Source != page.Source || got.Width != page.Width ||
		got.Height != page.Height || got.DPI != page.DPI || got.Digest != page.Digest ||
		got.InkCoverage != page.InkCoverage || !got.CreatedAt.Equal(page.CreatedAt) {
		t.Errorf("GetPage() = %+v, want %+v", got, page)
	}

	t.Run("re-export replaces the row", func(t *testing.T) {
		updated := *page
		updated.Digest = "def456"
		if err := l.RecordPage(ctx, &updated); err != nil {
			t.Fatal(err)
		}
		pages, err := l.ListPages(ctx, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(pages) != 1 || pages[0].Digest != "def456" {
			t.Errorf("ListPages() = %+v, want one updated page", pages)
		}
	})

	t.Run("missing page", func(t *testing.T) {
		if _, err := l.GetPage(ctx, "/nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPage() error = %v, want ErrNotFound", err)
		}
	})
}

func TestListPagesAndDigest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLedger(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c"} {
		p := samplePage("/out/"+name+"_coloring.png", base.Add(time.Duration(i)*time.Minute))
		if name == "c" {
			p.Digest = "unique"
		}
		if err := l.RecordPage(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	pages, err := l.ListPages(ctx, 2)
	if err != nil {
		t.Fatalf("ListPages() error = %v", err)
	}
	if len(pages) != 2 || pages[0].Path != "/out/c_coloring.png" || pages[1].Path != "/out/b_coloring.png" {
		t.Errorf("ListPages(2) = %v, want c then b", pages)
	}

	dups, err := l.PagesByDigest(ctx, "abc123")
	if err != nil {
		t.Fatalf("PagesByDigest() error = %v", err)
	}
	if len(dups) != 2 {
		t.Errorf("PagesByDigest() returned %d pages, want 2", len(dups))
	}
}

func TestRecordPageConcurrently(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLedger(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := samplePage(filepath.Join("/out", string(rune('a'+i))+"_coloring.png"), time.Now())
			errs <- l.RecordPage(ctx, p)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("RecordPage() error = %v", err)
		}
	}

	pages, err := l.ListPages(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 20 {
		t.Errorf("ListPages() returned %d pages, want 20", len(pages))
	}
}

func TestBooks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := setupTestLedger(t)

	first := &model.BookManifest{
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Paper:     "letter",
		DPI:       300,
		Bleed:     "none",
		PageCount: 30,
		OutputPDF: "exports/book-letter-20250101_100000.pdf",
		Pages:     []model.ManifestPage{{Position: 1, Source: "a_coloring.png", Path: "output/a_coloring.png"}},
	}
	second := &model.BookManifest{
		CreatedAt: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		Paper:     "a4",
		DPI:       300,
		Bleed:     "3mm",
		Shuffle:   true,
		Seed:      1<<63 + 5,
		PageCount: 40,
		OutputPDF: "exports/book-a4-20250102_100000.pdf",
	}

	firstID, err := l.RecordBook(ctx, first)
	if err != nil {
		t.Fatalf("RecordBook() error = %v", err)
	}
	if _, err := l.RecordBook(ctx, second); err != nil {
		t.Fatalf("RecordBook() error = %v", err)
	}

	books, err := l.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks() error = %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("ListBooks() returned %d books, want 2", len(books))
	}
	if books[0].Paper != "a4" || books[0].Seed != second.Seed {
		t.Errorf("newest book = %+v, want a4 with seed %d", books[0], second.Seed)
	}
	if !books[1].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", books[1].CreatedAt, first.CreatedAt)
	}

	m, err := l.GetBookManifest(ctx, firstID)
	if err != nil {
		t.Fatalf("GetBookManifest() error = %v", err)
	}
	if m.OutputPDF != first.OutputPDF || len(m.Pages) != 1 || m.Pages[0].Source != "a_coloring.png" {
		t.Errorf("GetBookManifest() = %+v", m)
	}

	if _, err := l.GetBookManifest(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBookManifest(999) error = %v, want ErrNotFound", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-02T03:04:05.123456789Z", time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)},
		{"2025-01-02 03:04:05", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"garbage", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := parseTimestamp(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
