package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/model"
)

// TimestampLayout names output files, e.g. book-letter-20250102_150405.pdf.
const TimestampLayout = "20060102_150405"

// CountAll asks for every page in the pool.
const CountAll = 0

// Request describes one book to assemble.
type Request struct {
	// Count is the number of pages; CountAll uses the whole pool.
	Count   int
	Paper   string
	Bleed   Bleed
	DPI     int
	Shuffle bool
	// Seed drives the shuffle; 0 draws a random one.
	Seed uint64
	// OutputPath overrides the default exports/book-<paper>-<ts>.pdf.
	OutputPath string
}

// Validate checks the page count, paper and bleed geometry. It touches no
// files, so callers can run it before creating any output.
func (r Request) Validate() error {
	_, _, err := r.layout()
	return err
}

func (r Request) layout() (Paper, Layout, error) {
	if r.Count != CountAll {
		if err := ValidateCount(r.Count); err != nil {
			return Paper{}, Layout{}, err
		}
	}
	paper, err := ParsePaper(r.Paper)
	if err != nil {
		return Paper{}, Layout{}, err
	}
	layout, err := NewLayout(paper, r.Bleed, r.DPI)
	if err != nil {
		return Paper{}, Layout{}, err
	}
	return paper, layout, nil
}

// BookRecorder stores assembled books, e.g. in the ledger.
type BookRecorder interface {
	RecordBook(ctx context.Context, m *model.BookManifest) (int64, error)
}

// Assembler builds books from a page pool.
type Assembler struct {
	poolDir    string
	exportsDir string
	logsDir    string
	workers    int
	logger     *slog.Logger
	recorder   BookRecorder
	now        func() time.Time
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithAssemblerLogger sets the logger.
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithWorkers bounds parallel page composition.
func WithWorkers(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithRecorder stores every assembled book.
func WithRecorder(r BookRecorder) AssemblerOption {
	return func(a *Assembler) {
		a.recorder = r
	}
}

// WithAssemblerClock replaces time.Now for file names and manifests.
func WithAssemblerClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates an assembler reading pages from poolDir, writing PDFs
// to exportsDir and manifests to logsDir.
func NewAssembler(poolDir, exportsDir, logsDir string, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		poolDir:    poolDir,
		exportsDir: exportsDir,
		logsDir:    logsDir,
		workers:    4,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble validates req, selects and composes the pages, and writes the PDF
// and its manifest. No file is written when validation, selection or
// composition fails.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*model.BookManifest, error) {
	paper, layout, err := req.layout()
	if err != nil {
		return nil, err
	}

	pool, err := Snapshot(a.poolDir)
	if err != nil {
		return nil, err
	}
	count := req.Count
	if count == CountAll {
		if pool.Len() == 0 {
			return nil, fmt.Errorf("%w: %w", ErrInsufficientPages, ErrEmptyPool)
		}
		count = pool.Len()
		if err := ValidateCount(count); err != nil {
			return nil, fmt.Errorf("pool of %d pages: %w", count, err)
		}
	}

	names, seed, err := Select(pool.Names, count, req.Shuffle, req.Seed)
	if err != nil {
		return nil, err
	}
	a.logger.Info("assembling book", "pages", len(names), "pool", pool.Len(), "paper", paper.Name,
		"dpi", layout.DPI, "bleed", req.Bleed.String(), "shuffle", req.Shuffle)

	pages, err := ComposeAll(ctx, pool, names, layout, a.workers)
	if err != nil {
		return nil, err
	}

	now := a.now()
	stamp := now.Format(TimestampLayout)
	pdfPath := req.OutputPath
	if pdfPath == "" {
		pdfPath = filepath.Join(a.exportsDir, fmt.Sprintf("book-%s-%s.pdf", paper.Name, stamp))
	}

	title := fmt.Sprintf("Coloring book (%d pages)", len(pages))
	if err := export.WriteFileAtomic(pdfPath, func(w io.Writer) error {
		return WritePDF(w, pages, layout, title)
	}); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	manifest := a.manifest(req, layout, paper, pool, pages, seed, pdfPath, now)
	manifestPath := filepath.Join(a.logsDir, fmt.Sprintf("export-%s.json", stamp))
	if err := WriteManifest(manifestPath, manifest); err != nil {
		// A book without its manifest cannot be rebuilt or audited.
		if rmErr := os.Remove(pdfPath); rmErr != nil {
			a.logger.Warn("failed to remove PDF without manifest", "pdf", pdfPath, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	a.logger.Info("book written", "pdf", pdfPath, "manifest", manifestPath)

	if a.recorder != nil {
		if id, err := a.recorder.RecordBook(ctx, manifest); err != nil {
			a.logger.Warn("failed to record book in ledger", "error", err)
		} else {
			a.logger.Debug("book recorded", "id", id)
		}
	}
	return manifest, nil
}

func (a *Assembler) manifest(req Request, layout Layout, paper Paper, pool *Pool, pages []ComposedPage, seed uint64, pdfPath string, now time.Time) *model.BookManifest {
	mean, stddev := InkStats(pages)
	m := &model.BookManifest{
		CreatedAt:      now.UTC(),
		Paper:          paper.Name,
		DPI:            layout.DPI,
		Bleed:          req.Bleed.String(),
		BleedPx:        layout.BleedPx,
		PageWidth:      layout.PageWidth(),
		PageHeight:     layout.PageHeight(),
		Shuffle:        req.Shuffle,
		Seed:           seed,
		RequestedCount: req.Count,
		PageCount:      len(pages),
		OutputPDF:      pdfPath,
		InkMean:        mean,
		InkStdDev:      stddev,
		Pages:          make([]model.ManifestPage, len(pages)),
	}
	for i, p := range pages {
		m.Pages[i] = model.ManifestPage{
			Position:    i + 1,
			Source:      p.Name,
			Path:        pool.Path(p.Name),
			InkCoverage: p.InkCoverage,
		}
	}
	return m
}
