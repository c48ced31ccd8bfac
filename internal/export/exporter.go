package export

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/coloringbook/internal/model"
	"github.com/nao1215/coloringbook/internal/raster"
)

// PageSuffix is appended to the input stem to form the pool file name.
const PageSuffix = "_coloring.png"

// Exporter writes finished pages into one output directory.
// It is safe for concurrent use; distinct sources map to distinct files.
type Exporter struct {
	dir    string
	width  int
	height int
	dpi    int
	now    func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter creates an Exporter for pages of exactly width x height pixels.
func NewExporter(dir string, width, height, dpi int, opts ...Option) *Exporter {
	e := &Exporter{
		dir:    dir,
		width:  width,
		height: height,
		dpi:    dpi,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Export encodes img and publishes it as <stem>_coloring.png.
// An existing page with the same name is replaced atomically.
func (e *Exporter) Export(img *raster.Image, source string) (*model.ExportedPage, error) {
	if img == nil || img.Gray == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	if img.Width() != e.width || img.Height() != e.height {
		return nil, fmt.Errorf("%w: page is %dx%d, canvas is %dx%d",
			ErrInvalidInput, img.Width(), img.Height(), e.width, e.height)
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img.Gray, e.dpi); err != nil {
		return nil, err
	}
	digest := sha3.Sum256(buf.Bytes())

	path := filepath.Join(e.dir, OutputName(source))
	if err := WriteBytesAtomic(path, buf.Bytes()); err != nil {
		return nil, err
	}

	return &model.ExportedPage{
		Path:        path,
		Source:      filepath.Base(source),
		Width:       img.Width(),
		Height:      img.Height(),
		DPI:         e.dpi,
		Digest:      hex.EncodeToString(digest[:]),
		InkCoverage: raster.InkCoverage(img),
		CreatedAt:   e.now(),
	}, nil
}

// OutputName maps an input file name to its pool file name.
func OutputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + PageSuffix
}
