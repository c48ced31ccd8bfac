package book

import (
	"bytes"
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/raster"
)

// Layout is the pixel geometry of one book page.
type Layout struct {
	// TrimWidth and TrimHeight are the paper size without bleed.
	TrimWidth  int
	TrimHeight int
	// BleedPx is added on every side.
	BleedPx int
	DPI     int
}

// NewLayout computes the layout of paper at dpi with bleed, validating the
// bleed against the page size.
func NewLayout(paper Paper, bleed Bleed, dpi int) (Layout, error) {
	if dpi <= 0 {
		return Layout{}, fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}
	w, h := paper.Pixels(dpi)
	if err := bleed.Validate(w, h, dpi); err != nil {
		return Layout{}, err
	}
	return Layout{TrimWidth: w, TrimHeight: h, BleedPx: bleed.Pixels(dpi), DPI: dpi}, nil
}

// PageWidth returns the full page width including bleed.
func (l Layout) PageWidth() int { return l.TrimWidth + 2*l.BleedPx }

// PageHeight returns the full page height including bleed.
func (l Layout) PageHeight() int { return l.TrimHeight + 2*l.BleedPx }

// ComposedPage is one page ready for the PDF writer.
type ComposedPage struct {
	Name string
	// PNG is the encoded page, PageWidth x PageHeight.
	PNG         []byte
	InkCoverage float64
}

// Compose fits one pool image to the trim size and surrounds it with the
// bleed margin.
func Compose(path string, layout Layout) (*raster.Image, error) {
	img, err := raster.Load(path)
	if err != nil {
		return nil, err
	}
	fitted, err := raster.Fit(img, layout.TrimWidth, layout.TrimHeight)
	if err != nil {
		return nil, err
	}
	return raster.Pad(fitted, layout.BleedPx)
}

// ComposeAll composes every selected page with at most workers in flight.
// Results keep the order of names. The first failure cancels the rest.
func ComposeAll(ctx context.Context, pool *Pool, names []string, layout Layout, workers int) ([]ComposedPage, error) {
	pages := make([]ComposedPage, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Compose(pool.Path(name), layout)
			if err != nil {
				return fmt.Errorf("page %d (%s): %w", i+1, name, err)
			}
			var buf bytes.Buffer
			if err := export.EncodePNG(&buf, img.Gray, layout.DPI); err != nil {
				return fmt.Errorf("page %d (%s): %w", i+1, name, err)
			}
			pages[i] = ComposedPage{Name: name, PNG: buf.Bytes(), InkCoverage: raster.InkCoverage(img)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
