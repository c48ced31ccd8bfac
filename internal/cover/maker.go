package cover

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/generate"
)

// ImageSource produces background art from a prompt.
// *generate.Service satisfies it.
type ImageSource interface {
	GenerateImage(ctx context.Context, prompt, size, model string) ([]byte, string, error)
}

// Request describes one cover to make.
type Request struct {
	Options
	// Theme is passed to the background generator.
	Theme string
	// BackgroundPath uses an existing picture instead of generating one.
	BackgroundPath string
	// NoBackground renders on the plain canvas.
	NoBackground bool
	// Model and Size are passed to the generator.
	Model string
	Size  string
}

// Maker obtains a background, renders the cover and saves it.
type Maker struct {
	source ImageSource
	dir    string
	dpi    int
	logger *slog.Logger
}

// NewMaker creates a Maker saving covers into dir. source may be nil when
// covers are only made from files or without background.
func NewMaker(source ImageSource, dir string, dpi int, logger *slog.Logger) *Maker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Maker{source: source, dir: dir, dpi: dpi, logger: logger}
}

// OutputPath returns where the cover for title is saved.
func (m *Maker) OutputPath(title string) string {
	return filepath.Join(m.dir, generate.Slugify(title)+"-cover.png")
}

// Make renders and saves the cover, returning its path. A background that
// cannot be obtained is logged and replaced by the plain canvas.
func (m *Maker) Make(ctx context.Context, req Request) (string, error) {
	if err := req.Options.Validate(); err != nil {
		return "", err
	}

	bg, err := m.background(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		m.logger.Warn("background unavailable, using plain canvas", "error", err)
		bg = nil
	}

	img, err := Compose(bg, req.Options)
	if err != nil {
		return "", err
	}

	path := m.OutputPath(req.Title)
	if err := export.WriteFileAtomic(path, func(w io.Writer) error {
		return export.EncodePNG(w, img, m.dpi)
	}); err != nil {
		return "", fmt.Errorf("failed to save cover: %w", err)
	}
	m.logger.Info("cover written", "path", path)
	return path, nil
}

func (m *Maker) background(ctx context.Context, req Request) (image.Image, error) {
	switch {
	case req.NoBackground:
		return nil, nil
	case req.BackgroundPath != "":
		return imaging.Open(req.BackgroundPath, imaging.AutoOrientation(true))
	case m.source == nil:
		return nil, nil
	}

	theme := req.Theme
	if theme == "" {
		theme = req.Title
	}
	data, model, err := m.source.GenerateImage(ctx, BackgroundPrompt(theme, req.Style, req.Mode), req.Size, req.Model)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("cover background generated", "model", model, "bytes", len(data))
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode background: %w", err)
	}
	return img, nil
}
