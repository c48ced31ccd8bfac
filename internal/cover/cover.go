package cover

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/coloringbook/internal/raster"
)

// Canvas and typography constants, in pixels.
const (
	Width  = 2560
	Height = 1600

	// bandHeight is the translucent band over the top 35% of the canvas.
	bandHeight = Height * 35 / 100

	titleMaxSize  = 140
	titleMinSize  = 64
	titleSizeStep = 6
	// titleMaxWidth is the widest the title may be, 88% of the canvas.
	titleMaxWidth = Width * 88 / 100
	// titleTop is the space above the title, 10% of the height.
	titleTop = Height / 10

	subtitleMinSize = 48
	subtitleRatio   = 0.4
	subtitleGap     = 20

	brandSize   = 50
	brandBottom = 40
)

// Options describes the text and look of a cover.
type Options struct {
	Title    string
	Subtitle string
	Brand    string
	Style    string
	Mode     Mode
}

// Validate checks the options and normalizes Style.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return ErrEmptyTitle
	}
	style, err := ParseStyle(o.Style)
	if err != nil {
		return err
	}
	o.Style = style
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

// BrandLine is the footer text, e.g. "Playful · Coloring Explorers".
func (o Options) BrandLine() string {
	style := cases.Title(language.English).String(o.Style)
	if o.Brand == "" {
		return style
	}
	return style + " · " + o.Brand
}

// Compose renders a Width x Height cover. bg may be nil for a plain canvas.
func Compose(bg image.Image, opts Options) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pal := opts.Mode.palette()

	canvas := imaging.New(Width, Height, pal.canvas)
	if bg != nil && !bg.Bounds().Empty() {
		canvas = imaging.PasteCenter(canvas, fitBackground(bg))
	}

	band := image.Rect(0, 0, Width, bandHeight)
	draw.Draw(canvas, band, image.NewUniform(pal.band), image.Point{}, draw.Over)

	titleSize := fitSize(boldFont, opts.Title, titleMaxSize, titleMinSize, titleSizeStep, titleMaxWidth)
	top := titleTop
	title, err := drawCentered(canvas, boldFont, titleSize, opts.Title, top, pal.text, pal.shadow, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to draw title: %w", err)
	}

	if opts.Subtitle != "" {
		size := max(subtitleMinSize, subtitleRatio*titleSize)
		if _, err := drawCentered(canvas, regularFont, size, opts.Subtitle, top+title.height+subtitleGap, pal.text, pal.shadow, 1); err != nil {
			return nil, fmt.Errorf("failed to draw subtitle: %w", err)
		}
	}

	line := opts.BrandLine()
	brandTop := Height - measure(regularFont, brandSize, line).height - brandBottom
	if _, err := drawCentered(canvas, regularFont, brandSize, line, brandTop, pal.text, pal.shadow, 1); err != nil {
		return nil, fmt.Errorf("failed to draw brand: %w", err)
	}
	return canvas, nil
}

// fitBackground scales bg to fit inside the canvas, keeping its aspect ratio.
func fitBackground(bg image.Image) image.Image {
	b := bg.Bounds()
	w, h := raster.FitSize(b.Dx(), b.Dy(), Width, Height)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), bg, b, xdraw.Src, nil)
	return dst
}
