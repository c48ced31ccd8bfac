package cover

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts are embedded so the cover renders the same on every machine.
var (
	boldFont    = mustParse(gobold.TTF)
	regularFont = mustParse(goregular.TTF)
)

func mustParse(ttf []byte) *truetype.Font {
	f, err := freetype.ParseFont(ttf)
	if err != nil {
		panic(fmt.Sprintf("cover: embedded font: %v", err))
	}
	return f
}

// textBox is the measured size of a line of text at a font size.
type textBox struct {
	width  int
	height int
	ascent int
}

// measure returns the rendered size of s at size points (72 DPI, so points
// equal pixels).
func measure(f *truetype.Font, size float64, s string) textBox {
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	m := face.Metrics()
	return textBox{
		width:  font.MeasureString(face, s).Ceil(),
		height: (m.Ascent + m.Descent).Ceil(),
		ascent: m.Ascent.Ceil(),
	}
}

// fitSize returns the largest size from start down to floor, in steps of
// step, at which s is no wider than maxWidth. It returns floor when even that
// is too wide.
func fitSize(f *truetype.Font, s string, start, floor, step float64, maxWidth int) float64 {
	for size := start; size > floor; size -= step {
		if measure(f, size, s).width <= maxWidth {
			return size
		}
	}
	return floor
}

// drawCentered draws s horizontally centered with its top edge at top,
// first in shadow color at the offset, then in fg. It returns the box drawn.
func drawCentered(dst draw.Image, f *truetype.Font, size float64, s string, top int, fg, shadow color.Color, offset int) (textBox, error) {
	box := measure(f, size, s)
	x := (dst.Bounds().Dx() - box.width) / 2
	baseline := top + box.ascent

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetHinting(font.HintingNone)

	if offset > 0 {
		c.SetSrc(image.NewUniform(shadow))
		if _, err := c.DrawString(s, freetype.Pt(x+offset, baseline+offset)); err != nil {
			return box, err
		}
	}
	c.SetSrc(image.NewUniform(fg))
	if _, err := c.DrawString(s, freetype.Pt(x, baseline)); err != nil {
		return box, err
	}
	return box, nil
}
