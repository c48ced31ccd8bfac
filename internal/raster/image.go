package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Depth describes the value range of an Image.
type Depth int

const (
	// DepthGray means any value in [0, 255].
	DepthGray Depth = iota
	// DepthBinary means every pixel is either Black or White.
	DepthBinary
)

// String returns a human-readable depth name.
func (d Depth) String() string {
	switch d {
	case DepthGray:
		return "gray"
	case DepthBinary:
		return "binary"
	default:
		return "unknown"
	}
}

const (
	// Black is the ink value of a binary image.
	Black uint8 = 0
	// White is the paper value of a binary image.
	White uint8 = 255
)

// Image is an 8-bit grayscale raster. The origin of Gray is always (0, 0).
type Image struct {
	Gray  *image.Gray
	Depth Depth
}

// New returns a white image of the given size.
func New(width, height int) *Image {
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := range g.Pix {
		g.Pix[i] = White
	}
	return &Image{Gray: g, Depth: DepthGray}
}

// FromImage converts any image.Image to grayscale using BT.601 weights.
// Transparent pixels are composited onto white first, so a PNG with an alpha
// channel does not turn into a black page.
func FromImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has zero area", ErrInvalidInput)
	}

	if g, ok := src.(*image.Gray); ok {
		dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return &Image{Gray: dst, Depth: DepthGray}, nil
	}

	// Flatten onto white, then reduce.
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, b.Min, draw.Over)

	dst := image.NewGray(flat.Bounds())
	for y := 0; y < b.Dy(); y++ {
		row := flat.Pix[y*flat.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4:]
			out[x] = Luminance(p[0], p[1], p[2])
		}
	}
	return &Image{Gray: dst, Depth: DepthGray}, nil
}

// Luminance returns the BT.601 luma of an 8-bit RGB triple.
func Luminance(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.Gray.Rect.Dx() }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.Gray.Rect.Dy() }

// At returns the value of the pixel at (x, y).
func (img *Image) At(x, y int) uint8 {
	return img.Gray.Pix[y*img.Gray.Stride+x]
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	g := image.NewGray(img.Gray.Rect)
	copy(g.Pix, img.Gray.Pix)
	return &Image{Gray: g, Depth: img.Depth}
}

// IsBinary reports whether every pixel is Black or White, regardless of the
// recorded Depth.
func (img *Image) IsBinary() bool {
	for _, v := range img.Gray.Pix {
		if v != Black && v != White {
			return false
		}
	}
	return true
}

func (img *Image) empty() bool {
	return img == nil || img.Gray == nil || img.Gray.Rect.Empty()
}

func checkNonEmpty(img *Image) error {
	if img.empty() {
		return fmt.Errorf("%w: image has zero area", ErrInvalidInput)
	}
	return nil
}
