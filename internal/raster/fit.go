package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Fit scales img uniformly so it fits inside targetW x targetH and centers it
// on a white canvas of exactly that size. Scaling uses nearest-neighbour
// sampling so a binary image stays binary.
//
// The content offset is ((targetW-w)/2, (targetH-h)/2) with integer division,
// so any odd leftover pixel goes to the right and bottom margins.
func Fit(img *Image, targetW, targetH int) (*Image, error) {
	if err := checkNonEmpty(img); err != nil {
		return nil, err
	}
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d must be positive", ErrInvalidInput, targetW, targetH)
	}

	w, h := FitSize(img.Width(), img.Height(), targetW, targetH)

	var content *image.Gray
	if w == img.Width() && h == img.Height() {
		content = img.Gray
	} else {
		content = grayFromNRGBA(imaging.Resize(img.Gray, w, h, imaging.NearestNeighbor))
	}

	out := New(targetW, targetH)
	out.Depth = img.Depth
	offX := (targetW - w) / 2
	offY := (targetH - h) / 2
	for y := 0; y < h; y++ {
		dst := out.Gray.Pix[(offY+y)*out.Gray.Stride+offX:]
		copy(dst[:w], content.Pix[y*content.Stride:y*content.Stride+w])
	}
	return out, nil
}

// FitSize returns the size of a srcW x srcH box scaled by
// min(targetW/srcW, targetH/srcH), rounded and clamped to [1, target].
func FitSize(srcW, srcH, targetW, targetH int) (int, int) {
	scale := math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	w := clamp(int(math.Round(float64(srcW)*scale)), 1, targetW)
	h := clamp(int(math.Round(float64(srcH)*scale)), 1, targetH)
	return w, h
}

// Pad surrounds img with px white pixels on every side.
func Pad(img *Image, px int) (*Image, error) {
	if err := checkNonEmpty(img); err != nil {
		return nil, err
	}
	if px < 0 {
		return nil, fmt.Errorf("%w: negative padding %d", ErrInvalidInput, px)
	}
	if px == 0 {
		return img.Clone(), nil
	}

	w := img.Width()
	out := New(w+2*px, img.Height()+2*px)
	out.Depth = img.Depth
	for y := 0; y < img.Height(); y++ {
		dst := out.Gray.Pix[(px+y)*out.Gray.Stride+px:]
		copy(dst[:w], img.Gray.Pix[y*img.Gray.Stride:y*img.Gray.Stride+w])
	}
	return out, nil
}

// grayFromNRGBA keeps the red channel. imaging always returns NRGBA, and a
// gray source resampled with nearest neighbour has R == G == B.
func grayFromNRGBA(src *image.NRGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			out[x] = row[x*4]
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
