package config

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimOrder places the margin trimmer relative to binarization.
type TrimOrder string

const (
	// TrimBefore trims the source picture, so the fit uses the whole canvas
	// for the subject.
	TrimBefore TrimOrder = "before"
	// TrimAfter trims the binarized line art, which ignores faint noise
	// that binarization removes.
	TrimAfter TrimOrder = "after"
)

// Default transform values. 2550x3300 is US Letter at 300 DPI.
const (
	DefaultThreshold     = 160
	DefaultThickenRadius = 2
	DefaultTargetWidth   = 2550
	DefaultTargetHeight  = 3300
	DefaultDPI           = 300
)

// Transform holds the parameters of the per-image transform pipeline.
// It is validated once before any image is touched.
type Transform struct {
	// Threshold is the binarization luminance cut-off in [0,255].
	// Pixels at or below it become ink.
	Threshold int

	// ThickenRadius is the square dilation radius in pixels; 0 disables thickening.
	ThickenRadius int

	// TrimMargins enables cropping of near-white margins.
	TrimMargins bool

	// TrimOrder decides whether trimming happens before or after binarization.
	TrimOrder TrimOrder

	// DetectEdges runs an edge filter before binarization. Useful for
	// photographs, harmful for line art that is already clean.
	DetectEdges bool

	// TargetWidth and TargetHeight are the exact output canvas size in pixels.
	TargetWidth  int
	TargetHeight int

	// DPI is written into every exported page.
	DPI int
}

// DefaultTransform returns the transform defaults.
func DefaultTransform() Transform {
	return Transform{
		Threshold:     DefaultThreshold,
		ThickenRadius: DefaultThickenRadius,
		TrimMargins:   false,
		TrimOrder:     TrimBefore,
		TargetWidth:   DefaultTargetWidth,
		TargetHeight:  DefaultTargetHeight,
		DPI:           DefaultDPI,
	}
}

// Validate checks every transform parameter and returns the first problem.
func (t Transform) Validate() error {
	if t.Threshold < 0 || t.Threshold > 255 {
		return ErrInvalidThreshold
	}
	if t.ThickenRadius < 0 {
		return ErrInvalidThickenRadius
	}
	if t.TrimOrder != TrimBefore && t.TrimOrder != TrimAfter {
		return ErrInvalidTrimOrder
	}
	if t.TargetWidth <= 0 || t.TargetHeight <= 0 {
		return ErrInvalidTargetSize
	}
	if t.DPI <= 0 {
		return ErrInvalidDPI
	}
	return nil
}

// ParseSize parses "WIDTHxHEIGHT" (case-insensitive x) into positive integers.
func ParseSize(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return w, h, nil
}
