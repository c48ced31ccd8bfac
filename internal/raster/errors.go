package raster

import "errors"

var (
	// ErrInvalidInput is returned when an image has no pixels or a parameter
	// is out of range (threshold, radius, target size).
	ErrInvalidInput = errors.New("invalid input")

	// ErrBlankImage is returned by Trim when every pixel is near-white.
	// It is a warning: the untouched copy returned alongside it is usable.
	ErrBlankImage = errors.New("blank image: no content above the near-white tolerance")

	// ErrUnsupportedFormat is returned by Load for files no registered decoder
	// understands.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
