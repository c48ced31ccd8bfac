package book

import "errors"

var (
	// ErrInvalidCount is returned when the page count is outside MinPages..MaxPages.
	ErrInvalidCount = errors.New("invalid page count")

	// ErrInsufficientPages is returned when the pool holds fewer pages than requested.
	ErrInsufficientPages = errors.New("not enough pages in pool")

	// ErrInvalidBleed is returned for an unparsable bleed or one too large for the page.
	ErrInvalidBleed = errors.New("invalid bleed")

	// ErrInvalidPaper is returned for an unknown paper name.
	ErrInvalidPaper = errors.New("invalid paper size")

	// ErrEmptyPool is returned when the pool directory holds no pages at all.
	ErrEmptyPool = errors.New("page pool is empty")

	// ErrInvalidDPI is returned for a non-positive resolution.
	ErrInvalidDPI = errors.New("invalid DPI")
)
