package config

import (
	"errors"
	"fmt"

	"github.com/nao1215/coloringbook/internal/raster"
)

// Configuration validation errors.
// These errors are returned by Validate and allow callers to use errors.Is
// for programmatic handling while still providing human-readable messages.
//
// Design decision: The transform errors wrap raster.ErrInvalidInput so a
// bad threshold is reported the same way whether it is caught while loading
// the configuration or by the transform itself.
var (
	// ErrInvalidThreshold is returned when the binarization threshold is outside [0,255].
	ErrInvalidThreshold = fmt.Errorf("%w: threshold must be within [0,255]", raster.ErrInvalidInput)

	// ErrInvalidThickenRadius is returned when the thicken radius is negative.
	ErrInvalidThickenRadius = fmt.Errorf("%w: thicken radius must be non-negative", raster.ErrInvalidInput)

	// ErrInvalidTrimOrder is returned for a trim order other than before or after.
	ErrInvalidTrimOrder = fmt.Errorf("%w: trim order must be %q or %q", raster.ErrInvalidInput, TrimBefore, TrimAfter)

	// ErrInvalidTargetSize is returned when the page canvas is not positive in both dimensions.
	ErrInvalidTargetSize = fmt.Errorf("%w: target width and height must be positive", raster.ErrInvalidInput)

	// ErrInvalidDPI is returned when a DPI value is not positive.
	ErrInvalidDPI = fmt.Errorf("%w: dpi must be positive", raster.ErrInvalidInput)

	// ErrInvalidSize is returned when a WIDTHxHEIGHT string cannot be parsed.
	ErrInvalidSize = errors.New("invalid size: expected WIDTHxHEIGHT, e.g. 2550x3300")

	// ErrEmptyDirectory is returned when one of the project directories is empty.
	ErrEmptyDirectory = errors.New("invalid directory: path must not be empty")

	// ErrInvalidConcurrency is returned when a concurrency limit is negative.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")

	// ErrInvalidGenerateCount is returned when the number of images to generate is not positive.
	ErrInvalidGenerateCount = errors.New("invalid generate count: must be positive")

	// ErrInvalidAttempts is returned when the generation retry budget is not positive.
	ErrInvalidAttempts = errors.New("invalid attempts: must be at least 1")

	// ErrInvalidRateLimit is returned when the request rate is negative.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrInvalidCoverMode is returned when the cover background mode is not light or dark.
	ErrInvalidCoverMode = errors.New("invalid cover mode: must be \"light\" or \"dark\"")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
