package export

import "errors"

var (
	// ErrWriteFailure wraps any I/O failure while publishing a file.
	// The temporary file is always removed before it is returned.
	ErrWriteFailure = errors.New("write failure")

	// ErrInvalidInput is returned when a page does not match the configured
	// canvas or the DPI is not positive.
	ErrInvalidInput = errors.New("invalid export input")

	// ErrNoDPI is returned by ReadDPI when a PNG has no pHYs chunk in metres.
	ErrNoDPI = errors.New("png has no physical resolution")
)
