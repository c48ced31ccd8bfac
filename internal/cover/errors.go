package cover

import "errors"

var (
	// ErrEmptyTitle is returned when no title is given.
	ErrEmptyTitle = errors.New("cover title is empty")

	// ErrInvalidStyle is returned for an unknown cover style.
	ErrInvalidStyle = errors.New("invalid cover style")

	// ErrInvalidMode is returned for a mode other than light or dark.
	ErrInvalidMode = errors.New("invalid cover mode")
)
