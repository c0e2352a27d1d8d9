package interpolate

import (
	"errors"
)

var (
	// ErrInvalidArgument is returned for mismatched slice lengths and other
	// malformed parameters.
	ErrInvalidArgument = errors.New("interpolate: invalid argument")
	// ErrDomain is returned for non-finite, unsorted or duplicate
	// coordinates and values, and for appended coordinates which do not
	// exceed the current maximum.
	ErrDomain = errors.New("interpolate: domain error")
	// ErrOutOfRange is returned by queries outside the fitted domain when
	// the extrapolation mode is Fail.
	ErrOutOfRange = errors.New("interpolate: coordinate out of range")
	// ErrNotInitialized is returned by queries on an interpolator without
	// any points.
	ErrNotInitialized = errors.New("interpolate: interpolator has no points")
	// ErrCorrupt is returned when a binary stream cannot be decoded.
	ErrCorrupt = errors.New("interpolate: corrupt stream")
)
