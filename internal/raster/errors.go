package raster

import "errors"

var (
	// ErrInvalidBounds is returned when crop bounds do not intersect the raster extent.
	ErrInvalidBounds = errors.New("bounds do not intersect raster extent")

	// ErrInvalidScale is returned for a non-positive or non-finite resample factor.
	ErrInvalidScale = errors.New("scale factor must be a positive finite number")

	// ErrMissingDependency is returned when a file needs a backend that is not
	// compiled into this binary.
	ErrMissingDependency = errors.New("missing optional dependency")

	ErrShapeMismatch     = errors.New("band shapes do not match")
	ErrInvalidBand       = errors.New("band index out of range")
	ErrInvalidBins       = errors.New("bin count must be positive")
	ErrUnsupportedFormat = errors.New("unsupported raster format")
)
