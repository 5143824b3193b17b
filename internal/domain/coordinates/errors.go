package coordinates

import "errors"

// Sentinel kinds for coordinate errors.
var (
	ErrUnknownSystem     = errors.New("unknown coordinate system")
	ErrInvalidDimensions = errors.New("invalid pitch dimensions")
)
