package pff

import (
	"errors"
	"fmt"
)

// Sentinel kinds for deserialization errors. Reference errors (unknown
// team/period) and decode errors are fatal; missing tracking data is not an
// error and is represented with nil sentinels instead.
var (
	ErrMissingField   = errors.New("missing required field")
	ErrDuplicateEvent = errors.New("duplicate event identity")
	ErrUnknownTeam    = errors.New("unknown team id")
	ErrUnknownPeriod  = errors.New("unknown period id")
	ErrNoMetadata     = errors.New("no match record in metadata document")
	ErrNoPitch        = errors.New("no pitch in stadium metadata")
	ErrBadShirtNumber = errors.New("shirt number is not numeric")
)

// DeserializationError is the single error type callers see at the
// boundary. It names the pipeline stage that failed and carries the
// originating cause.
type DeserializationError struct {
	Stage string
	Err   error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialize %s: %v", e.Stage, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
