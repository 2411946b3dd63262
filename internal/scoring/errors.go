// internal/scoring/errors.go
package scoring

import "errors"

var (
	// ErrUnknownFactor is returned when a caller names a factor outside the
	// instrument's closed factor set.
	ErrUnknownFactor = errors.New("UNKNOWN_FACTOR")

	// ErrInvalidInstrument wraps every configuration error found by Validate.
	ErrInvalidInstrument = errors.New("INVALID_INSTRUMENT")
)
