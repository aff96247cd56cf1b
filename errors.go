package tracker

import (
	"errors"
	"fmt"
)

// Failure categories shared by all operations. Callers discriminate with
// errors.Is and map them to their own surface (exit codes here, status codes
// for an eventual API).
var (
	// ErrValidation rejects malformed input before any state is touched.
	ErrValidation = errors.New("validation failed")

	// ErrDataUnavailable marks a dependency miss (quote, snapshot) where a
	// degraded result is still possible.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrNotFound is a typed miss for lookups of tasks, portfolios or snapshots.
	ErrNotFound = errors.New("not found")

	// ErrOversell rejects a sell of more than the tracked lots hold.
	ErrOversell = fmt.Errorf("%w: sell exceeds held quantity", ErrValidation)
)
