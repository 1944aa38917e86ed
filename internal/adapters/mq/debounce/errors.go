package debounce

import "errors"

// Sentinel kinds for debouncer errors.
var (
	ErrStopped = errors.New("debouncer stopped")
)
