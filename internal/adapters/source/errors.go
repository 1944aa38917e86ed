package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrNotFound = errors.New("data file not found")
	ErrFetch    = errors.New("data fetch failed")
)
