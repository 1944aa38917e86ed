package standards

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidClock    = errors.New("invalid clock time")
	ErrInvalidTable    = errors.New("invalid standards table")
	ErrInvalidManifest = errors.New("invalid manifest")
)
