package repository

import "errors"

// Sentinel kinds for standards cache errors.
var (
	ErrUnknownEdition = errors.New("unknown edition")
	ErrInvalidSex     = errors.New("invalid sex")
	ErrLoad           = errors.New("standards data unavailable")
)
