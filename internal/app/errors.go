package app

import "errors"

// Sentinel kinds for gateway validation errors.
var (
	ErrInvalidInterval = errors.New("invalid interval")
)
