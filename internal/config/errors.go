package config

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrBadCatalog    = errors.New("problem catalog must contain exactly 13 problems")
)
