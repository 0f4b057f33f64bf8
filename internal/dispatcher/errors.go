package dispatcher

import "errors"

// Common dispatcher errors.
var (
	// ErrNilRegistry indicates an engine was created without a registry.
	ErrNilRegistry = errors.New("dispatcher: nil registry")

	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("dispatcher: invalid config")
)
