package action

import "errors"

// Validation errors. Specs are rejected when registered, never at dispatch.
var (
	// ErrInvalidCalibration indicates a calibration bound that is not > 0.
	ErrInvalidCalibration = errors.New("action: calibration bounds must be > 0")

	// ErrInvalidSmoothing indicates a smoothing coefficient outside [0, 1).
	ErrInvalidSmoothing = errors.New("action: smoothing coefficient must be in [0, 1)")

	// ErrInvalidBinding indicates a malformed name, binding or handler.
	ErrInvalidBinding = errors.New("action: invalid binding")
)
