package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua: state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua: execution timeout")

	// ErrInstructionLimit is returned when instruction limit is exceeded.
	ErrInstructionLimit = errors.New("lua: instruction limit exceeded")

	// ErrMissingCompute is returned for a strategy script without a
	// compute function.
	ErrMissingCompute = errors.New("lua: script does not define compute")

	// ErrOutsideApply is raised when a script mutates the view from compute.
	ErrOutsideApply = errors.New("lua: view can only be changed from apply")
)
