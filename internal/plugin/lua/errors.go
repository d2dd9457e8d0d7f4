package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution exceeds its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned by Call for a non-function value.
	ErrNotFunction = errors.New("lua value is not a function")
)
