package lua

import "errors"

// Errors for Lua plugin operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script or command runs too long.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrUnknownCommand is returned for commands no plugin defines and no
	// fallback handles.
	ErrUnknownCommand = errors.New("unknown command")
)
