package expansion

import "errors"

// Errors returned by expansion operations.
var (
	// ErrSessionEnded indicates an operation on a session that has ended.
	ErrSessionEnded = errors.New("expansion session has ended")

	// ErrUnknownField indicates a field ID the template does not use.
	ErrUnknownField = errors.New("unknown field")

	// ErrTargetOutOfRange indicates an insertion target outside the buffer.
	ErrTargetOutOfRange = errors.New("insertion target out of range")
)
