package view

import "errors"

// Errors returned by view operations.
var (
	// ErrOffsetOutOfRange indicates a caret or selection outside the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)
