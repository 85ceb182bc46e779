package template

import (
	"errors"
	"fmt"
)

// Errors returned by template operations.
var (
	// ErrMalformedTemplate indicates required template parts are missing.
	ErrMalformedTemplate = errors.New("malformed template")

	// ErrUnknownCategory indicates a category outside the fixed vocabulary.
	ErrUnknownCategory = errors.New("unknown snippet category")
)

// ParseError represents an error while parsing a snippet file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
