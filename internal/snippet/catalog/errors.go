package catalog

import "errors"

// Errors returned by catalog operations.
var (
	// ErrUnsupportedFormat indicates a file whose extension has no loader.
	ErrUnsupportedFormat = errors.New("unsupported snippet file format")

	// ErrNotDirectory indicates LoadDir or Watch was given a file.
	ErrNotDirectory = errors.New("not a directory")
)
