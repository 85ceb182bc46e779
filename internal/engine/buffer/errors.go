package buffer

import "errors"

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap")
	ErrSnapshotChanged  = errors.New("buffer changed since edit scope was created")
	ErrScopeClosed      = errors.New("edit scope already applied or cancelled")
	ErrReadOnly         = errors.New("buffer is read-only")
)
