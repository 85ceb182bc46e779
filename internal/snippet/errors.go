package snippet

import (
	"errors"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

// Errors returned by the engine.
var (
	// ErrNoSession indicates a session command with no active session.
	ErrNoSession = errors.New("no active expansion session")

	// ErrNoPicker indicates a picker command on an engine without a picker.
	ErrNoPicker = errors.New("no snippet picker configured")

	// ErrChoiceNotFound indicates a picker choice missing from the catalog.
	ErrChoiceNotFound = errors.New("chosen snippet not found")

	// ErrMalformedTemplate indicates a template that cannot be expanded.
	ErrMalformedTemplate = template.ErrMalformedTemplate
)
