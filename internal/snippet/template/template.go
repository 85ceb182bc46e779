package template

import (
	"fmt"
	"strings"
)

// Markers recognized in a template's code body.
const (
	SelectedMarker = "$selected$"
	EndMarker      = "$end$"
	Delimiter      = "$"
)

// Field is a declared substitution field.
type Field struct {
	// ID is the field name as written between delimiters.
	ID string
	// Default is the initial value.
	Default string
	// ToolTip describes the field.
	ToolTip string
	// Function is an optional expression computing the initial value.
	Function string
	// Editable is false for fields the user cannot tab to.
	Editable bool
}

// Template is a parsed snippet definition.
type Template struct {
	Title       string
	Shortcut    string
	Description string
	Author      string
	Language    string

	// Path is the file the template was loaded from.
	Path string

	// Placeholder overrides the statement placeholder used when a
	// SurroundsWithStatement template has nothing to surround.
	Placeholder string

	Code       string
	Fields     []Field
	Imports    []string
	Categories Categories
}

// Key identifies a template by title and path.
type Key struct {
	Title string
	Path  string
}

// Key returns the template's (title, path) key.
func (t *Template) Key() Key {
	return Key{Title: t.Title, Path: t.Path}
}

// Validate checks that the template has the parts expansion relies on.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("%w: %q has no code", ErrMalformedTemplate, t.Title)
	}
	if t.Categories.IsEmpty() {
		return fmt.Errorf("%w: %q declares no snippet type", ErrMalformedTemplate, t.Title)
	}

	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.ID == "" {
			return fmt.Errorf("%w: %q has a field without an ID", ErrMalformedTemplate, t.Title)
		}
		if f.ID == "selected" || f.ID == "end" {
			return fmt.Errorf("%w: %q declares reserved field %q", ErrMalformedTemplate, t.Title, f.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("%w: %q declares field %q twice", ErrMalformedTemplate, t.Title, f.ID)
		}
		seen[f.ID] = true
	}
	return nil
}

// NormalizedCode returns the code body with every line ending rewritten to
// newline.
func (t *Template) NormalizedCode(newline string) string {
	code := strings.ReplaceAll(t.Code, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")
	if newline == "\n" || newline == "" {
		return code
	}
	return strings.ReplaceAll(code, "\n", newline)
}

// Field returns the field with the given ID.
func (t *Template) Field(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIDs returns the declared field IDs in declaration order.
func (t *Template) FieldIDs() []string {
	ids := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		ids[i] = f.ID
	}
	return ids
}

// Defaults returns the default value of every field.
func (t *Template) Defaults() map[string]string {
	vals := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		vals[f.ID] = f.Default
	}
	return vals
}

// IsSurround reports whether the template wraps selected text.
func (t *Template) IsSurround() bool {
	return t.Categories.HasAny(SurroundsWith, SurroundsWithStatement)
}

// HasSelectedMarker reports whether the code body contains $selected$.
func (t *Template) HasSelectedMarker() bool {
	return strings.Contains(t.Code, SelectedMarker)
}

// Marker wraps a field ID in delimiters.
func Marker(id string) string {
	return Delimiter + id + Delimiter
}
