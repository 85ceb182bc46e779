package snippet

import (
	"github.com/google/uuid"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/snippet/expansion"
	"github.com/dshills/snipstorm/internal/snippet/template"
)

// Session is the engine's record of one expansion.
type Session struct {
	tmpl *template.Template
	raw  *expansion.Session

	// The selection at the time of insertion. The start follows text
	// inserted at it and the end stays in front of it, so together they
	// bracket the surrounded text.
	selStart *buffer.TrackingPoint
	selEnd   *buffer.TrackingPoint

	ended      bool
	endedEarly bool
}

// ID returns the session's identifier, or uuid.Nil before the raw session
// exists.
func (s *Session) ID() uuid.UUID {
	if s.raw == nil {
		return uuid.Nil
	}
	return s.raw.ID()
}

// Template returns the expanded template.
func (s *Session) Template() *template.Template {
	return s.tmpl
}

// Active reports whether the session is still running.
func (s *Session) Active() bool {
	return !s.ended && s.raw != nil && s.raw.Active()
}

// EndedEarly reports whether the session ended before the insertion
// returned, as happens for templates without editable fields.
func (s *Session) EndedEarly() bool {
	return s.endedEarly
}

// Fields returns the current value of every declared field.
func (s *Session) Fields() map[string]string {
	if s.raw == nil {
		return map[string]string{}
	}
	return s.raw.FieldValues()
}

// SetField replaces every occurrence of a field.
func (s *Session) SetField(id, value string) error {
	if !s.Active() {
		return ErrNoSession
	}
	return s.raw.SetFieldValue(id, value)
}

// EndSpan returns the placeholder statement recorded by formatting. The
// span refers to text of the running session and is gone once it ends.
func (s *Session) EndSpan() (expansion.EndSpan, bool) {
	if s.ended || s.raw == nil {
		return expansion.EndSpan{}, false
	}
	return s.raw.EndSpan()
}

// clear drops the tracked positions.
func (s *Session) clear() {
	s.ended = true
	s.selStart = nil
	s.selEnd = nil
}
