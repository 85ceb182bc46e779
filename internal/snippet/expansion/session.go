package expansion

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/snippet/template"
	"github.com/dshills/snipstorm/internal/view"
)

// EndSpan is where the caret lands when the session ends. It is stored as a
// line and column so edits to other lines do not move it.
type EndSpan struct {
	Line   uint32
	Column uint32
	Length int
}

// field is an editable field and every place it appears.
type field struct {
	def   template.Field
	spans []*buffer.TrackingSpan
}

// Session tracks one expanded snippet until it ends.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	inserter *Inserter
	view     *view.View
	tmpl     *template.Template
	client   Client

	fields  map[string]*field
	order   []*field
	values  map[string]string
	current int

	end     *buffer.TrackingPoint
	endSpan *EndSpan
	span    Span
	active  bool
}

func newSession(in *Inserter, req Request, values map[string]string) *Session {
	return &Session{
		id:       uuid.New(),
		inserter: in,
		view:     req.View,
		tmpl:     req.Template,
		client:   req.Client,
		fields:   make(map[string]*field),
		values:   values,
		current:  -1,
		active:   true,
	}
}

func (s *Session) addOccurrence(id string, span *buffer.TrackingSpan) {
	f, ok := s.fields[id]
	if !ok {
		def, _ := s.tmpl.Field(id)
		f = &field{def: def}
		s.fields[id] = f
	}
	f.spans = append(f.spans, span)
}

// orderFields builds the navigation order: editable fields present in the
// code, in declaration order.
func (s *Session) orderFields() {
	s.order = s.order[:0]
	for _, def := range s.tmpl.Fields {
		if f, ok := s.fields[def.ID]; ok && def.Editable {
			s.order = append(s.order, f)
		}
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Template returns the template that was expanded.
func (s *Session) Template() *template.Template {
	return s.tmpl
}

// View returns the view the session edits.
func (s *Session) View() *view.View {
	return s.view
}

// Span returns the inserted span as it was right after insertion.
func (s *Session) Span() Span {
	return s.span
}

// Active reports whether the session is still running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// FieldIDs returns the editable fields in navigation order.
func (s *Session) FieldIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.order))
	for i, f := range s.order {
		ids[i] = f.def.ID
	}
	return ids
}

// FieldValue returns the current value of a declared field. Fields that
// appear in the code are read back from the buffer.
func (s *Session) FieldValue(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldValueLocked(id, s.view.Snapshot())
}

func (s *Session) fieldValueLocked(id string, snap *buffer.Snapshot) (string, bool) {
	if f, ok := s.fields[id]; ok && len(f.spans) > 0 {
		return f.spans[0].Text(snap), true
	}
	v, ok := s.values[id]
	return v, ok
}

// FieldValues returns the current value of every declared field.
func (s *Session) FieldValues() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.view.Snapshot()
	out := make(map[string]string, len(s.tmpl.Fields))
	for _, def := range s.tmpl.Fields {
		if v, ok := s.fieldValueLocked(def.ID, snap); ok {
			out[def.ID] = v
		}
	}
	return out
}

// SetFieldValue replaces every occurrence of field id with value in one
// edit.
func (s *Session) SetFieldValue(id, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrSessionEnded
	}
	f, ok := s.fields[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}

	buf := s.view.Buffer()
	value = buffer.NormalizeLineEndings(value, buf.LineEnding())

	scope := buf.CreateEdit()
	defer scope.Cancel()

	snap := scope.Snapshot()
	ranges := make([]buffer.Range, len(f.spans))
	for i, sp := range f.spans {
		ranges[i] = sp.Range(snap)
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })

	for _, r := range ranges {
		if err := scope.Replace(r, value); err != nil {
			return err
		}
	}
	after, err := scope.Apply()
	if err != nil {
		return err
	}

	// Recreate the spans: a replaced empty occurrence would otherwise stay
	// empty in front of its new text.
	var shift buffer.ByteOffset
	n := buffer.ByteOffset(len(value))
	for i, r := range ranges {
		start := r.Start + shift
		f.spans[i] = buf.TrackSpanIn(after, buffer.NewRange(start, start+n), buffer.BiasForward, buffer.BiasForward)
		shift += n - r.Len()
	}
	return nil
}

// CurrentField returns the ID of the field last navigated to.
func (s *Session) CurrentField() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current < 0 || s.current >= len(s.order) {
		return "", false
	}
	return s.order[s.current].def.ID, true
}

// NextField selects the next editable field, wrapping after the last.
func (s *Session) NextField() error {
	return s.step(1)
}

// PreviousField selects the previous editable field, wrapping before the
// first.
func (s *Session) PreviousField() error {
	return s.step(-1)
}

func (s *Session) step(dir int) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	n := len(s.order)
	if n == 0 {
		s.mu.Unlock()
		return nil
	}
	next := ((s.current+dir)%n + n) % n
	s.mu.Unlock()
	return s.selectField(next)
}

func (s *Session) selectField(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = i
	r := s.order[i].spans[0].Range(s.view.Snapshot())
	return s.view.Select(r)
}

// SetEndSpan records where the caret goes when the session ends.
func (s *Session) SetEndSpan(es EndSpan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endSpan = &es
}

// EndSpan returns the recorded end span.
func (s *Session) EndSpan() (EndSpan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endSpan == nil {
		return EndSpan{}, false
	}
	return *s.endSpan, true
}

// EndSpanRange resolves the end span against snap.
func (s *Session) EndSpanRange(snap *buffer.Snapshot) (buffer.Range, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endSpan == nil {
		return buffer.Range{}, false
	}
	return endSpanRange(snap, *s.endSpan), true
}

// endSpanRange resolves es against snap, clamped to its line.
func endSpanRange(snap *buffer.Snapshot, es EndSpan) buffer.Range {
	lineStart := snap.LineStartOffset(es.Line)
	lineEnd := snap.LineEndOffset(es.Line)
	start := min(lineStart+buffer.ByteOffset(es.Column), lineEnd)
	end := min(start+buffer.ByteOffset(es.Length), lineEnd)
	return buffer.NewRange(start, end)
}

// End finishes the session. Unless leaveCaret is set the end span is
// selected or, without one, the caret moves to the $end$ position. The
// client is notified either way.
func (s *Session) End(leaveCaret bool) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	s.active = false

	var err error
	if !leaveCaret {
		snap := s.view.Snapshot()
		if s.endSpan != nil {
			err = s.view.Select(endSpanRange(snap, *s.endSpan))
		} else if s.end != nil {
			err = s.view.SetCaret(s.end.Position(snap))
		}
	}
	s.end = nil
	client := s.client
	s.mu.Unlock()

	if client != nil {
		client.EndExpansion(s)
	}
	return err
}
