package view

import (
	"io"
	"sync"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/engine/cursor"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Point represents a line/column position.
	Point = buffer.Point

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Selection represents a caret selection.
	Selection = cursor.Selection
)

// View is a buffer plus the caret and selection shown over it.
type View struct {
	mu sync.RWMutex

	buf *buffer.Buffer
	sel *cursor.Tracked

	path     string
	language string

	// Buffer configuration, used only when the view creates the buffer.
	tabWidth     int
	lineEnding   buffer.LineEnding
	maxRevisions int
	initContent  string
}

// New creates a view with the caret at the start of the buffer.
func New(opts ...Option) *View {
	v := &View{
		tabWidth:     DefaultTabWidth,
		lineEnding:   buffer.LineEndingLF,
		maxRevisions: buffer.DefaultMaxRevisions,
	}
	for _, opt := range opts {
		opt(v)
	}

	if v.buf == nil {
		v.buf = buffer.NewBufferFromString(v.initContent, v.bufferOptions()...)
	}
	v.sel = v.track(cursor.NewCaret(0))
	return v
}

// NewFromReader creates a view over the content read from r.
func NewFromReader(r io.Reader, opts ...Option) (*View, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithContent(string(data))}, opts...)...), nil
}

func (v *View) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithTabWidth(v.tabWidth),
		buffer.WithLineEnding(v.lineEnding),
		buffer.WithMaxRevisions(v.maxRevisions),
	}
}

// track pins sel to the buffer. Both ends follow insertions made at them so
// typing at the caret keeps the caret after the typed text.
func (v *View) track(sel Selection) *cursor.Tracked {
	return cursor.Track(v.buf, sel, buffer.BiasForward, buffer.BiasForward)
}

// Buffer returns the view's buffer.
func (v *View) Buffer() *buffer.Buffer {
	return v.buf
}

// Snapshot returns the buffer's current snapshot.
func (v *View) Snapshot() *buffer.Snapshot {
	return v.buf.Snapshot()
}

// Text returns the full buffer content.
func (v *View) Text() string {
	return v.buf.Text()
}

// Path returns the path of the file shown in the view.
func (v *View) Path() string {
	return v.path
}

// Language returns the view's language identifier.
func (v *View) Language() string {
	return v.language
}

// Selection returns the current selection resolved against the current
// snapshot.
func (v *View) Selection() Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sel.Resolve(v.buf.Snapshot())
}

// SelectionRange returns the current selection as an ordered range.
func (v *View) SelectionRange() Range {
	return v.Selection().Range()
}

// SelectedText returns the text covered by the selection.
func (v *View) SelectedText() string {
	snap := v.buf.Snapshot()
	v.mu.RLock()
	sel := v.sel.Resolve(snap)
	v.mu.RUnlock()
	return snap.TextRange(sel.Start(), sel.End())
}

// SetSelection replaces the selection.
func (v *View) SetSelection(sel Selection) error {
	n := v.buf.Len()
	if sel.Start() < 0 || sel.End() > n {
		return ErrOffsetOutOfRange
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.sel = v.track(sel)
	return nil
}

// Select selects r with the caret at its end.
func (v *View) Select(r Range) error {
	return v.SetSelection(cursor.NewRangeSelection(r))
}

// SetCaret collapses the selection to a caret at offset.
func (v *View) SetCaret(offset ByteOffset) error {
	return v.SetSelection(cursor.NewCaret(offset))
}

// Caret returns the caret offset.
func (v *View) Caret() ByteOffset {
	return v.Selection().Caret()
}

// CaretPoint returns the caret as a line/column position.
func (v *View) CaretPoint() Point {
	snap := v.buf.Snapshot()
	v.mu.RLock()
	caret := v.sel.Resolve(snap).Caret()
	v.mu.RUnlock()
	return snap.OffsetToPoint(caret)
}
