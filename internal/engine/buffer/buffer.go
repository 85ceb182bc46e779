package buffer

import (
	"io"
	"sort"
	"strings"
	"sync"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding parses "lf", "crlf" or "cr" (case-insensitive).
// Unknown values yield LineEndingLF and false.
func ParseLineEnding(s string) (LineEnding, bool) {
	switch strings.ToLower(s) {
	case "lf", "\\n":
		return LineEndingLF, true
	case "crlf", "\\r\\n":
		return LineEndingCRLF, true
	case "cr", "\\r":
		return LineEndingCR, true
	default:
		return LineEndingLF, false
	}
}

// Buffer is a line-addressable text store with atomic batched edits and a
// versioned edit log that backs tracking points.
// All methods are thread-safe.
type Buffer struct {
	mu           sync.RWMutex
	current      *Snapshot
	log          []revision
	lineEnding   LineEnding
	tabWidth     int
	maxRevisions int
	readOnly     bool
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lineEnding:   LineEndingLF,
		tabWidth:     4,
		maxRevisions: DefaultMaxRevisions,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.current = newSnapshot("", 0, b.lineEnding, b.tabWidth)
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.current = newSnapshot(b.normalizeLineEndings(s), 0, b.lineEnding, b.tabWidth)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read all content first to handle line ending normalization correctly
	// (CRLF sequences may be split across read boundaries)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	return NormalizeLineEndings(s, b.lineEnding)
}

// NormalizeLineEndings rewrites every line ending in s to le.
func NormalizeLineEndings(s string, le LineEnding) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if le == LineEndingLF {
		return s
	}
	return strings.ReplaceAll(s, "\n", le.Sequence())
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return b.Snapshot().Text()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	return b.Snapshot().TextRange(start, end)
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	return b.Snapshot().Len()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Snapshot().IsEmpty()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	return b.Snapshot().LineCount()
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	return b.Snapshot().LineText(line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	return b.Snapshot().LineLen(line)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	return b.Snapshot().LineStartOffset(line)
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	return b.Snapshot().LineEndOffset(line)
}

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	return b.Snapshot().OffsetToPoint(offset)
}

// PointToOffset converts line/column to byte offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	return b.Snapshot().PointToOffset(point)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	if offset < 0 || offset > b.Len() {
		return 0, ErrOffsetOutOfRange
	}
	return b.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text = b.normalizeLineEndings(text)
	if _, err := b.commitLocked(b.current.version, []Edit{NewEdit(Range{Start: start, End: end}, text)}); err != nil {
		return 0, err
	}
	return start + ByteOffset(len(text)), nil
}

// ApplyEdits applies multiple edits atomically. Offsets refer to the
// current content. Edits may be given in any order but must not overlap;
// insertions at the same offset land in the order given.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.commitLocked(b.current.version, edits)
	return err
}

// commitLocked validates edits against the snapshot at base and installs
// the resulting snapshot as a single new version.
func (b *Buffer) commitLocked(base Version, edits []Edit) (*Snapshot, error) {
	if b.readOnly {
		return nil, ErrReadOnly
	}
	if b.current.version != base {
		return nil, ErrSnapshotChanged
	}

	sorted := make([]Edit, len(edits))
	for i, e := range edits {
		e.NewText = b.normalizeLineEndings(e.NewText)
		sorted[i] = e
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})

	textLen := b.current.Len()
	for i, e := range sorted {
		if e.Range.Start < 0 || e.Range.Start > e.Range.End || e.Range.End > textLen {
			return nil, ErrRangeInvalid
		}
		if i > 0 && e.Range.Start < sorted[i-1].Range.End {
			return nil, ErrEditsOverlap
		}
	}

	old := b.current.text
	var sb strings.Builder
	sb.Grow(len(old))
	var pos ByteOffset
	for _, e := range sorted {
		sb.WriteString(old[pos:e.Range.Start])
		sb.WriteString(e.NewText)
		pos = e.Range.End
	}
	sb.WriteString(old[pos:])

	next := base + 1
	b.current = newSnapshot(sb.String(), next, b.lineEnding, b.tabWidth)
	b.log = append(b.log, revision{version: next, edits: sorted})
	if len(b.log) > b.maxRevisions {
		excess := len(b.log) - b.maxRevisions
		b.log = append([]revision(nil), b.log[excess:]...)
	}

	return b.current, nil
}

// Buffer State

// Version returns the current version.
func (b *Buffer) Version() Version {
	return b.Snapshot().Version()
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// NewLine returns the buffer's newline sequence.
func (b *Buffer) NewLine() string {
	return b.LineEnding().Sequence()
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// IsReadOnly returns true if the buffer rejects writes.
func (b *Buffer) IsReadOnly() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.readOnly
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// revisionsSince returns the log entries after version v up to and
// including target. ok is false when part of that history was discarded.
func (b *Buffer) revisionsSince(v, target Version) (revs []revision, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if target <= v {
		return nil, true
	}
	if len(b.log) == 0 || b.log[0].version > v+1 {
		return nil, false
	}
	first := int(v + 1 - b.log[0].version)
	last := int(target - b.log[0].version)
	if last >= len(b.log) {
		return nil, false
	}
	return b.log[first : last+1], true
}
