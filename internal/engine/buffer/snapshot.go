package buffer

import (
	"sort"

	"fortio.org/safecast"
)

// Snapshot provides a read-only view of a buffer at a specific version.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	text       string
	lineStarts []ByteOffset
	version    Version
	lineEnding LineEnding
	tabWidth   int
}

func newSnapshot(text string, version Version, le LineEnding, tabWidth int) *Snapshot {
	return &Snapshot{
		text:       text,
		lineStarts: computeLineStarts(text),
		version:    version,
		lineEnding: le,
		tabWidth:   tabWidth,
	}
}

// computeLineStarts returns the offset of the first byte of every line.
// "\n", "\r\n" and a lone "\r" all terminate a line.
func computeLineStarts(text string) []ByteOffset {
	starts := []ByteOffset{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, ByteOffset(i+1))
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return starts
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.text
}

// TextRange returns text in the given byte range.
// The range is clamped to the snapshot bounds.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	start = s.clamp(start)
	end = s.clamp(end)
	if end <= start {
		return ""
	}
	return s.text[start:end]
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.text))
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return len(s.text) == 0
}

// LineCount returns the number of lines.
// An empty snapshot has one (empty) line.
func (s *Snapshot) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(s.lineStarts))
	if err != nil {
		return ^uint32(0)
	}
	return n
}

// LineStartOffset returns the byte offset of the start of a line.
// Lines past the end are clamped to the last line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	return s.lineStarts[s.clampLine(line)]
}

// LineEndOffset returns the byte offset of the end of a line (before the
// line terminator).
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	idx := s.clampLine(line)
	if idx == len(s.lineStarts)-1 {
		return ByteOffset(len(s.text))
	}
	next := s.lineStarts[idx+1]
	end := next - 1
	if s.text[end] == '\n' && end > s.lineStarts[idx] && s.text[end-1] == '\r' {
		end--
	}
	return end
}

// LineText returns the text of a specific line (without the terminator).
func (s *Snapshot) LineText(line uint32) string {
	return s.text[s.LineStartOffset(line):s.LineEndOffset(line)]
}

// LineLen returns the length of a specific line in bytes (without the terminator).
func (s *Snapshot) LineLen(line uint32) int {
	return int(s.LineEndOffset(line) - s.LineStartOffset(line))
}

// LineFromOffset returns the line number containing offset.
func (s *Snapshot) LineFromOffset(offset ByteOffset) uint32 {
	return s.OffsetToPoint(offset).Line
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	offset = s.clamp(offset)
	idx := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	line, _ := safecast.Conv[uint32](idx)
	col, _ := safecast.Conv[uint32](offset - s.lineStarts[idx])
	return Point{Line: line, Column: col}
}

// PointToOffset converts line/column to byte offset.
// The column is clamped to the line length.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	start := s.LineStartOffset(point.Line)
	end := s.LineEndOffset(point.Line)
	offset := start + ByteOffset(point.Column)
	if offset > end {
		offset = end
	}
	return offset
}

// Version returns the version of this snapshot.
func (s *Snapshot) Version() Version {
	return s.version
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// NewLine returns the newline sequence of the snapshot's buffer.
func (s *Snapshot) NewLine() string {
	return s.lineEnding.Sequence()
}

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}

func (s *Snapshot) clamp(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > ByteOffset(len(s.text)) {
		return ByteOffset(len(s.text))
	}
	return offset
}

func (s *Snapshot) clampLine(line uint32) int {
	if int64(line) >= int64(len(s.lineStarts)) {
		return len(s.lineStarts) - 1
	}
	return int(line)
}
