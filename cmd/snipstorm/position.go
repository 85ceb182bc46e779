package main

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/dshills/snipstorm/internal/engine/buffer"
)

// parsePoint parses a 1-based "line:column" into a buffer point. The
// column counts bytes.
func parsePoint(s string) (buffer.Point, error) {
	ls, cs, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return buffer.Point{}, fmt.Errorf("position %q: want line:column", s)
	}
	line, err := positive(ls)
	if err != nil {
		return buffer.Point{}, fmt.Errorf("position %q: line: %w", s, err)
	}
	col, err := positive(cs)
	if err != nil {
		return buffer.Point{}, fmt.Errorf("position %q: column: %w", s, err)
	}
	return buffer.Point{Line: line - 1, Column: col - 1}, nil
}

// parseSpan parses "line:column-line:column".
func parseSpan(s string) (start, end buffer.Point, err error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return start, end, fmt.Errorf("selection %q: want line:column-line:column", s)
	}
	if start, err = parsePoint(a); err != nil {
		return start, end, err
	}
	if end, err = parsePoint(b); err != nil {
		return start, end, err
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("selection %q ends before it starts", s)
	}
	return start, end, nil
}

func positive(s string) (uint32, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return safecast.Conv[uint32](n)
}

// formatPoint renders a point 1-based, with the column in display cells.
func formatPoint(snap *buffer.Snapshot, offset buffer.ByteOffset) string {
	p := snap.OffsetToPoint(offset)
	prefix := snap.TextRange(snap.LineStartOffset(p.Line), offset)
	return fmt.Sprintf("%d:%d", p.Line+1, displayWidth(prefix)+1)
}
