package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}

	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}

	if b.Version() != 0 {
		t.Errorf("expected version 0, got %d", b.Version())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	text := "line1\nline2\nline3"
	b := NewBufferFromString(text)

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}

	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("a\r\nb"), WithCRLF())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Text() != "a\r\nb" {
		t.Errorf("expected CRLF content preserved, got %q", b.Text())
	}
	if b.LineText(0) != "a" {
		t.Errorf("expected line 0 %q, got %q", "a", b.LineText(0))
	}
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if end != 6 {
		t.Errorf("expected end position 6, got %d", end)
	}

	if b.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.Text())
	}

	if b.Version() != 1 {
		t.Errorf("expected version 1, got %d", b.Version())
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	_, err := b.Insert(100, "X")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	_, err = b.Insert(-1, "X")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	err := b.Delete(3, 2)
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}

	err = b.Delete(0, 100)
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Replace(6, 11, "Go")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if end != 8 {
		t.Errorf("expected end position 8, got %d", end)
	}

	if b.Text() != "Hello Go" {
		t.Errorf("expected 'Hello Go', got %q", b.Text())
	}
}

func TestBufferApplyEdits(t *testing.T) {
	b := NewBufferFromString("Hello World")

	edits := []Edit{
		NewEdit(Range{Start: 0, End: 5}, "Goodbye"),
		NewEdit(Range{Start: 6, End: 11}, "Go"),
	}

	if err := b.ApplyEdits(edits); err != nil {
		t.Fatalf("apply edits failed: %v", err)
	}

	if b.Text() != "Goodbye Go" {
		t.Errorf("expected 'Goodbye Go', got %q", b.Text())
	}
	if b.Version() != 1 {
		t.Errorf("batch should produce one version, got %d", b.Version())
	}
}

func TestBufferApplyEditsOverlap(t *testing.T) {
	b := NewBufferFromString("Hello World")

	edits := []Edit{
		NewEdit(Range{Start: 0, End: 6}, "X"),
		NewEdit(Range{Start: 4, End: 8}, "Y"),
	}

	if err := b.ApplyEdits(edits); !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap, got %v", err)
	}
	if b.Text() != "Hello World" {
		t.Errorf("failed batch must not modify buffer, got %q", b.Text())
	}
}

func TestBufferApplyEditsSameOffsetKeepsOrder(t *testing.T) {
	b := NewBufferFromString("ab")

	edits := []Edit{
		NewInsert(1, "1"),
		NewInsert(1, "2"),
		NewInsert(1, "3"),
	}
	if err := b.ApplyEdits(edits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Text() != "a123b" {
		t.Errorf("expected %q, got %q", "a123b", b.Text())
	}
}

func TestSnapshotMixedLineTerminators(t *testing.T) {
	b := newSnapshot("abc\r\nde\rf\n", 0, LineEndingLF, 4)

	tests := []struct {
		line       uint32
		start, end ByteOffset
		text       string
	}{
		{0, 0, 3, "abc"},
		{1, 5, 7, "de"},
		{2, 8, 9, "f"},
		{3, 10, 10, ""},
	}

	if b.LineCount() != 4 {
		t.Fatalf("expected 4 lines, got %d", b.LineCount())
	}

	for _, tt := range tests {
		if got := b.LineStartOffset(tt.line); got != tt.start {
			t.Errorf("line %d start: expected %d, got %d", tt.line, tt.start, got)
		}
		if got := b.LineEndOffset(tt.line); got != tt.end {
			t.Errorf("line %d end: expected %d, got %d", tt.line, tt.end, got)
		}
		if got := b.LineText(tt.line); got != tt.text {
			t.Errorf("line %d text: expected %q, got %q", tt.line, tt.text, got)
		}
	}
}

func TestBufferOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("hello\nworld\n!")

	tests := []struct {
		offset ByteOffset
		want   Point
	}{
		{0, Point{0, 0}},
		{5, Point{0, 5}},
		{6, Point{1, 0}},
		{11, Point{1, 5}},
		{12, Point{2, 0}},
		{13, Point{2, 1}},
		{99, Point{2, 1}},
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d): expected %v, got %v", tt.offset, tt.want, got)
		}
	}
}

func TestBufferPointToOffset(t *testing.T) {
	b := NewBufferFromString("hello\nworld")

	tests := []struct {
		point Point
		want  ByteOffset
	}{
		{Point{0, 0}, 0},
		{Point{0, 3}, 3},
		{Point{1, 0}, 6},
		{Point{1, 99}, 11},
		{Point{7, 0}, 6},
	}

	for _, tt := range tests {
		if got := b.PointToOffset(tt.point); got != tt.want {
			t.Errorf("PointToOffset(%v): expected %d, got %d", tt.point, tt.want, got)
		}
	}
}

func TestBufferSnapshot(t *testing.T) {
	b := NewBufferFromString("Hello")
	snap := b.Snapshot()

	if _, err := b.Insert(5, " World"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if snap.Text() != "Hello" {
		t.Errorf("snapshot should be unchanged, got %q", snap.Text())
	}
	if b.Text() != "Hello World" {
		t.Errorf("buffer should be modified, got %q", b.Text())
	}
	if snap.Version() == b.Version() {
		t.Error("snapshot and buffer versions should differ after an edit")
	}
}

func TestBufferLineEndingNormalization(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc")
	if b.Text() != "a\nb\nc" {
		t.Errorf("expected LF-normalized text, got %q", b.Text())
	}

	if _, err := b.Insert(0, "x\r\n"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if b.Text() != "x\na\nb\nc" {
		t.Errorf("inserted text should be normalized, got %q", b.Text())
	}
}

func TestBufferReadOnly(t *testing.T) {
	b := NewBufferFromString("x", WithReadOnly())
	if _, err := b.Insert(0, "y"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestBufferConcurrentReadWrite(t *testing.T) {
	b := NewBufferFromString("start")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = b.Insert(0, "x")
		}()
		go func() {
			defer wg.Done()
			_ = b.Text()
			_ = b.LineCount()
		}()
	}
	wg.Wait()

	if b.Len() != 15 {
		t.Errorf("expected length 15, got %d", b.Len())
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"no newline", LineEndingLF},
		{"a\nb\nc", LineEndingLF},
		{"a\r\nb\r\nc", LineEndingCRLF},
		{"a\rb\rc", LineEndingCR},
	}

	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q): expected %v, got %v", tt.text, tt.want, got)
		}
	}
}

func TestParseLineEnding(t *testing.T) {
	if le, ok := ParseLineEnding("CRLF"); !ok || le != LineEndingCRLF {
		t.Errorf("expected CRLF, got %v (ok=%v)", le, ok)
	}
	if _, ok := ParseLineEnding("bogus"); ok {
		t.Error("expected bogus line ending to be rejected")
	}
}

func TestRangeOperations(t *testing.T) {
	r := NewRange(5, 10)

	if r.Len() != 5 {
		t.Errorf("expected len 5, got %d", r.Len())
	}
	if !r.Contains(5) || r.Contains(10) {
		t.Error("range should contain start but not end")
	}
	if !r.Overlaps(NewRange(9, 12)) || r.Overlaps(NewRange(10, 12)) {
		t.Error("unexpected overlap result")
	}
	if got := r.Shift(3); got != NewRange(8, 13) {
		t.Errorf("expected [8:13), got %v", got)
	}
}

func TestLineRangeCount(t *testing.T) {
	if n := (LineRange{StartLine: 2, EndLine: 4}).Count(); n != 3 {
		t.Errorf("expected 3 lines, got %d", n)
	}
	if n := (LineRange{StartLine: 4, EndLine: 2}).Count(); n != 0 {
		t.Errorf("expected 0 lines, got %d", n)
	}
}
