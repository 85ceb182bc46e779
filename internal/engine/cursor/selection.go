package cursor

import (
	"fmt"

	"github.com/dshills/snipstorm/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset // Where selection started
	Head   ByteOffset // Caret position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCaret creates an empty selection at offset.
func NewCaret(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewRangeSelection creates a forward selection covering r.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection is just a caret.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// IsBackward returns true if the head lies before the anchor.
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	return max(s.Anchor, s.Head)
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() ByteOffset {
	return s.End() - s.Start()
}

// Caret returns the head position.
func (s Selection) Caret() ByteOffset {
	return s.Head
}

// Collapse collapses the selection to a caret at the head.
func (s Selection) Collapse() Selection {
	return NewCaret(s.Head)
}

// Clamp returns a selection clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	clamp := func(o ByteOffset) ByteOffset {
		return max(0, min(o, maxOffset))
	}
	return Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
