package buffer

import "sync"

// Bias resolves the ambiguity when an edit happens exactly at a tracked
// position.
type Bias uint8

const (
	// BiasForward moves the position to the end of text inserted at it,
	// so the position grows with insertions made exactly at its offset.
	BiasForward Bias = iota

	// BiasBackward keeps the position in front of text inserted at it.
	BiasBackward
)

// String returns the bias name.
func (b Bias) String() string {
	if b == BiasBackward {
		return "backward"
	}
	return "forward"
}

// TransformOffset maps offset through a single edit.
//
// Transformation rules:
//   - Edit entirely after offset: unchanged
//   - Edit ending at or before offset: shifted by the edit's delta
//   - Edit starting exactly at offset: end of new text (forward) or unchanged (backward)
//   - Edit spanning offset: end of new text (forward) or edit start (backward)
func TransformOffset(offset ByteOffset, edit Edit, bias Bias) ByteOffset {
	start, end := edit.Range.Start, edit.Range.End
	newEnd := start + ByteOffset(len(edit.NewText))

	switch {
	case start > offset:
		return offset
	case end < offset, end == offset && start < offset:
		return offset + edit.Delta()
	case bias == BiasForward:
		return newEnd
	default:
		return start
	}
}

// transformThrough maps offset through one revision. The edits are in
// ascending order in the coordinates of the previous version, so they are
// walked from the highest offset down.
func transformThrough(offset ByteOffset, rev revision, bias Bias) ByteOffset {
	for i := len(rev.edits) - 1; i >= 0; i-- {
		offset = TransformOffset(offset, rev.edits[i], bias)
	}
	return offset
}

// TrackingPoint is an offset that follows the edits committed to its buffer.
// It is resolved lazily against a snapshot by replaying the edit log from
// the version it was last resolved at.
type TrackingPoint struct {
	mu      sync.Mutex
	buf     *Buffer
	offset  ByteOffset
	version Version
	bias    Bias
	stale   bool
}

// TrackPoint creates a tracking point at offset in the current version.
func (b *Buffer) TrackPoint(offset ByteOffset, bias Bias) *TrackingPoint {
	return b.TrackPointIn(b.Snapshot(), offset, bias)
}

// TrackPointIn creates a tracking point at offset in the given snapshot.
// The offset is clamped to the snapshot bounds.
func (b *Buffer) TrackPointIn(snap *Snapshot, offset ByteOffset, bias Bias) *TrackingPoint {
	return &TrackingPoint{
		buf:     b,
		offset:  snap.clamp(offset),
		version: snap.Version(),
		bias:    bias,
	}
}

// Bias returns the point's bias.
func (p *TrackingPoint) Bias() Bias {
	return p.bias
}

// Position returns the point's offset in snap.
//
// Snapshots older than the point's last resolution cannot be mapped
// backwards; the last known offset is returned, clamped to snap. If the edit
// log no longer holds the revisions needed, the point becomes stale and keeps
// its last known offset.
func (p *TrackingPoint) Position(snap *Snapshot) ByteOffset {
	p.mu.Lock()
	defer p.mu.Unlock()

	target := snap.Version()
	if target > p.version && !p.stale {
		revs, ok := p.buf.revisionsSince(p.version, target)
		if !ok {
			p.stale = true
		} else {
			for _, rev := range revs {
				p.offset = transformThrough(p.offset, rev, p.bias)
			}
			p.version = target
		}
	}
	return snap.clamp(p.offset)
}

// Current resolves the point against the buffer's current snapshot.
func (p *TrackingPoint) Current() ByteOffset {
	return p.Position(p.buf.Snapshot())
}

// Stale reports whether the point lost track of its buffer's history.
func (p *TrackingPoint) Stale() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stale
}

// TrackingSpan is a pair of tracking points. The start uses BiasBackward and
// the end BiasForward, so text typed at either edge becomes part of the span.
type TrackingSpan struct {
	start *TrackingPoint
	end   *TrackingPoint
}

// TrackSpan creates a tracking span over r in the current version.
func (b *Buffer) TrackSpan(r Range) *TrackingSpan {
	snap := b.Snapshot()
	return &TrackingSpan{
		start: b.TrackPointIn(snap, r.Start, BiasBackward),
		end:   b.TrackPointIn(snap, r.End, BiasForward),
	}
}

// TrackSpanIn creates a tracking span over r in snap with explicit biases
// for its start and end.
func (b *Buffer) TrackSpanIn(snap *Snapshot, r Range, startBias, endBias Bias) *TrackingSpan {
	return &TrackingSpan{
		start: b.TrackPointIn(snap, r.Start, startBias),
		end:   b.TrackPointIn(snap, r.End, endBias),
	}
}

// Range resolves the span against snap. A span whose end moved before its
// start resolves to an empty range at the start.
func (s *TrackingSpan) Range(snap *Snapshot) Range {
	start := s.start.Position(snap)
	end := s.end.Position(snap)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// Text returns the span's text in snap.
func (s *TrackingSpan) Text(snap *Snapshot) string {
	r := s.Range(snap)
	return snap.TextRange(r.Start, r.End)
}
