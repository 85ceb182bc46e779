package cursor

import "github.com/dshills/snipstorm/internal/engine/buffer"

// Tracked is a selection pinned to a buffer. Its lower and upper bounds are
// tracking points with independent biases; the direction of the original
// selection is remembered and restored on Resolve.
type Tracked struct {
	start    *buffer.TrackingPoint
	end      *buffer.TrackingPoint
	backward bool
}

// Track pins sel to buf's current snapshot. startBias applies to the lower
// bound and endBias to the upper bound.
func Track(buf *buffer.Buffer, sel Selection, startBias, endBias buffer.Bias) *Tracked {
	snap := buf.Snapshot()
	return &Tracked{
		start:    buf.TrackPointIn(snap, sel.Start(), startBias),
		end:      buf.TrackPointIn(snap, sel.End(), endBias),
		backward: sel.IsBackward(),
	}
}

// Start returns the tracking point of the lower bound.
func (t *Tracked) Start() *buffer.TrackingPoint {
	return t.start
}

// End returns the tracking point of the upper bound.
func (t *Tracked) End() *buffer.TrackingPoint {
	return t.end
}

// Resolve returns the selection in snap. The bounds are returned as
// resolved, so an end that moved before its start yields a backward or
// inverted selection; callers that need an ordered range clamp themselves.
func (t *Tracked) Resolve(snap *buffer.Snapshot) Selection {
	start := t.start.Position(snap)
	end := t.end.Position(snap)
	if t.backward {
		return Selection{Anchor: end, Head: start}
	}
	return Selection{Anchor: start, Head: end}
}

// Stale reports whether either bound lost track of the buffer history.
func (t *Tracked) Stale() bool {
	return t.start.Stale() || t.end.Stale()
}
