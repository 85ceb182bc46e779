// Package buffer provides the thread-safe text buffer the snippet engine
// edits.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Immutable snapshots that are cheap to take and safe to share
//   - Coordinate conversion between byte offsets and line/column positions
//   - Line ending normalization
//   - Scoped batched edits (EditScope) that commit as one version
//   - A versioned edit log backing tracking points
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Tracking points:
//
// A TrackingPoint remembers an offset and follows later edits. It stores the
// version it was created at and, when resolved against a newer snapshot,
// replays the edit log entries in between. The Bias decides what happens
// when text is inserted exactly at the point:
//
//	p := buf.TrackPoint(5, buffer.BiasForward)
//	buf.Insert(5, "abc")
//	p.Current() // 8
//
//	q := buf.TrackPoint(5, buffer.BiasBackward)
//	buf.Insert(5, "abc")
//	q.Current() // 5
//
// Edit scopes:
//
// All offsets handed to an EditScope refer to the snapshot the scope was
// created from. Apply validates that the buffer has not moved on and that
// edits do not overlap, then installs the result as a single version.
// Several insertions at the same offset are kept in the order issued.
package buffer
