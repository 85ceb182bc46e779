// Package cursor provides the caret and selection model of a view.
//
// Selections use an anchor/head model:
//   - Anchor: where the selection started
//   - Head: the caret, where typing would occur
//
// When Anchor == Head the selection is just a caret. Head may lie before
// Anchor, which preserves the direction the user selected in.
//
// Selection is an immutable value. Tracked pins a selection to a buffer with
// two tracking points so it follows later edits:
//
//	tr := cursor.Track(buf, cursor.NewSelection(4, 9), buffer.BiasForward, buffer.BiasBackward)
//	buf.Insert(0, "xx")
//	tr.Resolve(buf.Snapshot()) // Selection(6→11)
//
// Tracked is not safe for concurrent use; it belongs to a single view.
package cursor
