// Package view binds a text buffer to a caret and selection.
//
// A View is what the snippet engine edits: it exposes the buffer, the
// current selection and the file metadata (path, language) that snippet
// lookups and field functions need. The selection is kept as tracking points
// so it follows edits made directly through the buffer.
//
// # Basic Usage
//
//	v := view.New(view.WithContent("x = foo\n"), view.WithLanguage("python"))
//	v.Select(buffer.NewRange(4, 7))
//	v.SelectedText() // "foo"
//
//	v.Buffer().Insert(0, "# ")
//	v.Selection() // Selection(6→9)
//
// # Thread Safety
//
// View guards its selection with a read-write mutex, and the buffer is
// independently safe for concurrent reads. Sessions that edit a view are
// expected to run on the view's own goroutine.
package view
