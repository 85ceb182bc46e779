// Package function evaluates snippet field functions.
//
// A field may declare a function expression that computes its initial
// value when the snippet is inserted, for example:
//
//	upper(filename())
//	default() .. "_test"
//	return selected() ~= "" and selected() or "pass"
//
// Expressions run in a sandboxed Lua state (gopher-lua) with only the base,
// string, table and math libraries. Loading code from disk, requiring modules
// and the io/os libraries are unavailable. Each evaluation is bounded by a
// context deadline.
//
// Built-in helpers:
//
//	selected()   text that was selected when the snippet was triggered
//	filename()   base name of the file being edited
//	path()       full path of the file being edited
//	language()   language identifier of the view
//	default()    the field's literal default
//	field(id)    current value of another field
//	upper(s)     s in upper case
//	lower(s)     s in lower case
//
// An Evaluator is safe for concurrent use; evaluations are serialized.
package function
