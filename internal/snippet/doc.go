// Package snippet implements the snippet expansion engine of a view.
//
// An Engine owns at most one expansion session. Inserting a snippet aborts
// any running session, records the current selection as a pair of tracking
// points and hands the template to an Inserter, which puts the text in the
// buffer and calls back into Engine.FormatSpan before returning. FormatSpan
// re-indents the inserted lines in one atomic edit:
//
//   - every line after the first gets the indentation of the line the
//     snippet was inserted on
//   - for surround templates, the lines of the surrounded text also get the
//     indentation written in front of $selected$ in the template
//   - for statement templates with nothing selected, a placeholder statement
//     (pass by default) fills the body and is selected when the session ends
//
// While a session is active, Tab and Shift-Tab move between fields and Enter
// ends it. Outside a session those commands are left to the next handler.
//
// The Engine is not safe for concurrent use. It belongs to its view.
package snippet
