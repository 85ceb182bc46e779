// Package expansion performs the raw templated insertion of a snippet.
//
// Inserter.Insert substitutes field values into a template, inserts the
// result into a view's buffer in one atomic edit, and returns a Session that
// tracks every field occurrence so the user can tab between fields. For
// surround templates the text in the target range is kept in place: the part
// of the template before $selected$ is inserted at the start of the range and
// the rest at its end.
//
// The Client is called back synchronously once the text is in the buffer
// (FormatSpan) and whenever the session ends (EndExpansion). A template
// without editable fields ends its session before Insert returns.
package expansion
