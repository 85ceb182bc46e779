// Package template defines the snippet template model.
//
// A Template is a reusable code fragment: a code body with `$name$` field
// placeholders, an optional `$selected$` marker where surrounded text goes,
// an optional `$end$` marker for the final caret, a list of declared fields
// with default values, informational imports, and category tags drawn from
// a fixed vocabulary (Expansion, SurroundsWith, SurroundsWithStatement).
//
// Templates are immutable once loaded. ParseXML reads Visual Studio
// `.snippet` files; other formats are handled by the catalog package and
// produce the same model.
package template
