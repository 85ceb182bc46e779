// Package indent recovers indentation and template shape for snippet
// formatting.
//
// Everything here is a pure function over strings. Only spaces and tabs
// count as indentation; a tab is never expanded to spaces, so mixed
// indentation is copied exactly as found.
package indent

import (
	"strings"
	"unicode"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

func isIndent(c byte) bool {
	return c == ' ' || c == '\t'
}

// Base returns the indentation of line: the run of spaces and tabs before
// its first other character, or the whole line if it is all whitespace.
func Base(line string) string {
	for i := 0; i < len(line); i++ {
		if !isIndent(line[i]) {
			return line[:i]
		}
	}
	return line
}

// Selection returns the run of spaces and tabs immediately before idx in
// text. The scan stops at the first other character, a line break, or the
// start of text.
func Selection(text string, idx int) string {
	if idx > len(text) {
		idx = len(text)
	}
	i := idx
	for i > 0 && isIndent(text[i-1]) {
		i--
	}
	return text[i:idx]
}

// Reconstruct rebuilds the template text as inserted, except that
// $selected$ stays literal, and returns the byte index of the marker.
//
// Every $name$ with a value in fields is replaced by that value; names
// without a value are left as written. $end$ is removed. ok is false when
// cats has no surround category or the marker is absent.
func Reconstruct(code string, fields map[string]string, cats template.Categories) (text string, idx int, ok bool) {
	if !cats.HasAny(template.SurroundsWith, template.SurroundsWithStatement) {
		return "", -1, false
	}

	pairs := make([]string, 0, 2*len(fields))
	for name, val := range fields {
		if name == "selected" || name == "end" {
			continue
		}
		pairs = append(pairs, template.Marker(name), val)
	}
	text = code
	if len(pairs) > 0 {
		// Field values must not be rescanned for other field markers.
		text = strings.NewReplacer(pairs...).Replace(text)
	}
	text = strings.ReplaceAll(text, template.EndMarker, "")

	idx = strings.Index(text, template.SelectedMarker)
	if idx < 0 {
		return text, -1, false
	}
	return text, idx, true
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// Lines returns the line indices from first to last inclusive, or nil when
// last < first.
func Lines(first, last uint32) []uint32 {
	if last < first {
		return nil
	}
	out := make([]uint32, 0, last-first+1)
	for l := first; l <= last; l++ {
		out = append(out, l)
	}
	return out
}
