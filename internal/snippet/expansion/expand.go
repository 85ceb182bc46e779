package expansion

import "strings"

// part identifies which half of a split expansion an offset refers to.
type part uint8

const (
	partPrefix part = iota
	partSuffix
)

// occurrence is one appearance of a field in the expanded text.
type occurrence struct {
	id     string
	part   part
	offset int
	length int
}

// marker is a position in the expanded text.
type marker struct {
	part   part
	offset int
}

// expanded is a template with values substituted, split at $selected$.
type expanded struct {
	prefix      string
	suffix      string
	hasSelected bool
	fields      []occurrence
	end         *marker
}

// text returns the whole expansion with selected spliced in.
func (e *expanded) text(selected string) string {
	return e.prefix + selected + e.suffix
}

// expand substitutes values into code. Known fields and the $selected$ and
// $end$ markers are recognized; any other $ is copied as written and
// scanning resumes right after it, so a stray $ cannot swallow the
// opening delimiter of a marker that follows. Only
// the first $selected$ splits the text; later ones expand to nothing.
func expand(code string, values map[string]string) *expanded {
	e := &expanded{}
	var b strings.Builder
	cur := partPrefix

	flush := func() {
		if cur == partPrefix {
			e.prefix = b.String()
		} else {
			e.suffix = b.String()
		}
		b.Reset()
	}

	rest := code
	for {
		i := strings.IndexByte(rest, '$')
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		rest = rest[i:]

		j := strings.IndexByte(rest[1:], '$')
		if j < 0 {
			b.WriteString(rest)
			break
		}
		name := rest[1 : j+1]
		token := rest[:j+2]

		switch {
		case strings.ContainsAny(name, "\r\n"):
			// A lone delimiter; keep it and rescan from the next one.
			b.WriteByte('$')
			rest = rest[1:]
			continue
		case name == "selected":
			if !e.hasSelected {
				e.hasSelected = true
				flush()
				cur = partSuffix
			}
		case name == "end":
			if e.end == nil {
				e.end = &marker{part: cur, offset: b.Len()}
			}
		default:
			val, ok := values[name]
			if !ok {
				// Not a marker; its closing $ may open the next one.
				b.WriteByte('$')
				rest = rest[1:]
				continue
			}
			e.fields = append(e.fields, occurrence{id: name, part: cur, offset: b.Len(), length: len(val)})
			b.WriteString(val)
		}
		rest = rest[len(token):]
	}
	flush()
	return e
}
