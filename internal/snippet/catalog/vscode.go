package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

// VS Code variables that map to field functions. The field is not
// editable and takes its value from the function when expanded.
var vscodeVariables = map[string]string{
	"TM_FILENAME":      "filename()",
	"TM_FILEPATH":      "path()",
	"TM_FILENAME_BASE": `(filename():gsub("%.[^.]*$", ""))`,
}

// parseVSCode converts a VS Code snippet file. Comments and trailing
// commas are accepted as VS Code does.
func parseVSCode(data []byte, path string) ([]*template.Template, error) {
	data = pretty.Spec(data)
	if !gjson.ValidBytes(data) {
		return nil, &template.ParseError{Path: path, Message: "invalid JSON", Err: errors.New("invalid JSON")}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &template.ParseError{Path: path, Message: "top level is not an object"}
	}

	// language-specific files are named after the language
	fileLang := ""
	if strings.EqualFold(filepath.Ext(path), ".json") {
		fileLang = strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}

	var (
		out     []*template.Template
		convErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		t, err := vscodeTemplate(key.String(), value, path, fileLang)
		if err != nil {
			convErr = &template.ParseError{
				Path:    path,
				Message: fmt.Sprintf("snippet %q: %v", key.String(), err),
				Err:     err,
			}
			return false
		}
		out = append(out, t)
		return true
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

func vscodeTemplate(name string, v gjson.Result, path, fileLang string) (*template.Template, error) {
	body := joinLines(v.Get("body"))
	p := &vscodeParser{s: body, defaults: make(map[int]string)}
	code := p.parse(false)

	t := &template.Template{
		Title:       name,
		Shortcut:    firstString(v.Get("prefix")),
		Description: v.Get("description").String(),
		Language:    fileLang,
		Path:        path,
		Code:        code,
		Categories:  template.NewCategories(template.Expansion),
	}
	if scope := v.Get("scope").String(); scope != "" {
		first, _, _ := strings.Cut(scope, ",")
		t.Language = strings.ToLower(strings.TrimSpace(first))
	}
	if p.hasSelected {
		t.Categories = template.NewCategories(template.Expansion, template.SurroundsWith)
	}

	sort.Ints(p.stops)
	for _, n := range p.stops {
		t.Fields = append(t.Fields, template.Field{
			ID:       tabStopID(n),
			Default:  p.defaults[n],
			Editable: true,
		})
	}
	for _, v := range p.variables {
		t.Fields = append(t.Fields, template.Field{
			ID:       v,
			Function: vscodeVariables[v],
		})
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func tabStopID(n int) string {
	return "f" + strconv.Itoa(n)
}

// joinLines reads a string or an array of lines.
func joinLines(r gjson.Result) string {
	if !r.IsArray() {
		return r.String()
	}
	lines := r.Array()
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

func firstString(r gjson.Result) string {
	if r.IsArray() {
		if arr := r.Array(); len(arr) > 0 {
			return arr[0].String()
		}
		return ""
	}
	return r.String()
}

// vscodeParser rewrites VS Code snippet syntax into template markers:
// $N and ${N:default} become $fN$, $0 becomes $end$, the selection
// variables become $selected$. Placeholders nested in a default are
// flattened to their own defaults.
type vscodeParser struct {
	s string
	i int

	stops       []int
	defaults    map[int]string
	variables   []string
	hasSelected bool
}

// parse converts up to the end of input or, when nested, up to the
// closing brace. Nested output is plain text.
func (p *vscodeParser) parse(nested bool) string {
	var b strings.Builder
	for p.i < len(p.s) {
		c := p.s[p.i]
		switch {
		case c == '\\' && p.i+1 < len(p.s) && strings.IndexByte(`$}\`, p.s[p.i+1]) >= 0:
			b.WriteByte(p.s[p.i+1])
			p.i += 2
		case c == '}' && nested:
			p.i++
			return b.String()
		case c == '$':
			b.WriteString(p.dollar(nested))
		default:
			b.WriteByte(c)
			p.i++
		}
	}
	return b.String()
}

func (p *vscodeParser) dollar(plain bool) string {
	start := p.i
	p.i++
	braced := p.i < len(p.s) && p.s[p.i] == '{'
	if braced {
		p.i++
	}

	if n, ok := p.number(); ok {
		def := ""
		if braced {
			def = p.braceTail()
		}
		return p.tabStop(n, def, plain)
	}
	if name := p.name(); name != "" {
		def := ""
		if braced {
			def = p.braceTail()
		}
		return p.variable(name, def, plain)
	}

	p.i = start + 1
	return "$"
}

func (p *vscodeParser) number() (int, bool) {
	j := p.i
	for j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
		j++
	}
	if j == p.i {
		return 0, false
	}
	n, err := strconv.Atoi(p.s[p.i:j])
	if err != nil {
		return 0, false
	}
	p.i = j
	return n, true
}

func (p *vscodeParser) name() string {
	j := p.i
	for j < len(p.s) {
		c := p.s[j]
		if c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (j > p.i && c >= '0' && c <= '9') {
			j++
			continue
		}
		break
	}
	name := p.s[p.i:j]
	p.i = j
	return name
}

// braceTail reads what follows ${N or ${NAME and returns the default.
func (p *vscodeParser) braceTail() string {
	if p.i >= len(p.s) {
		return ""
	}
	switch p.s[p.i] {
	case '}':
		p.i++
		return ""
	case ':':
		p.i++
		return p.parse(true)
	case '|':
		p.i++
		end := strings.Index(p.s[p.i:], "|}")
		var choices string
		if end < 0 {
			choices, p.i = p.s[p.i:], len(p.s)
		} else {
			choices = p.s[p.i : p.i+end]
			p.i += end + 2
		}
		first, _, _ := strings.Cut(choices, ",")
		return first
	default:
		// transforms such as ${1/a/b/} are dropped
		p.parse(true)
		return ""
	}
}

func (p *vscodeParser) tabStop(n int, def string, plain bool) string {
	if plain {
		return def
	}
	if n == 0 {
		return template.EndMarker
	}
	if old, seen := p.defaults[n]; !seen {
		p.stops = append(p.stops, n)
		p.defaults[n] = def
	} else if old == "" {
		p.defaults[n] = def
	}
	return template.Marker(tabStopID(n))
}

func (p *vscodeParser) variable(name, def string, plain bool) string {
	if plain {
		return def
	}
	switch name {
	case "TM_SELECTED_TEXT", "SELECTION":
		p.hasSelected = true
		return template.SelectedMarker
	}
	if _, ok := vscodeVariables[name]; ok {
		for _, v := range p.variables {
			if v == name {
				return template.Marker(name)
			}
		}
		p.variables = append(p.variables, name)
		return template.Marker(name)
	}
	return def
}

// EncodeVSCode writes templates as a VS Code snippet file.
func EncodeVSCode(ts []*template.Template) ([]byte, error) {
	out := []byte("{}")
	var err error
	for _, t := range ts {
		key := sjsonKey(t.Title)
		if t.Shortcut != "" {
			if out, err = sjson.SetBytes(out, key+".prefix", t.Shortcut); err != nil {
				return nil, err
			}
		}
		body := strings.Split(vscodeBody(t), "\n")
		if out, err = sjson.SetBytes(out, key+".body", body); err != nil {
			return nil, err
		}
		if t.Description != "" {
			if out, err = sjson.SetBytes(out, key+".description", t.Description); err != nil {
				return nil, err
			}
		}
		if t.Language != "" {
			if out, err = sjson.SetBytes(out, key+".scope", t.Language); err != nil {
				return nil, err
			}
		}
	}
	return pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: "\t"}), nil
}

// sjsonKey turns a title into a single sjson path component.
func sjsonKey(title string) string {
	var b strings.Builder
	b.WriteByte(':')
	for i := 0; i < len(title); i++ {
		switch c := title[i]; c {
		case '.', '|', '#', '@', '*', '?', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

var vscodeEscaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`)

// vscodeBody renders t's code in VS Code syntax. Fields are numbered by
// declaration order among those used in the code.
func vscodeBody(t *template.Template) string {
	code := t.NormalizedCode("\n")

	stops := make(map[string]int)
	for _, f := range t.Fields {
		if strings.Contains(code, template.Marker(f.ID)) {
			stops[f.ID] = len(stops) + 1
		}
	}

	seen := make(map[string]bool)
	var b strings.Builder
	rest := code
	for {
		i := strings.IndexByte(rest, '$')
		if i < 0 {
			b.WriteString(vscodeEscaper.Replace(rest))
			break
		}
		b.WriteString(vscodeEscaper.Replace(rest[:i]))
		rest = rest[i:]

		j := strings.IndexByte(rest[1:], '$')
		if j < 0 || strings.ContainsAny(rest[1:j+1], "\r\n") {
			b.WriteString(`\$`)
			rest = rest[1:]
			continue
		}
		name := rest[1 : j+1]
		n, isField := stops[name]

		switch {
		case name == "selected":
			b.WriteString("${TM_SELECTED_TEXT}")
		case name == "end":
			b.WriteString("${0}")
		case isField && !seen[name]:
			seen[name] = true
			f, _ := t.Field(name)
			fmt.Fprintf(&b, "${%d:%s}", n, vscodeEscaper.Replace(f.Default))
		case isField:
			fmt.Fprintf(&b, "${%d}", n)
		default:
			b.WriteString(vscodeEscaper.Replace(rest[:j+2]))
		}
		rest = rest[j+2:]
	}
	return b.String()
}
