package catalog

import (
	"fmt"
	"strings"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

// document is the shared shape of TOML and YAML snippet files.
//
//	[[snippet]]
//	title = "while"
//	types = ["SurroundsWith", "SurroundsWithStatement"]
//	code = """
//	while $cond$:
//	    $selected$"""
//
//	[[snippet.field]]
//	id = "cond"
//	default = "True"
type document struct {
	Language string            `toml:"language" yaml:"language"`
	Snippets []documentSnippet `toml:"snippet" yaml:"snippets"`
}

type documentSnippet struct {
	Title       string          `toml:"title" yaml:"title"`
	Shortcut    string          `toml:"shortcut" yaml:"shortcut"`
	Description string          `toml:"description" yaml:"description"`
	Author      string          `toml:"author" yaml:"author"`
	Language    string          `toml:"language" yaml:"language"`
	Types       []string        `toml:"types" yaml:"types"`
	Placeholder string          `toml:"placeholder" yaml:"placeholder"`
	Imports     []string        `toml:"imports" yaml:"imports"`
	Code        string          `toml:"code" yaml:"code"`
	Fields      []documentField `toml:"field" yaml:"fields"`
}

type documentField struct {
	ID       string `toml:"id" yaml:"id"`
	Default  string `toml:"default" yaml:"default"`
	ToolTip  string `toml:"tooltip" yaml:"tooltip"`
	Function string `toml:"function" yaml:"function"`
	Editable *bool  `toml:"editable" yaml:"editable"`
}

// templates converts the document, failing on the first invalid snippet.
func (d *document) templates(path string) ([]*template.Template, error) {
	out := make([]*template.Template, 0, len(d.Snippets))
	for i, s := range d.Snippets {
		t, err := s.template(path, d.Language)
		if err != nil {
			return nil, &template.ParseError{
				Path:    path,
				Message: fmt.Sprintf("snippet %d: %v", i+1, err),
				Err:     err,
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (s documentSnippet) template(path, language string) (*template.Template, error) {
	cats, err := template.ParseCategories(s.Types)
	if err != nil {
		return nil, err
	}
	if s.Language != "" {
		language = s.Language
	}

	t := &template.Template{
		Title:       strings.TrimSpace(s.Title),
		Shortcut:    strings.TrimSpace(s.Shortcut),
		Description: strings.TrimSpace(s.Description),
		Author:      strings.TrimSpace(s.Author),
		Language:    strings.ToLower(strings.TrimSpace(language)),
		Path:        path,
		Placeholder: s.Placeholder,
		Code:        s.Code,
		Imports:     s.Imports,
		Categories:  cats,
	}
	if t.Title == "" {
		t.Title = t.Shortcut
	}
	for _, f := range s.Fields {
		t.Fields = append(t.Fields, template.Field{
			ID:       strings.TrimSpace(f.ID),
			Default:  f.Default,
			ToolTip:  f.ToolTip,
			Function: f.Function,
			Editable: f.Editable == nil || *f.Editable,
		})
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
