package template

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Visual Studio .snippet document layout. Element names are matched without
// regard to namespace so files with and without the CodeSnippet namespace
// both parse.
type xmlCodeSnippets struct {
	XMLName  xml.Name         `xml:"CodeSnippets"`
	Snippets []xmlCodeSnippet `xml:"CodeSnippet"`
}

type xmlCodeSnippet struct {
	Header  xmlHeader  `xml:"Header"`
	Snippet xmlSnippet `xml:"Snippet"`
}

type xmlHeader struct {
	Title        string   `xml:"Title"`
	Shortcut     string   `xml:"Shortcut"`
	Description  string   `xml:"Description"`
	Author       string   `xml:"Author"`
	Placeholder  string   `xml:"Placeholder"`
	SnippetTypes []string `xml:"SnippetTypes>SnippetType"`
}

type xmlSnippet struct {
	Imports      []string        `xml:"Imports>Import>Namespace"`
	Declarations xmlDeclarations `xml:"Declarations"`
	Code         *xmlCode        `xml:"Code"`
}

type xmlDeclarations struct {
	Items []xmlLiteral `xml:",any"`
}

type xmlLiteral struct {
	XMLName  xml.Name
	Editable string `xml:"Editable,attr"`
	ID       string `xml:"ID"`
	ToolTip  string `xml:"ToolTip"`
	Default  string `xml:"Default"`
	Function string `xml:"Function"`
}

type xmlCode struct {
	Language string `xml:"Language,attr"`
	Text     string `xml:",chardata"`
}

// ParseXML parses a Visual Studio snippet document. The root may be either
// CodeSnippets holding several CodeSnippet elements or a single CodeSnippet.
// path is recorded on every template and used in errors.
func ParseXML(r io.Reader, path string) ([]*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading snippet %s: %w", path, err)
	}

	root, err := rootElement(data)
	if err != nil {
		return nil, xmlParseError(path, err)
	}

	var snippets []xmlCodeSnippet
	switch root {
	case "CodeSnippets":
		var doc xmlCodeSnippets
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, xmlParseError(path, err)
		}
		snippets = doc.Snippets
	case "CodeSnippet":
		var single xmlCodeSnippet
		if err := xml.Unmarshal(data, &single); err != nil {
			return nil, xmlParseError(path, err)
		}
		snippets = []xmlCodeSnippet{single}
	default:
		return nil, &ParseError{Path: path, Message: fmt.Sprintf("unexpected root element %q", root), Err: ErrMalformedTemplate}
	}

	if len(snippets) == 0 {
		return nil, &ParseError{Path: path, Message: "no CodeSnippet elements", Err: ErrMalformedTemplate}
	}

	templates := make([]*Template, 0, len(snippets))
	for i, s := range snippets {
		t, err := s.toTemplate(path)
		if err != nil {
			return nil, &ParseError{
				Path:    path,
				Message: fmt.Sprintf("snippet %d: %v", i+1, err),
				Err:     err,
			}
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func (s xmlCodeSnippet) toTemplate(path string) (*Template, error) {
	if s.Snippet.Code == nil {
		return nil, fmt.Errorf("%w: missing Code element", ErrMalformedTemplate)
	}
	if len(s.Header.SnippetTypes) == 0 {
		return nil, fmt.Errorf("%w: missing SnippetTypes element", ErrMalformedTemplate)
	}

	cats, err := ParseCategories(s.Header.SnippetTypes)
	if err != nil {
		return nil, err
	}

	t := &Template{
		Title:       strings.TrimSpace(s.Header.Title),
		Shortcut:    strings.TrimSpace(s.Header.Shortcut),
		Description: strings.TrimSpace(s.Header.Description),
		Author:      strings.TrimSpace(s.Header.Author),
		Placeholder: s.Header.Placeholder,
		Language:    strings.ToLower(strings.TrimSpace(s.Snippet.Code.Language)),
		Path:        path,
		Code:        s.Snippet.Code.Text,
		Categories:  cats,
	}

	for _, ns := range s.Snippet.Imports {
		if ns = strings.TrimSpace(ns); ns != "" {
			t.Imports = append(t.Imports, ns)
		}
	}

	for _, lit := range s.Snippet.Declarations.Items {
		if lit.XMLName.Local != "Literal" && lit.XMLName.Local != "Object" {
			continue
		}
		t.Fields = append(t.Fields, Field{
			ID:       strings.TrimSpace(lit.ID),
			Default:  lit.Default,
			ToolTip:  strings.TrimSpace(lit.ToolTip),
			Function: strings.TrimSpace(lit.Function),
			Editable: !strings.EqualFold(strings.TrimSpace(lit.Editable), "false"),
		})
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// rootElement returns the local name of the document's root element.
func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", errors.New("empty document")
			}
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

func xmlParseError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		pe.Line = syn.Line
	}
	return pe
}
