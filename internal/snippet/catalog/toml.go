package catalog

import (
	"errors"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

func parseTOML(data []byte, path string) ([]*template.Template, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		pe := &template.ParseError{Path: path, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, _ = de.Position()
		}
		return nil, pe
	}
	return doc.templates(path)
}
