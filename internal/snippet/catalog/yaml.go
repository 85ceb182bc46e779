package catalog

import (
	"gopkg.in/yaml.v3"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

func parseYAML(data []byte, path string) ([]*template.Template, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &template.ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return doc.templates(path)
}
