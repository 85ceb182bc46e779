package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

// Format is a snippet file format.
type Format uint8

const (
	// FormatXML is the Visual Studio .snippet format.
	FormatXML Format = iota + 1
	// FormatTOML is snipstorm's TOML format.
	FormatTOML
	// FormatYAML is snipstorm's YAML format.
	FormatYAML
	// FormatVSCode is the VS Code JSON snippet format.
	FormatVSCode
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatVSCode:
		return "vscode"
	default:
		return "unknown"
	}
}

// FormatFor returns the format of path from its extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".snippet":
		return FormatXML, true
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json", ".code-snippets":
		return FormatVSCode, true
	default:
		return 0, false
	}
}

// Parse reads the templates in r. The format is chosen from path, which is
// also recorded on every template.
func Parse(r io.Reader, path string) ([]*template.Template, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch format {
	case FormatXML:
		return template.ParseXML(bytes.NewReader(data), path)
	case FormatTOML:
		return parseTOML(data, path)
	case FormatYAML:
		return parseYAML(data, path)
	default:
		return parseVSCode(data, path)
	}
}

// ParseFile reads the templates in the file at path.
func ParseFile(path string) ([]*template.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}
