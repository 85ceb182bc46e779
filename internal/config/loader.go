package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SNIPSTORM_"

// envMapping maps environment variables to the settings they override.
var envMapping = map[string]func(c *Config, v string) error{
	EnvPrefix + "SNIPPETS_DIRS": func(c *Config, v string) error {
		c.Snippets.Dirs = filepath.SplitList(v)
		return nil
	},
	EnvPrefix + "SNIPPETS_WATCH": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Snippets.Watch = b
		return err
	},
	EnvPrefix + "EDITOR_LINE_ENDING": func(c *Config, v string) error {
		c.Editor.LineEnding = v
		return nil
	},
	EnvPrefix + "EDITOR_TAB_WIDTH": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Editor.TabWidth = n
		return err
	},
	EnvPrefix + "EXPANSION_FUNCTION_TIMEOUT": func(c *Config, v string) error {
		c.Expansion.FunctionTimeout = v
		return nil
	},
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	},
}

// Load builds the configuration from defaults, the file at path and the
// process environment. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, ErrFileNotFound) {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Environ()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges the TOML file at path into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, data)
}

// LoadReader merges TOML from r into c.
func (c *Config) LoadReader(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return c.decode("<reader>", data)
}

// decode merges data into c. Keys that match no setting are errors.
func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	err := dec.Decode(c)
	if err == nil {
		return nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var strict *toml.StrictMissingError
	var de *toml.DecodeError
	switch {
	case errors.As(err, &strict) && len(strict.Errors) > 0:
		first := strict.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown setting " + strings.Join(first.Key(), ".")
	case errors.As(err, &de):
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

// ApplyEnv applies SNIPSTORM_* overrides from environ, given in
// os.Environ form.
func (c *Config) ApplyEnv(environ []string) error {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		apply, known := envMapping[name]
		if !known {
			continue
		}
		if err := apply(c, value); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrValidationFailed, name, value, err)
		}
	}
	return nil
}
