package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/logging"
)

// Config is the complete snipstorm configuration.
type Config struct {
	Snippets  SnippetsConfig  `toml:"snippets"`
	Editor    EditorConfig    `toml:"editor"`
	Expansion ExpansionConfig `toml:"expansion"`
	Log       LogConfig       `toml:"log"`
}

// SnippetsConfig locates snippet files.
type SnippetsConfig struct {
	// Dirs are searched recursively for snippet files.
	Dirs []string `toml:"dirs"`

	// Watch reloads snippet files when they change.
	Watch bool `toml:"watch"`
}

// EditorConfig holds buffer settings.
type EditorConfig struct {
	// LineEnding is "lf", "crlf" or "cr".
	LineEnding string `toml:"line_ending"`

	// TabWidth is the display width of a tab.
	TabWidth int `toml:"tab_width"`
}

// ExpansionConfig controls template expansion.
type ExpansionConfig struct {
	// Placeholders maps a language to the statement used to fill an empty
	// statement body. The key "*" applies to every language.
	Placeholders map[string]string `toml:"placeholders"`

	// FunctionTimeout bounds field function evaluation, as a
	// time.ParseDuration string.
	FunctionTimeout string `toml:"function_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Snippets: SnippetsConfig{
			Dirs: []string{DefaultSnippetDir()},
		},
		Editor: EditorConfig{
			LineEnding: "lf",
			TabWidth:   4,
		},
		Expansion: ExpansionConfig{
			Placeholders:    map[string]string{},
			FunctionTimeout: "250ms",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultSnippetDir returns the user snippet directory.
func DefaultSnippetDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "snippets"
	}
	return filepath.Join(dir, "snipstorm", "snippets")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "snipstorm.toml"
	}
	return filepath.Join(dir, "snipstorm", "config.toml")
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, ok := buffer.ParseLineEnding(c.Editor.LineEnding); !ok {
		return fmt.Errorf("%w: editor.line_ending %q", ErrValidationFailed, c.Editor.LineEnding)
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("%w: editor.tab_width %d not in 1..16", ErrValidationFailed, c.Editor.TabWidth)
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrValidationFailed, c.Log.Level)
	}
	if _, err := c.functionTimeout(); err != nil {
		return fmt.Errorf("%w: expansion.function_timeout: %v", ErrValidationFailed, err)
	}
	return nil
}

// LineEnding returns the configured line ending.
func (c *Config) LineEnding() buffer.LineEnding {
	le, _ := buffer.ParseLineEnding(c.Editor.LineEnding)
	return le
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// FunctionTimeout returns the field function timeout, zero when unset.
func (c *Config) FunctionTimeout() time.Duration {
	d, _ := c.functionTimeout()
	return d
}

func (c *Config) functionTimeout() (time.Duration, error) {
	if c.Expansion.FunctionTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Expansion.FunctionTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// SnippetDirs returns the snippet directories with a leading "~" expanded.
func (c *Config) SnippetDirs() []string {
	home, _ := os.UserHomeDir()
	dirs := make([]string, 0, len(c.Snippets.Dirs))
	for _, d := range c.Snippets.Dirs {
		if home != "" && (d == "~" || len(d) > 1 && d[0] == '~' && os.IsPathSeparator(d[1])) {
			d = filepath.Join(home, d[1:])
		}
		dirs = append(dirs, d)
	}
	return dirs
}
