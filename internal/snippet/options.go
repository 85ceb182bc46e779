package snippet

import "github.com/dshills/snipstorm/internal/logging"

// DefaultPlaceholder is the statement inserted into an empty statement body.
const DefaultPlaceholder = "pass"

// Option configures an Engine.
type Option func(*Engine)

// WithPicker sets the picker used by the surround-with and insert-snippet
// commands.
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		e.picker = p
	}
}

// WithInserter replaces the raw insertion mechanism.
func WithInserter(in Inserter) Option {
	return func(e *Engine) {
		if in != nil {
			e.inserter = in
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPlaceholders sets statement placeholders by language. The "*" key
// applies to every language without its own entry.
func WithPlaceholders(byLanguage map[string]string) Option {
	return func(e *Engine) {
		for lang, p := range byLanguage {
			if p != "" {
				e.placeholders[lang] = p
			}
		}
	}
}
