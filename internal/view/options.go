package view

import "github.com/dshills/snipstorm/internal/engine/buffer"

// DefaultTabWidth is the tab width used when none is configured.
const DefaultTabWidth = 4

// Option configures a View during creation.
type Option func(*View)

// WithContent sets the initial content of the view's buffer.
func WithContent(content string) Option {
	return func(v *View) {
		v.initContent = content
	}
}

// WithBuffer attaches an existing buffer. Content, line ending and tab width
// options are ignored when a buffer is supplied.
func WithBuffer(buf *buffer.Buffer) Option {
	return func(v *View) {
		v.buf = buf
	}
}

// WithTabWidth sets the tab width for the buffer.
func WithTabWidth(width int) Option {
	return func(v *View) {
		if width > 0 {
			v.tabWidth = width
		}
	}
}

// WithLineEnding sets the line ending style for the buffer.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(v *View) {
		v.lineEnding = ending
	}
}

// WithMaxRevisions bounds the buffer's edit log.
func WithMaxRevisions(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.maxRevisions = n
		}
	}
}

// WithPath sets the path of the file shown in the view.
func WithPath(path string) Option {
	return func(v *View) {
		v.path = path
	}
}

// WithLanguage sets the language identifier, e.g. "python".
func WithLanguage(lang string) Option {
	return func(v *View) {
		v.language = lang
	}
}
