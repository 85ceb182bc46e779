package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rivo/uniseg"
	"golang.org/x/term"
)

// style holds the colors used in command output.
type style struct {
	title    *color.Color
	shortcut *color.Color
	dim      *color.Color
	marker   *color.Color
	selected *color.Color
	warn     *color.Color
}

func newStyle(mode string, w io.Writer) (*style, error) {
	var enabled bool
	switch mode {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "auto":
		enabled = isTerminal(w)
	default:
		return nil, fmt.Errorf("invalid --color %q (auto|on|off)", mode)
	}

	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &style{
		title:    mk(color.FgYellow, color.Bold),
		shortcut: mk(color.FgGreen),
		dim:      mk(color.Faint),
		marker:   mk(color.FgCyan, color.Bold),
		selected: mk(color.ReverseVideo),
		warn:     mk(color.FgRed),
	}, nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// displayWidth returns the terminal width of s in cells.
func displayWidth(s string) int {
	return uniseg.StringWidth(s)
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if n := width - displayWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// caretMarker is shown at the caret in expanded output.
const caretMarker = "‸"

// markText renders text with the selection highlighted, or the caret
// marker when the selection is empty.
func (st *style) markText(text string, start, end int) string {
	start = max(0, min(start, len(text)))
	end = max(start, min(end, len(text)))
	if start == end {
		return text[:start] + st.marker.Sprint(caretMarker) + text[start:]
	}
	return text[:start] + st.marker.Sprint("[") + st.selected.Sprint(text[start:end]) + st.marker.Sprint("]") + text[end:]
}
