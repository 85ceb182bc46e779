package snippet

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/expansion"
	"github.com/dshills/snipstorm/internal/snippet/template"
	"github.com/dshills/snipstorm/internal/view"
)

// Command is an editor command the engine can execute.
type Command uint8

const (
	// CommandReturn ends the active session.
	CommandReturn Command = iota
	// CommandTab moves to the next field.
	CommandTab
	// CommandBackTab moves to the previous field.
	CommandBackTab
	// CommandSurroundWith picks a surround template for the selection.
	CommandSurroundWith
	// CommandInsertSnippet picks a template to insert at the caret.
	CommandInsertSnippet
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandReturn:
		return "return"
	case CommandTab:
		return "tab"
	case CommandBackTab:
		return "backTab"
	case CommandSurroundWith:
		return "surroundWith"
	case CommandInsertSnippet:
		return "insertSnippet"
	default:
		return "unknown"
	}
}

// CommandStatus reports whether a command is available.
type CommandStatus struct {
	Supported bool
	Enabled   bool
}

// Engine runs snippet expansions in one view.
type Engine struct {
	view     *view.View
	catalog  Catalog
	picker   Picker
	inserter Inserter
	logger   *logging.Logger

	placeholders map[string]string

	session   *Session
	last      *Session
	formatErr error
}

// New creates an engine for v that finds templates in catalog.
func New(v *view.View, catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		view:         v,
		catalog:      catalog,
		logger:       logging.Nop(),
		placeholders: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.inserter == nil {
		e.inserter = expansion.NewInserter(expansion.WithLogger(e.logger))
	}
	e.logger = e.logger.WithComponent("snippet")
	return e
}

// View returns the engine's view.
func (e *Engine) View() *view.View {
	return e.view
}

// Session returns the active session, or nil.
func (e *Engine) Session() *Session {
	return e.session
}

// LastSession returns the most recently started session, which may have
// ended. It is nil until an expansion succeeds.
func (e *Engine) LastSession() *Session {
	return e.last
}

// InSession reports whether a session is active.
func (e *Engine) InSession() bool {
	return e.session != nil && e.session.Active()
}

// InsertNamed expands the template identified by title and path at the
// current selection. ok is false when no such template exists.
func (e *Engine) InsertNamed(ctx context.Context, title, path string) (ok bool, err error) {
	t, found := e.catalog.LookupNamed(title, path)
	if !found {
		e.logger.Debug("no snippet named %q in %q", title, path)
		return false, nil
	}
	return true, e.start(ctx, t, e.view.SelectionRange(), true)
}

// OnItemChosen is called with the picker's choice.
func (e *Engine) OnItemChosen(ctx context.Context, title, path string) (bool, error) {
	return e.InsertNamed(ctx, title, path)
}

// InsertByShortcut expands the template whose shortcut was just typed. The
// shortcut text in front of the caret is replaced. ok is false when no
// template has the shortcut or the text before the caret does not match it.
func (e *Engine) InsertByShortcut(ctx context.Context, shortcut string) (ok bool, err error) {
	if shortcut == "" {
		return false, nil
	}
	t, found := e.catalog.Lookup(shortcut)
	if !found {
		e.logger.Debug("no snippet with shortcut %q", shortcut)
		return false, nil
	}

	caret := e.view.Caret()
	start := caret - buffer.ByteOffset(len(shortcut))
	if start < 0 {
		return false, nil
	}
	snap := e.view.Snapshot()
	if typed := snap.TextRange(start, caret); !strings.EqualFold(typed, shortcut) {
		e.logger.Debug("text before caret %q does not match shortcut %q", typed, shortcut)
		return false, nil
	}
	return true, e.start(ctx, t, buffer.NewRange(start, caret), false)
}

// ShortcutBeforeCaret returns the word ending at the caret, the candidate
// shortcut for InsertByShortcut.
func (e *Engine) ShortcutBeforeCaret() string {
	snap := e.view.Snapshot()
	caret := e.view.Caret()
	line := snap.LineFromOffset(caret)
	text := snap.TextRange(snap.LineStartOffset(line), caret)

	i := len(text)
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		i -= size
	}
	return text[i:]
}

// start runs one expansion of t into target.
func (e *Engine) start(ctx context.Context, t *template.Template, target buffer.Range, surround bool) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("snippet %q: %w", t.Title, err)
	}

	e.abort()

	buf := e.view.Buffer()
	snap := buf.Snapshot()
	sel := e.view.SelectionRange()
	s := &Session{
		tmpl:     t,
		selStart: buf.TrackPointIn(snap, sel.Start, buffer.BiasForward),
		selEnd:   buf.TrackPointIn(snap, sel.End, buffer.BiasBackward),
	}
	e.session = s
	e.formatErr = nil

	raw, err := e.inserter.Insert(ctx, expansion.Request{
		View:     e.view,
		Template: t,
		Target:   target,
		Surround: surround,
		Client:   e,
	})
	if err != nil {
		if e.session == s {
			e.session = nil
		}
		s.clear()
		return fmt.Errorf("snippet %q: %w", t.Title, err)
	}
	s.raw = raw
	e.last = s

	log := e.logger.WithFields(map[string]any{"snippet": t.Title, "session": raw.ID()})
	if s.ended {
		s.endedEarly = true
		log.Debug("session ended during insertion")
	} else {
		log.Info("session started")
	}

	if e.formatErr != nil {
		return fmt.Errorf("snippet %q: %w", t.Title, e.formatErr)
	}
	return nil
}

// abort ends the active session without moving the caret.
func (e *Engine) abort() {
	s := e.session
	if s == nil {
		return
	}
	if s.raw != nil && s.raw.Active() {
		e.logger.WithField("session", s.raw.ID()).Debug("aborting session")
		_ = s.raw.End(true)
	}
	s.clear()
	e.session = nil
}

// NextField selects the next field of the active session.
func (e *Engine) NextField() error {
	if !e.InSession() {
		return ErrNoSession
	}
	return e.session.raw.NextField()
}

// PreviousField selects the previous field of the active session.
func (e *Engine) PreviousField() error {
	if !e.InSession() {
		return ErrNoSession
	}
	return e.session.raw.PreviousField()
}

// EndSession ends the active session. A placeholder statement inserted by
// formatting is selected and the caret stays there whatever leaveCaret
// says; otherwise the caret moves to the snippet's end position unless
// leaveCaret is set.
func (e *Engine) EndSession(leaveCaret bool) error {
	if !e.InSession() {
		return ErrNoSession
	}
	raw := e.session.raw

	if r, ok := raw.EndSpanRange(e.view.Snapshot()); ok {
		if err := e.view.Select(r); err != nil {
			return err
		}
		leaveCaret = true
	}
	return raw.End(leaveCaret)
}

// EndExpansion is called by the raw session when it ends.
func (e *Engine) EndExpansion(raw *expansion.Session) {
	s := e.session
	if s == nil || (s.raw != nil && s.raw != raw) {
		return
	}
	e.logger.WithField("session", raw.ID()).Debug("session ended")
	s.clear()
	e.session = nil
}

// Exec runs cmd. handled is false when the command is not the engine's to
// run right now and should go to the next handler.
func (e *Engine) Exec(ctx context.Context, cmd Command) (handled bool, err error) {
	switch cmd {
	case CommandReturn, CommandTab, CommandBackTab:
		if !e.InSession() {
			return false, nil
		}
		switch cmd {
		case CommandReturn:
			err = e.EndSession(false)
		case CommandTab:
			err = e.NextField()
		default:
			err = e.PreviousField()
		}
		return true, err
	case CommandSurroundWith, CommandInsertSnippet:
		_, err := e.Trigger(ctx, cmd)
		return true, err
	default:
		return false, nil
	}
}

// Trigger shows the picker for a surround-with or insert-snippet command
// and expands the chosen template. ok is false when the picker was
// dismissed. A choice that no longer resolves in the catalog returns
// ErrChoiceNotFound.
func (e *Engine) Trigger(ctx context.Context, cmd Command) (ok bool, err error) {
	var req PickRequest
	switch cmd {
	case CommandSurroundWith:
		req = PickRequest{
			Prompt:     "Surround with:",
			Categories: template.NewCategories(template.SurroundsWith, template.SurroundsWithStatement),
		}
	case CommandInsertSnippet:
		req = PickRequest{
			Prompt:     "Insert snippet:",
			Categories: template.NewCategories(template.Expansion, template.SurroundsWith),
		}
	default:
		return false, fmt.Errorf("command %s does not open a picker", cmd)
	}
	if e.picker == nil {
		return false, ErrNoPicker
	}
	req.Language = e.view.Language()

	choice, picked, err := e.picker.Pick(ctx, req)
	if err != nil || !picked {
		return false, err
	}
	found, err := e.OnItemChosen(ctx, choice.Title, choice.Path)
	if err != nil {
		return true, err
	}
	if !found {
		return true, fmt.Errorf("%w: %q", ErrChoiceNotFound, choice.Title)
	}
	return true, nil
}

// QueryStatus reports whether cmd is available.
func (e *Engine) QueryStatus(cmd Command) CommandStatus {
	switch cmd {
	case CommandSurroundWith, CommandInsertSnippet:
		return CommandStatus{Supported: true, Enabled: true}
	case CommandReturn, CommandTab, CommandBackTab:
		return CommandStatus{Supported: true, Enabled: e.InSession()}
	default:
		return CommandStatus{}
	}
}

// placeholder returns the statement used to fill an empty statement body.
func (e *Engine) placeholder(t *template.Template) string {
	if t.Placeholder != "" {
		return t.Placeholder
	}
	if p, ok := e.placeholders[e.view.Language()]; ok {
		return p
	}
	if p, ok := e.placeholders["*"]; ok {
		return p
	}
	return DefaultPlaceholder
}
