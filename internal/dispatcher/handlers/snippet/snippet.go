package snippet

import (
	"context"
	"errors"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/input"
	snip "github.com/dshills/snipstorm/internal/snippet"
)

// Action names for snippet operations.
const (
	ActionEnter          = "snippet.enter"          // Enter - end the session
	ActionTab            = "snippet.tab"            // Tab - next field
	ActionBackTab        = "snippet.backTab"        // Shift-Tab - previous field
	ActionSurroundWith   = "snippet.surroundWith"   // pick a surround template
	ActionInsertSnippet  = "snippet.insertSnippet"  // pick a template to insert
	ActionInsertShortcut = "snippet.insertShortcut" // expand a typed shortcut
	ActionInsertNamed    = "snippet.insertNamed"    // expand by title and path
)

// Result data keys.
const (
	DataTitle      = "title"
	DataSessionID  = "session"
	DataEndedEarly = "endedEarly"
)

var commands = map[string]snip.Command{
	ActionEnter:         snip.CommandReturn,
	ActionTab:           snip.CommandTab,
	ActionBackTab:       snip.CommandBackTab,
	ActionSurroundWith:  snip.CommandSurroundWith,
	ActionInsertSnippet: snip.CommandInsertSnippet,
}

// Handler routes snippet actions to an engine.
type Handler struct {
	engine *snip.Engine
}

// NewHandler creates a handler for engine.
func NewHandler(engine *snip.Engine) *Handler {
	return &Handler{engine: engine}
}

// Namespace returns the snippet namespace.
func (h *Handler) Namespace() string {
	return "snippet"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	if _, ok := commands[actionName]; ok {
		return true
	}
	return actionName == ActionInsertShortcut || actionName == ActionInsertNamed
}

// Enabled reports whether the action can run now. Session keys are
// enabled only while a session is active.
func (h *Handler) Enabled(actionName string) bool {
	switch actionName {
	case ActionInsertShortcut, ActionInsertNamed:
		return true
	}
	cmd, ok := commands[actionName]
	return ok && h.engine.QueryStatus(cmd).Enabled
}

// HandleAction processes a snippet action.
func (h *Handler) HandleAction(ctx context.Context, action input.Action) handler.Result {
	switch action.Name {
	case ActionInsertShortcut:
		return h.insertShortcut(ctx, action)
	case ActionInsertNamed:
		return h.insertNamed(ctx, action)
	}

	cmd, ok := commands[action.Name]
	if !ok {
		return handler.Errorf("unknown snippet action: %s", action.Name)
	}
	if cmd == snip.CommandSurroundWith || cmd == snip.CommandInsertSnippet {
		return h.trigger(ctx, cmd)
	}

	handled, err := h.engine.Exec(ctx, cmd)
	switch {
	case errors.Is(err, snip.ErrNoSession):
		return handler.NoOp()
	case errors.Is(err, context.Canceled):
		return handler.Cancelled()
	case err != nil:
		return handler.Error(err)
	case !handled:
		return handler.NoOp()
	}
	return h.sessionResult()
}

// trigger runs a picker command. A dismissed picker is a cancellation; a
// choice the catalog no longer has is passed on like any other miss.
func (h *Handler) trigger(ctx context.Context, cmd snip.Command) handler.Result {
	picked, err := h.engine.Trigger(ctx, cmd)
	switch {
	case errors.Is(err, snip.ErrChoiceNotFound):
		return handler.NoOpWithMessage(err.Error())
	case errors.Is(err, context.Canceled):
		return handler.Cancelled()
	case err != nil:
		return handler.Error(err)
	case !picked:
		return handler.Cancelled()
	}
	return h.sessionResult()
}

func (h *Handler) insertShortcut(ctx context.Context, action input.Action) handler.Result {
	shortcut := action.Args.Text
	if shortcut == "" {
		shortcut = h.engine.ShortcutBeforeCaret()
	}
	if shortcut == "" {
		return handler.NoOp()
	}

	ok, err := h.engine.InsertByShortcut(ctx, shortcut)
	if err != nil {
		return handler.Error(err)
	}
	if !ok {
		return handler.NoOpWithMessage("no snippet for " + shortcut)
	}
	return h.sessionResult()
}

func (h *Handler) insertNamed(ctx context.Context, action input.Action) handler.Result {
	title := action.Args.Text
	if title == "" {
		return handler.Errorf("%s needs a title", ActionInsertNamed)
	}

	ok, err := h.engine.InsertNamed(ctx, title, action.Args.GetString("path"))
	if err != nil {
		return handler.Error(err)
	}
	if !ok {
		return handler.NoOpWithMessage("no snippet named " + title)
	}
	return h.sessionResult()
}

// sessionResult reports the session the action started or touched.
func (h *Handler) sessionResult() handler.Result {
	r := handler.Success()
	s := h.engine.LastSession()
	if s == nil {
		return r
	}
	r = r.WithData(DataTitle, s.Template().Title).
		WithData(DataSessionID, s.ID()).
		WithData(DataEndedEarly, s.EndedEarly())
	return r
}
