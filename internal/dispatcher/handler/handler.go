// Package handler provides the handler interface and result types for
// action dispatch.
package handler

import (
	"context"

	"github.com/dshills/snipstorm/internal/input"
)

// Handler processes a specific action or set of actions.
type Handler interface {
	// Handle executes the action and returns a result.
	Handle(ctx context.Context, action input.Action) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool
}

// HandlerFunc adapts a function to the Handler interface. It claims every
// action; the caller routes.
type HandlerFunc func(ctx context.Context, action input.Action) Result

// Handle implements Handler.Handle.
func (f HandlerFunc) Handle(ctx context.Context, action input.Action) Result {
	if f == nil {
		return Errorf("handler function is nil")
	}
	return f(ctx, action)
}

// CanHandle implements Handler.CanHandle.
func (f HandlerFunc) CanHandle(string) bool {
	return true
}

// NamespaceHandler handles all actions within a namespace.
// A namespace is the prefix before the first dot ("snippet" in "snippet.tab").
type NamespaceHandler interface {
	// HandleAction handles an action within this namespace.
	HandleAction(ctx context.Context, action input.Action) Result

	// CanHandle returns true if this handler can process the action.
	CanHandle(actionName string) bool

	// Namespace returns the namespace prefix.
	Namespace() string
}

// namespaceAdapter adapts NamespaceHandler to Handler interface.
type namespaceAdapter struct {
	h NamespaceHandler
}

// NewNamespaceAdapter creates a Handler from a NamespaceHandler.
func NewNamespaceAdapter(h NamespaceHandler) Handler {
	return &namespaceAdapter{h: h}
}

func (a *namespaceAdapter) Handle(ctx context.Context, action input.Action) Result {
	return a.h.HandleAction(ctx, action)
}

func (a *namespaceAdapter) CanHandle(actionName string) bool {
	return a.h.CanHandle(actionName)
}

// ActionFunc handles one registered action.
type ActionFunc func(ctx context.Context, action input.Action) Result

// BaseNamespaceHandler dispatches to per-action functions.
type BaseNamespaceHandler struct {
	namespace string
	actions   map[string]ActionFunc
}

// NewBaseNamespaceHandler creates a new BaseNamespaceHandler.
func NewBaseNamespaceHandler(namespace string) *BaseNamespaceHandler {
	return &BaseNamespaceHandler{
		namespace: namespace,
		actions:   make(map[string]ActionFunc),
	}
}

// Register registers a handler function for an action name.
func (h *BaseNamespaceHandler) Register(actionName string, fn ActionFunc) {
	h.actions[actionName] = fn
}

// Namespace implements NamespaceHandler.Namespace.
func (h *BaseNamespaceHandler) Namespace() string {
	return h.namespace
}

// CanHandle implements NamespaceHandler.CanHandle.
func (h *BaseNamespaceHandler) CanHandle(actionName string) bool {
	_, ok := h.actions[actionName]
	return ok
}

// HandleAction implements NamespaceHandler.HandleAction.
func (h *BaseNamespaceHandler) HandleAction(ctx context.Context, action input.Action) Result {
	fn, ok := h.actions[action.Name]
	if !ok {
		return Errorf("unknown action in namespace %s: %s", h.namespace, action.Name)
	}
	return fn(ctx, action)
}

// Chain tries each handler in order and returns the first result that is
// not StatusNoOp. Handlers that cannot handle the action are skipped.
type Chain []Handler

// Handle implements Handler.Handle.
func (c Chain) Handle(ctx context.Context, action input.Action) Result {
	for _, h := range c {
		if h == nil || !h.CanHandle(action.Name) {
			continue
		}
		if r := h.Handle(ctx, action); r.Status != StatusNoOp {
			return r
		}
	}
	return NoOp()
}

// CanHandle implements Handler.CanHandle.
func (c Chain) CanHandle(actionName string) bool {
	for _, h := range c {
		if h != nil && h.CanHandle(actionName) {
			return true
		}
	}
	return false
}
