package hook

import (
	"context"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/input"
)

// Hook is the base interface for all dispatch hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	Priority() int
}

// PreDispatchHook is called before an action is dispatched.
type PreDispatchHook interface {
	Hook

	// PreDispatch may modify the action. A non-nil error cancels the
	// dispatch and becomes the cancellation message.
	PreDispatch(ctx context.Context, action *input.Action) error
}

// PostDispatchHook is called after an action is dispatched.
type PostDispatchHook interface {
	Hook

	PostDispatch(ctx context.Context, action input.Action, result *handler.Result)
}

// PreDispatchFunc wraps a function as a PreDispatchHook.
type PreDispatchFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, action *input.Action) error
}

// NewPreDispatchFunc creates a new PreDispatchFunc hook.
func NewPreDispatchFunc(name string, priority int, fn func(ctx context.Context, action *input.Action) error) *PreDispatchFunc {
	return &PreDispatchFunc{name: name, priority: priority, fn: fn}
}

// Name implements Hook.
func (f *PreDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreDispatchFunc) Priority() int { return f.priority }

// PreDispatch implements PreDispatchHook.
func (f *PreDispatchFunc) PreDispatch(ctx context.Context, action *input.Action) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx, action)
}

// PostDispatchFunc wraps a function as a PostDispatchHook.
type PostDispatchFunc struct {
	name     string
	priority int
	fn       func(ctx context.Context, action input.Action, result *handler.Result)
}

// NewPostDispatchFunc creates a new PostDispatchFunc hook.
func NewPostDispatchFunc(name string, priority int, fn func(ctx context.Context, action input.Action, result *handler.Result)) *PostDispatchFunc {
	return &PostDispatchFunc{name: name, priority: priority, fn: fn}
}

// Name implements Hook.
func (f *PostDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PostDispatchFunc) Priority() int { return f.priority }

// PostDispatch implements PostDispatchHook.
func (f *PostDispatchFunc) PostDispatch(ctx context.Context, action input.Action, result *handler.Result) {
	if f.fn != nil {
		f.fn(ctx, action, result)
	}
}
