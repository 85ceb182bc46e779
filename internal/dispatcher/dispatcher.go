// Package dispatcher routes actions to handlers and coordinates execution.
package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/dispatcher/hook"
	"github.com/dshills/snipstorm/internal/input"
	"github.com/dshills/snipstorm/internal/logging"
)

// Dispatcher routes actions to namespace handlers. An action the handler
// declines with StatusNoOp goes on to the fallback handler, which stands
// for the editor's own command processing.
type Dispatcher struct {
	router  *Router
	metrics *Metrics
	hooks   *hook.Manager
	logger  *logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithFallback sets the handler that receives unrouted and declined actions.
func WithFallback(h handler.Handler) Option {
	return func(d *Dispatcher) {
		d.router.SetFallback(h)
	}
}

// WithHooks registers dispatch hooks.
func WithHooks(hs ...hook.Hook) Option {
	return func(d *Dispatcher) {
		for _, h := range hs {
			d.hooks.Register(h)
		}
	}
}

// New creates a dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		router:  NewRouter(),
		metrics: NewMetrics(),
		hooks:   hook.NewManager(),
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dispatcher")
	return d
}

// RegisterNamespace registers a namespace handler.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h.Namespace(), h)
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *hook.Manager {
	return d.hooks
}

// Metrics returns the dispatch statistics.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, action input.Action) handler.Result {
	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}
	if err := ctx.Err(); err != nil {
		return handler.Error(err)
	}

	if err := d.hooks.RunPreDispatch(ctx, &action); err != nil {
		d.logger.WithField("action", action.Name).Debug("cancelled by hook: %v", err)
		return handler.Cancelled().WithMessage(err.Error())
	}

	start := time.Now()
	result := d.dispatch(ctx, action)
	d.hooks.RunPostDispatch(ctx, action, &result)
	d.metrics.RecordDispatch(action.Name, time.Since(start), result.Status)

	if result.IsError() {
		d.logger.WithField("action", action.Name).Warn("action failed: %v", result.Error)
	}
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, action input.Action) handler.Result {
	h, routed := d.router.Route(action.Name)
	if h == nil {
		return handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
	}

	result := d.execute(ctx, h, action)
	if result.Status != handler.StatusNoOp || !routed {
		return result
	}
	fallback := d.router.Fallback()
	if fallback == nil {
		return result
	}

	d.logger.WithField("action", action.Name).Debug("declined, passing to fallback")
	return d.execute(ctx, fallback, action)
}

// execute runs a handler, turning a panic into an error result.
func (d *Dispatcher) execute(ctx context.Context, h handler.Handler, action input.Action) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			d.logger.WithField("action", action.Name).Error("handler panic: %v\n%s", r, stack[:n])
			d.metrics.RecordPanic(action.Name)
			result = handler.Error(fmt.Errorf("%w for %s: %v", ErrPanic, action.Name, r))
		}
	}()
	return h.Handle(ctx, action)
}
