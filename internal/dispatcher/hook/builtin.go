package hook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/input"
	"github.com/dshills/snipstorm/internal/logging"
)

// Standard priorities.
const (
	PriorityAudit = 1000
	PriorityGuard = 800
)

// AuditHook traces every dispatched action at debug level and warns about
// actions slower than a threshold. Field functions run inside dispatch,
// so a slow expansion usually points at one of them.
type AuditHook struct {
	logger *logging.Logger
	slow   time.Duration

	mu      sync.Mutex
	started map[string]time.Time
}

// NewAuditHook creates an audit hook. A zero slow disables the warning.
func NewAuditHook(logger *logging.Logger, slow time.Duration) *AuditHook {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AuditHook{
		logger:  logger.WithComponent("audit"),
		slow:    slow,
		started: make(map[string]time.Time),
	}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch records the start of the action.
func (h *AuditHook) PreDispatch(_ context.Context, action *input.Action) error {
	h.mu.Lock()
	h.started[action.Name] = time.Now()
	h.mu.Unlock()

	h.logger.WithFields(map[string]any{
		"action": action.Name,
		"source": action.Source.String(),
	}).Debug("dispatch start")
	return nil
}

// PostDispatch logs the result and the elapsed time.
func (h *AuditHook) PostDispatch(_ context.Context, action input.Action, result *handler.Result) {
	h.mu.Lock()
	start, ok := h.started[action.Name]
	delete(h.started, action.Name)
	h.mu.Unlock()

	var elapsed time.Duration
	if ok {
		elapsed = time.Since(start)
	}
	l := h.logger.WithFields(map[string]any{
		"action":  action.Name,
		"status":  result.Status.String(),
		"elapsed": elapsed,
	})
	if result.Message != "" {
		l = l.WithField("message", result.Message)
	}
	l.Debug("dispatch complete")

	if h.slow > 0 && elapsed > h.slow {
		l.Warn("slow action")
	}
}

// GuardHook cancels actions that a check rejects.
type GuardHook struct {
	name     string
	priority int
	check    func(ctx context.Context, action input.Action) error
}

// NewGuardHook creates a guard hook.
func NewGuardHook(name string, priority int, check func(ctx context.Context, action input.Action) error) *GuardHook {
	return &GuardHook{name: name, priority: priority, check: check}
}

// Name implements Hook.
func (h *GuardHook) Name() string { return h.name }

// Priority implements Hook.
func (h *GuardHook) Priority() int { return h.priority }

// PreDispatch implements PreDispatchHook.
func (h *GuardHook) PreDispatch(ctx context.Context, action *input.Action) error {
	if h.check == nil {
		return nil
	}
	if err := h.check(ctx, *action); err != nil {
		return fmt.Errorf("%s: %w", h.name, err)
	}
	return nil
}
