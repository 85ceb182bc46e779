package hook

import (
	"context"
	"slices"
	"sync"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/input"
)

// Manager keeps dispatch hooks in priority order.
type Manager struct {
	mu        sync.RWMutex
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds h to the pre list, the post list or both, depending on
// which interfaces it implements. A hook with the same name is replaced.
func (m *Manager) Register(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pre, ok := h.(PreDispatchHook); ok {
		m.preHooks = replaceOrAppend(m.preHooks, pre)
		slices.SortStableFunc(m.preHooks, func(a, b PreDispatchHook) int {
			return b.Priority() - a.Priority()
		})
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.postHooks = replaceOrAppend(m.postHooks, post)
		slices.SortStableFunc(m.postHooks, func(a, b PostDispatchHook) int {
			return a.Priority() - b.Priority()
		})
	}
}

func replaceOrAppend[H Hook](hooks []H, h H) []H {
	for i, existing := range hooks {
		if existing.Name() == h.Name() {
			hooks[i] = h
			return hooks
		}
	}
	return append(hooks, h)
}

// Unregister removes a hook by name from both lists.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.preHooks) + len(m.postHooks)
	m.preHooks = slices.DeleteFunc(m.preHooks, func(h PreDispatchHook) bool { return h.Name() == name })
	m.postHooks = slices.DeleteFunc(m.postHooks, func(h PostDispatchHook) bool { return h.Name() == name })
	return len(m.preHooks)+len(m.postHooks) < n
}

// RunPreDispatch runs the pre-dispatch hooks, highest priority first,
// and stops at the first error.
func (m *Manager) RunPreDispatch(ctx context.Context, action *input.Action) error {
	m.mu.RLock()
	hooks := slices.Clone(m.preHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if err := h.PreDispatch(ctx, action); err != nil {
			return err
		}
	}
	return nil
}

// RunPostDispatch runs the post-dispatch hooks, lowest priority first.
func (m *Manager) RunPostDispatch(ctx context.Context, action input.Action, result *handler.Result) {
	m.mu.RLock()
	hooks := slices.Clone(m.postHooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(ctx, action, result)
	}
}

// Names returns the registered pre and post hook names in run order.
func (m *Manager) Names() (pre, post []string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.preHooks {
		pre = append(pre, h.Name())
	}
	for _, h := range m.postHooks {
		post = append(post, h.Name())
	}
	return pre, post
}
