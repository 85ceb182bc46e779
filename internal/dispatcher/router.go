package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
)

// Router routes actions to handlers using namespace prefixes.
type Router struct {
	mu sync.RWMutex

	// Namespace handlers ("snippet" handles "snippet.*")
	namespaces map[string]handler.NamespaceHandler

	// Fallback handler for unmatched and declined actions
	fallback handler.Handler
}

// NewRouter creates a new action router.
func NewRouter() *Router {
	return &Router{
		namespaces: make(map[string]handler.NamespaceHandler),
	}
}

// RegisterNamespace registers a handler for all actions in a namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// SetFallback sets the fallback handler.
func (r *Router) SetFallback(h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Route finds the namespace handler for an action. routed is false when no
// namespace claims it, in which case h is the fallback, or nil.
func (r *Router) Route(actionName string) (h handler.Handler, routed bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ns, ok := r.namespaces[ExtractNamespace(actionName)]; ok && ns.CanHandle(actionName) {
		return handler.NewNamespaceAdapter(ns), true
	}
	return r.fallback, false
}

// Fallback returns the fallback handler.
func (r *Router) Fallback() handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// HasNamespace returns true if a handler is registered for the namespace.
func (r *Router) HasNamespace(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[namespace]
	return ok
}

// Namespaces returns all registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExtractNamespace extracts the namespace from "namespace.action" format.
// Returns empty string if no namespace separator is found.
func ExtractNamespace(actionName string) string {
	idx := strings.Index(actionName, ".")
	if idx < 0 {
		return ""
	}
	return actionName[:idx]
}

// ExtractActionName extracts the action name without namespace.
// For "snippet.tab", returns "tab".
func ExtractActionName(fullName string) string {
	idx := strings.Index(fullName, ".")
	if idx < 0 {
		return fullName
	}
	return fullName[idx+1:]
}

// BuildActionName builds a full action name from namespace and action.
func BuildActionName(namespace, action string) string {
	if namespace == "" {
		return action
	}
	return namespace + "." + action
}
