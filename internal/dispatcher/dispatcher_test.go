package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/dispatcher/hook"
	"github.com/dshills/snipstorm/internal/input"
)

// recorder is a fallback that records what reached it.
type recorder struct {
	names []string
}

func (r *recorder) Handle(ctx context.Context, action input.Action) handler.Result {
	r.names = append(r.names, action.Name)
	return handler.SuccessWithMessage("fallback")
}

func (r *recorder) CanHandle(string) bool { return true }

func newTestNamespace() *handler.BaseNamespaceHandler {
	ns := handler.NewBaseNamespaceHandler("test")
	ns.Register("test.ok", func(ctx context.Context, a input.Action) handler.Result {
		return handler.SuccessWithMessage("ok")
	})
	ns.Register("test.decline", func(ctx context.Context, a input.Action) handler.Result {
		return handler.NoOp()
	})
	ns.Register("test.fail", func(ctx context.Context, a input.Action) handler.Result {
		return handler.Errorf("failed")
	})
	ns.Register("test.panic", func(ctx context.Context, a input.Action) handler.Result {
		panic("boom")
	})
	return ns
}

func TestDispatchRoutesByNamespace(t *testing.T) {
	fb := &recorder{}
	d := New(WithFallback(fb))
	d.RegisterNamespace(newTestNamespace())

	result := d.Dispatch(context.Background(), input.Action{Name: "test.ok"})
	if result.Message != "ok" {
		t.Errorf("expected namespace handler, got %q", result.Message)
	}
	if len(fb.names) != 0 {
		t.Errorf("expected fallback unused, got %v", fb.names)
	}
}

func TestDispatchDeclinedGoesToFallback(t *testing.T) {
	fb := &recorder{}
	d := New(WithFallback(fb))
	d.RegisterNamespace(newTestNamespace())

	tests := []string{"test.decline", "test.unknown", "other.thing"}
	for _, name := range tests {
		result := d.Dispatch(context.Background(), input.Action{Name: name})
		if result.Message != "fallback" {
			t.Errorf("%s: expected fallback result, got %+v", name, result)
		}
	}
	if len(fb.names) != len(tests) {
		t.Errorf("expected %d fallback calls, got %v", len(tests), fb.names)
	}

	stats := d.Metrics().ActionStats("test.decline")
	if stats == nil || stats.DispatchCount != 1 {
		t.Fatalf("expected one dispatch recorded, got %+v", stats)
	}
	if stats.LastStatus != handler.StatusOK {
		t.Errorf("expected final status ok, got %v", stats.LastStatus)
	}
}

func TestDispatchWithoutFallback(t *testing.T) {
	d := New()
	d.RegisterNamespace(newTestNamespace())

	result := d.Dispatch(context.Background(), input.Action{Name: "test.decline"})
	if result.Status != handler.StatusNoOp {
		t.Errorf("expected StatusNoOp, got %v", result.Status)
	}

	result = d.Dispatch(context.Background(), input.Action{Name: "other.thing"})
	if !errors.Is(result.Error, ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", result.Error)
	}
}

func TestDispatchErrors(t *testing.T) {
	d := New()
	d.RegisterNamespace(newTestNamespace())

	if result := d.Dispatch(context.Background(), input.Action{}); !errors.Is(result.Error, ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", result.Error)
	}

	result := d.Dispatch(context.Background(), input.Action{Name: "test.panic"})
	if !errors.Is(result.Error, ErrPanic) {
		t.Errorf("expected ErrPanic, got %v", result.Error)
	}
	if d.Metrics().TotalPanics() != 1 {
		t.Errorf("expected 1 panic, got %d", d.Metrics().TotalPanics())
	}

	d.Dispatch(context.Background(), input.Action{Name: "test.fail"})
	if d.Metrics().TotalErrors() != 2 {
		t.Errorf("expected 2 errors, got %d", d.Metrics().TotalErrors())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if result := d.Dispatch(ctx, input.Action{Name: "test.ok"}); !errors.Is(result.Error, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", result.Error)
	}
}

func TestMetricsTopActions(t *testing.T) {
	d := New()
	d.RegisterNamespace(newTestNamespace())
	for i := 0; i < 3; i++ {
		d.Dispatch(context.Background(), input.Action{Name: "test.ok"})
	}
	d.Dispatch(context.Background(), input.Action{Name: "test.decline"})

	top := d.Metrics().TopActions(5)
	if len(top) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(top))
	}
	if top[0].Name != "test.ok" || top[0].DispatchCount != 3 {
		t.Errorf("unexpected top action %+v", top[0])
	}
	if top[1].NoOpCount != 1 {
		t.Errorf("expected declined action counted, got %+v", top[1])
	}
	if d.Metrics().TotalDispatches() != 4 {
		t.Errorf("expected 4 dispatches, got %d", d.Metrics().TotalDispatches())
	}
}

func TestActionNames(t *testing.T) {
	tests := []struct {
		full, ns, name string
	}{
		{"snippet.tab", "snippet", "tab"},
		{"plain", "", "plain"},
		{"a.b.c", "a", "b.c"},
	}
	for _, tt := range tests {
		if got := ExtractNamespace(tt.full); got != tt.ns {
			t.Errorf("ExtractNamespace(%q): expected %q, got %q", tt.full, tt.ns, got)
		}
		if got := ExtractActionName(tt.full); got != tt.name {
			t.Errorf("ExtractActionName(%q): expected %q, got %q", tt.full, tt.name, got)
		}
	}
	if got := BuildActionName("snippet", "tab"); got != "snippet.tab" {
		t.Errorf("expected snippet.tab, got %q", got)
	}
	if got := BuildActionName("", "tab"); got != "tab" {
		t.Errorf("expected tab, got %q", got)
	}
}

func TestRouterNamespaces(t *testing.T) {
	r := NewRouter()
	r.RegisterNamespace("b", handler.NewBaseNamespaceHandler("b"))
	r.RegisterNamespace("a", handler.NewBaseNamespaceHandler("a"))

	if got := r.Namespaces(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}
	r.UnregisterNamespace("a")
	if r.HasNamespace("a") || !r.HasNamespace("b") {
		t.Error("unexpected namespaces after unregister")
	}
	if h, routed := r.Route("b.x"); h != nil || routed {
		t.Error("expected no route for unregistered action without fallback")
	}
}

func TestDispatchHooks(t *testing.T) {
	var seen []string
	guard := hook.NewGuardHook("no-fail", hook.PriorityGuard, func(_ context.Context, a input.Action) error {
		if a.Name == "test.fail" {
			return errors.New("blocked")
		}
		return nil
	})
	post := hook.NewPostDispatchFunc("seen", 0, func(_ context.Context, a input.Action, r *handler.Result) {
		seen = append(seen, a.Name+":"+r.Status.String())
	})
	d := New(WithHooks(guard, post))
	d.RegisterNamespace(newTestNamespace())

	result := d.Dispatch(context.Background(), input.Action{Name: "test.fail"})
	if result.Status != handler.StatusCancelled {
		t.Errorf("expected cancelled, got %v", result.Status)
	}
	if result.Message != "no-fail: blocked" {
		t.Errorf("expected guard message, got %q", result.Message)
	}

	d.Dispatch(context.Background(), input.Action{Name: "test.ok"})
	if len(seen) != 1 || seen[0] != "test.ok:ok" {
		t.Errorf("expected only test.ok to reach post hooks, got %v", seen)
	}
	if d.Metrics().TotalDispatches() != 1 {
		t.Errorf("expected cancelled dispatch not counted, got %d", d.Metrics().TotalDispatches())
	}
}
