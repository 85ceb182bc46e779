package handler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/input"
)

func TestHandlerFunc(t *testing.T) {
	called := false
	fn := handler.HandlerFunc(func(ctx context.Context, action input.Action) handler.Result {
		called = true
		return handler.Success()
	})

	result := fn.Handle(context.Background(), input.Action{Name: "test"})

	if !called {
		t.Error("expected handler func to be called")
	}
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if !fn.CanHandle("anything") {
		t.Error("expected CanHandle to return true")
	}
}

func TestHandlerFuncNil(t *testing.T) {
	var fn handler.HandlerFunc
	result := fn.Handle(context.Background(), input.Action{Name: "test"})

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError for nil func, got %v", result.Status)
	}
}

func TestBaseNamespaceHandler(t *testing.T) {
	h := handler.NewBaseNamespaceHandler("snippet")
	h.Register("snippet.tab", func(ctx context.Context, action input.Action) handler.Result {
		return handler.SuccessWithMessage(action.Args.Text)
	})

	if h.Namespace() != "snippet" {
		t.Errorf("expected namespace 'snippet', got %q", h.Namespace())
	}
	if !h.CanHandle("snippet.tab") {
		t.Error("expected CanHandle for registered action")
	}
	if h.CanHandle("snippet.other") {
		t.Error("expected CanHandle false for unregistered action")
	}

	adapter := handler.NewNamespaceAdapter(h)
	result := adapter.Handle(context.Background(), input.Action{Name: "snippet.tab"}.WithText("next"))
	if result.Message != "next" {
		t.Errorf("expected message 'next', got %q", result.Message)
	}

	result = h.HandleAction(context.Background(), input.Action{Name: "snippet.other"})
	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError, got %v", result.Status)
	}
	if !strings.Contains(result.Error.Error(), "snippet.other") {
		t.Errorf("expected error to name the action, got %v", result.Error)
	}
}

func TestChain(t *testing.T) {
	var order []string
	named := func(name string, status handler.ResultStatus) handler.Handler {
		return handler.HandlerFunc(func(ctx context.Context, action input.Action) handler.Result {
			order = append(order, name)
			return handler.Result{Status: status, Message: name}
		})
	}
	ns := handler.NewBaseNamespaceHandler("snippet")
	ns.Register("snippet.tab", func(ctx context.Context, action input.Action) handler.Result {
		order = append(order, "snippet")
		return handler.NoOp()
	})

	chain := handler.Chain{
		handler.NewNamespaceAdapter(ns),
		nil,
		named("editor", handler.StatusOK),
		named("never", handler.StatusOK),
	}

	result := chain.Handle(context.Background(), input.Action{Name: "snippet.tab"})
	if result.Message != "editor" {
		t.Errorf("expected editor to handle the action, got %q", result.Message)
	}
	if strings.Join(order, ",") != "snippet,editor" {
		t.Errorf("expected snippet,editor, got %v", order)
	}

	order = nil
	chain.Handle(context.Background(), input.Action{Name: "other.tab"})
	if strings.Join(order, ",") != "editor" {
		t.Errorf("expected namespace handler skipped, got %v", order)
	}

	empty := handler.Chain{named("decline", handler.StatusNoOp)}
	if r := empty.Handle(context.Background(), input.Action{Name: "x"}); r.Status != handler.StatusNoOp {
		t.Errorf("expected StatusNoOp, got %v", r.Status)
	}
	if (handler.Chain{}).CanHandle("x") {
		t.Error("expected empty chain to handle nothing")
	}
}
