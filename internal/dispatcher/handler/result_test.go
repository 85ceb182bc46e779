package handler_test

import (
	"errors"
	"testing"

	"github.com/dshills/snipstorm/internal/dispatcher/handler"
)

func TestResultStatus(t *testing.T) {
	tests := []struct {
		status   handler.ResultStatus
		expected string
	}{
		{handler.StatusOK, "ok"},
		{handler.StatusNoOp, "no-op"},
		{handler.StatusError, "error"},
		{handler.StatusCancelled, "cancelled"},
		{handler.ResultStatus(99), "unknown"},
	}

	for _, tc := range tests {
		if tc.status.String() != tc.expected {
			t.Errorf("ResultStatus(%d).String() = %q, want %q", tc.status, tc.status.String(), tc.expected)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name   string
		result handler.Result
		status handler.ResultStatus
	}{
		{"success", handler.Success(), handler.StatusOK},
		{"success message", handler.SuccessWithMessage("done"), handler.StatusOK},
		{"noop", handler.NoOp(), handler.StatusNoOp},
		{"noop message", handler.NoOpWithMessage("skip"), handler.StatusNoOp},
		{"error", handler.Error(errBoom), handler.StatusError},
		{"errorf", handler.Errorf("bad %d", 1), handler.StatusError},
		{"cancelled", handler.Cancelled(), handler.StatusCancelled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.result.Status != tc.status {
				t.Errorf("expected %v, got %v", tc.status, tc.result.Status)
			}
			if tc.result.IsError() != (tc.status == handler.StatusError) {
				t.Errorf("IsError mismatch for %v", tc.status)
			}
			if tc.result.IsOK() != (tc.status == handler.StatusOK) {
				t.Errorf("IsOK mismatch for %v", tc.status)
			}
		})
	}

	if err := handler.Error(errBoom).Error; !errors.Is(err, errBoom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if err := handler.Errorf("bad %d", 1).Error; err == nil || err.Error() != "bad 1" {
		t.Errorf("expected 'bad 1', got %v", err)
	}
}

func TestResultData(t *testing.T) {
	base := handler.Success().WithData("title", "while")
	r := base.WithData("ended", true).WithMessage("expanded")

	if got := r.GetDataString("title"); got != "while" {
		t.Errorf("expected title 'while', got %q", got)
	}
	if !r.GetDataBool("ended") {
		t.Error("expected ended true")
	}
	if r.Message != "expanded" {
		t.Errorf("expected message 'expanded', got %q", r.Message)
	}
	if _, ok := base.GetData("ended"); ok {
		t.Error("expected WithData to leave the original untouched")
	}
	if got := handler.NoOp().GetDataString("missing"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
