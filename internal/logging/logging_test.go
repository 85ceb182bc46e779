package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
}

func newTestLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(Config{Level: level, Output: &buf, Prefix: "test"})
	l.sink.now = fixedClock
	return l, &buf
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"debug", LevelDebug, true},
		{"DEBUG", LevelDebug, true},
		{" info ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"Error", LevelError, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestLoggerFormat(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.Info("loaded %d snippets", 3)

	want := "2026-01-02T03:04:05.006 [INFO] test: loaded 3 snippets\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	l, buf := newTestLogger(LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("messages below level should be dropped: %q", buf.String())
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("expected 2 lines, got %q", buf.String())
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	l, buf := newTestLogger(LevelDebug)

	l.WithComponent("engine").WithFields(map[string]any{"session": "abc", "line": 4}).Debug("clamped")

	if !strings.HasSuffix(buf.String(), "{component=engine, line=4, session=abc}\n") {
		t.Errorf("expected sorted fields, got %q", buf.String())
	}
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	l, buf := newTestLogger(LevelInfo)
	child := l.WithComponent("catalog")

	l.SetLevel(LevelError)
	child.Warn("dropped")

	if buf.Len() != 0 {
		t.Errorf("child should follow parent level, got %q", buf.String())
	}
	if child.Level() != LevelError {
		t.Errorf("expected child level ERROR, got %v", child.Level())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	l.WithField("k", "v").Info("nothing")
}
