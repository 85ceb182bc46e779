package main

import (
	"testing"

	"github.com/dshills/snipstorm/internal/engine/buffer"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    buffer.Point
		wantErr bool
	}{
		{"1:1", buffer.Point{Line: 0, Column: 0}, false},
		{" 3:7 ", buffer.Point{Line: 2, Column: 6}, false},
		{"3", buffer.Point{}, true},
		{"0:1", buffer.Point{}, true},
		{"1:x", buffer.Point{}, true},
		{"-2:1", buffer.Point{}, true},
	}

	for _, tt := range tests {
		got, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q): expected error %v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parsePoint(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
}

func TestParseSpan(t *testing.T) {
	start, end, err := parseSpan("2:5-4:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != (buffer.Point{Line: 1, Column: 4}) || end != (buffer.Point{Line: 3, Column: 0}) {
		t.Errorf("expected 1:4 to 3:0, got %+v to %+v", start, end)
	}

	if _, _, err := parseSpan("4:1-2:5"); err == nil {
		t.Error("expected error for a reversed selection")
	}
	if _, _, err := parseSpan("2:5"); err == nil {
		t.Error("expected error without a range separator")
	}
}

func TestFormatPoint(t *testing.T) {
	snap := buffer.NewBufferFromString("ab\n日本x").Snapshot()
	// "日本" is six bytes and four cells wide.
	if got := formatPoint(snap, 9); got != "2:5" {
		t.Errorf("expected %q, got %q", "2:5", got)
	}
}
