package main

import (
	"bytes"
	"testing"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

func plainStyle(t *testing.T) *style {
	t.Helper()
	st, err := newStyle("off", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newStyle failed: %v", err)
	}
	return st
}

func TestNewStyleInvalid(t *testing.T) {
	if _, err := newStyle("sometimes", &bytes.Buffer{}); err == nil {
		t.Error("expected error for an unknown color mode")
	}
}

func TestMarkText(t *testing.T) {
	st := plainStyle(t)
	tests := []struct {
		name       string
		start, end int
		want       string
	}{
		{"caret", 2, 2, "ab‸cd"},
		{"selection", 1, 3, "a[bc]d"},
		{"clamped", 9, 12, "abcd‸"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := st.markText("abcd", tt.start, tt.end); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("日本", 6); got != "日本  " {
		t.Errorf("expected two spaces of padding, got %q", got)
	}
	if got := padRight("long", 2); got != "long" {
		t.Errorf("expected no padding, got %q", got)
	}
}

func TestFilterTemplates(t *testing.T) {
	ts := []*template.Template{
		{Title: "for", Language: "python", Categories: template.NewCategories(template.Expansion)},
		{Title: "try", Language: "python", Categories: template.NewCategories(template.SurroundsWith)},
		{Title: "iferr", Language: "go", Categories: template.NewCategories(template.Expansion)},
		{Title: "todo", Categories: template.NewCategories(template.Expansion)},
	}

	titles := func(ts []*template.Template) []string {
		var out []string
		for _, tp := range ts {
			out = append(out, tp.Title)
		}
		return out
	}

	got := titles(filterTemplates(ts, template.NewCategories(template.Expansion), "Python"))
	want := []string{"for", "todo"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	if n := len(filterTemplates(ts, 0, "")); n != len(ts) {
		t.Errorf("expected no filtering, got %d of %d", n, len(ts))
	}
}
