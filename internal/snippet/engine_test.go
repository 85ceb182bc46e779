package snippet

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/template"
	"github.com/dshills/snipstorm/internal/view"
)

type mapCatalog struct {
	templates []*template.Template
}

func newCatalog(ts ...*template.Template) *mapCatalog {
	return &mapCatalog{templates: ts}
}

func (c *mapCatalog) Lookup(shortcut string) (*template.Template, bool) {
	for _, t := range c.templates {
		if strings.EqualFold(t.Shortcut, shortcut) {
			return t, true
		}
	}
	return nil, false
}

func (c *mapCatalog) LookupNamed(title, path string) (*template.Template, bool) {
	for _, t := range c.templates {
		if t.Title == title && t.Path == path {
			return t, true
		}
	}
	return nil, false
}

type fakePicker struct {
	requests []PickRequest
	choice   Choice
	ok       bool
}

func (p *fakePicker) Pick(_ context.Context, req PickRequest) (Choice, bool, error) {
	p.requests = append(p.requests, req)
	return p.choice, p.ok, nil
}

var surroundStatement = template.NewCategories(template.SurroundsWith, template.SurroundsWithStatement)

func whileTemplate() *template.Template {
	return &template.Template{
		Title:      "while",
		Shortcut:   "while",
		Code:       "while True:\n    $selected$",
		Categories: surroundStatement,
	}
}

func whileCondTemplate() *template.Template {
	return &template.Template{
		Title:      "whilec",
		Code:       "while $cond$:\n    $selected$",
		Fields:     []template.Field{{ID: "cond", Default: "True", Editable: true}},
		Categories: surroundStatement,
	}
}

func forTemplate() *template.Template {
	return &template.Template{
		Title:    "for",
		Shortcut: "for",
		Code:     "for $i$ in $seq$:\n    $end$",
		Fields: []template.Field{
			{ID: "i", Default: "i", Editable: true},
			{ID: "seq", Default: "range(10)", Editable: true},
		},
		Categories: template.NewCategories(template.Expansion),
	}
}

func newEngine(t *testing.T, content string, sel buffer.Range, ts ...*template.Template) (*Engine, *view.View) {
	t.Helper()
	v := view.New(view.WithContent(content))
	if err := v.Select(sel); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	return New(v, newCatalog(ts...)), v
}

func TestSurroundSelectionEndToEnd(t *testing.T) {
	e, v := newEngine(t, "x = 1", buffer.NewRange(0, 5), whileTemplate())

	ok, err := e.InsertNamed(context.Background(), "while", "")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !ok {
		t.Fatal("expected template to be found")
	}

	want := "while True:\n    x = 1"
	if got := v.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if e.InSession() {
		t.Error("template without fields should end its session")
	}
	if got := v.Caret(); got != buffer.ByteOffset(len(want)) {
		t.Errorf("expected caret at %d, got %d", len(want), got)
	}
}

func TestStatementPlaceholderWithTrailingCode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		caret   buffer.ByteOffset
		want    string
		sel     buffer.Range
	}{
		{"no indentation", "foo()", 0, "while True:\n    pass\nfoo()", buffer.NewRange(16, 20)},
		{"indented", "  foo()", 2, "  while True:\n      pass\nfoo()", buffer.NewRange(20, 24)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, v := newEngine(t, tt.content, buffer.NewRange(tt.caret, tt.caret), whileTemplate())

			if _, err := e.InsertNamed(context.Background(), "while", ""); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			if got := v.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if got := v.SelectionRange(); got != tt.sel {
				t.Errorf("expected placeholder selected at %v, got %v", tt.sel, got)
			}
			if got := v.SelectedText(); got != "pass" {
				t.Errorf("expected %q selected, got %q", "pass", got)
			}
		})
	}
}

func TestStatementPlaceholderEndSpan(t *testing.T) {
	e, v := newEngine(t, "foo()", buffer.NewRange(0, 0), whileCondTemplate())

	if _, err := e.InsertNamed(context.Background(), "whilec", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !e.InSession() {
		t.Fatal("expected an active session")
	}

	es, ok := e.Session().EndSpan()
	if !ok {
		t.Fatal("expected an end span")
	}
	if es.Line != 1 || es.Column != 4 || es.Length != 4 {
		t.Errorf("expected end span 1:4+4, got %d:%d+%d", es.Line, es.Column, es.Length)
	}
	if got := v.SelectedText(); got != "True" {
		t.Errorf("expected first field selected, got %q", got)
	}

	handled, err := e.Exec(context.Background(), CommandReturn)
	if !handled || err != nil {
		t.Fatalf("expected Enter to be handled, got %v, %v", handled, err)
	}
	if got := v.SelectedText(); got != "pass" {
		t.Errorf("expected placeholder selected, got %q", got)
	}
	if e.InSession() {
		t.Error("session should have ended")
	}
}

func TestStatementNotInjectedForSelection(t *testing.T) {
	e, v := newEngine(t, "  x = 1  ", buffer.NewRange(2, 7), whileTemplate())

	if _, err := e.InsertNamed(context.Background(), "while", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	want := "  while True:\n      x = 1  "
	if got := v.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSurroundMultiLineSelection(t *testing.T) {
	ifTmpl := &template.Template{
		Title:      "if",
		Code:       "if True:\n  $selected$",
		Categories: template.NewCategories(template.SurroundsWith),
	}

	tests := []struct {
		name    string
		content string
		sel     buffer.Range
		want    string
	}{
		{"column zero", "a\nb\nc", buffer.NewRange(0, 5), "if True:\n  a\n  b\n  c"},
		{"indented", "    a\n    b\n    c", buffer.NewRange(4, 17), "    if True:\n      a\n          b\n          c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, v := newEngine(t, tt.content, tt.sel, ifTmpl)
			if _, err := e.InsertNamed(context.Background(), "if", ""); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			if got := v.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPlainTemplateBaseIndentation(t *testing.T) {
	e, v := newEngine(t, "    ", buffer.NewRange(4, 4), forTemplate())

	if _, err := e.InsertNamed(context.Background(), "for", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	want := "    for i in range(10):\n        "
	if got := v.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatSpanDoesNotDoubleIndent(t *testing.T) {
	e, v := newEngine(t, "", buffer.NewRange(0, 0), forTemplate())

	if _, err := e.InsertNamed(context.Background(), "for", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	before := v.Text()

	raw := e.Session().raw
	if err := e.FormatSpan(raw, raw.Span()); err != nil {
		t.Fatalf("second format failed: %v", err)
	}
	if got := v.Text(); got != before {
		t.Errorf("expected %q unchanged, got %q", before, got)
	}
}

func TestClampIsLogged(t *testing.T) {
	var out bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Output: &out})

	v := view.New(view.WithContent(""))
	e := New(v, newCatalog(whileTemplate()), WithLogger(log))

	if _, err := e.InsertNamed(context.Background(), "while", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !strings.Contains(out.String(), "clamping") {
		t.Errorf("expected clamp to be logged, got %q", out.String())
	}
	if got := v.Text(); got != "while True:\n    pass" {
		t.Errorf("expected %q, got %q", "while True:\n    pass", got)
	}
}

func TestFieldNavigation(t *testing.T) {
	e, v := newEngine(t, "", buffer.NewRange(0, 0), forTemplate())

	if _, err := e.InsertNamed(context.Background(), "for", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	steps := []struct {
		name string
		move func() error
		want string
	}{
		{"initial", func() error { return nil }, "i"},
		{"next", e.NextField, "range(10)"},
		{"wrap forward", e.NextField, "i"},
		{"wrap backward", e.PreviousField, "range(10)"},
	}
	for _, st := range steps {
		if err := st.move(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		if got := v.SelectedText(); got != st.want {
			t.Errorf("%s: expected %q selected, got %q", st.name, st.want, got)
		}
	}

	if err := e.Session().SetField("i", "idx"); err != nil {
		t.Fatalf("set field failed: %v", err)
	}
	if got := e.Session().Fields()["i"]; got != "idx" {
		t.Errorf("expected %q, got %q", "idx", got)
	}

	if err := e.EndSession(false); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	want := "for idx in range(10):\n    "
	if got := v.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := v.Caret(); got != buffer.ByteOffset(len(want)) {
		t.Errorf("expected caret at $end$ (%d), got %d", len(want), got)
	}
}

func TestNoSession(t *testing.T) {
	e, _ := newEngine(t, "abc", buffer.NewRange(0, 0))

	if err := e.NextField(); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if err := e.PreviousField(); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if err := e.EndSession(true); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}

	for _, cmd := range []Command{CommandReturn, CommandTab, CommandBackTab} {
		handled, err := e.Exec(context.Background(), cmd)
		if handled || err != nil {
			t.Errorf("%s: expected pass-through, got %v, %v", cmd, handled, err)
		}
		if st := e.QueryStatus(cmd); st.Enabled {
			t.Errorf("%s: expected disabled without a session", cmd)
		}
	}
}

func TestSessionAbort(t *testing.T) {
	e, v := newEngine(t, "", buffer.NewRange(0, 0), forTemplate())
	ctx := context.Background()

	if _, err := e.InsertNamed(ctx, "for", ""); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	a := e.Session()

	if err := v.SetCaret(v.Buffer().Len()); err != nil {
		t.Fatalf("set caret failed: %v", err)
	}
	if _, err := e.InsertNamed(ctx, "for", ""); err != nil {
		t.Fatalf("second insert failed: %v", err)
	}
	b := e.Session()

	if a == b {
		t.Fatal("expected a new session")
	}
	if a.Active() || a.raw.Active() {
		t.Error("first session should be aborted")
	}
	if a.selStart != nil || a.selEnd != nil {
		t.Error("aborted session should drop its tracked selection")
	}
	if !b.Active() {
		t.Error("second session should be active")
	}
	if a.ID() == b.ID() {
		t.Error("sessions should have distinct IDs")
	}
}

func TestInsertByShortcut(t *testing.T) {
	e, v := newEngine(t, "x = for", buffer.NewRange(7, 7), forTemplate())

	if got := e.ShortcutBeforeCaret(); got != "for" {
		t.Fatalf("expected shortcut %q, got %q", "for", got)
	}
	ok, err := e.InsertByShortcut(context.Background(), "for")
	if err != nil || !ok {
		t.Fatalf("expected expansion, got %v, %v", ok, err)
	}
	want := "x = for i in range(10):\n    "
	if got := v.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := v.SelectedText(); got != "i" {
		t.Errorf("expected %q selected, got %q", "i", got)
	}
}

func TestNotFound(t *testing.T) {
	e, v := newEngine(t, "abc", buffer.NewRange(3, 3), forTemplate())
	ctx := context.Background()

	if ok, err := e.InsertNamed(ctx, "missing", ""); ok || err != nil {
		t.Errorf("expected no expansion, got %v, %v", ok, err)
	}
	if ok, err := e.InsertByShortcut(ctx, "nope"); ok || err != nil {
		t.Errorf("expected no expansion, got %v, %v", ok, err)
	}
	if ok, err := e.InsertByShortcut(ctx, "for"); ok || err != nil {
		t.Errorf("expected no expansion when text does not match, got %v, %v", ok, err)
	}
	if v.Text() != "abc" {
		t.Errorf("buffer should be unchanged, got %q", v.Text())
	}
}

func TestMalformedTemplate(t *testing.T) {
	bad := &template.Template{Title: "bad", Code: "x"}
	e, v := newEngine(t, "abc", buffer.NewRange(0, 0), bad)

	_, err := e.InsertNamed(context.Background(), "bad", "")
	if !errors.Is(err, ErrMalformedTemplate) {
		t.Errorf("expected ErrMalformedTemplate, got %v", err)
	}
	if e.Session() != nil {
		t.Error("no session should be active")
	}
	if v.Text() != "abc" {
		t.Errorf("buffer should be unchanged, got %q", v.Text())
	}
}

func TestPlaceholderResolution(t *testing.T) {
	override := whileTemplate()
	override.Title = "override"
	override.Placeholder = "...."

	tests := []struct {
		name  string
		title string
		lang  string
		want  string
	}{
		{"default", "while", "", "while True:\n    pass"},
		{"language", "while", "lua", "while True:\n    noop"},
		{"template", "override", "lua", "while True:\n    ...."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := view.New(view.WithLanguage(tt.lang))
			e := New(v, newCatalog(whileTemplate(), override), WithPlaceholders(map[string]string{"lua": "noop"}))

			if _, err := e.InsertNamed(context.Background(), tt.title, ""); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			if got := v.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTriggerPicker(t *testing.T) {
	p := &fakePicker{choice: Choice{Title: "while"}, ok: true}
	v := view.New(view.WithContent("x = 1"), view.WithLanguage("python"))
	if err := v.Select(buffer.NewRange(0, 5)); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	e := New(v, newCatalog(whileTemplate()), WithPicker(p))

	handled, err := e.Exec(context.Background(), CommandSurroundWith)
	if !handled || err != nil {
		t.Fatalf("expected handled, got %v, %v", handled, err)
	}
	if len(p.requests) != 1 {
		t.Fatalf("expected one pick request, got %d", len(p.requests))
	}
	req := p.requests[0]
	if req.Prompt != "Surround with:" {
		t.Errorf("expected prompt %q, got %q", "Surround with:", req.Prompt)
	}
	if !req.Categories.Has(template.SurroundsWithStatement) || req.Categories.Has(template.Expansion) {
		t.Errorf("unexpected categories %v", req.Categories)
	}
	if req.Language != "python" {
		t.Errorf("expected language %q, got %q", "python", req.Language)
	}
	if got := v.Text(); got != "while True:\n    x = 1" {
		t.Errorf("expected surrounded text, got %q", got)
	}

	p.ok = false
	if _, err := e.Exec(context.Background(), CommandInsertSnippet); err != nil {
		t.Fatalf("dismissed picker should not fail: %v", err)
	}
	if got := p.requests[1].Prompt; got != "Insert snippet:" {
		t.Errorf("expected prompt %q, got %q", "Insert snippet:", got)
	}
	if !e.QueryStatus(CommandInsertSnippet).Enabled {
		t.Error("insert snippet should always be enabled")
	}
}

func TestTriggerWithoutPicker(t *testing.T) {
	e, _ := newEngine(t, "", buffer.NewRange(0, 0))
	if _, err := e.Trigger(context.Background(), CommandInsertSnippet); !errors.Is(err, ErrNoPicker) {
		t.Errorf("expected ErrNoPicker, got %v", err)
	}
}

func TestLastSessionSurvivesEarlyEnd(t *testing.T) {
	e, _ := newEngine(t, "x = 1", buffer.NewRange(0, 5), whileTemplate())
	if e.LastSession() != nil {
		t.Fatal("expected no session before an expansion")
	}

	if _, err := e.InsertNamed(context.Background(), "while", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if e.Session() != nil {
		t.Error("expected no active session after an early end")
	}
	last := e.LastSession()
	if last == nil || !last.EndedEarly() || last.Template().Title != "while" {
		t.Errorf("expected the ended while session, got %+v", last)
	}
}

func TestTriggerStaleChoice(t *testing.T) {
	p := &fakePicker{choice: Choice{Title: "gone"}, ok: true}
	v := view.New(view.WithContent("x"))
	e := New(v, newCatalog(whileTemplate()), WithPicker(p))

	picked, err := e.Trigger(context.Background(), CommandInsertSnippet)
	if !picked {
		t.Error("expected the choice to count as picked")
	}
	if !errors.Is(err, ErrChoiceNotFound) {
		t.Errorf("expected ErrChoiceNotFound, got %v", err)
	}
	if v.Text() != "x" {
		t.Errorf("expected buffer unchanged, got %q", v.Text())
	}

	p.ok = false
	picked, err = e.Trigger(context.Background(), CommandInsertSnippet)
	if picked || err != nil {
		t.Errorf("expected a dismissal, got %v, %v", picked, err)
	}
}

func TestSurroundKeepsSelectionWithStrayDollar(t *testing.T) {
	tmpl := &template.Template{
		Title:      "if",
		Code:       "if ($x) { $selected$ }",
		Categories: template.NewCategories(template.SurroundsWith),
	}
	e, v := newEngine(t, "foo", buffer.NewRange(0, 3), tmpl)

	ok, err := e.InsertNamed(context.Background(), "if", "")
	if err != nil || !ok {
		t.Fatalf("expected insertion, got %v, %v", ok, err)
	}
	if want := "if ($x) { foo }"; v.Text() != want {
		t.Errorf("expected %q, got %q", want, v.Text())
	}
}

func TestEndSpanGoneAfterEnd(t *testing.T) {
	e, _ := newEngine(t, "foo()", buffer.NewRange(0, 0), whileCondTemplate())

	if _, err := e.InsertNamed(context.Background(), "whilec", ""); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, ok := e.Session().EndSpan(); !ok {
		t.Fatal("expected an end span while the session runs")
	}
	if err := e.EndSession(false); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if _, ok := e.LastSession().EndSpan(); ok {
		t.Error("expected no end span after the session ended")
	}
}
