package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/snipstorm/internal/dispatcher"
	"github.com/dshills/snipstorm/internal/dispatcher/handler"
	"github.com/dshills/snipstorm/internal/dispatcher/hook"
	snippethandler "github.com/dshills/snipstorm/internal/dispatcher/handlers/snippet"
	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/input"
	"github.com/dshills/snipstorm/internal/snippet"
	"github.com/dshills/snipstorm/internal/snippet/expansion"
	"github.com/dshills/snipstorm/internal/snippet/function"
	"github.com/dshills/snipstorm/internal/view"
)

// languages maps file extensions to language identifiers.
var languages = map[string]string{
	".py":   "python",
	".go":   "go",
	".ps1":  "powershell",
	".psm1": "powershell",
	".js":   "javascript",
	".ts":   "typescript",
	".sh":   "shell",
	".rb":   "ruby",
	".rs":   "rust",
	".lua":  "lua",
	".cs":   "csharp",
}

// slowAction is the dispatch time above which an action is reported.
const slowAction = 2 * time.Second

type expandOptions struct {
	shortcut string
	title    string
	at       string
	sel      string
	language string
	fields   []string
	write    bool
}

func newExpandCmd(opts *globalOptions) *cobra.Command {
	eo := &expandOptions{}
	cmd := &cobra.Command{
		Use:   "expand <file>",
		Short: "Expand a snippet into a file",
		Long: `Expand runs a complete expansion session against a file: the snippet
is inserted at --at or around --select, formatted, its fields are set from
--field and the session is ended. Without --shortcut or --title a numbered
list of snippets is offered.

Positions are 1-based line:column, the column counted in bytes. The result
is printed with the caret or selection marked unless --write is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runExpand(cmd, env, eo, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&eo.shortcut, "shortcut", "s", "", "snippet shortcut")
	f.StringVarP(&eo.title, "title", "t", "", "snippet title")
	f.StringVar(&eo.at, "at", "", "caret position line:column (default end of file)")
	f.StringVar(&eo.sel, "select", "", "selection line:column-line:column to surround")
	f.StringVar(&eo.language, "language", "", "language of the file (default from extension)")
	f.StringArrayVarP(&eo.fields, "field", "f", nil, "field value id=value, repeatable")
	f.BoolVarP(&eo.write, "write", "w", false, "write the result back to the file")
	cmd.MarkFlagsMutuallyExclusive("shortcut", "title")
	cmd.MarkFlagsMutuallyExclusive("at", "select")
	return cmd
}

func runExpand(cmd *cobra.Command, env *environment, eo *expandOptions, path string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	text := string(data)

	lang := eo.language
	if lang == "" {
		lang = languages[strings.ToLower(filepath.Ext(path))]
	}
	le := env.cfg.LineEnding()
	if strings.ContainsAny(text, "\r\n") {
		le = buffer.DetectLineEnding(text)
	}

	v := view.New(
		view.WithContent(text),
		view.WithPath(path),
		view.WithLanguage(lang),
		view.WithTabWidth(env.cfg.Editor.TabWidth),
		view.WithLineEnding(le),
	)
	if err := placeCaret(v, eo); err != nil {
		return err
	}

	eval := function.NewEvaluator(function.WithTimeout(env.cfg.FunctionTimeout()))
	defer eval.Close()

	engine := snippet.New(v, env.catalog,
		snippet.WithInserter(expansion.NewInserter(
			expansion.WithEvaluator(eval),
			expansion.WithLogger(env.logger),
		)),
		snippet.WithLogger(env.logger),
		snippet.WithPlaceholders(env.cfg.Expansion.Placeholders),
		snippet.WithPicker(newPromptPicker(env.catalog, cmd.InOrStdin(), cmd.ErrOrStderr(), env.style)),
	)

	d := dispatcher.New(
		dispatcher.WithLogger(env.logger),
		dispatcher.WithHooks(hook.NewAuditHook(env.logger, slowAction)),
		dispatcher.WithFallback(handler.HandlerFunc(func(ctx context.Context, a input.Action) handler.Result {
			return handler.NoOpWithMessage("nothing to do for " + a.Name)
		})),
	)
	d.RegisterNamespace(snippethandler.NewHandler(engine))

	result := d.Dispatch(ctx, startAction(engine, env, eo, v))
	switch result.Status {
	case handler.StatusError:
		return result.Error
	case handler.StatusNoOp:
		return fmt.Errorf("no expansion: %s", result.Message)
	case handler.StatusCancelled:
		fmt.Fprintln(cmd.ErrOrStderr(), env.style.dim.Sprint("no snippet chosen"))
		return nil
	}

	if err := setFields(engine, eo.fields); err != nil {
		return err
	}
	if engine.InSession() {
		if r := d.Dispatch(ctx, input.Action{Name: snippethandler.ActionEnter, Source: input.SourceAPI}); r.IsError() {
			return r.Error
		}
	}

	snap := v.Snapshot()
	sel := v.SelectionRange()
	if eo.write {
		if err := os.WriteFile(path, []byte(v.Text()), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: expanded %q, caret at %s\n",
			path, result.GetDataString(snippethandler.DataTitle), formatPoint(snap, sel.Start))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), env.style.markText(v.Text(), int(sel.Start), int(sel.End)))
	fmt.Fprintln(cmd.ErrOrStderr(), env.style.dim.Sprintf("caret at %s", formatPoint(snap, sel.Start)))
	return nil
}

// placeCaret applies --at or --select.
func placeCaret(v *view.View, eo *expandOptions) error {
	snap := v.Snapshot()
	toOffset := func(p buffer.Point) (buffer.ByteOffset, error) {
		if p.Line >= snap.LineCount() {
			return 0, fmt.Errorf("line %d is past the end of the file (%d lines)", p.Line+1, snap.LineCount())
		}
		return snap.PointToOffset(p), nil
	}

	switch {
	case eo.sel != "":
		a, b, err := parseSpan(eo.sel)
		if err != nil {
			return err
		}
		start, err := toOffset(a)
		if err != nil {
			return err
		}
		end, err := toOffset(b)
		if err != nil {
			return err
		}
		return v.Select(buffer.NewRange(start, end))
	case eo.at != "":
		p, err := parsePoint(eo.at)
		if err != nil {
			return err
		}
		off, err := toOffset(p)
		if err != nil {
			return err
		}
		return v.SetCaret(off)
	default:
		return v.SetCaret(snap.Len())
	}
}

// startAction picks the action that begins the session. A shortcut typed
// in front of the caret is replaced; otherwise the snippet is inserted
// at the selection.
func startAction(engine *snippet.Engine, env *environment, eo *expandOptions, v *view.View) input.Action {
	switch {
	case eo.shortcut != "":
		if strings.EqualFold(engine.ShortcutBeforeCaret(), eo.shortcut) && v.SelectionRange().IsEmpty() {
			return input.Action{Name: snippethandler.ActionInsertShortcut, Source: input.SourceAPI}.WithText(eo.shortcut)
		}
		title := eo.shortcut
		path := ""
		if t, ok := env.catalog.Lookup(eo.shortcut); ok {
			title, path = t.Title, t.Path
		}
		return input.Action{Name: snippethandler.ActionInsertNamed, Source: input.SourceAPI}.
			WithText(title).
			WithExtra("path", path)
	case eo.title != "":
		return input.Action{Name: snippethandler.ActionInsertNamed, Source: input.SourceAPI}.WithText(eo.title)
	case !v.SelectionRange().IsEmpty():
		return input.Action{Name: snippethandler.ActionSurroundWith, Source: input.SourcePalette}
	default:
		return input.Action{Name: snippethandler.ActionInsertSnippet, Source: input.SourcePalette}
	}
}

// setFields applies id=value pairs to the active session.
func setFields(engine *snippet.Engine, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	if !engine.InSession() {
		title := ""
		if last := engine.LastSession(); last != nil {
			title = last.Template().Title
		}
		return fmt.Errorf("snippet %q has no editable fields", title)
	}
	s := engine.Session()
	for _, kv := range pairs {
		id, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("field %q: want id=value", kv)
		}
		if err := s.SetField(id, value); err != nil {
			return fmt.Errorf("field %s: %w", id, err)
		}
	}
	return nil
}
