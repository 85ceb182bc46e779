// Package snippet provides the dispatcher handler for snippet actions.
//
// Session keys (snippet.enter, snippet.tab, snippet.backTab) are consumed
// only while an expansion session is active. Otherwise the handler returns
// StatusNoOp so the dispatcher passes the key on to the editor:
//
//	d := dispatcher.New(dispatcher.WithFallback(editorCommands))
//	d.RegisterNamespace(snippet.NewHandler(engine))
//
// The trigger actions (snippet.surroundWith, snippet.insertSnippet) are
// always handled. snippet.insertShortcut expands the shortcut in
// Args.Text, or the word before the caret when Args.Text is empty, and
// declines when nothing matches.
package snippet
