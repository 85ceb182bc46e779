// Package dispatcher routes editor actions to handlers.
//
// Actions are named "namespace.command". The router hands an action to the
// handler registered for its namespace. A handler that declines an action
// returns StatusNoOp and the dispatcher passes the action on to the
// fallback handler, the editor's own command target:
//
//	d := dispatcher.New(dispatcher.WithFallback(editorCommands))
//	d.RegisterNamespace(snippethandler.NewHandler(engine))
//	result := d.Dispatch(ctx, input.Action{Name: "snippet.tab"})
//
// Hooks from the hook package run around every dispatch; a pre-hook that
// returns an error cancels the action. Handler panics are recovered and
// reported as ErrPanic results.
package dispatcher
