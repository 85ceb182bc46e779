// Package hook provides pre and post dispatch hooks for the dispatcher.
//
// A PreDispatchHook runs before routing and may rewrite the action or
// cancel it by returning an error. A PostDispatchHook runs after the
// handler and may inspect or adjust the result.
//
// Hooks are ordered by priority. Pre-hooks run highest first; post-hooks
// run lowest first so that high priority hooks see the final result.
//
//	PriorityAudit = 1000 // tracing
//	PriorityGuard = 800  // rejecting actions
package hook
