// Package input defines the actions that editor key bindings and command
// lists produce. Actions are named "namespace.command" and carry their
// arguments in ActionArgs.
package input
