// Package catalog loads snippet templates from disk and looks them up.
//
// Supported files, chosen by extension:
//
//	.snippet                 Visual Studio snippet XML
//	.toml                    [[snippet]] tables
//	.yaml, .yml              a "snippets" list
//	.json, .code-snippets    VS Code snippet files, converted on load
//
// A Catalog indexes templates by (title, path) and by shortcut. Shortcut
// lookup uses Unicode case folding, so "While" finds "while". Templates
// loaded from the same file replace each other as a unit, which is how
// Watch applies edits made while the editor runs.
package catalog
