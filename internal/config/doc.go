// Package config loads snipstorm configuration.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. built-in defaults (Default)
//  2. a TOML file
//  3. SNIPSTORM_* environment variables
//
// A config file looks like:
//
//	[snippets]
//	dirs = ["~/.config/snipstorm/snippets"]
//	watch = true
//
//	[editor]
//	line_ending = "lf"
//	tab_width = 4
//
//	[expansion]
//	function_timeout = "250ms"
//
//	[expansion.placeholders]
//	python = "pass"
//	"*" = "..."
//
//	[log]
//	level = "info"
package config
