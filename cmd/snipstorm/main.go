// Package main is the snipstorm command line tool.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/snipstorm/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath  string
	snippetDirs []string
	logLevel    string
	color       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "snipstorm",
		Short: "Code snippet expansion",
		Long: `snipstorm loads code snippets (Visual Studio .snippet, TOML, YAML and
VS Code JSON) and expands them into source files, re-indenting surrounded
code the way an editor would.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringSliceVar(&opts.snippetDirs, "snippets", nil, "snippet directories, replacing the configured ones")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	pf.StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")

	root.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newExpandCmd(opts),
		newExportCmd(opts),
		newWatchCmd(opts),
	)
	return root
}
