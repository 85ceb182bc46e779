package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload snippets as their files change",
		Long: `Watch loads the snippet directories and reloads files as they change,
logging every reload and parse error, until interrupted. Use it to check
snippets while editing them. Setting snippets.watch = false in the config
turns the command off.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}

			if !env.cfg.Snippets.Watch {
				return errors.New("watching is disabled (snippets.watch = false)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "watching %d snippets in %v\n", env.catalog.Len(), env.cfg.SnippetDirs())
			return env.catalog.Watch(ctx)
		},
	}
}
