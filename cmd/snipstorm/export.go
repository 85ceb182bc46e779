package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export snippets as a VS Code snippet file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				return env.catalog.ExportVSCode(cmd.OutOrStdout())
			}

			var buf bytes.Buffer
			if err := env.catalog.ExportVSCode(&buf); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			env.logger.WithField("file", out).Info("exported %d snippets", env.catalog.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
