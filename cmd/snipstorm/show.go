package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <shortcut|title>",
		Short: "Show a snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			t, ok := env.catalog.Lookup(args[0])
			if !ok {
				t, ok = env.catalog.LookupNamed(args[0], "")
			}
			if !ok {
				return fmt.Errorf("no snippet %q", args[0])
			}
			printTemplate(cmd, env.style, t)
			return nil
		},
	}
}

func printTemplate(cmd *cobra.Command, st *style, t *template.Template) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, st.title.Sprint(t.Title))

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %s %s\n", st.dim.Sprint(padRight(label+":", 13)), value)
		}
	}
	row("shortcut", st.shortcut.Sprint(t.Shortcut))
	row("language", t.Language)
	row("categories", t.Categories.String())
	row("description", t.Description)
	row("author", t.Author)
	row("placeholder", t.Placeholder)
	row("imports", strings.Join(t.Imports, ", "))
	row("file", t.Path)

	if len(t.Fields) > 0 {
		fmt.Fprintln(w, "  "+st.dim.Sprint("fields:"))
		for _, f := range t.Fields {
			line := fmt.Sprintf("    %s = %q", f.ID, f.Default)
			if f.Function != "" {
				line += " <- " + f.Function
			}
			if !f.Editable {
				line += st.dim.Sprint(" (fixed)")
			}
			if f.ToolTip != "" {
				line += st.dim.Sprint("  # " + f.ToolTip)
			}
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w, "  "+st.dim.Sprint("code:"))
	for _, l := range strings.Split(t.NormalizedCode("\n"), "\n") {
		fmt.Fprintln(w, "    "+l)
	}
}
