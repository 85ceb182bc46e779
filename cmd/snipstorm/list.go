package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/snipstorm/internal/snippet/template"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		filter     string
		categories []string
		language   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snippets",
		Long: `List the loaded snippets. --filter takes a glob matched against titles
and shortcuts ignoring case; --category keeps snippets in any of the given
categories (Expansion, SurroundsWith, SurroundsWithStatement).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load(cmd)
			if err != nil {
				return err
			}
			cats, err := template.ParseCategories(categories)
			if err != nil {
				return err
			}

			var ts []*template.Template
			if filter != "" {
				ts = env.catalog.Match(filter)
			} else {
				ts = env.catalog.List()
			}
			ts = filterTemplates(ts, cats, language)

			printTemplates(cmd, env.style, ts)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "glob matched against title and shortcut")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "keep snippets in these categories")
	cmd.Flags().StringVar(&language, "language", "", "keep snippets for this language")
	return cmd
}

func filterTemplates(ts []*template.Template, cats template.Categories, language string) []*template.Template {
	out := ts[:0:0]
	for _, t := range ts {
		if !cats.IsEmpty() && !t.Categories.HasAny(cats.List()...) {
			continue
		}
		if language != "" && t.Language != "" && !strings.EqualFold(t.Language, language) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func printTemplates(cmd *cobra.Command, st *style, ts []*template.Template) {
	w := cmd.OutOrStdout()
	if len(ts) == 0 {
		fmt.Fprintln(w, st.dim.Sprint("no snippets"))
		return
	}

	titleWidth, shortcutWidth := len("TITLE"), len("SHORTCUT")
	for _, t := range ts {
		titleWidth = max(titleWidth, displayWidth(t.Title))
		shortcutWidth = max(shortcutWidth, displayWidth(t.Shortcut))
	}

	fmt.Fprintln(w, st.dim.Sprint(padRight("TITLE", titleWidth)+"  "+padRight("SHORTCUT", shortcutWidth)+"  LANGUAGE    CATEGORIES"))
	for _, t := range ts {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			st.title.Sprint(padRight(t.Title, titleWidth)),
			st.shortcut.Sprint(padRight(t.Shortcut, shortcutWidth)),
			padRight(t.Language, len("LANGUAGE  ")),
			t.Categories,
		)
	}
}
