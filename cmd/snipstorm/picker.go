package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/snipstorm/internal/snippet"
	"github.com/dshills/snipstorm/internal/snippet/catalog"
	"github.com/dshills/snipstorm/internal/snippet/template"
)

// promptPicker offers a numbered list on the terminal.
type promptPicker struct {
	catalog *catalog.Catalog
	in      *bufio.Reader
	out     io.Writer
	style   *style
}

func newPromptPicker(cat *catalog.Catalog, in io.Reader, out io.Writer, st *style) *promptPicker {
	return &promptPicker{catalog: cat, in: bufio.NewReader(in), out: out, style: st}
}

// Pick lists the templates matching req and reads a number. An empty
// answer dismisses the picker.
func (p *promptPicker) Pick(ctx context.Context, req snippet.PickRequest) (snippet.Choice, bool, error) {
	var offered []*template.Template
	for _, t := range p.catalog.List(req.Categories.List()...) {
		if req.Language == "" || t.Language == "" || strings.EqualFold(t.Language, req.Language) {
			offered = append(offered, t)
		}
	}
	if len(offered) == 0 {
		fmt.Fprintln(p.out, p.style.dim.Sprint("no matching snippets"))
		return snippet.Choice{}, false, nil
	}

	width := len(strconv.Itoa(len(offered)))
	for i, t := range offered {
		fmt.Fprintf(p.out, "%*d) %s %s\n", width, i+1, p.style.title.Sprint(t.Title), p.style.dim.Sprint(t.Description))
	}
	fmt.Fprint(p.out, req.Prompt+" ")

	line, err := p.readLine(ctx)
	if err != nil {
		return snippet.Choice{}, false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return snippet.Choice{}, false, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(offered) {
		return snippet.Choice{}, false, fmt.Errorf("choose a number from 1 to %d", len(offered))
	}
	t := offered[n-1]
	return snippet.Choice{Title: t.Title, Path: t.Path}, true, nil
}

func (p *promptPicker) readLine(ctx context.Context) (string, error) {
	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-ch:
		if a.err == io.EOF {
			return "", nil
		}
		return a.line, a.err
	}
}
