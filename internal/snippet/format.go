package snippet

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/snippet/expansion"
	"github.com/dshills/snipstorm/internal/snippet/indent"
	"github.com/dshills/snipstorm/internal/snippet/template"
)

// FormatSpan re-indents the text the raw session just inserted. All edits
// are committed at once; on failure the buffer keeps the raw insertion and
// the session is left as it was.
func (e *Engine) FormatSpan(raw *expansion.Session, span expansion.Span) error {
	s := e.session
	if s == nil || s.ended {
		return ErrNoSession
	}
	s.raw = raw

	if err := e.format(s, span); err != nil {
		e.formatErr = err
		e.logger.WithFields(map[string]any{"snippet": s.tmpl.Title, "session": raw.ID()}).
			Error("formatting failed: %v", err)
		return err
	}
	return nil
}

func (e *Engine) format(s *Session, span expansion.Span) error {
	t := s.tmpl
	scope := e.view.Buffer().CreateEdit()
	defer scope.Cancel()
	snap := scope.Snapshot()

	base := indent.Base(snap.LineText(span.StartLine))
	surround := t.Categories.HasAny(template.SurroundsWith, template.SurroundsWithStatement)

	var (
		text string
		idx  int
		ok   bool
	)
	if surround {
		text, idx, ok = indent.Reconstruct(t.NormalizedCode(snap.NewLine()), s.raw.FieldValues(), t.Categories)
	}
	if !ok {
		if err := indentLines(scope, base, span.StartLine+1, span.EndLine, buffer.Range{}); err != nil {
			return err
		}
		_, err := scope.Apply()
		return err
	}

	selIndent := indent.Selection(text, idx)
	start := s.selStart.Position(snap)
	end := s.selEnd.Position(snap)
	if end < start {
		e.logger.Debug("selection end %d before start %d, clamping", end, start)
		end = start
	}

	// A blank statement body is replaced by the placeholder, so its own
	// lines are not indented.
	inject := t.Categories.Has(template.SurroundsWithStatement) && indent.IsBlank(snap.TextRange(start, end))
	at := span.Range.Start + buffer.ByteOffset(idx)
	var replaced buffer.Range
	if inject {
		replaced = buffer.NewRange(at, at+(end-start))
	} else if err := indentLines(scope, selIndent, snap.LineFromOffset(start)+1, snap.LineFromOffset(end), replaced); err != nil {
		return err
	}
	if err := indentLines(scope, base, span.StartLine+1, span.EndLine, replaced); err != nil {
		return err
	}

	// Queued after the indentation so the placeholder follows indentation
	// inserted at the same offset.
	var endSpan *expansion.EndSpan
	if inject {
		es, err := e.injectStatement(scope, t, replaced, end, base, selIndent)
		if err != nil {
			return err
		}
		endSpan = &es
	}

	if _, err := scope.Apply(); err != nil {
		return fmt.Errorf("applying indentation: %w", err)
	}
	if endSpan != nil {
		s.raw.SetEndSpan(*endSpan)
	}
	return nil
}

// injectStatement fills an empty statement body at the $selected$ position
// with the placeholder and breaks the line after it when code follows.
func (e *Engine) injectStatement(scope *buffer.EditScope, t *template.Template, body buffer.Range, end buffer.ByteOffset, base, selIndent string) (expansion.EndSpan, error) {
	snap := scope.Snapshot()
	ph := e.placeholder(t)

	if err := scope.Replace(body, ph); err != nil {
		return expansion.EndSpan{}, err
	}
	rest := snap.TextRange(end, snap.LineEndOffset(snap.LineFromOffset(end)))
	if !indent.IsBlank(rest) {
		if err := scope.Insert(end, snap.NewLine()); err != nil {
			return expansion.EndSpan{}, err
		}
	}

	col, err := safecast.Conv[uint32](len(base) + len(selIndent))
	if err != nil {
		return expansion.EndSpan{}, err
	}
	return expansion.EndSpan{
		Line:   snap.LineFromOffset(body.Start),
		Column: col,
		Length: len(ph),
	}, nil
}

// indentLines prefixes lines first..last with ind, skipping lines that
// start strictly inside skip.
func indentLines(scope *buffer.EditScope, ind string, first, last uint32, skip buffer.Range) error {
	if ind == "" {
		return nil
	}
	snap := scope.Snapshot()
	for _, line := range indent.Lines(first, last) {
		off := snap.LineStartOffset(line)
		if off > skip.Start && off < skip.End {
			continue
		}
		if err := scope.Insert(off, ind); err != nil {
			return err
		}
	}
	return nil
}
