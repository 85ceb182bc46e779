package expansion

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/snipstorm/internal/engine/buffer"
	"github.com/dshills/snipstorm/internal/logging"
	"github.com/dshills/snipstorm/internal/snippet/function"
	"github.com/dshills/snipstorm/internal/snippet/template"
	"github.com/dshills/snipstorm/internal/view"
)

// Span describes the text inserted by a session in the snapshot right after
// insertion. For surround templates it includes the surrounded text.
type Span struct {
	Range     buffer.Range
	StartLine uint32
	EndLine   uint32
}

// Client receives session notifications.
type Client interface {
	// FormatSpan is called once, after the expansion is in the buffer and
	// before Insert returns.
	FormatSpan(s *Session, span Span) error

	// EndExpansion is called when the session ends for any reason.
	EndExpansion(s *Session)
}

// Request describes one insertion.
type Request struct {
	View     *view.View
	Template *template.Template

	// Target is the range the expansion goes into.
	Target buffer.Range

	// Surround keeps the text in Target as the $selected$ content. When
	// false, or when the template has no $selected$ marker, Target is
	// replaced.
	Surround bool

	Client Client
}

// Inserter performs raw templated insertions.
type Inserter struct {
	eval   *function.Evaluator
	logger *logging.Logger
}

// Option configures an Inserter.
type Option func(*Inserter)

// WithEvaluator enables field functions.
func WithEvaluator(e *function.Evaluator) Option {
	return func(in *Inserter) {
		in.eval = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(in *Inserter) {
		if l != nil {
			in.logger = l
		}
	}
}

// NewInserter creates an inserter.
func NewInserter(opts ...Option) *Inserter {
	in := &Inserter{logger: logging.Nop()}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Insert expands req.Template into req.View and starts a session.
//
// Nothing is inserted and no session is returned when the template is
// invalid, the target is out of range or the buffer edit fails.
func (in *Inserter) Insert(ctx context.Context, req Request) (*Session, error) {
	t := req.Template
	if err := t.Validate(); err != nil {
		return nil, err
	}

	buf := req.View.Buffer()
	snap := buf.Snapshot()
	target := req.Target
	if target.Start < 0 || target.Start > target.End || target.End > snap.Len() {
		return nil, fmt.Errorf("%w: %v", ErrTargetOutOfRange, target)
	}

	var selected string
	if req.Surround {
		selected = snap.TextRange(target.Start, target.End)
	}

	values := in.fieldValues(ctx, req, selected)
	exp := expand(t.NormalizedCode(snap.NewLine()), values)
	keep := req.Surround && exp.hasSelected

	scope := buf.CreateEdit()
	defer scope.Cancel()

	if keep {
		if err := scope.Insert(target.Start, exp.prefix); err != nil {
			return nil, err
		}
		if err := scope.Insert(target.End, exp.suffix); err != nil {
			return nil, err
		}
	} else if err := scope.Replace(target, exp.prefix+exp.suffix); err != nil {
		return nil, err
	}

	after, err := scope.Apply()
	if err != nil {
		return nil, fmt.Errorf("inserting %q: %w", t.Title, err)
	}

	prefixAt := target.Start
	suffixAt := target.Start + buffer.ByteOffset(len(exp.prefix))
	if keep {
		suffixAt += target.Len()
	}
	insertedEnd := suffixAt + buffer.ByteOffset(len(exp.suffix))
	at := func(p part, off int) buffer.ByteOffset {
		if p == partPrefix {
			return prefixAt + buffer.ByteOffset(off)
		}
		return suffixAt + buffer.ByteOffset(off)
	}

	s := newSession(in, req, values)
	for _, occ := range exp.fields {
		start := at(occ.part, occ.offset)
		r := buffer.NewRange(start, start+buffer.ByteOffset(occ.length))
		s.addOccurrence(occ.id, buf.TrackSpanIn(after, r, buffer.BiasForward, buffer.BiasForward))
	}
	s.orderFields()

	endAt := insertedEnd
	if exp.end != nil {
		endAt = at(exp.end.part, exp.end.offset)
	}
	s.end = buf.TrackPointIn(after, endAt, buffer.BiasForward)

	s.span = Span{
		Range:     buffer.NewRange(target.Start, insertedEnd),
		StartLine: after.LineFromOffset(target.Start),
		EndLine:   lastLine(after, target.Start, insertedEnd),
	}

	log := in.logger.WithFields(map[string]any{"snippet": t.Title, "session": s.id})
	log.Debug("inserted %d bytes at %d", insertedEnd-target.Start, target.Start)

	if req.Client != nil {
		if err := req.Client.FormatSpan(s, s.span); err != nil {
			log.Warn("formatting failed: %v", err)
		}
	}

	if len(s.order) == 0 {
		if err := s.End(false); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := s.selectField(0); err != nil {
		return nil, err
	}
	return s, nil
}

// fieldValues computes the initial value of every declared field. Field
// functions that fail fall back to the literal default.
func (in *Inserter) fieldValues(ctx context.Context, req Request, selected string) map[string]string {
	t := req.Template
	values := t.Defaults()
	if in.eval == nil {
		return values
	}

	for _, f := range t.Fields {
		if f.Function == "" {
			continue
		}
		v, err := in.eval.Eval(ctx, f.Function, function.Env{
			Field:    f.ID,
			Default:  f.Default,
			Selected: selected,
			Path:     req.View.Path(),
			Language: req.View.Language(),
			Values:   values,
		})
		if err != nil {
			in.logger.WithField("field", f.ID).Warn("field function failed, using default: %v", err)
			continue
		}
		values[f.ID] = v
	}
	return values
}

// lastLine returns the last line holding inserted text. A trailing line
// break does not pull the following line into the span.
func lastLine(snap *buffer.Snapshot, start, end buffer.ByteOffset) uint32 {
	line := snap.LineFromOffset(end)
	if end > start && strings.ContainsAny(snap.TextRange(end-1, end), "\r\n") && line > 0 {
		line--
	}
	return line
}
