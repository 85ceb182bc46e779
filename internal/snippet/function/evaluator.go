package function

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 250 * time.Millisecond

// Env describes the expansion a field function runs in.
type Env struct {
	// Field is the ID of the field being computed.
	Field string
	// Default is the field's literal default.
	Default string
	// Selected is the text selected when the snippet was triggered.
	Selected string
	// Path is the path of the file being edited.
	Path string
	// Language is the view's language identifier.
	Language string
	// Values holds the current values of the other fields.
	Values map[string]string
}

// Evaluator runs field functions in a sandboxed Lua state.
type Evaluator struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout sets the per-evaluation deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEvaluator creates an evaluator with a fresh sandboxed state.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	e.L = L
	return e
}

// openSafeLibraries opens only side-effect free libraries and removes the
// loaders from the base library.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module", "print"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Eval evaluates expr in env and returns its value as a string.
//
// expr may be a bare expression or a chunk with an explicit return. Numbers
// and booleans are converted to their Lua string form; nil yields ErrNoValue.
func (e *Evaluator) Eval(ctx context.Context, expr string, env Env) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", ErrEvaluatorClosed
	}

	fn, err := e.compile(expr)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.L.SetFEnv(fn, e.newEnv(env))
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	if err := e.call(fn); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %s", ErrTimeout, expr)
		}
		return "", fmt.Errorf("evaluating %q: %w", expr, err)
	}

	ret := e.L.Get(-1)
	e.L.Pop(1)
	return toString(ret)
}

// compile tries expr as an expression first and as a chunk second.
func (e *Evaluator) compile(expr string) (*lua.LFunction, error) {
	expr = strings.TrimSpace(expr)
	if fn, err := e.L.LoadString("return " + expr); err == nil {
		return fn, nil
	}
	fn, err := e.L.LoadString(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", expr, err)
	}
	return fn, nil
}

// call runs fn with panic recovery, leaving one result on the stack.
func (e *Evaluator) call(fn *lua.LFunction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true})
}

// newEnv builds the globals table for one evaluation. Reads fall through
// to the shared sandbox globals; assignments stay in the table and are
// dropped with it.
func (e *Evaluator) newEnv(env Env) *lua.LTable {
	L := e.L
	g := L.NewTable()
	meta := L.NewTable()
	L.SetField(meta, "__index", L.G.Global)
	L.SetMetatable(g, meta)
	L.SetField(g, "_G", g)

	str := func(s string) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(lua.LString(s))
			return 1
		}
	}

	L.SetField(g, "selected", L.NewFunction(str(env.Selected)))
	L.SetField(g, "filename", L.NewFunction(str(filepath.Base(env.Path))))
	L.SetField(g, "path", L.NewFunction(str(env.Path)))
	L.SetField(g, "language", L.NewFunction(str(env.Language)))
	L.SetField(g, "default", L.NewFunction(str(env.Default)))
	L.SetField(g, "field", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(lua.LString(env.Values[id]))
		return 1
	}))
	L.SetField(g, "upper", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(strings.ToUpper(L.CheckString(1))))
		return 1
	}))
	L.SetField(g, "lower", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(strings.ToLower(L.CheckString(1))))
		return 1
	}))
	return g
}

func toString(v lua.LValue) (string, error) {
	switch v := v.(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber, lua.LBool:
		return v.String(), nil
	case *lua.LNilType:
		return "", ErrNoValue
	default:
		return "", fmt.Errorf("field function returned %s", v.Type())
	}
}

// Close releases the Lua state. Further evaluations fail with
// ErrEvaluatorClosed.
func (e *Evaluator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}

// IsTimeout reports whether err came from an evaluation deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
