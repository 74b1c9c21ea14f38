package luaxform

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Transform is a compiled Lua transform. It implements structure.Transform.
type Transform struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	source  string
	timeout time.Duration
	closed  bool
}

// Option configures a Transform.
type Option func(*Transform)

// WithTimeout sets the execution timeout for a single Apply call.
func WithTimeout(d time.Duration) Option {
	return func(t *Transform) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// New compiles source into a transform.
func New(source string, opts ...Option) (*Transform, error) {
	t := &Transform{
		source:  source,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.L = newSandboxedState()
	fn, err := compile(t.L, source)
	if err != nil {
		t.L.Close()
		return nil, fmt.Errorf("compiling transform %q: %w", source, err)
	}
	t.fn = fn
	return t, nil
}

// compile tries the source as an expression first, then as a function body.
// The newline before "end" keeps a trailing line comment from swallowing it.
func compile(L *lua.LState, source string) (*lua.LFunction, error) {
	var firstErr error
	for _, wrapped := range []string{
		"return function(s) return " + source + "\nend",
		"return function(s) " + source + "\nend",
	} {
		chunk, err := L.LoadString(wrapped)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		L.Push(chunk)
		if err := L.PCall(0, 1, nil); err != nil {
			return nil, err
		}
		v := L.Get(-1)
		L.Pop(1)

		fn, ok := v.(*lua.LFunction)
		if !ok {
			return nil, ErrNotFunction
		}
		return fn, nil
	}
	return nil, firstErr
}

// Apply runs the transform over in.
func (t *Transform) Apply(in string) (out string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	t.L.SetContext(ctx)
	defer t.L.RemoveContext()

	top := t.L.GetTop()
	defer t.L.SetTop(top)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	t.L.Push(t.fn)
	t.L.Push(lua.LString(in))
	if err := t.L.PCall(1, 1, nil); err != nil {
		return "", fmt.Errorf("running transform %q: %w", t.source, err)
	}

	switch v := t.L.Get(-1).(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w, got %s", ErrBadResult, v.Type())
	}
}

// Source returns the Lua source the transform was compiled from.
func (t *Transform) Source() string {
	return t.source
}

// Close releases the Lua state. Close is idempotent.
func (t *Transform) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.L.Close()
	t.closed = true
	return nil
}
