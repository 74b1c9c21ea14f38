// Package luaxform compiles Lua source into snippet transforms.
//
// A transform source is either a Lua expression or a function body, both
// with the input text bound to s:
//
//	s:upper()
//	local head = s:sub(1, 1) return head:upper() .. s:sub(2)
//
// Transforms run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries opened and the chunk loaders removed.
//
// IMPORTANT: gopher-lua's LState is not goroutine-safe. Each Transform owns
// its state and serialises Apply calls with a mutex.
package luaxform

import (
	"errors"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single Apply call.
const DefaultTimeout = 2 * time.Second

// Errors for transform compilation and execution.
var (
	// ErrClosed is returned when applying a closed transform.
	ErrClosed = errors.New("lua transform is closed")

	// ErrNotFunction is returned when the compiled chunk does not yield a function.
	ErrNotFunction = errors.New("lua transform did not produce a function")

	// ErrBadResult is returned when the transform returns neither a string nor a number.
	ErrBadResult = errors.New("lua transform must return a string")
)

// newSandboxedState creates a Lua state with only safe libraries.
func newSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	// Note: io, os, debug and package are intentionally NOT opened.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	return L
}
