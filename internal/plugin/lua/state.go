package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds every script run and command call.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes all
// access from Go.
type State struct {
	mu sync.Mutex

	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// NewState creates a sandboxed Lua state. A non-positive timeout uses
// DefaultExecutionTimeout.
func NewState(timeout time.Duration) *State {
	if timeout <= 0 {
		timeout = DefaultExecutionTimeout
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // opened selectively
	})
	openSafeLibraries(L)

	return &State{L: L, timeout: timeout}
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package stay closed. The base library still
	// loads code from disk and strings.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoString runs a chunk of Lua code.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.do(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// DoFile runs a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.do(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// CallFunction calls fn with args converted to Lua values.
func (s *State) CallFunction(ctx context.Context, fn *lua.LFunction, args ...any) error {
	return s.do(ctx, func(L *lua.LState) error {
		L.Push(fn)
		for _, arg := range args {
			L.Push(ToLuaValue(L, arg))
		}
		return L.PCall(len(args), 0, nil)
	})
}

// do runs fn under the state lock with the timeout applied to ctx.
func (s *State) do(ctx context.Context, fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrExecutionTimeout, err)
		}
	}()
	return fn(s.L)
}

// GetGlobal returns a global variable converted to a Go value.
func (s *State) GetGlobal(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	return ToGoValue(s.L.GetGlobal(name))
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. After Close all calls return
// ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
