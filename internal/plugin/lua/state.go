package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 10 * time.Millisecond // Per call; strategies run inside a frame
	DefaultInstructionLimit = 1_000_000             // Maximum instructions per call
)

// State wraps gopher-lua with the sandbox and per-call limits.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls
// from Go; Lua code execution is inherently single-threaded.
type State struct {
	L *lua.LState

	mu sync.Mutex

	// Configuration
	executionTimeout time.Duration
	instructionLimit int64

	// Sandbox
	sandbox *Sandbox

	// Tracking
	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the deadline of each call. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithInstructionLimit sets the maximum instructions per call. Zero
// disables it.
func WithInstructionLimit(limit int64) StateOption {
	return func(s *State) {
		s.instructionLimit = limit
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
	}
	for _, opt := range opts {
		opt(state)
	}

	// Create Lua state with limited libraries
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.instructionLimit)
	state.sandbox.Install()

	return state
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package, coroutine, channel.
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error { return s.L.DoFile(path) })
}

// DoString executes a Lua string.
func (s *State) DoString(code string) error {
	return s.run(func() error { return s.L.DoString(code) })
}

// HasFunction reports whether the global name is a function.
func (s *State) HasFunction(name string) bool {
	return s.GetGlobal(name).Type() == lua.LTFunction
}

// Call calls a global Lua function with the given arguments.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(func() error {
		fnVal := s.L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%q is not a function (got %s)", fn, fnVal.Type())
		}

		// Record stack top before pushing anything
		stackTop := s.L.GetTop()

		s.L.Push(fnVal)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		// Collect only the values added by the call
		nRet := s.L.GetTop() - stackTop
		results = make([]lua.LValue, 0, max(nRet, 0))
		for i := 1; i <= nRet; i++ {
			results = append(results, s.L.Get(stackTop+i))
		}
		if nRet > 0 {
			s.L.Pop(nRet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// run executes fn under the lock with a fresh instruction budget and
// deadline, recovering panics.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	parent := context.Background()
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		parent, cancel = context.WithTimeout(parent, s.executionTimeout)
		defer cancel()
	}
	s.sandbox.ResetInstructionCount()
	ctx := s.sandbox.budget(parent)
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if err = fn(); err != nil {
		switch {
		case errors.Is(ctx.Err(), ErrInstructionLimit):
			return fmt.Errorf("%w: %v", ErrInstructionLimit, err)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
	}
	return err
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// RegisterModule registers a global table with the given functions.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
}

// Sandbox returns the sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
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
