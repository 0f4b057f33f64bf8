package lua

import (
	"context"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	// Instruction limiting
	instructionLimit int64
	instructionCount int64
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, instructionLimit int64) *Sandbox {
	return &Sandbox{
		L:                L,
		instructionLimit: instructionLimit,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Functions that load code from disk or strings
	dangerousFuncs := []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
		"module",
	}

	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}
}

// ResetInstructionCount resets the instruction counter.
func (s *Sandbox) ResetInstructionCount() {
	atomic.StoreInt64(&s.instructionCount, 0)
}

// InstructionCount returns the current instruction count.
func (s *Sandbox) InstructionCount() int64 {
	return atomic.LoadInt64(&s.instructionCount)
}

// IncrementInstructions adds to the instruction count and returns true if limit exceeded.
func (s *Sandbox) IncrementInstructions(n int64) bool {
	count := atomic.AddInt64(&s.instructionCount, n)
	return s.instructionLimit > 0 && count > s.instructionLimit
}

// Limit returns the instruction limit. Zero means unlimited.
func (s *Sandbox) Limit() int64 {
	return s.instructionLimit
}

// budget returns a context derived from parent that the VM polls once
// per instruction. It is done when parent is, or once the sandbox's
// instruction count passes the limit.
func (s *Sandbox) budget(parent context.Context) context.Context {
	return &budgetContext{
		Context:  parent,
		sandbox:  s,
		exceeded: make(chan struct{}),
	}
}

// budgetContext counts Done calls as executed instructions.
type budgetContext struct {
	context.Context
	sandbox  *Sandbox
	once     sync.Once
	exceeded chan struct{}
	over     atomic.Bool
}

func (b *budgetContext) Done() <-chan struct{} {
	if b.over.Load() || b.sandbox.IncrementInstructions(1) {
		b.once.Do(func() {
			b.over.Store(true)
			close(b.exceeded)
		})
		return b.exceeded
	}
	return b.Context.Done()
}

func (b *budgetContext) Err() error {
	if b.over.Load() {
		return ErrInstructionLimit
	}
	return b.Context.Err()
}
