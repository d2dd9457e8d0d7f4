package lua

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultCallStackSize    = 256
)

// State wraps gopher-lua with sandboxing and execution deadlines.
type State struct {
	L *lua.LState

	mu sync.Mutex

	// Configuration
	timeout       time.Duration
	callStackSize int
	logger        zerolog.Logger

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout sets the deadline applied to each execution. Zero disables it.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithCallStackSize sets the maximum Lua call depth.
func WithCallStackSize(n int) StateOption {
	return func(s *State) {
		if n > 0 {
			s.callStackSize = n
		}
	}
}

// WithLogger sets the logger receiving print output.
func WithLogger(logger zerolog.Logger) StateOption {
	return func(s *State) {
		s.logger = logger
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	s := &State{
		timeout:       DefaultExecutionTimeout,
		callStackSize: DefaultCallStackSize,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: s.callStackSize,
	})
	openSafeLibraries(s.L)
	installSandbox(s.L, s.logger)
	return s, nil
}

// openSafeLibraries opens only safe Lua standard libraries. io, os and debug
// stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.Do(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.Do(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Do runs fn with exclusive access to the Lua state under the execution
// deadline. Panics raised inside fn are returned as errors.
func (s *State) Do(ctx context.Context, fn func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.run(ctx, fn)
}

// Call calls fn with args and returns its results. Returns an empty slice
// (not nil) if the function returns no values.
func (s *State) Call(ctx context.Context, fn lua.LValue, args ...lua.LValue) ([]lua.LValue, error) {
	if fn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: got %s", ErrNotFunction, fn.Type())
	}

	var results []lua.LValue
	err := s.Do(ctx, func(L *lua.LState) error {
		top := L.GetTop()
		L.Push(fn)
		for _, arg := range args {
			L.Push(arg)
		}
		if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}
		n := L.GetTop() - top
		results = make([]lua.LValue, n)
		for i := range n {
			results[i] = L.Get(top + i + 1)
		}
		L.Pop(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *State) run(ctx context.Context, fn func(L *lua.LState) error) (err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
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

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
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
