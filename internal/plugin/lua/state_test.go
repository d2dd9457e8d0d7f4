package lua

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	lua "github.com/yuin/gopher-lua"
)

func newState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s, err := NewState(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDoString(t *testing.T) {
	s := newState(t)

	require.NoError(t, s.DoString(context.Background(), `result = string.upper("ok") .. #{1, 2, 3}`))

	assert.Equal(t, "OK3", s.GetGlobal("result").String())
}

func TestDoFile(t *testing.T) {
	s := newState(t)
	path := filepath.Join(t.TempDir(), "script.lua")
	require.NoError(t, os.WriteFile(path, []byte(`answer = math.max(40, 42)`), 0o600))

	require.NoError(t, s.DoFile(context.Background(), path))

	assert.Equal(t, lua.LNumber(42), s.GetGlobal("answer"))
}

func TestSandboxRemovesLoaders(t *testing.T) {
	s := newState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "debug"} {
		assert.Equal(t, lua.LNil, s.GetGlobal(name), name)
	}

	err := s.DoString(context.Background(), `require("os")`)
	assert.ErrorContains(t, err, `module "os" is not available`)

	require.NoError(t, s.DoString(context.Background(), `local t = require("table"); n = #t.concat({"a", "b"})`))
	assert.Equal(t, lua.LNumber(2), s.GetGlobal("n"))
}

func TestRequirePreloaded(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.Do(context.Background(), func(L *lua.LState) error {
		L.PreloadModule("ks", func(L *lua.LState) int {
			mod := L.NewTable()
			L.SetField(mod, "version", lua.LString("1"))
			L.Push(mod)
			return 1
		})
		return nil
	}))

	require.NoError(t, s.DoString(context.Background(), `v = require("ks").version`))
	assert.Equal(t, "1", s.GetGlobal("v").String())
}

func TestPrintGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	s := newState(t, WithLogger(zerolog.New(&buf)))

	require.NoError(t, s.DoString(context.Background(), `print("hello", 3)`))

	assert.Equal(t, "hello\t3", gjson.Get(buf.String(), "message").String())
	assert.Equal(t, "lua", gjson.Get(buf.String(), "source").String())
}

func TestTimeout(t *testing.T) {
	s := newState(t, WithTimeout(50*time.Millisecond))

	err := s.DoString(context.Background(), `while true do end`)

	assert.ErrorIs(t, err, ErrExecutionTimeout)
}

func TestCall(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.DoString(context.Background(), `function add(a, b) return a + b, "sum" end`))

	results, err := s.Call(context.Background(), s.GetGlobal("add"), lua.LNumber(2), lua.LNumber(3))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, lua.LNumber(5), results[0])
	assert.Equal(t, "sum", results[1].String())

	_, err = s.Call(context.Background(), lua.LString("nope"))
	assert.ErrorIs(t, err, ErrNotFunction)

	require.NoError(t, s.DoString(context.Background(), `function fail() error("bad") end`))
	_, err = s.Call(context.Background(), s.GetGlobal("fail"))
	assert.ErrorContains(t, err, "bad")
}

func TestClosedState(t *testing.T) {
	s, err := NewState()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.DoString(context.Background(), `x = 1`), ErrStateClosed)
	assert.Equal(t, lua.LNil, s.GetGlobal("x"))
}
