package plugin

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/plugin/api"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

type env struct {
	editor   *editor.State
	commands *command.Registry
	manager  *Manager
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	st := editor.New()
	id, err := st.OpenBuffer("", []byte("hello"))
	require.NoError(t, err)
	_, err = st.OpenView(id)
	require.NoError(t, err)

	cmds := command.NewRegistry(zerolog.Nop())
	mgr := NewManager(api.NewContext(st, cmds, zerolog.Nop()), opts...)
	t.Cleanup(mgr.UnloadAll)
	return &env{editor: st, commands: cmds, manager: mgr}
}

const greeter = `
local ks = require("ks")
ks.command.register({
	name = "greet",
	action = "Greet",
	handler = function(args) ks.status.set("hello " .. (args.who or "world")) end,
})
`

func TestLoadPathFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "greeter.lua")
	writeFile(t, path, greeter)

	hosts, err := e.manager.LoadPath(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "greeter", hosts[0].Name())
	assert.Equal(t, StateLoaded, hosts[0].State())
	assert.False(t, hosts[0].LoadedAt().IsZero())

	d, ok := e.commands.Get("greet")
	require.True(t, ok)
	assert.Equal(t, "plugin:greeter", d.Source)

	require.NoError(t, e.commands.Execute(context.Background(), "greet", command.ContextNormal, map[string]any{"who": "quill"}))
	assert.Equal(t, "hello quill", e.editor.Status())
}

func TestLoadPathTwice(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "greeter.lua")
	writeFile(t, path, greeter)

	_, err := e.manager.LoadPath(context.Background(), path)
	require.NoError(t, err)
	_, err = e.manager.LoadPath(context.Background(), path)
	require.ErrorIs(t, err, ErrAlreadyLoaded)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.lua"), `require("ks").status.set("one")`)
	writeFile(t, filepath.Join(dir, "two", "init.lua"), `error("broken plugin")`)

	e := newEnv(t, WithPaths(dir))
	err := e.manager.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken plugin")

	one, ok := e.manager.Get("one")
	require.True(t, ok)
	assert.Equal(t, StateLoaded, one.State())

	two, ok := e.manager.Get("two")
	require.True(t, ok)
	assert.Equal(t, StateError, two.State())
	assert.Contains(t, e.manager.Errors(), "two")
	assert.Len(t, e.manager.List(), 2)
}

func TestFailedLoadDropsCommands(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "half.lua")
	writeFile(t, path, greeter+"\nerror('late failure')")

	_, err := e.manager.LoadPath(context.Background(), path)
	require.Error(t, err)

	_, ok := e.commands.Get("greet")
	assert.False(t, ok)
}

func TestUnloadRemovesCommands(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "greeter.lua")
	writeFile(t, path, greeter)
	_, err := e.manager.LoadPath(context.Background(), path)
	require.NoError(t, err)

	var events []EventType
	cancel := e.manager.Subscribe(func(ev Event) { events = append(events, ev.Type) })
	defer cancel()

	require.NoError(t, e.manager.Unload("greeter"))

	_, ok := e.commands.Get("greet")
	assert.False(t, ok)
	_, ok = e.manager.Get("greeter")
	assert.False(t, ok)
	assert.Equal(t, []EventType{EventUnloaded}, events)
	require.ErrorIs(t, e.manager.Unload("greeter"), ErrPluginNotFound)
}

func TestReload(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "greeter.lua")
	writeFile(t, path, greeter)
	_, err := e.manager.LoadPath(context.Background(), path)
	require.NoError(t, err)

	writeFile(t, path, `
local ks = require("ks")
ks.command.register({name = "farewell", action = "Bye", handler = function() ks.status.set("bye") end})
`)
	require.NoError(t, e.manager.Reload(context.Background(), "greeter"))

	_, ok := e.commands.Get("greet")
	assert.False(t, ok)
	require.NoError(t, e.commands.Execute(context.Background(), "farewell", command.ContextGlobal, nil))
	assert.Equal(t, "bye", e.editor.Status())

	require.ErrorIs(t, e.manager.Reload(context.Background(), "missing"), ErrPluginNotFound)
}

func TestHostCall(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "calc.lua")
	writeFile(t, path, `function add(a, b) return a + b, "sum" end`)
	hosts, err := e.manager.LoadPath(context.Background(), path)
	require.NoError(t, err)

	results, err := hosts[0].Call(context.Background(), "add", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(5), "sum"}, results)

	_, err = hosts[0].Call(context.Background(), "missing")
	require.ErrorIs(t, err, plua.ErrNotFunction)

	require.NoError(t, hosts[0].Unload())
	_, err = hosts[0].Call(context.Background(), "add", 1, 1)
	require.ErrorIs(t, err, ErrNotLoaded)
}

func TestLifecycleHooks(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "hooks.lua")
	writeFile(t, path, `
local ks = require("ks")
function setup(info) ks.status.set("setup " .. info.name .. "@" .. info.version) end
function deactivate() ks.status.set("deactivated") end
`)

	hosts, err := e.manager.LoadPath(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "setup hooks@0.0.0", e.editor.Status())

	require.NoError(t, hosts[0].Unload())
	assert.Equal(t, "deactivated", e.editor.Status())
}

func TestSetupErrorFailsLoad(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "broken.lua")
	writeFile(t, path, `
local ks = require("ks")
ks.command.register({name = "early", action = "Early", handler = function() end})
function setup() error("no config") end
`)

	_, err := e.manager.LoadPath(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup plugin broken")
	_, ok := e.commands.Get("early")
	assert.False(t, ok)
}

func TestHostTimeout(t *testing.T) {
	e := newEnv(t, WithTimeout(50*time.Millisecond))
	path := filepath.Join(t.TempDir(), "spin.lua")
	writeFile(t, path, `while true do end`)

	_, err := e.manager.LoadPath(context.Background(), path)
	require.ErrorIs(t, err, plua.ErrExecutionTimeout)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "reloaded", EventReloaded.String())
	assert.Equal(t, "unknown", EventType(42).String())
	assert.Equal(t, "error", StateError.String())
}
