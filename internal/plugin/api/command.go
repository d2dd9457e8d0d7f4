package api

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/command"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

// CommandModule implements ks.command. Commands registered by a plugin are
// tagged with the source "plugin:<name>" so the host can drop them on
// unload.
//
// Handlers run on the plugin's Lua state when the command executes. Scripts
// cannot execute commands themselves: the state is locked while a handler
// runs.
type CommandModule struct {
	ctx    *Context
	plugin string
	state  *plua.State
}

// NewCommandModule creates a command module for the named plugin.
func NewCommandModule(ctx *Context, plugin string, state *plua.State) *CommandModule {
	return &CommandModule{ctx: ctx, plugin: plugin, state: state}
}

// Name returns the module name.
func (m *CommandModule) Name() string {
	return "command"
}

// Source returns the registry source tag of the plugin.
func (m *CommandModule) Source() string {
	return SourceFor(m.plugin)
}

// SourceFor returns the command source tag of a plugin.
func SourceFor(plugin string) string {
	return "plugin:" + plugin
}

// Register registers the module into the Lua state.
func (m *CommandModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"register":   m.register,
		"unregister": m.unregister,
		"exists":     m.exists,
		"list":       m.list,
	})
	L.SetGlobal("_ks_command", mod)
	return nil
}

// register({name, action, description?, contexts?, handler})
func (m *CommandModule) register(L *lua.LState) int {
	if m.ctx.Commands == nil {
		L.RaiseError("command.register: no command registry")
		return 0
	}
	def := L.CheckTable(1)

	handler, ok := L.GetField(def, "handler").(*lua.LFunction)
	if !ok {
		L.ArgError(1, "handler must be a function")
	}

	contexts := []command.ExecutionContext{command.ContextGlobal}
	if ct, ok := L.GetField(def, "contexts").(*lua.LTable); ok {
		contexts = contexts[:0]
		var parseErr error
		ct.ForEach(func(_, v lua.LValue) {
			c, err := command.ParseContext(v.String())
			if err != nil && parseErr == nil {
				parseErr = err
			}
			contexts = append(contexts, c)
		})
		if parseErr != nil {
			return raise(L, "command.register", parseErr)
		}
	}

	d := command.Descriptor{
		Name:        getTableString(L, def, "name"),
		Description: getTableString(L, def, "description"),
		Action:      getTableString(L, def, "action"),
		Contexts:    contexts,
		Callback:    m.invoker(handler),
		Source:      m.Source(),
	}
	if err := m.ctx.Commands.Register(d); err != nil {
		return raise(L, "command.register", err)
	}
	return 0
}

// invoker adapts a Lua handler to command.Invocable. The handler receives
// the argument table and the execution context name.
func (m *CommandModule) invoker(fn *lua.LFunction) command.Invocable {
	return command.InvocableFunc(func(ctx context.Context, inv command.Invocation) error {
		err := m.state.Do(ctx, func(L *lua.LState) error {
			args := L.NewTable()
			for k, v := range inv.Args {
				args.RawSetString(k, plua.ToLuaValue(L, v))
			}
			return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args, lua.LString(inv.Context.String()))
		})
		if err != nil {
			return fmt.Errorf("plugin %s: %w", m.plugin, err)
		}
		return nil
	})
}

// unregister(name) -> bool; only the plugin's own commands can be removed.
func (m *CommandModule) unregister(L *lua.LState) int {
	name := L.CheckString(1)
	if m.ctx.Commands == nil {
		L.Push(lua.LFalse)
		return 1
	}
	d, ok := m.ctx.Commands.Get(name)
	if !ok || d.Source != m.Source() {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(m.ctx.Commands.Unregister(name)))
	return 1
}

// exists(name) -> bool
func (m *CommandModule) exists(L *lua.LState) int {
	name := L.CheckString(1)
	if m.ctx.Commands == nil {
		L.Push(lua.LFalse)
		return 1
	}
	_, ok := m.ctx.Commands.Get(name)
	L.Push(lua.LBool(ok))
	return 1
}

// list(context?) -> array of {name, action, description, source}
func (m *CommandModule) list(L *lua.LState) int {
	t := L.NewTable()
	if m.ctx.Commands == nil {
		L.Push(t)
		return 1
	}
	ds := m.ctx.Commands.List()
	if name := L.OptString(1, ""); name != "" {
		c, err := command.ParseContext(name)
		if err != nil {
			return raise(L, "command.list", err)
		}
		ds = m.ctx.Commands.ListFor(c)
	}
	for _, d := range ds {
		dt := L.CreateTable(0, 4)
		dt.RawSetString("name", lua.LString(d.Name))
		dt.RawSetString("action", lua.LString(d.Action))
		dt.RawSetString("description", lua.LString(d.Description))
		dt.RawSetString("source", lua.LString(d.Source))
		t.Append(dt)
	}
	L.Push(t)
	return 1
}
