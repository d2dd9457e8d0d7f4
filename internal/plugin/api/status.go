package api

import lua "github.com/yuin/gopher-lua"

// StatusModule implements ks.status.
type StatusModule struct {
	ctx *Context
}

// NewStatusModule creates a new status module.
func NewStatusModule(ctx *Context) *StatusModule {
	return &StatusModule{ctx: ctx}
}

// Name returns the module name.
func (m *StatusModule) Name() string {
	return "status"
}

// Register registers the module into the Lua state.
func (m *StatusModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"set": m.set,
		"get": m.get,
	})
	L.SetGlobal("_ks_status", mod)
	return nil
}

func (m *StatusModule) set(L *lua.LState) int {
	m.ctx.Editor.SetStatus(L.CheckString(1))
	return 0
}

func (m *StatusModule) get(L *lua.LState) int {
	L.Push(lua.LString(m.ctx.Query.Status()))
	return 1
}
