package api

import (
	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/quill/internal/plugin/lua"
)

// LogModule implements ks.log. Messages go to the context logger tagged with
// the plugin name. An optional table argument adds fields.
type LogModule struct {
	ctx    *Context
	plugin string
}

// NewLogModule creates a log module for the named plugin.
func NewLogModule(ctx *Context, plugin string) *LogModule {
	return &LogModule{ctx: ctx, plugin: plugin}
}

// Name returns the module name.
func (m *LogModule) Name() string {
	return "log"
}

// Register registers the module into the Lua state.
func (m *LogModule) Register(L *lua.LState) error {
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"debug": m.logAt(zerolog.DebugLevel),
		"info":  m.logAt(zerolog.InfoLevel),
		"warn":  m.logAt(zerolog.WarnLevel),
		"error": m.logAt(zerolog.ErrorLevel),
	})
	L.SetGlobal("_ks_log", mod)
	return nil
}

func (m *LogModule) logAt(level zerolog.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		ev := m.ctx.Logger.WithLevel(level).Str("plugin", m.plugin)
		if fields, ok := L.Get(2).(*lua.LTable); ok {
			fields.ForEach(func(k, v lua.LValue) {
				if key, ok := k.(lua.LString); ok {
					ev = ev.Interface(string(key), plua.ToGoValue(v))
				}
			})
		}
		ev.Msg(msg)
		return 0
	}
}
