package lua

import (
	"strings"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// builtinModules may be required by name; everything else must be preloaded.
var builtinModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// installSandbox removes loaders that reach the file system and routes
// print to the logger.
func installSandbox(L *lua.LState, logger zerolog.Logger) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		logger.Info().Str("source", "lua").Msg(strings.Join(parts, "\t"))
		return 0
	}))

	original := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !builtinModules[name] && !isPreloaded(L, name) {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

func isPreloaded(L *lua.LState, name string) bool {
	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return false
	}
	preload, ok := L.GetField(pkg, "preload").(*lua.LTable)
	if !ok {
		return false
	}
	return preload.RawGetString(name) != lua.LNil
}
