package lua

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// ToGoValue converts a Lua value to Go. Tables with only consecutive integer
// keys starting at 1 become []any, other tables map[string]any. Functions
// and userdata become nil.
func ToGoValue(lv lua.LValue) any {
	return toGo(lv, make(map[*lua.LTable]bool))
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	case lua.LNumber:
		if f := float64(v); f == float64(int64(f)) {
			return int64(f)
		}
		return float64(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		if n := v.Len(); n > 0 && countKeys(v) == n {
			out := make([]any, n)
			for i := 1; i <= n; i++ {
				out[i-1] = toGo(v.RawGetInt(i), visited)
			}
			return out
		}
		out := make(map[string]any)
		v.ForEach(func(k, val lua.LValue) {
			out[k.String()] = toGo(val, visited)
		})
		return out
	default:
		return nil
	}
}

func countKeys(t *lua.LTable) int {
	n := 0
	t.ForEach(func(lua.LValue, lua.LValue) { n++ })
	return n
}

// ToLuaValue converts a Go value to Lua. Unsupported types are converted
// with fmt.Sprint.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case []byte:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(ToLuaValue(L, item))
		}
		return t
	case []string:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(lua.LString(item))
		}
		return t
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t := L.CreateTable(0, len(val))
		for _, k := range keys {
			t.RawSetString(k, ToLuaValue(L, val[k]))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}
