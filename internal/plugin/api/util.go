package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/query"
)

// raise reports err as a Lua error prefixed with the function name.
// RaiseError does not return.
func raise(L *lua.LState, fn string, err error) int {
	L.RaiseError("%s: %v", fn, err)
	return 0
}

// bufferArg reads an optional buffer id; nil means the active buffer.
func (c *Context) bufferArg(L *lua.LState, n int, fn string) buffer.ID {
	if L.Get(n) == lua.LNil {
		id, err := c.Query.ActiveBufferID()
		if err != nil {
			raise(L, fn, err)
		}
		return id
	}
	id := L.CheckInt64(n)
	if id < 0 {
		L.ArgError(n, "buffer id must be non-negative")
	}
	return buffer.ID(id)
}

// viewArg reads an optional view id; nil means the active view.
func viewArg(L *lua.LState, n int) editor.ViewID {
	if L.Get(n) == lua.LNil {
		return editor.ActiveView
	}
	id := L.CheckInt64(n)
	if id < 1 {
		L.ArgError(n, "view id must be positive")
	}
	return editor.ViewID(id)
}

func offsetArg(L *lua.LState, n int) buffer.ByteOffset {
	return L.CheckInt64(n)
}

func bufferInfoTable(L *lua.LState, info query.BufferInfo) *lua.LTable {
	t := L.CreateTable(0, 4)
	t.RawSetString("id", lua.LNumber(info.ID))
	t.RawSetString("path", lua.LString(info.Path))
	t.RawSetString("modified", lua.LBool(info.Modified))
	t.RawSetString("length", lua.LNumber(info.Length))
	return t
}

func cursorTable(L *lua.LState, c query.Cursor) *lua.LTable {
	t := L.CreateTable(0, 4)
	t.RawSetString("id", lua.LNumber(c.ID))
	t.RawSetString("position", lua.LNumber(c.Position))
	t.RawSetString("primary", lua.LBool(c.Primary))
	if c.Selection != nil {
		sel := L.CreateTable(0, 2)
		sel.RawSetString("start", lua.LNumber(c.Selection.Start))
		sel.RawSetString("end", lua.LNumber(c.Selection.End))
		t.RawSetString("selection", sel)
	}
	return t
}

func viewportTable(L *lua.LState, vp query.ViewportInfo) *lua.LTable {
	t := L.CreateTable(0, 5)
	t.RawSetString("width", lua.LNumber(vp.Width))
	t.RawSetString("height", lua.LNumber(vp.Height))
	t.RawSetString("top_byte", lua.LNumber(vp.TopByte))
	t.RawSetString("left_column", lua.LNumber(vp.LeftColumn))
	t.RawSetString("column_units", lua.LString(vp.Units))
	return t
}

func getTableString(L *lua.LState, tbl *lua.LTable, field string) string {
	if s, ok := L.GetField(tbl, field).(lua.LString); ok {
		return string(s)
	}
	return ""
}
