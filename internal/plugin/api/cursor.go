package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine/cursor"
)

// CursorModule implements the ks.cursor API module. Every function takes an
// optional trailing view id; nil addresses the active view.
type CursorModule struct {
	ctx *Context
}

// NewCursorModule creates a new cursor module.
func NewCursorModule(ctx *Context) *CursorModule {
	return &CursorModule{ctx: ctx}
}

// Name returns the module name.
func (m *CursorModule) Name() string {
	return "cursor"
}

// Register registers the module into the Lua state.
func (m *CursorModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"primary":     m.primary,
		"all":         m.all,
		"count":       m.count,
		"add":         m.add,
		"add_select":  m.addSelect,
		"move":        m.move,
		"select":      m.selectRange,
		"remove":      m.remove,
		"set_primary": m.setPrimary,
		"clear":       m.clear,
		"collapse":    m.collapse,
	})

	L.SetGlobal("_ks_cursor", mod)
	return nil
}

func cursorIDArg(L *lua.LState, n int) cursor.ID {
	id := L.CheckInt64(n)
	if id < 1 {
		L.ArgError(n, "cursor id must be positive")
	}
	return cursor.ID(id)
}

// primary(view?) -> cursor table
func (m *CursorModule) primary(L *lua.LState) int {
	c, err := m.ctx.Query.PrimaryCursor(viewArg(L, 1))
	if err != nil {
		return raise(L, "cursor.primary", err)
	}
	L.Push(cursorTable(L, c))
	return 1
}

// all(view?) -> array of cursor tables ordered by position
func (m *CursorModule) all(L *lua.LState) int {
	cs, err := m.ctx.Query.AllCursors(viewArg(L, 1))
	if err != nil {
		return raise(L, "cursor.all", err)
	}
	t := L.CreateTable(len(cs), 0)
	for _, c := range cs {
		t.Append(cursorTable(L, c))
	}
	L.Push(t)
	return 1
}

// count(view?) -> number
func (m *CursorModule) count(L *lua.LState) int {
	cs, err := m.ctx.Query.AllCursors(viewArg(L, 1))
	if err != nil {
		return raise(L, "cursor.count", err)
	}
	L.Push(lua.LNumber(len(cs)))
	return 1
}

// add(position, view?) -> id of the cursor now at position
func (m *CursorModule) add(L *lua.LState) int {
	pos := offsetArg(L, 1)
	id, err := m.ctx.Editor.AddCursor(viewArg(L, 2), pos)
	if err != nil {
		return raise(L, "cursor.add", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// add_select(position, start, end, view?) -> id
func (m *CursorModule) addSelect(L *lua.LState) int {
	pos := offsetArg(L, 1)
	start := offsetArg(L, 2)
	end := offsetArg(L, 3)
	id, err := m.ctx.Editor.AddSelection(viewArg(L, 4), pos, start, end)
	if err != nil {
		return raise(L, "cursor.add_select", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// move(id, position, view?) -> surviving id
func (m *CursorModule) move(L *lua.LState) int {
	c := cursorIDArg(L, 1)
	pos := offsetArg(L, 2)
	id, err := m.ctx.Editor.MoveCursor(viewArg(L, 3), c, pos)
	if err != nil {
		return raise(L, "cursor.move", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// select(id, start, end, view?) -> surviving id
func (m *CursorModule) selectRange(L *lua.LState) int {
	c := cursorIDArg(L, 1)
	start := offsetArg(L, 2)
	end := offsetArg(L, 3)
	id, err := m.ctx.Editor.SelectCursor(viewArg(L, 4), c, start, end)
	if err != nil {
		return raise(L, "cursor.select", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// remove(id, view?)
func (m *CursorModule) remove(L *lua.LState) int {
	c := cursorIDArg(L, 1)
	if err := m.ctx.Editor.RemoveCursor(viewArg(L, 2), c); err != nil {
		return raise(L, "cursor.remove", err)
	}
	return 0
}

// set_primary(id, view?)
func (m *CursorModule) setPrimary(L *lua.LState) int {
	c := cursorIDArg(L, 1)
	if err := m.ctx.Editor.SetPrimaryCursor(viewArg(L, 2), c); err != nil {
		return raise(L, "cursor.set_primary", err)
	}
	return 0
}

// clear(id, view?) drops the selection of a cursor.
func (m *CursorModule) clear(L *lua.LState) int {
	c := cursorIDArg(L, 1)
	if err := m.ctx.Editor.ClearSelection(viewArg(L, 2), c); err != nil {
		return raise(L, "cursor.clear", err)
	}
	return 0
}

// collapse(view?) keeps only the primary cursor.
func (m *CursorModule) collapse(L *lua.LState) int {
	if err := m.ctx.Editor.CollapseCursors(viewArg(L, 1)); err != nil {
		return raise(L, "cursor.collapse", err)
	}
	return 0
}
