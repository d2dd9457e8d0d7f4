package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ViewModule implements the ks.view API module.
type ViewModule struct {
	ctx *Context
}

// NewViewModule creates a new view module.
func NewViewModule(ctx *Context) *ViewModule {
	return &ViewModule{ctx: ctx}
}

// Name returns the module name.
func (m *ViewModule) Name() string {
	return "view"
}

// Register registers the module into the Lua state.
func (m *ViewModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"active":            m.active,
		"list":              m.list,
		"open":              m.open,
		"close":             m.close,
		"focus":             m.focus,
		"set_buffer":        m.setBuffer,
		"column_width":      m.columnWidth,
		"viewport":          m.viewport,
		"resize":            m.resize,
		"scroll_to":         m.scrollTo,
		"scroll_lines":      m.scrollLines,
		"scroll_horizontal": m.scrollHorizontal,
	})

	L.SetGlobal("_ks_view", mod)
	return nil
}

// active() -> id or nil
func (m *ViewModule) active(L *lua.LState) int {
	id, err := m.ctx.Query.ActiveViewID()
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(id))
	return 1
}

// list() -> array of {id, buffer, active, detached, cursor_count, viewport}
func (m *ViewModule) list(L *lua.LState) int {
	views := m.ctx.Query.ListViews()
	t := L.CreateTable(len(views), 0)
	for _, v := range views {
		vt := L.CreateTable(0, 6)
		vt.RawSetString("id", lua.LNumber(v.ID))
		vt.RawSetString("buffer", lua.LNumber(v.Buffer))
		vt.RawSetString("active", lua.LBool(v.Active))
		vt.RawSetString("detached", lua.LBool(v.Detached))
		vt.RawSetString("cursor_count", lua.LNumber(v.Cursors))
		vt.RawSetString("viewport", viewportTable(L, v.Viewport))
		t.Append(vt)
	}
	L.Push(t)
	return 1
}

// open(buffer?) -> view id; the new view becomes active.
func (m *ViewModule) open(L *lua.LState) int {
	buf := m.ctx.bufferArg(L, 1, "view.open")
	id, err := m.ctx.Editor.OpenView(buf)
	if err != nil {
		return raise(L, "view.open", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// close(view?)
func (m *ViewModule) close(L *lua.LState) int {
	if err := m.ctx.Editor.CloseView(viewArg(L, 1)); err != nil {
		return raise(L, "view.close", err)
	}
	return 0
}

// focus(view)
func (m *ViewModule) focus(L *lua.LState) int {
	id := viewArg(L, 1)
	if err := m.ctx.Editor.FocusView(id); err != nil {
		return raise(L, "view.focus", err)
	}
	return 0
}

// set_buffer(buffer, view?) rebinds a view, reattaching it if detached.
func (m *ViewModule) setBuffer(L *lua.LState) int {
	buf := buffer.ID(L.CheckInt64(1))
	if err := m.ctx.Editor.SetViewBuffer(viewArg(L, 2), buf); err != nil {
		return raise(L, "view.set_buffer", err)
	}
	return 0
}

// column_width(line, view?) -> width of the line in the view's column units
func (m *ViewModule) columnWidth(L *lua.LState) int {
	n := L.CheckInt(1)
	w, err := m.ctx.Query.LineWidth(viewArg(L, 2), n)
	if err != nil {
		return raise(L, "view.column_width", err)
	}
	L.Push(lua.LNumber(w))
	return 1
}

// viewport(view?) -> {width, height, top_byte, left_column, column_units}
func (m *ViewModule) viewport(L *lua.LState) int {
	vp, err := m.ctx.Query.Viewport(viewArg(L, 1))
	if err != nil {
		return raise(L, "view.viewport", err)
	}
	L.Push(viewportTable(L, vp))
	return 1
}

// resize(width, height, view?)
func (m *ViewModule) resize(L *lua.LState) int {
	w := L.CheckInt(1)
	h := L.CheckInt(2)
	if err := m.ctx.Editor.Resize(viewArg(L, 3), w, h); err != nil {
		return raise(L, "view.resize", err)
	}
	return 0
}

// scroll_to(top_byte, view?) -> clamped top byte
func (m *ViewModule) scrollTo(L *lua.LState) int {
	top := offsetArg(L, 1)
	got, err := m.ctx.Editor.ScrollTo(viewArg(L, 2), top)
	if err != nil {
		return raise(L, "view.scroll_to", err)
	}
	L.Push(lua.LNumber(got))
	return 1
}

// scroll_lines(delta, view?) -> new top byte
func (m *ViewModule) scrollLines(L *lua.LState) int {
	delta := L.CheckInt(1)
	got, err := m.ctx.Editor.ScrollLines(viewArg(L, 2), delta)
	if err != nil {
		return raise(L, "view.scroll_lines", err)
	}
	L.Push(lua.LNumber(got))
	return 1
}

// scroll_horizontal(column, view?) -> clamped column
func (m *ViewModule) scrollHorizontal(L *lua.LState) int {
	col := L.CheckInt(1)
	got, err := m.ctx.Editor.ScrollHorizontal(viewArg(L, 2), col)
	if err != nil {
		return raise(L, "view.scroll_horizontal", err)
	}
	L.Push(lua.LNumber(got))
	return 1
}
