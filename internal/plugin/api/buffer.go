package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/engine/buffer"
)

// BufferModule implements the ks.buf API module.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates a new buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Register registers the module into the Lua state.
func (m *BufferModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetFuncs(mod, map[string]lua.LGFunction{
		"active":         m.active,
		"info":           m.info,
		"list":           m.list,
		"modified_count": m.modifiedCount,
		"content":        m.content,
		"slice":          m.slice,
		"len":            m.length,
		"line":           m.line,
		"line_count":     m.lineCount,
		"line_range":     m.lineRange,
		"offset_to_line": m.offsetToLine,
		"insert":         m.insert,
		"delete":         m.delete,
		"replace":        m.replace,
	})

	L.SetGlobal("_ks_buf", mod)
	return nil
}

// active() -> id or nil
func (m *BufferModule) active(L *lua.LState) int {
	id, err := m.ctx.Query.ActiveBufferID()
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(id))
	return 1
}

// info(id?) -> {id, path, modified, length}
func (m *BufferModule) info(L *lua.LState) int {
	id := m.ctx.bufferArg(L, 1, "buf.info")
	info, err := m.ctx.Query.BufferInfo(id)
	if err != nil {
		return raise(L, "buf.info", err)
	}
	L.Push(bufferInfoTable(L, info))
	return 1
}

// list() -> array of info tables in creation order
func (m *BufferModule) list(L *lua.LState) int {
	infos := m.ctx.Query.ListBuffers()
	t := L.CreateTable(len(infos), 0)
	for _, info := range infos {
		t.Append(bufferInfoTable(L, info))
	}
	L.Push(t)
	return 1
}

// modified_count() -> number
func (m *BufferModule) modifiedCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.ctx.Query.ListBuffers().ModifiedCount()))
	return 1
}

// content(id?) -> string
func (m *BufferModule) content(L *lua.LState) int {
	id := m.ctx.bufferArg(L, 1, "buf.content")
	snap, err := m.ctx.Query.BufferContent(id)
	if err != nil {
		return raise(L, "buf.content", err)
	}
	L.Push(lua.LString(snap.String()))
	return 1
}

// slice(start, end, id?) -> string
func (m *BufferModule) slice(L *lua.LState) int {
	start := offsetArg(L, 1)
	end := offsetArg(L, 2)
	id := m.ctx.bufferArg(L, 3, "buf.slice")
	snap, err := m.ctx.Query.BufferContent(id)
	if err != nil {
		return raise(L, "buf.slice", err)
	}
	if start < 0 || end < start || end > snap.Len() {
		L.ArgError(1, "range out of bounds")
	}
	L.Push(lua.LString(snap.Slice(start, end)))
	return 1
}

// len(id?) -> number
func (m *BufferModule) length(L *lua.LState) int {
	id := m.ctx.bufferArg(L, 1, "buf.len")
	info, err := m.ctx.Query.BufferInfo(id)
	if err != nil {
		return raise(L, "buf.len", err)
	}
	L.Push(lua.LNumber(info.Length))
	return 1
}

// line(n, id?) -> string
func (m *BufferModule) line(L *lua.LState) int {
	n := L.CheckInt(1)
	id := m.ctx.bufferArg(L, 2, "buf.line")
	text, err := m.ctx.Query.Line(id, n)
	if err != nil {
		return raise(L, "buf.line", err)
	}
	L.Push(lua.LString(text))
	return 1
}

// line_count(id?) -> number
func (m *BufferModule) lineCount(L *lua.LState) int {
	id := m.ctx.bufferArg(L, 1, "buf.line_count")
	n, err := m.ctx.Query.LineCount(id)
	if err != nil {
		return raise(L, "buf.line_count", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

// line_range(n, id?) -> start, end
func (m *BufferModule) lineRange(L *lua.LState) int {
	n := L.CheckInt(1)
	id := m.ctx.bufferArg(L, 2, "buf.line_range")
	r, err := m.ctx.Editor.LineRange(id, n)
	if err != nil {
		return raise(L, "buf.line_range", err)
	}
	L.Push(lua.LNumber(r.Start))
	L.Push(lua.LNumber(r.End))
	return 2
}

// offset_to_line(offset, id?) -> number
func (m *BufferModule) offsetToLine(L *lua.LState) int {
	offset := offsetArg(L, 1)
	id := m.ctx.bufferArg(L, 2, "buf.offset_to_line")
	n, err := m.ctx.Editor.OffsetToLine(id, offset)
	if err != nil {
		return raise(L, "buf.offset_to_line", err)
	}
	L.Push(lua.LNumber(n))
	return 1
}

// insert(offset, text, id?) -> edit
func (m *BufferModule) insert(L *lua.LState) int {
	offset := offsetArg(L, 1)
	text := L.CheckString(2)
	id := m.ctx.bufferArg(L, 3, "buf.insert")
	edit, err := m.ctx.Editor.Insert(id, offset, []byte(text))
	if err != nil {
		return raise(L, "buf.insert", err)
	}
	L.Push(editTable(L, edit))
	return 1
}

// delete(start, end, id?) -> edit
func (m *BufferModule) delete(L *lua.LState) int {
	start := offsetArg(L, 1)
	end := offsetArg(L, 2)
	id := m.ctx.bufferArg(L, 3, "buf.delete")
	edit, err := m.ctx.Editor.Delete(id, start, end)
	if err != nil {
		return raise(L, "buf.delete", err)
	}
	L.Push(editTable(L, edit))
	return 1
}

// replace(start, end, text, id?) -> edit
func (m *BufferModule) replace(L *lua.LState) int {
	start := offsetArg(L, 1)
	end := offsetArg(L, 2)
	text := L.CheckString(3)
	id := m.ctx.bufferArg(L, 4, "buf.replace")
	edit, err := m.ctx.Editor.Replace(id, start, end, []byte(text))
	if err != nil {
		return raise(L, "buf.replace", err)
	}
	L.Push(editTable(L, edit))
	return 1
}

func editTable(L *lua.LState, e buffer.Edit) *lua.LTable {
	t := L.CreateTable(0, 4)
	t.RawSetString("start", lua.LNumber(e.Range.Start))
	t.RawSetString("end", lua.LNumber(e.Range.End))
	t.RawSetString("inserted", lua.LNumber(e.Inserted))
	t.RawSetString("revision", lua.LNumber(e.Revision))
	return t
}
