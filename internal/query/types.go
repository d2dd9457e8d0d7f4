package query

import (
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/viewport"
)

// BufferInfo describes a buffer.
type BufferInfo struct {
	ID       uint64 `json:"id" yaml:"id"`
	Path     string `json:"path" yaml:"path"`
	Modified bool   `json:"modified" yaml:"modified"`
	Length   int64  `json:"length" yaml:"length"`
}

func bufferInfo(info editor.BufferInfo) BufferInfo {
	return BufferInfo{
		ID:       uint64(info.ID),
		Path:     info.Path,
		Modified: info.Modified,
		Length:   info.Length,
	}
}

// BufferList is the result of ListBuffers, in creation order.
type BufferList []BufferInfo

// ModifiedCount returns how many listed buffers have unsaved changes.
func (l BufferList) ModifiedCount() int {
	n := 0
	for _, b := range l {
		if b.Modified {
			n++
		}
	}
	return n
}

// Selection is a half-open byte range.
type Selection struct {
	Start int64 `json:"start" yaml:"start"`
	End   int64 `json:"end" yaml:"end"`
}

// Size returns the number of selected bytes.
func (s Selection) Size() int64 {
	return s.End - s.Start
}

// Cursor describes one cursor of a view.
type Cursor struct {
	ID        uint64     `json:"id" yaml:"id"`
	Position  int64      `json:"position" yaml:"position"`
	Selection *Selection `json:"selection,omitempty" yaml:"selection,omitempty"`
	Primary   bool       `json:"primary" yaml:"primary"`
}

// SelectionSize returns the selected byte count, or 0 without a selection.
func (c Cursor) SelectionSize() int64 {
	if c.Selection == nil {
		return 0
	}
	return c.Selection.Size()
}

func cursorOf(c cursor.Cursor) Cursor {
	out := Cursor{
		ID:       uint64(c.ID),
		Position: c.Position,
		Primary:  c.Primary,
	}
	if c.HasSelection {
		out.Selection = &Selection{Start: c.Selection.Start, End: c.Selection.End}
	}
	return out
}

func cursorsOf(cs []cursor.Cursor) []Cursor {
	out := make([]Cursor, len(cs))
	for i, c := range cs {
		out[i] = cursorOf(c)
	}
	return out
}

// ViewportInfo describes the geometry of a view.
type ViewportInfo struct {
	Width      int    `json:"width" yaml:"width"`
	Height     int    `json:"height" yaml:"height"`
	TopByte    int64  `json:"top_byte" yaml:"top_byte"`
	LeftColumn int    `json:"left_column" yaml:"left_column"`
	Units      string `json:"column_units" yaml:"column_units"`
}

func viewportInfo(st viewport.State) ViewportInfo {
	return ViewportInfo{
		Width:      st.Width,
		Height:     st.Height,
		TopByte:    st.TopByte,
		LeftColumn: st.LeftColumn,
		Units:      st.Units.String(),
	}
}

// ViewInfo describes a view.
type ViewInfo struct {
	ID       uint64       `json:"id" yaml:"id"`
	Buffer   uint64       `json:"buffer" yaml:"buffer"`
	Active   bool         `json:"active" yaml:"active"`
	Cursors  int          `json:"cursor_count" yaml:"cursor_count"`
	Viewport ViewportInfo `json:"viewport" yaml:"viewport"`
	Detached bool         `json:"detached" yaml:"detached"`
}

func viewInfo(v editor.ViewInfo) ViewInfo {
	return ViewInfo{
		ID:       uint64(v.ID),
		Buffer:   uint64(v.Buffer),
		Active:   v.Active,
		Cursors:  v.Cursors,
		Viewport: viewportInfo(v.Viewport),
		Detached: v.Detached,
	}
}
