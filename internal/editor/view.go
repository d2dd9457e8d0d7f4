package editor

import (
	"strconv"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/viewport"
)

// ViewID identifies a view within a session. IDs are never reused.
type ViewID uint64

// ActiveView addresses the focused view in operations taking a ViewID.
const ActiveView ViewID = 0

// String returns the decimal form of the id.
func (id ViewID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ViewInfo is a point-in-time description of a view.
type ViewInfo struct {
	ID       ViewID
	Buffer   buffer.ID
	Cursors  int
	Viewport viewport.State
	Active   bool
	// Detached is set when the view's buffer was closed.
	Detached bool
}

// view binds a buffer to its cursors and viewport.
type view struct {
	id       ViewID
	buffer   buffer.ID
	cursors  *cursor.Set
	viewport *viewport.Viewport
}

func (v *view) info(active ViewID, detached bool) ViewInfo {
	return ViewInfo{
		ID:       v.id,
		Buffer:   v.buffer,
		Cursors:  v.cursors.Count(),
		Viewport: v.viewport.State(),
		Active:   v.id == active,
		Detached: detached,
	}
}

// rebind points v at buf with a single cursor at 0 and a fresh viewport of
// the same size.
func (v *view) rebind(buf buffer.ID) {
	st := v.viewport.State()
	v.buffer = buf
	v.cursors = cursor.NewSet(0)
	v.viewport = viewport.New(st.Width, st.Height, st.Units)
}
