package query

import (
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine/buffer"
)

// Facade answers read-only queries against an editor state.
type Facade struct {
	state *editor.State
}

// New creates a facade over state.
func New(state *editor.State) *Facade {
	return &Facade{state: state}
}

// ActiveBufferID returns the buffer shown in the focused view.
func (f *Facade) ActiveBufferID() (buffer.ID, error) {
	return f.state.ActiveBufferID()
}

// ActiveViewID returns the focused view.
func (f *Facade) ActiveViewID() (editor.ViewID, error) {
	return f.state.ActiveViewID()
}

// BufferInfo describes buffer id.
func (f *Facade) BufferInfo(id buffer.ID) (BufferInfo, error) {
	info, err := f.state.BufferInfo(id)
	if err != nil {
		return BufferInfo{}, err
	}
	return bufferInfo(info), nil
}

// BufferContent returns an immutable snapshot of buffer id.
func (f *Facade) BufferContent(id buffer.ID) (buffer.Snapshot, error) {
	return f.state.Snapshot(id)
}

// Line returns line n (1-indexed) of buffer id without its newline.
func (f *Facade) Line(id buffer.ID, n int) (string, error) {
	line, err := f.state.Line(id, n)
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// LineCount returns the number of lines of buffer id.
func (f *Facade) LineCount(id buffer.ID) (int, error) {
	return f.state.LineCount(id)
}

// ListBuffers describes every open buffer in creation order.
func (f *Facade) ListBuffers() BufferList {
	infos := f.state.ListBuffers()
	out := make(BufferList, len(infos))
	for i, info := range infos {
		out[i] = bufferInfo(info)
	}
	return out
}

// PrimaryCursor returns the primary cursor of view.
func (f *Facade) PrimaryCursor(view editor.ViewID) (Cursor, error) {
	c, err := f.state.PrimaryCursor(view)
	if err != nil {
		return Cursor{}, err
	}
	return cursorOf(c), nil
}

// AllCursors returns every cursor of view, ascending by position.
func (f *Facade) AllCursors(view editor.ViewID) ([]Cursor, error) {
	cs, err := f.state.Cursors(view)
	if err != nil {
		return nil, err
	}
	return cursorsOf(cs), nil
}

// Viewport returns the geometry of view.
func (f *Facade) Viewport(view editor.ViewID) (ViewportInfo, error) {
	st, err := f.state.Viewport(view)
	if err != nil {
		return ViewportInfo{}, err
	}
	return viewportInfo(st), nil
}

// LineWidth returns the width of line n (1-indexed) of view's buffer in the
// view's column units.
func (f *Facade) LineWidth(view editor.ViewID, n int) (int, error) {
	return f.state.LineWidth(view, n)
}

// ListViews describes every view in the order they were opened.
func (f *Facade) ListViews() []ViewInfo {
	views := f.state.ListViews()
	out := make([]ViewInfo, len(views))
	for i, v := range views {
		out[i] = viewInfo(v)
	}
	return out
}

// Status returns the current status message.
func (f *Facade) Status() string {
	return f.state.Status()
}
