package editor

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/viewport"
)

// Viewport returns the geometry of a view.
func (s *State) Viewport(id ViewID) (viewport.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.resolveView(id)
	if err != nil {
		return viewport.State{}, err
	}
	return v.viewport.State(), nil
}

// Resize changes the size of a view's viewport.
func (s *State) Resize(id ViewID, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, b, err := s.viewWithBuffer(id)
	if err != nil {
		return err
	}
	v.viewport.Resize(width, height, b.Len())
	return nil
}

// ScrollTo sets the top byte of a view, clamped into [0, length], and
// returns the resulting value.
func (s *State) ScrollTo(id ViewID, top buffer.ByteOffset) (buffer.ByteOffset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, b, err := s.viewWithBuffer(id)
	if err != nil {
		return 0, err
	}
	return v.viewport.ScrollTo(top, b.Len()), nil
}

// ScrollHorizontal sets the left column of a view, clamped to be
// non-negative, and returns the resulting value.
func (s *State) ScrollHorizontal(id ViewID, column int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.resolveView(id)
	if err != nil {
		return 0, err
	}
	return v.viewport.ScrollHorizontal(column), nil
}

// LineWidth returns the width of line n (1-indexed) of a view's buffer,
// measured in the view's column units.
func (s *State) LineWidth(id ViewID, n int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, b, err := s.viewWithBuffer(id)
	if err != nil {
		return 0, err
	}
	line, err := b.Line(n)
	if err != nil {
		return 0, translate(err)
	}
	return v.viewport.ColumnWidth(line), nil
}

// ScrollLines moves the top of a view by delta lines, landing on a line
// start, and returns the new top byte.
func (s *State) ScrollLines(id ViewID, delta int) (buffer.ByteOffset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, b, err := s.viewWithBuffer(id)
	if err != nil {
		return 0, err
	}
	line, err := b.OffsetToLine(v.viewport.TopByte())
	if err != nil {
		return 0, translate(err)
	}
	n := b.LineCount()
	delta = max(-n, min(delta, n))
	target := max(1, min(line+delta, n))
	top, err := b.LineStartOffset(target)
	if err != nil {
		return 0, translate(err)
	}
	return v.viewport.ScrollTo(top, b.Len()), nil
}
