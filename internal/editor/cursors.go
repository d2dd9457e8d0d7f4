package editor

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// PrimaryCursor returns the primary cursor of a view.
func (s *State) PrimaryCursor(id ViewID) (cursor.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, _, err := s.viewWithBuffer(id)
	if err != nil {
		return cursor.Cursor{}, err
	}
	return v.cursors.Primary(), nil
}

// Cursors returns every cursor of a view, ascending by position.
func (s *State) Cursors(id ViewID) ([]cursor.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, _, err := s.viewWithBuffer(id)
	if err != nil {
		return nil, err
	}
	return v.cursors.All(), nil
}

// AddCursor adds a cursor at position and returns the id representing it
// after merging.
func (s *State) AddCursor(id ViewID, position buffer.ByteOffset) (cursor.ID, error) {
	return s.withCursors(id, func(cs *cursor.Set, length buffer.ByteOffset) (cursor.ID, error) {
		return cs.Add(position, length)
	})
}

// AddSelection adds a cursor at position selecting [start, end).
func (s *State) AddSelection(id ViewID, position, start, end buffer.ByteOffset) (cursor.ID, error) {
	return s.withCursors(id, func(cs *cursor.Set, length buffer.ByteOffset) (cursor.ID, error) {
		return cs.AddSelection(position, start, end, length)
	})
}

// MoveCursor moves cursor c to position.
func (s *State) MoveCursor(id ViewID, c cursor.ID, position buffer.ByteOffset) (cursor.ID, error) {
	return s.withCursors(id, func(cs *cursor.Set, length buffer.ByteOffset) (cursor.ID, error) {
		return cs.Move(c, position, length)
	})
}

// SelectCursor sets the selection of cursor c to [start, end).
func (s *State) SelectCursor(id ViewID, c cursor.ID, start, end buffer.ByteOffset) (cursor.ID, error) {
	return s.withCursors(id, func(cs *cursor.Set, length buffer.ByteOffset) (cursor.ID, error) {
		return cs.Select(c, start, end, length)
	})
}

// RemoveCursor removes cursor c. The last cursor of a view cannot be removed.
func (s *State) RemoveCursor(id ViewID, c cursor.ID) error {
	_, err := s.withCursors(id, func(cs *cursor.Set, _ buffer.ByteOffset) (cursor.ID, error) {
		return c, cs.Remove(c)
	})
	return err
}

// SetPrimaryCursor marks cursor c as primary.
func (s *State) SetPrimaryCursor(id ViewID, c cursor.ID) error {
	_, err := s.withCursors(id, func(cs *cursor.Set, _ buffer.ByteOffset) (cursor.ID, error) {
		return c, cs.SetPrimary(c)
	})
	return err
}

// ClearSelection drops the selection of cursor c.
func (s *State) ClearSelection(id ViewID, c cursor.ID) error {
	_, err := s.withCursors(id, func(cs *cursor.Set, _ buffer.ByteOffset) (cursor.ID, error) {
		return c, cs.ClearSelection(c)
	})
	return err
}

// CollapseCursors removes every cursor of a view except the primary one.
func (s *State) CollapseCursors(id ViewID) error {
	_, err := s.withCursors(id, func(cs *cursor.Set, _ buffer.ByteOffset) (cursor.ID, error) {
		cs.Collapse()
		return cs.Primary().ID, nil
	})
	return err
}

func (s *State) withCursors(id ViewID, fn func(*cursor.Set, buffer.ByteOffset) (cursor.ID, error)) (cursor.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, b, err := s.viewWithBuffer(id)
	if err != nil {
		return 0, err
	}
	c, err := fn(v.cursors, b.Len())
	if err != nil {
		return 0, translate(err)
	}
	return c, nil
}
