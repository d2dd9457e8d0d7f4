package editor

import (
	"github.com/dshills/quill/internal/engine/buffer"
)

// Insert inserts text at offset in buffer id.
func (s *State) Insert(id buffer.ID, offset buffer.ByteOffset, text []byte) (buffer.Edit, error) {
	return s.edit(id, func(b *buffer.Buffer) (buffer.Edit, error) {
		return b.Insert(offset, text)
	})
}

// Delete removes [start, end) from buffer id.
func (s *State) Delete(id buffer.ID, start, end buffer.ByteOffset) (buffer.Edit, error) {
	return s.edit(id, func(b *buffer.Buffer) (buffer.Edit, error) {
		return b.Delete(start, end)
	})
}

// Replace replaces [start, end) of buffer id with text.
func (s *State) Replace(id buffer.ID, start, end buffer.ByteOffset, text []byte) (buffer.Edit, error) {
	return s.edit(id, func(b *buffer.Buffer) (buffer.Edit, error) {
		return b.Replace(start, end, text)
	})
}

// edit applies fn to buffer id and propagates the result to every view
// bound to it. fn validates before mutating, so a failure changes nothing.
func (s *State) edit(id buffer.ID, fn func(*buffer.Buffer) (buffer.Edit, error)) (buffer.Edit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.registry.get(id)
	if err != nil {
		return buffer.Edit{}, err
	}
	e, err := fn(b)
	if err != nil {
		return buffer.Edit{}, translate(err)
	}

	length := b.Len()
	for _, vid := range s.viewOrder {
		v := s.views[vid]
		if v.buffer != id {
			continue
		}
		v.cursors.Apply(e)
		v.viewport.Clamp(length)
	}

	s.logger.Trace().
		Uint64("buffer", uint64(id)).
		Stringer("edit", e).
		Int64("length", length).
		Msg("buffer edited")
	return e, nil
}
