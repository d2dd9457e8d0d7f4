package editor

import (
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
)

// CreateBuffer creates an empty, unmodified buffer. An empty path means the
// buffer has never been saved.
func (s *State) CreateBuffer(path string) (buffer.ID, error) {
	return s.OpenBuffer(path, nil)
}

// OpenBuffer creates an unmodified buffer holding content. The content is
// copied.
func (s *State) OpenBuffer(path string, content []byte) (buffer.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	b := s.registry.create(buffer.WithPath(path), buffer.WithContent(content))
	s.logger.Debug().
		Uint64("buffer", uint64(b.ID())).
		Str("path", path).
		Int64("length", b.Len()).
		Msg("buffer created")
	return b.ID(), nil
}

// BufferInfo returns a description of buffer id.
func (s *State) BufferInfo(id buffer.ID) (BufferInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return BufferInfo{}, err
	}
	return infoOf(b), nil
}

// ListBuffers describes every open buffer in creation order.
func (s *State) ListBuffers() []BufferInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.infos()
}

// ActiveBufferID returns the buffer of the focused view.
func (s *State) ActiveBufferID() (buffer.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, _, err := s.viewWithBuffer(ActiveView)
	if err != nil {
		return 0, err
	}
	return v.buffer, nil
}

// CloseBuffer closes buffer id. A modified buffer is only closed when force
// is set. Views bound to the buffer are detached, destroyed or rebound
// according to the ClosePolicy.
func (s *State) CloseBuffer(id buffer.ID, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.registry.get(id)
	if err != nil {
		return err
	}
	if b.Modified() && !force {
		return fmt.Errorf("%w: buffer %d", ErrUnsaved, id)
	}

	s.registry.remove(id)
	target, haveTarget := s.registry.newest()

	affected := 0
	for _, vid := range append([]ViewID(nil), s.viewOrder...) {
		v := s.views[vid]
		if v.buffer != id {
			continue
		}
		affected++
		switch {
		case s.policy == CloseDetach:
			// ids are never reused, so the view stays unbound
		case s.policy == CloseReassign && haveTarget:
			v.rebind(target)
		default:
			s.destroyView(vid)
		}
	}

	s.logger.Debug().
		Uint64("buffer", uint64(id)).
		Bool("force", force).
		Bool("modified", b.Modified()).
		Int("views", affected).
		Str("policy", s.policy.String()).
		Msg("buffer closed")
	return nil
}

// MarkSaved clears the modified flag of buffer id.
func (s *State) MarkSaved(id buffer.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.registry.get(id)
	if err != nil {
		return err
	}
	b.MarkSaved()
	return nil
}

// SetPath changes the path of buffer id.
func (s *State) SetPath(id buffer.ID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.registry.get(id)
	if err != nil {
		return err
	}
	b.SetPath(path)
	return nil
}

// Snapshot returns an immutable snapshot of the content of buffer id.
func (s *State) Snapshot(id buffer.ID) (buffer.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return buffer.Snapshot{}, err
	}
	return b.Snapshot(), nil
}

// Line returns line n (1-indexed) of buffer id without its newline.
func (s *State) Line(id buffer.ID, n int) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return nil, err
	}
	line, err := b.Line(n)
	return line, translate(err)
}

// LineCount returns the number of lines in buffer id.
func (s *State) LineCount(id buffer.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return 0, err
	}
	return b.LineCount(), nil
}

// LineStartOffset returns the offset at which line n (1-indexed) starts.
func (s *State) LineStartOffset(id buffer.ID, n int) (buffer.ByteOffset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return 0, err
	}
	off, err := b.LineStartOffset(n)
	return off, translate(err)
}

// LineRange returns the byte range of line n (1-indexed) without its newline.
func (s *State) LineRange(id buffer.ID, n int) (buffer.Range, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return buffer.Range{}, err
	}
	r, err := b.LineRange(n)
	return r, translate(err)
}

// OffsetToLine returns the 1-indexed line containing offset.
func (s *State) OffsetToLine(id buffer.ID, offset buffer.ByteOffset) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.registry.get(id)
	if err != nil {
		return 0, err
	}
	n, err := b.OffsetToLine(offset)
	return n, translate(err)
}
