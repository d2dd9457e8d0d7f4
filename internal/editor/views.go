package editor

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
	"github.com/dshills/quill/internal/engine/viewport"
)

// OpenView creates a view on buffer buf with one cursor at offset 0 and
// focuses it.
func (s *State) OpenView(buf buffer.ID) (ViewID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if _, err := s.registry.get(buf); err != nil {
		return 0, err
	}
	s.lastView++
	v := &view{
		id:       s.lastView,
		buffer:   buf,
		cursors:  cursor.NewSet(0),
		viewport: viewport.New(s.width, s.height, s.units),
	}
	s.views[v.id] = v
	s.viewOrder = append(s.viewOrder, v.id)
	s.active = v.id

	s.logger.Debug().
		Uint64("view", uint64(v.id)).
		Uint64("buffer", uint64(buf)).
		Msg("view opened")
	return v.id, nil
}

// CloseView destroys a view. If it was focused, the most recently opened
// remaining view gains focus.
func (s *State) CloseView(id ViewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.resolveView(id)
	if err != nil {
		return err
	}
	s.destroyView(v.id)
	s.logger.Debug().Uint64("view", uint64(v.id)).Msg("view closed")
	return nil
}

// FocusView makes id the active view.
func (s *State) FocusView(id ViewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.resolveView(id)
	if err != nil {
		return err
	}
	s.active = v.id
	return nil
}

// ActiveViewID returns the focused view.
func (s *State) ActiveViewID() (ViewID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == ActiveView {
		return 0, ErrNoActiveView
	}
	return s.active, nil
}

// SetViewBuffer rebinds a view to buffer buf with fresh cursors and
// viewport. It also reattaches a detached view.
func (s *State) SetViewBuffer(id ViewID, buf buffer.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.resolveView(id)
	if err != nil {
		return err
	}
	if _, err := s.registry.get(buf); err != nil {
		return err
	}
	v.rebind(buf)
	return nil
}

// ViewInfo describes a view.
func (s *State) ViewInfo(id ViewID) (ViewInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, err := s.resolveView(id)
	if err != nil {
		return ViewInfo{}, err
	}
	return v.info(s.active, !s.registry.has(v.buffer)), nil
}

// ListViews describes every view in the order they were opened.
func (s *State) ListViews() []ViewInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ViewInfo, 0, len(s.viewOrder))
	for _, id := range s.viewOrder {
		v := s.views[id]
		out = append(out, v.info(s.active, !s.registry.has(v.buffer)))
	}
	return out
}
