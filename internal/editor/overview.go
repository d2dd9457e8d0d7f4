package editor

import (
	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine/cursor"
)

// ViewOverview is a view together with its cursors.
type ViewOverview struct {
	ViewInfo
	CursorList []cursor.Cursor
}

// Overview is a consistent picture of the whole session.
type Overview struct {
	Session    uuid.UUID
	ActiveView ViewID
	Status     string
	Buffers    []BufferInfo
	Views      []ViewOverview
}

// Overview collects every buffer, view and cursor under a single read lock,
// so no edit can land between the parts.
func (s *State) Overview() Overview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := Overview{
		Session:    s.session,
		ActiveView: s.active,
		Status:     s.line.Text(),
		Buffers:    s.registry.infos(),
		Views:      make([]ViewOverview, 0, len(s.viewOrder)),
	}
	for _, id := range s.viewOrder {
		v := s.views[id]
		o.Views = append(o.Views, ViewOverview{
			ViewInfo:   v.info(s.active, !s.registry.has(v.buffer)),
			CursorList: v.cursors.All(),
		})
	}
	return o
}
