package editor

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/viewport"
	"github.com/dshills/quill/internal/status"
)

// State is the editor state of one session.
type State struct {
	mu sync.RWMutex

	session uuid.UUID
	logger  zerolog.Logger

	registry *registry

	views     map[ViewID]*view
	viewOrder []ViewID
	lastView  ViewID
	active    ViewID

	line status.Line
	sink status.Sink

	// Configuration
	policy ClosePolicy
	width  int
	height int
	units  viewport.Units

	closed bool
}

// New creates the state for a new session.
func New(opts ...Option) *State {
	s := &State{
		session:  uuid.New(),
		logger:   zerolog.Nop(),
		registry: newRegistry(),
		views:    make(map[ViewID]*view),
		sink:     status.Discard,
		policy:   CloseDetach,
		width:    DefaultViewportWidth,
		height:   DefaultViewportHeight,
		units:    viewport.UnitBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("session", s.session.String()).Logger()
	s.logger.Debug().
		Str("close_policy", s.policy.String()).
		Str("column_units", s.units.String()).
		Msg("editor session started")
	return s
}

// SessionID returns the unique id of this session.
func (s *State) SessionID() uuid.UUID {
	return s.session
}

// Logger returns the session logger.
func (s *State) Logger() zerolog.Logger {
	return s.logger
}

// Close ends the session and releases every buffer and view. Close is
// idempotent; operations that create state fail with ErrClosed afterwards.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.logger.Debug().
		Int("buffers", s.registry.len()).
		Int("views", len(s.views)).
		Msg("editor session closed")
	s.registry.clear()
	clear(s.views)
	s.viewOrder = nil
	s.active = ActiveView
	s.closed = true
	return nil
}

// SetStatus replaces the status message.
func (s *State) SetStatus(text string) {
	s.line.SetStatus(text)
	s.sink.SetStatus(text)
}

// Status returns the current status message.
func (s *State) Status() string {
	return s.line.Text()
}

// resolveView returns the addressed view. Callers hold the lock.
func (s *State) resolveView(id ViewID) (*view, error) {
	if id == ActiveView {
		if s.active == ActiveView {
			return nil, ErrNoActiveView
		}
		id = s.active
	}
	v, ok := s.views[id]
	if !ok {
		return nil, viewNotFound(id)
	}
	return v, nil
}

// viewWithBuffer resolves a view and its buffer. Callers hold the lock.
func (s *State) viewWithBuffer(id ViewID) (*view, *buffer.Buffer, error) {
	v, err := s.resolveView(id)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.registry.get(v.buffer)
	if err != nil {
		return nil, nil, err
	}
	return v, b, nil
}

func (s *State) destroyView(id ViewID) {
	delete(s.views, id)
	if i := slices.Index(s.viewOrder, id); i >= 0 {
		s.viewOrder = slices.Delete(s.viewOrder, i, i+1)
	}
	if s.active == id {
		s.active = ActiveView
		if n := len(s.viewOrder); n > 0 {
			s.active = s.viewOrder[n-1]
		}
	}
}
