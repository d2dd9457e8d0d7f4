package editor

import (
	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/engine/viewport"
	"github.com/dshills/quill/internal/status"
)

// Default configuration values.
const (
	DefaultViewportWidth  = 80
	DefaultViewportHeight = 24
)

// Option configures a State during creation.
type Option func(*State)

// WithLogger sets the logger. The session id is attached to every entry.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

// WithStatusSink forwards every status message to sink in addition to the
// State's own status line.
func WithStatusSink(sink status.Sink) Option {
	return func(s *State) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithClosePolicy sets what happens to views of a closed buffer.
func WithClosePolicy(policy ClosePolicy) Option {
	return func(s *State) {
		s.policy = policy
	}
}

// WithViewportSize sets the size of newly opened views.
func WithViewportSize(width, height int) Option {
	return func(s *State) {
		if width >= 0 {
			s.width = width
		}
		if height >= 0 {
			s.height = height
		}
	}
}

// WithColumnUnits sets the unit of every viewport's left column.
func WithColumnUnits(units viewport.Units) Option {
	return func(s *State) {
		s.units = units
	}
}
