// Package status provides the free-text status message channel.
//
// The channel keeps no history: the last message written wins.
package status

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sink receives status messages.
type Sink interface {
	SetStatus(text string)
}

// Func adapts a function to the Sink interface.
type Func func(text string)

// SetStatus calls f(text).
func (f Func) SetStatus(text string) {
	f(text)
}

// Discard drops every message.
var Discard Sink = Func(func(string) {})

// Line is a Sink that remembers the most recent message.
type Line struct {
	mu   sync.RWMutex
	text string
}

// SetStatus replaces the current message.
func (l *Line) SetStatus(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

// Text returns the current message.
func (l *Line) Text() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.text
}

// Logged wraps next so that every message is also logged at debug level.
func Logged(next Sink, logger zerolog.Logger) Sink {
	return Func(func(text string) {
		logger.Debug().Str("status", text).Msg("status updated")
		next.SetStatus(text)
	})
}
