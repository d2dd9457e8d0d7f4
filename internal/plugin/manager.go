package plugin

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/plugin/api"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

// DefaultDebounce is the delay used to coalesce file change events.
const DefaultDebounce = 100 * time.Millisecond

// Manager owns the hosts of all loaded plugins.
type Manager struct {
	mu sync.RWMutex

	api    *api.Context
	logger zerolog.Logger

	hosts map[string]*Host
	order []string

	handlers  []EventHandler
	handlerMu sync.RWMutex

	// Configuration
	paths         []string
	timeout       time.Duration
	callStackSize int
	debounce      time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithPaths sets the plugin search paths used by LoadAll and Watch.
func WithPaths(paths ...string) Option {
	return func(m *Manager) {
		m.paths = paths
	}
}

// WithTimeout sets the execution deadline of each Lua call.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithCallStackSize sets the Lua call stack size of each plugin.
func WithCallStackSize(n int) Option {
	return func(m *Manager) {
		m.callStackSize = n
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithDebounce sets the delay used to coalesce file change events.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// EventHandler is called for manager events.
type EventHandler func(event Event)

// Event is emitted when a plugin changes state.
type Event struct {
	Type   EventType
	Plugin string
	Error  error
}

// EventType identifies a manager event.
type EventType int

// Manager event types.
const (
	EventLoaded EventType = iota
	EventUnloaded
	EventReloaded
	EventError
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventLoaded:
		return "loaded"
	case EventUnloaded:
		return "unloaded"
	case EventReloaded:
		return "reloaded"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// NewManager creates a plugin manager serving actx.
func NewManager(actx *api.Context, opts ...Option) *Manager {
	m := &Manager{
		api:           actx,
		logger:        zerolog.Nop(),
		hosts:         make(map[string]*Host),
		timeout:       plua.DefaultExecutionTimeout,
		callStackSize: plua.DefaultCallStackSize,
		debounce:      DefaultDebounce,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadAll loads every plugin found in the search paths. It returns the
// joined errors of the plugins that failed; the others stay loaded.
func (m *Manager) LoadAll(ctx context.Context) error {
	var errs []error
	for _, info := range Discover(m.paths) {
		if _, err := m.load(ctx, info); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadPath loads the plugins at path: a .lua file, a plugin directory, or a
// directory of plugins.
func (m *Manager) LoadPath(ctx context.Context, path string) ([]*Host, error) {
	infos, err := resolve(path)
	if err != nil {
		return nil, err
	}

	var (
		hosts []*Host
		errs  []error
	)
	for _, info := range infos {
		h, err := m.load(ctx, info)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		hosts = append(hosts, h)
	}
	return hosts, errors.Join(errs...)
}

func (m *Manager) load(ctx context.Context, info Info) (*Host, error) {
	if info.Error != nil {
		m.emit(Event{Type: EventError, Plugin: info.Name, Error: info.Error})
		return nil, info.Error
	}

	m.mu.Lock()
	if _, exists := m.hosts[info.Name]; exists {
		m.mu.Unlock()
		return nil, ErrAlreadyLoaded
	}
	h := NewHost(info.Manifest, m.api,
		WithHostTimeout(m.timeout),
		WithHostCallStackSize(m.callStackSize),
		WithHostLogger(m.logger),
	)
	m.hosts[info.Name] = h
	m.order = append(m.order, info.Name)
	m.mu.Unlock()

	if err := h.Load(ctx); err != nil {
		m.emit(Event{Type: EventError, Plugin: info.Name, Error: err})
		return h, err
	}
	m.emit(Event{Type: EventLoaded, Plugin: info.Name})
	return h, nil
}

// Unload unloads a plugin and forgets it.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	h, ok := m.hosts[name]
	if !ok {
		m.mu.Unlock()
		return ErrPluginNotFound
	}
	delete(m.hosts, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	m.mu.Unlock()

	if err := h.Unload(); err != nil && !errors.Is(err, ErrNotLoaded) {
		return err
	}
	m.emit(Event{Type: EventUnloaded, Plugin: name})
	return nil
}

// UnloadAll unloads every plugin in reverse load order.
func (m *Manager) UnloadAll() {
	m.mu.RLock()
	names := slices.Clone(m.order)
	m.mu.RUnlock()

	slices.Reverse(names)
	for _, name := range names {
		_ = m.Unload(name)
	}
}

// Reload reloads a plugin from disk. A plugin that fails to reload stays
// known in the error state so a later change can retry.
func (m *Manager) Reload(ctx context.Context, name string) error {
	h, ok := m.Get(name)
	if !ok {
		return ErrPluginNotFound
	}
	if err := h.Reload(ctx); err != nil {
		m.emit(Event{Type: EventError, Plugin: name, Error: err})
		return err
	}
	m.emit(Event{Type: EventReloaded, Plugin: name})
	return nil
}

// Get returns the host of a plugin.
func (m *Manager) Get(name string) (*Host, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hosts[name]
	return h, ok
}

// List returns the hosts in load order.
func (m *Manager) List() []*Host {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hosts := make([]*Host, 0, len(m.order))
	for _, name := range m.order {
		hosts = append(hosts, m.hosts[name])
	}
	return hosts
}

// Errors returns the load errors by plugin name.
func (m *Manager) Errors() map[string]error {
	errs := make(map[string]error)
	for _, h := range m.List() {
		if err := h.Error(); err != nil {
			errs[h.Name()] = err
		}
	}
	return errs
}

// Subscribe registers an event handler and returns its cancel function.
func (m *Manager) Subscribe(handler EventHandler) func() {
	m.handlerMu.Lock()
	defer m.handlerMu.Unlock()

	m.handlers = append(m.handlers, handler)
	idx := len(m.handlers) - 1

	return func() {
		m.handlerMu.Lock()
		defer m.handlerMu.Unlock()
		if idx < len(m.handlers) {
			m.handlers[idx] = nil
		}
	}
}

func (m *Manager) emit(event Event) {
	ev := m.logger.Debug()
	if event.Error != nil {
		ev = m.logger.Warn().Err(event.Error)
	}
	ev.Str("plugin", event.Plugin).Str("event", event.Type.String()).Msg("plugin event")

	m.handlerMu.RLock()
	handlers := slices.Clone(m.handlers)
	m.handlerMu.RUnlock()

	for _, h := range handlers {
		if h != nil {
			h(event)
		}
	}
}

// hostFor returns the host owning path, a plugin entry point or a file in a
// plugin directory.
func (m *Manager) hostFor(path string) (*Host, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, name := range m.order {
		h := m.hosts[name]
		man := h.Manifest()
		if man.MainPath() == path {
			return h, true
		}
		if !man.file && (man.Dir() == path || filepath.Dir(path) == man.Dir()) {
			return h, true
		}
	}
	return nil, false
}
