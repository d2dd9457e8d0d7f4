package plugin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/plugin/api"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

// Host manages a single plugin's Lua state and lifecycle.
type Host struct {
	mu sync.RWMutex

	// Identity
	name     string
	manifest *Manifest

	api    *api.Context
	logger zerolog.Logger

	// Lua runtime
	state *plua.State

	pluginState State
	err         error
	loadedAt    time.Time

	// Options
	timeout       time.Duration
	callStackSize int
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostTimeout sets the execution deadline of each Lua call.
func WithHostTimeout(d time.Duration) HostOption {
	return func(h *Host) {
		h.timeout = d
	}
}

// WithHostCallStackSize sets the Lua call stack size.
func WithHostCallStackSize(n int) HostOption {
	return func(h *Host) {
		h.callStackSize = n
	}
}

// WithHostLogger sets the host logger.
func WithHostLogger(logger zerolog.Logger) HostOption {
	return func(h *Host) {
		h.logger = logger
	}
}

// NewHost creates a host for the plugin described by manifest.
func NewHost(manifest *Manifest, actx *api.Context, opts ...HostOption) *Host {
	h := &Host{
		name:          manifest.Name,
		manifest:      manifest,
		api:           actx,
		logger:        actx.Logger,
		pluginState:   StateUnloaded,
		timeout:       plua.DefaultExecutionTimeout,
		callStackSize: plua.DefaultCallStackSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With().Str("plugin", h.name).Logger()
	return h
}

// Name returns the plugin name.
func (h *Host) Name() string {
	return h.name
}

// Manifest returns the plugin manifest.
func (h *Host) Manifest() *Manifest {
	return h.manifest
}

// State returns the current plugin state.
func (h *Host) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pluginState
}

// Error returns the last load error.
func (h *Host) Error() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// LoadedAt returns when the plugin was last loaded.
func (h *Host) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedAt
}

// Load creates the Lua state, installs the ks API and runs the entry point.
func (h *Host) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState == StateLoaded {
		return ErrAlreadyLoaded
	}
	return h.load(ctx)
}

func (h *Host) load(ctx context.Context) error {
	state, err := plua.NewState(
		plua.WithTimeout(h.timeout),
		plua.WithCallStackSize(h.callStackSize),
		plua.WithLogger(h.logger),
	)
	if err != nil {
		return h.fail(err)
	}

	reg, err := api.DefaultRegistry(h.api, h.name, state)
	if err != nil {
		_ = state.Close()
		return h.fail(err)
	}
	if err := state.Do(ctx, func(L *lua.LState) error { return reg.InjectAll(L) }); err != nil {
		_ = state.Close()
		return h.fail(err)
	}

	if err := state.DoFile(ctx, h.manifest.MainPath()); err != nil {
		h.dropCommands()
		_ = state.Close()
		return h.fail(fmt.Errorf("load plugin %s: %w", h.name, err))
	}

	info := map[string]any{"name": h.name, "version": h.manifest.Version}
	if err := h.hook(ctx, state, hookSetup, info); err != nil {
		h.dropCommands()
		_ = state.Close()
		return h.fail(fmt.Errorf("setup plugin %s: %w", h.name, err))
	}

	h.state = state
	h.pluginState = StateLoaded
	h.err = nil
	h.loadedAt = time.Now()
	h.logger.Info().Str("main", h.manifest.MainPath()).Msg("plugin loaded")
	return nil
}

func (h *Host) fail(err error) error {
	h.pluginState = StateError
	h.err = err
	h.logger.Error().Err(err).Msg("plugin failed to load")
	return err
}

// Unload removes the plugin's commands and closes its Lua state.
func (h *Host) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState != StateLoaded {
		return ErrNotLoaded
	}
	h.unload()
	return nil
}

func (h *Host) unload() {
	n := h.dropCommands()
	if h.state != nil {
		if err := h.hook(context.Background(), h.state, hookDeactivate); err != nil {
			h.logger.Warn().Err(err).Msg("deactivate failed")
		}
		_ = h.state.Close()
		h.state = nil
	}
	h.pluginState = StateUnloaded
	h.logger.Info().Int("commands", n).Msg("plugin unloaded")
}

func (h *Host) dropCommands() int {
	if h.api.Commands == nil {
		return 0
	}
	return h.api.Commands.UnregisterBySource(api.SourceFor(h.name))
}

// Reload unloads the plugin if loaded and loads it again from disk.
func (h *Host) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pluginState == StateLoaded {
		h.unload()
	}
	return h.load(ctx)
}

// Lifecycle hooks a plugin may define as globals.
const (
	hookSetup      = "setup"
	hookDeactivate = "deactivate"
)

// hook calls the optional global function name. A missing hook is not an
// error.
func (h *Host) hook(ctx context.Context, state *plua.State, name string, args ...any) error {
	if state.GetGlobal(name).Type() != lua.LTFunction {
		return nil
	}
	_, err := callGlobal(ctx, state, name, args...)
	return err
}

// Call calls the global Lua function name with args.
func (h *Host) Call(ctx context.Context, name string, args ...any) ([]any, error) {
	h.mu.RLock()
	state := h.state
	h.mu.RUnlock()

	if state == nil || state.IsClosed() {
		return nil, ErrNotLoaded
	}
	return callGlobal(ctx, state, name, args...)
}

func callGlobal(ctx context.Context, state *plua.State, name string, args ...any) ([]any, error) {
	var results []any
	err := state.Do(ctx, func(L *lua.LState) error {
		fn := L.GetGlobal(name)
		if fn.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %s", plua.ErrNotFunction, name)
		}
		top := L.GetTop()
		L.Push(fn)
		for _, a := range args {
			L.Push(plua.ToLuaValue(L, a))
		}
		if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}
		n := L.GetTop() - top
		results = make([]any, n)
		for i := range n {
			results[i] = plua.ToGoValue(L.Get(top + i + 1))
		}
		L.Pop(n)
		return nil
	})
	return results, err
}
