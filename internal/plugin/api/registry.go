package api

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/editor"
	plua "github.com/dshills/quill/internal/plugin/lua"
	"github.com/dshills/quill/internal/query"
)

// Version is reported to scripts as ks.version.
const Version = "1.0.0"

// Module represents a Lua API module.
type Module interface {
	// Name returns the module name (e.g., "buf", "cursor").
	Name() string

	// Register registers the module functions into the Lua state under the
	// _ks_<name> global.
	Register(L *lua.LState) error
}

// Context gives API modules access to the editor.
type Context struct {
	// Editor receives mutations.
	Editor *editor.State

	// Query answers read-only queries.
	Query *query.Facade

	// Commands receives command registrations. May be nil.
	Commands *command.Registry

	Logger zerolog.Logger
}

// NewContext builds a context over state.
func NewContext(state *editor.State, commands *command.Registry, logger zerolog.Logger) *Context {
	return &Context{
		Editor:   state,
		Query:    query.New(state),
		Commands: commands,
		Logger:   logger,
	}
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	r.order = append(r.order, mod.Name())
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the module names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// InjectAll registers every module into L and installs the ks loader.
func (r *Registry) InjectAll(L *lua.LState) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range r.order {
		if err := r.modules[name].Register(L); err != nil {
			return fmt.Errorf("register module %q: %w", name, err)
		}
	}
	installKSLoader(L, r.order)
	return nil
}

// installKSLoader collects the _ks_* globals into the table returned by
// require("ks").
func installKSLoader(L *lua.LState, names []string) {
	ks := L.NewTable()
	for _, name := range names {
		global := "_ks_" + name
		if val := L.GetGlobal(global); val != lua.LNil {
			L.SetField(ks, name, val)
			L.SetGlobal(global, lua.LNil)
		}
	}
	L.SetField(ks, "version", lua.LString(Version))

	L.PreloadModule("ks", func(L *lua.LState) int {
		L.Push(ks)
		return 1
	})
}

// DefaultRegistry creates a registry with every standard module for the
// plugin named pluginName running in state.
func DefaultRegistry(ctx *Context, pluginName string, state *plua.State) (*Registry, error) {
	r := NewRegistry()
	modules := []Module{
		NewBufferModule(ctx),
		NewCursorModule(ctx),
		NewViewModule(ctx),
		NewStatusModule(ctx),
		NewCommandModule(ctx, pluginName, state),
		NewLogModule(ctx, pluginName),
	}
	for _, mod := range modules {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}
