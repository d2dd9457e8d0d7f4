package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Errors returned by Registry operations.
var (
	ErrDuplicate         = errors.New("command already registered")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrContextNotAllowed = errors.New("command not allowed in context")
)

// Registry holds the registered commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Descriptor
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		commands: make(map[string]Descriptor),
		logger:   logger,
	}
}

// Register validates d and adds it. Names are unique.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("register %q: %w", d.Name, err)
	}
	d.Contexts = slices.Clone(d.Contexts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[d.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, d.Name)
	}
	r.commands[d.Name] = d
	r.logger.Debug().Str("command", d.Name).Str("source", d.Source).Msg("command registered")
	return nil
}

// Unregister removes a command and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.commands[name]
	delete(r.commands, name)
	return exists
}

// UnregisterBySource removes every command registered by source.
func (r *Registry) UnregisterBySource(source string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for name, d := range r.commands {
		if d.Source == source {
			delete(r.commands, name)
			count++
		}
	}
	return count
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.commands[name]
	return d, ok
}

// List returns every descriptor sorted by name.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.commands))
	for _, d := range r.commands {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.Compare(out[i].Name, out[j].Name) < 0
	})
	return out
}

// ListFor returns the descriptors allowed in ctx, sorted by name.
func (r *Registry) ListFor(ctx ExecutionContext) []Descriptor {
	all := r.List()
	out := all[:0]
	for _, d := range all {
		if d.AllowedIn(ctx) {
			out = append(out, d)
		}
	}
	return out
}

// Execute runs the command registered under name. The callback runs without
// the registry lock held, so it may register or execute other commands.
func (r *Registry) Execute(ctx context.Context, name string, execCtx ExecutionContext, args map[string]any) error {
	d, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if !d.AllowedIn(execCtx) {
		return fmt.Errorf("%w: %s in %s", ErrContextNotAllowed, name, execCtx)
	}
	if args == nil {
		args = map[string]any{}
	}

	err := d.Callback.Invoke(ctx, Invocation{Name: name, Context: execCtx, Args: args})
	if err != nil {
		r.logger.Warn().Err(err).Str("command", name).Msg("command failed")
		return fmt.Errorf("command %s: %w", name, err)
	}
	r.logger.Debug().Str("command", name).Stringer("context", execCtx).Msg("command executed")
	return nil
}
