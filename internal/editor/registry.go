package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ClosePolicy selects what happens to the views of a closed buffer.
type ClosePolicy uint8

const (
	// CloseDetach leaves views of the closed buffer open but unbound.
	// Operations that need the buffer fail with ErrNotFound until the view
	// is rebound with SetViewBuffer or closed with CloseView.
	CloseDetach ClosePolicy = iota
	// CloseDestroy destroys every view bound to the closed buffer.
	CloseDestroy
	// CloseReassign rebinds views to the most recently created remaining
	// buffer with fresh cursors and viewport, destroying them when no
	// buffer remains.
	CloseReassign
)

// ErrUnknownPolicy is returned by ParseClosePolicy.
var ErrUnknownPolicy = errors.New("unknown close policy")

// String returns the configuration name of the policy.
func (p ClosePolicy) String() string {
	switch p {
	case CloseDetach:
		return "detach"
	case CloseDestroy:
		return "destroy"
	case CloseReassign:
		return "reassign"
	default:
		return fmt.Sprintf("ClosePolicy(%d)", uint8(p))
	}
}

// ParseClosePolicy parses "detach", "destroy" or "reassign".
func ParseClosePolicy(s string) (ClosePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "detach":
		return CloseDetach, nil
	case "destroy":
		return CloseDestroy, nil
	case "reassign":
		return CloseReassign, nil
	default:
		return CloseDetach, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// BufferInfo is a point-in-time description of a buffer.
type BufferInfo struct {
	ID       buffer.ID
	Path     string
	Modified bool
	Length   int64
}

func infoOf(b *buffer.Buffer) BufferInfo {
	return BufferInfo{
		ID:       b.ID(),
		Path:     b.Path(),
		Modified: b.Modified(),
		Length:   b.Len(),
	}
}

// registry owns the open buffers. Callers hold the State lock.
type registry struct {
	buffers map[buffer.ID]*buffer.Buffer
	order   []buffer.ID
	lastID  buffer.ID
}

func newRegistry() *registry {
	return &registry{buffers: make(map[buffer.ID]*buffer.Buffer)}
}

func (r *registry) create(opts ...buffer.Option) *buffer.Buffer {
	r.lastID++
	b := buffer.New(r.lastID, opts...)
	r.buffers[b.ID()] = b
	r.order = append(r.order, b.ID())
	return b
}

func (r *registry) get(id buffer.ID) (*buffer.Buffer, error) {
	b, ok := r.buffers[id]
	if !ok {
		return nil, bufferNotFound(id)
	}
	return b, nil
}

func (r *registry) has(id buffer.ID) bool {
	_, ok := r.buffers[id]
	return ok
}

func (r *registry) remove(id buffer.ID) {
	delete(r.buffers, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// newest returns the most recently created open buffer.
func (r *registry) newest() (buffer.ID, bool) {
	if len(r.order) == 0 {
		return 0, false
	}
	return r.order[len(r.order)-1], true
}

func (r *registry) infos() []BufferInfo {
	out := make([]BufferInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, infoOf(r.buffers[id]))
	}
	return out
}

func (r *registry) len() int {
	return len(r.order)
}

func (r *registry) clear() {
	clear(r.buffers)
	r.order = nil
}
