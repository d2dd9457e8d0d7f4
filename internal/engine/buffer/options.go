package buffer

import "github.com/dshills/quill/internal/engine/rope"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithPath sets the file path associated with the buffer.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithContent sets the initial content. The buffer starts unmodified.
func WithContent(content []byte) Option {
	return func(b *Buffer) {
		b.text = rope.FromBytes(content)
	}
}
