package buffer

import (
	"io"

	"github.com/dshills/quill/internal/engine/rope"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It will not change even if the original buffer is modified.
type Snapshot struct {
	id       ID
	text     rope.Rope
	revision RevisionID
}

// BufferID returns the id of the buffer the snapshot was taken from.
func (s Snapshot) BufferID() ID {
	return s.id
}

// Bytes returns a copy of the snapshot content.
func (s Snapshot) Bytes() []byte {
	return s.text.Bytes()
}

// String returns the snapshot content as a string.
func (s Snapshot) String() string {
	return s.text.String()
}

// Slice returns a copy of the bytes in [start, end).
func (s Snapshot) Slice(start, end ByteOffset) []byte {
	return s.text.Slice(start, end)
}

// Len returns the snapshot length in bytes.
func (s Snapshot) Len() ByteOffset {
	return s.text.Len()
}

// LineCount returns the number of lines.
func (s Snapshot) LineCount() int {
	return int(s.text.LineCount())
}

// Line returns line n (1-indexed) without its newline.
func (s Snapshot) Line(n int) ([]byte, error) {
	return lineOf(s.text, n)
}

// Revision returns the revision the snapshot was taken at.
func (s Snapshot) Revision() RevisionID {
	return s.revision
}

// WriteTo writes the snapshot content to w without building a contiguous
// copy.
func (s Snapshot) WriteTo(w io.Writer) (int64, error) {
	return s.text.WriteTo(w)
}
