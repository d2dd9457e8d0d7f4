package buffer

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/dshills/quill/internal/engine/rope"
)

// ByteOffset represents a byte position in the buffer.
type ByteOffset = rope.ByteOffset

// ID identifies a buffer for the lifetime of an editor session.
// IDs are assigned by the registry and never reused.
type ID uint64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Range represents a byte range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}
