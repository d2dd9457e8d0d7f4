package cursor

import (
	"fmt"
	"strconv"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// ID identifies a cursor within its set. IDs are not reused by a set.
type ID uint64

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Selection is a half-open byte range [Start, End).
type Selection struct {
	Start ByteOffset
	End   ByteOffset
}

// Len returns the number of selected bytes.
func (s Selection) Len() ByteOffset {
	return s.End - s.Start
}

// IsEmpty returns true if the selection covers no bytes.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Overlaps returns true if the two half-open ranges share at least one byte.
// An empty selection overlaps nothing.
func (s Selection) Overlaps(other Selection) bool {
	return !s.IsEmpty() && !other.IsEmpty() &&
		s.Start < other.End && other.Start < s.End
}

// Union returns the smallest selection covering both.
func (s Selection) Union(other Selection) Selection {
	return Selection{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Valid reports whether 0 <= Start <= End <= length.
func (s Selection) Valid(length ByteOffset) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= length
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Cursor is an insertion point with an optional selection.
// Cursor is an immutable value type; Set hands out copies.
type Cursor struct {
	ID           ID
	Position     ByteOffset
	Selection    Selection
	HasSelection bool
	Primary      bool
}

// SelectionSize returns the selected byte count, or 0 without a selection.
func (c Cursor) SelectionSize() ByteOffset {
	if !c.HasSelection {
		return 0
	}
	return c.Selection.Len()
}

// start is the ordering key used by the merge rule.
func (c Cursor) start() ByteOffset {
	if c.HasSelection {
		return c.Selection.Start
	}
	return c.Position
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	s := fmt.Sprintf("Cursor#%d(%d", c.ID, c.Position)
	if c.HasSelection {
		s += " " + c.Selection.String()
	}
	if c.Primary {
		s += " primary"
	}
	return s + ")"
}
