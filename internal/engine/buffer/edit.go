package buffer

import "fmt"

// Edit describes a change applied to a buffer: the bytes in Range were
// replaced by Inserted bytes. Cursor and viewport owners use it to remap
// positions.
type Edit struct {
	Range    Range      // Replaced range in the pre-edit content
	Inserted ByteOffset // Number of bytes written at Range.Start
	Revision RevisionID // Revision produced by the edit
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	switch {
	case e.Range.IsEmpty():
		return fmt.Sprintf("Insert(%d, +%d)", e.Range.Start, e.Inserted)
	case e.Inserted == 0:
		return fmt.Sprintf("Delete%s", e.Range)
	default:
		return fmt.Sprintf("Replace%s with +%d", e.Range, e.Inserted)
	}
}

// IsInsert returns true if this is a pure insertion.
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.Inserted > 0
}

// IsDelete returns true if this is a pure deletion.
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.Inserted == 0
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return e.Inserted - e.Range.Len()
}
