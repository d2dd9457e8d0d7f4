package cursor

import "github.com/dshills/quill/internal/engine/buffer"

// ApplyInsert shifts every endpoint at or after offset by n bytes.
func (s *Set) ApplyInsert(offset, n ByteOffset) {
	if n <= 0 {
		return
	}
	s.remapInsert(offset, n)
	s.normalize()
}

// ApplyDelete remaps every cursor for the removal of [start, end).
func (s *Set) ApplyDelete(start, end ByteOffset) {
	if end <= start {
		return
	}
	s.remapDelete(start, end)
	s.normalize()
}

// Apply remaps every cursor for a buffer edit. A replacement is treated as
// the deletion of its range followed by the insertion at its start.
func (s *Set) Apply(e buffer.Edit) {
	if e.Range.Len() > 0 {
		s.remapDelete(e.Range.Start, e.Range.End)
	}
	if e.Inserted > 0 {
		s.remapInsert(e.Range.Start, e.Inserted)
	}
	s.normalize()
}

// Clamp pulls every endpoint into [0, length]. Edits delivered through
// Apply never need it; it exists for owners that swap content wholesale.
func (s *Set) Clamp(length ByteOffset) {
	clamp := func(p ByteOffset) ByteOffset {
		return max(0, min(p, length))
	}
	for i := range s.cursors {
		c := &s.cursors[i]
		c.Position = clamp(c.Position)
		if c.HasSelection {
			c.Selection.Start = clamp(c.Selection.Start)
			c.Selection.End = clamp(c.Selection.End)
		}
	}
	s.normalize()
}

func (s *Set) remapInsert(offset, n ByteOffset) {
	shift := func(p ByteOffset) ByteOffset {
		if p >= offset {
			return p + n
		}
		return p
	}
	for i := range s.cursors {
		c := &s.cursors[i]
		c.Position = shift(c.Position)
		if c.HasSelection {
			c.Selection.Start = shift(c.Selection.Start)
			c.Selection.End = shift(c.Selection.End)
		}
	}
}

func (s *Set) remapDelete(start, end ByteOffset) {
	width := end - start
	shift := func(p ByteOffset) ByteOffset {
		switch {
		case p <= start:
			return p
		case p < end:
			return start
		default:
			return p - width
		}
	}
	for i := range s.cursors {
		c := &s.cursors[i]
		c.Position = shift(c.Position)
		if !c.HasSelection {
			continue
		}
		wasEmpty := c.Selection.IsEmpty()
		c.Selection.Start = shift(c.Selection.Start)
		c.Selection.End = shift(c.Selection.End)
		if !wasEmpty && c.Selection.IsEmpty() {
			c.Selection = Selection{}
			c.HasSelection = false
		}
	}
}
