// Package cursor provides multi-cursor state for a single view.
//
// The cursor package handles:
//
//   - Cursor values: a byte position plus an optional half-open selection
//   - Set: the ordered, never-empty collection of cursors for one view, with
//     exactly one primary cursor
//   - Remapping every cursor after a buffer edit
//   - A deterministic merge rule applied after every position change
//
// Merge Rule:
//
// Two cursors merge when they sit at the same position, or when both carry
// selections that overlap as half-open ranges. The surviving cursor is the
// primary one; otherwise the one with the smaller start (selection start if
// selected, else position), ties going to the smaller id. The survivor keeps
// its position. Overlapping selections are unioned; otherwise the survivor
// keeps its own selection, or adopts the other one when it had none. Merging
// repeats until no pair qualifies.
//
// Remapping:
//
// For an insertion of L bytes at o, every endpoint >= o moves by +L. For a
// deletion of [s, e), endpoints <= s stay, endpoints inside collapse to s and
// endpoints >= e move by -(e-s). A selection that a deletion collapses to
// zero width is cleared.
//
// Basic usage:
//
//	cs := cursor.NewSet(0)
//	id, _ := cs.Add(10, length)
//	cs.Select(id, 4, 10, length)
//	cs.ApplyInsert(0, 3)         // every endpoint moves by +3
//
// Thread Safety:
//
// Cursor and Selection are immutable value types. Set is not thread-safe
// and should be protected by its owner.
package cursor
