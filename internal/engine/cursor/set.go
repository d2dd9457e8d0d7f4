package cursor

import (
	"errors"
	"slices"
	"sort"
)

// Errors returned by Set operations.
var (
	ErrNotFound         = errors.New("cursor not found")
	ErrOutOfRange       = errors.New("position out of range")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrLastCursor       = errors.New("cannot remove the last cursor")
)

// Set manages the cursors of one view.
// Cursors are kept sorted by position and the set is never empty.
type Set struct {
	cursors []Cursor
	nextID  ID
}

// NewSet creates a set holding one primary cursor at position.
func NewSet(position ByteOffset) *Set {
	if position < 0 {
		position = 0
	}
	s := &Set{nextID: 1}
	s.cursors = []Cursor{{ID: s.allocID(), Position: position, Primary: true}}
	return s
}

func (s *Set) allocID() ID {
	id := s.nextID
	s.nextID++
	return id
}

// Count returns the number of cursors.
func (s *Set) Count() int {
	return len(s.cursors)
}

// IsMulti returns true if there is more than one cursor.
func (s *Set) IsMulti() bool {
	return len(s.cursors) > 1
}

// All returns a copy of all cursors, ascending by position.
func (s *Set) All() []Cursor {
	return slices.Clone(s.cursors)
}

// Primary returns the primary cursor.
func (s *Set) Primary() Cursor {
	for _, c := range s.cursors {
		if c.Primary {
			return c
		}
	}
	// Unreachable while the set invariants hold.
	return s.cursors[0]
}

// Get returns the cursor with the given id.
func (s *Set) Get(id ID) (Cursor, error) {
	i := s.index(id)
	if i < 0 {
		return Cursor{}, ErrNotFound
	}
	return s.cursors[i], nil
}

func (s *Set) index(id ID) int {
	for i, c := range s.cursors {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Add inserts a cursor at position and returns the id that represents it
// after merging: if another cursor already sits at position, that cursor's
// id is returned.
func (s *Set) Add(position, length ByteOffset) (ID, error) {
	if position < 0 || position > length {
		return 0, ErrOutOfRange
	}
	return s.insert(Cursor{ID: s.allocID(), Position: position}), nil
}

// AddSelection inserts a cursor at position selecting [start, end).
func (s *Set) AddSelection(position, start, end, length ByteOffset) (ID, error) {
	if position < 0 || position > length {
		return 0, ErrOutOfRange
	}
	sel := Selection{Start: start, End: end}
	if !sel.Valid(length) {
		return 0, ErrInvalidSelection
	}
	return s.insert(Cursor{ID: s.allocID(), Position: position, Selection: sel, HasSelection: true}), nil
}

func (s *Set) insert(c Cursor) ID {
	s.cursors = append(s.cursors, c)
	return resolve(s.normalize(), c.ID)
}

// Remove deletes a cursor. The last cursor cannot be removed. Removing the
// primary cursor promotes the cursor with the lowest position.
func (s *Set) Remove(id ID) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	if len(s.cursors) == 1 {
		return ErrLastCursor
	}
	wasPrimary := s.cursors[i].Primary
	s.cursors = slices.Delete(s.cursors, i, i+1)
	if wasPrimary {
		s.cursors[0].Primary = true
	}
	return nil
}

// SetPrimary marks the cursor with id as primary.
func (s *Set) SetPrimary(id ID) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	for j := range s.cursors {
		s.cursors[j].Primary = j == i
	}
	return nil
}

// Move places a cursor at position, keeping its selection. It returns the
// id representing the cursor after merging.
func (s *Set) Move(id ID, position, length ByteOffset) (ID, error) {
	i := s.index(id)
	if i < 0 {
		return 0, ErrNotFound
	}
	if position < 0 || position > length {
		return 0, ErrOutOfRange
	}
	s.cursors[i].Position = position
	return resolve(s.normalize(), id), nil
}

// Select sets the selection of a cursor to [start, end).
func (s *Set) Select(id ID, start, end, length ByteOffset) (ID, error) {
	i := s.index(id)
	if i < 0 {
		return 0, ErrNotFound
	}
	sel := Selection{Start: start, End: end}
	if !sel.Valid(length) {
		return 0, ErrInvalidSelection
	}
	s.cursors[i].Selection = sel
	s.cursors[i].HasSelection = true
	return resolve(s.normalize(), id), nil
}

// ClearSelection drops the selection of a cursor.
func (s *Set) ClearSelection(id ID) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.cursors[i].Selection = Selection{}
	s.cursors[i].HasSelection = false
	return nil
}

// Collapse removes every cursor except the primary one.
func (s *Set) Collapse() {
	s.cursors = []Cursor{s.Primary()}
}

// resolve follows merge records from id to the cursor that absorbed it.
func resolve(absorbed map[ID]ID, id ID) ID {
	for {
		next, ok := absorbed[id]
		if !ok {
			return id
		}
		id = next
	}
}

// normalize applies the merge rule until no pair qualifies and sorts the
// set. It returns absorbed-id -> survivor-id records.
func (s *Set) normalize() map[ID]ID {
	absorbed := make(map[ID]ID)
	for s.mergePass(absorbed) {
	}
	s.sort()
	return absorbed
}

func (s *Set) sort() {
	sort.Slice(s.cursors, func(i, j int) bool {
		a, b := s.cursors[i], s.cursors[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if a.start() != b.start() {
			return a.start() < b.start()
		}
		return a.ID < b.ID
	})
}

// mergePass merges cursors sharing a position, then cursors whose
// selections overlap. It reports whether anything merged.
func (s *Set) mergePass(absorbed map[ID]ID) bool {
	merged := false

	s.sort()
	out := s.cursors[:0]
	for _, c := range s.cursors {
		if n := len(out); n > 0 && out[n-1].Position == c.Position {
			out[n-1] = mergePair(out[n-1], c, absorbed)
			merged = true
			continue
		}
		out = append(out, c)
	}
	s.cursors = out

	// Sweep non-empty selections by start; each group's union grows as
	// members join, so one pass covers chains of overlaps.
	order := make([]int, 0, len(s.cursors))
	for i, c := range s.cursors {
		if c.HasSelection && !c.Selection.IsEmpty() {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := s.cursors[order[i]], s.cursors[order[j]]
		if a.Selection.Start != b.Selection.Start {
			return a.Selection.Start < b.Selection.Start
		}
		return a.ID < b.ID
	})

	dead := make([]bool, len(s.cursors))
	cur := -1
	for _, i := range order {
		if cur >= 0 && s.cursors[i].Selection.Start < s.cursors[cur].Selection.End {
			s.cursors[cur] = mergePair(s.cursors[cur], s.cursors[i], absorbed)
			dead[i] = true
			merged = true
			continue
		}
		cur = i
	}
	if merged {
		out = s.cursors[:0]
		for i, c := range s.cursors {
			if !dead[i] {
				out = append(out, c)
			}
		}
		s.cursors = out
	}
	return merged
}

// mergePair collapses a and b into one cursor following the merge rule.
func mergePair(a, b Cursor, absorbed map[ID]ID) Cursor {
	keep, drop := survivor(a, b)
	absorbed[drop.ID] = keep.ID

	switch {
	case keep.HasSelection && drop.HasSelection && keep.Selection.Overlaps(drop.Selection):
		keep.Selection = keep.Selection.Union(drop.Selection)
	case !keep.HasSelection && drop.HasSelection:
		keep.Selection = drop.Selection
		keep.HasSelection = true
	}
	return keep
}

func survivor(a, b Cursor) (keep, drop Cursor) {
	switch {
	case a.Primary:
		return a, b
	case b.Primary:
		return b, a
	case a.start() != b.start():
		if a.start() < b.start() {
			return a, b
		}
		return b, a
	case a.ID < b.ID:
		return a, b
	default:
		return b, a
	}
}
