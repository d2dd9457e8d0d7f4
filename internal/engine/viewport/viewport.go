// Package viewport holds the scroll and size state of one view.
//
// The vertical offset is a byte offset into the buffer and is always clamped
// into [0, length]. The horizontal offset counts columns in the session's
// configured Units.
package viewport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// ErrUnknownUnits is returned by ParseUnits.
var ErrUnknownUnits = errors.New("unknown column units")

// Units selects how LeftColumn is measured.
type Units uint8

const (
	// UnitBytes counts columns in bytes.
	UnitBytes Units = iota
	// UnitCells counts columns in terminal display cells.
	UnitCells
)

// String returns the configuration name of the unit.
func (u Units) String() string {
	switch u {
	case UnitBytes:
		return "bytes"
	case UnitCells:
		return "cells"
	default:
		return fmt.Sprintf("Units(%d)", uint8(u))
	}
}

// ParseUnits parses "bytes" or "cells".
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bytes":
		return UnitBytes, nil
	case "cells":
		return UnitCells, nil
	default:
		return UnitBytes, fmt.Errorf("%w: %q", ErrUnknownUnits, s)
	}
}

// ColumnWidth returns the width of line in the given units.
func ColumnWidth(line []byte, units Units) int {
	if units == UnitCells {
		return uniseg.StringWidth(string(line))
	}
	return len(line)
}

// State is a point-in-time copy of a viewport.
type State struct {
	Width      int
	Height     int
	TopByte    ByteOffset
	LeftColumn int
	Units      Units
}

// Viewport represents the visible portion of a buffer.
// Viewport is not safe for concurrent use; its view's owner serializes access.
type Viewport struct {
	width  int
	height int

	topByte    ByteOffset
	leftColumn int

	units Units
}

// New creates a viewport of the given size scrolled to the top.
func New(width, height int, units Units) *Viewport {
	return &Viewport{
		width:  max(width, 0),
		height: max(height, 0),
		units:  units,
	}
}

// State returns a copy of the current geometry.
func (v *Viewport) State() State {
	return State{
		Width:      v.width,
		Height:     v.height,
		TopByte:    v.topByte,
		LeftColumn: v.leftColumn,
		Units:      v.units,
	}
}

// Units returns the column unit of the viewport.
func (v *Viewport) Units() Units {
	return v.units
}

// ColumnWidth returns the width of line in the viewport's units.
func (v *Viewport) ColumnWidth(line []byte) int {
	return ColumnWidth(line, v.units)
}

// TopByte returns the offset of the first visible byte.
func (v *Viewport) TopByte() ByteOffset {
	return v.topByte
}

// Resize changes the visible size and re-clamps the scroll offset.
func (v *Viewport) Resize(width, height int, length ByteOffset) {
	v.width = max(width, 0)
	v.height = max(height, 0)
	v.Clamp(length)
}

// ScrollTo sets the top byte, clamped into [0, length], and returns the
// resulting value.
func (v *Viewport) ScrollTo(top, length ByteOffset) ByteOffset {
	v.topByte = clampOffset(top, length)
	return v.topByte
}

// ScrollHorizontal sets the left column, clamped to be non-negative, and
// returns the resulting value.
func (v *Viewport) ScrollHorizontal(column int) int {
	v.leftColumn = max(column, 0)
	return v.leftColumn
}

// Clamp re-validates the offsets after the buffer changed length.
// It reports whether anything moved.
func (v *Viewport) Clamp(length ByteOffset) bool {
	top := clampOffset(v.topByte, length)
	left := max(v.leftColumn, 0)
	changed := top != v.topByte || left != v.leftColumn
	v.topByte, v.leftColumn = top, left
	return changed
}

func clampOffset(off, length ByteOffset) ByteOffset {
	return max(0, min(off, max(length, 0)))
}
