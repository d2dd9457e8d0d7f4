package editor

import (
	"errors"
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// Errors returned by State operations.
var (
	// ErrNotFound indicates an unknown buffer, view or cursor id.
	ErrNotFound = errors.New("not found")

	// ErrOutOfRange indicates an offset or line outside the buffer.
	ErrOutOfRange = errors.New("out of range")

	// ErrLineOutOfRange indicates a line number beyond the line count.
	// It matches ErrOutOfRange and buffer.ErrLineOutOfRange under errors.Is.
	ErrLineOutOfRange = fmt.Errorf("%w: %w", ErrOutOfRange, buffer.ErrLineOutOfRange)

	// ErrNoActiveView indicates that an operation needs a focused view.
	ErrNoActiveView = errors.New("no active view")

	// ErrUnsaved indicates a close of a modified buffer without force.
	ErrUnsaved = errors.New("buffer has unsaved changes")

	// ErrInvalidSelection indicates start > end or an endpoint outside the buffer.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrLastCursor indicates an attempt to remove a view's only cursor.
	ErrLastCursor = errors.New("cannot remove the last cursor")

	// ErrClosed indicates use of a State after Close.
	ErrClosed = errors.New("editor state closed")
)

// translate maps errors from the engine packages onto the editor taxonomy,
// keeping the original in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, buffer.ErrLineOutOfRange):
		return ErrLineOutOfRange
	case errors.Is(err, buffer.ErrOffsetOutOfRange),
		errors.Is(err, buffer.ErrRangeInvalid),
		errors.Is(err, cursor.ErrOutOfRange):
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	case errors.Is(err, cursor.ErrInvalidSelection):
		return fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	case errors.Is(err, cursor.ErrLastCursor):
		return fmt.Errorf("%w: %w", ErrLastCursor, err)
	case errors.Is(err, cursor.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}

func bufferNotFound(id buffer.ID) error {
	return fmt.Errorf("%w: buffer %d", ErrNotFound, id)
}

func viewNotFound(id ViewID) error {
	return fmt.Errorf("%w: view %d", ErrNotFound, id)
}
