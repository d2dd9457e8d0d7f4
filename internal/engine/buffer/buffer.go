package buffer

import (
	"errors"

	"github.com/dshills/quill/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrLineOutOfRange   = errors.New("line out of range")
)

// Buffer holds one document's content and metadata.
type Buffer struct {
	id       ID
	path     string
	text     rope.Rope
	modified bool
	revision RevisionID
}

// New creates a buffer with the given id. Without WithContent the buffer is
// empty.
func New(id ID, opts ...Option) *Buffer {
	b := &Buffer{
		id:       id,
		revision: NewRevisionID(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the buffer id.
func (b *Buffer) ID() ID {
	return b.id
}

// Path returns the associated file path, or "" for an unsaved buffer.
func (b *Buffer) Path() string {
	return b.path
}

// SetPath changes the associated file path.
func (b *Buffer) SetPath(path string) {
	b.path = path
}

// Modified reports whether the buffer changed since it was opened or last
// marked saved.
func (b *Buffer) Modified() bool {
	return b.modified
}

// MarkSaved clears the modified flag.
func (b *Buffer) MarkSaved() {
	b.modified = false
}

// Len returns the content length in bytes.
func (b *Buffer) Len() ByteOffset {
	return b.text.Len()
}

// LineCount returns the number of lines (1 + number of '\n' bytes).
func (b *Buffer) LineCount() int {
	return int(b.text.LineCount())
}

// Line returns the content of line n (1-indexed) without its newline.
func (b *Buffer) Line(n int) ([]byte, error) {
	return lineOf(b.text, n)
}

// LineStartOffset returns the byte offset where line n (1-indexed) begins.
func (b *Buffer) LineStartOffset(n int) (ByteOffset, error) {
	if n < 1 || int64(n) > b.text.LineCount() {
		return 0, ErrLineOutOfRange
	}
	return b.text.LineStartOffset(int64(n - 1)), nil
}

// LineRange returns the byte range of line n (1-indexed), excluding its
// newline.
func (b *Buffer) LineRange(n int) (Range, error) {
	if n < 1 || int64(n) > b.text.LineCount() {
		return Range{}, ErrLineOutOfRange
	}
	line := int64(n - 1)
	return Range{Start: b.text.LineStartOffset(line), End: b.text.LineEndOffset(line)}, nil
}

// OffsetToLine returns the 1-indexed line containing offset.
func (b *Buffer) OffsetToLine(offset ByteOffset) (int, error) {
	if offset < 0 || offset > b.text.Len() {
		return 0, ErrOffsetOutOfRange
	}
	return int(b.text.OffsetToLine(offset)) + 1, nil
}

// Revision returns the current revision id.
func (b *Buffer) Revision() RevisionID {
	return b.revision
}

// Snapshot returns an immutable view of the current content.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{
		id:       b.id,
		text:     b.text,
		revision: b.revision,
	}
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset ByteOffset, text []byte) (Edit, error) {
	if offset < 0 || offset > b.text.Len() {
		return Edit{}, ErrOffsetOutOfRange
	}
	return b.apply(offset, offset, text), nil
}

// Delete removes the bytes in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) (Edit, error) {
	if err := b.checkRange(start, end); err != nil {
		return Edit{}, err
	}
	return b.apply(start, end, nil), nil
}

// Replace replaces the bytes in [start, end) with text.
func (b *Buffer) Replace(start, end ByteOffset, text []byte) (Edit, error) {
	if err := b.checkRange(start, end); err != nil {
		return Edit{}, err
	}
	return b.apply(start, end, text), nil
}

func (b *Buffer) checkRange(start, end ByteOffset) error {
	if start < 0 || start > end || end > b.text.Len() {
		return ErrRangeInvalid
	}
	return nil
}

// apply swaps in the edited text. Ranges are already validated.
func (b *Buffer) apply(start, end ByteOffset, text []byte) Edit {
	b.text = b.text.Replace(start, end, text)
	b.modified = true
	b.revision = NewRevisionID()
	return Edit{
		Range:    Range{Start: start, End: end},
		Inserted: ByteOffset(len(text)),
		Revision: b.revision,
	}
}

func lineOf(text rope.Rope, n int) ([]byte, error) {
	if n < 1 || int64(n) > text.LineCount() {
		return nil, ErrLineOutOfRange
	}
	return text.Line(int64(n - 1)), nil
}
