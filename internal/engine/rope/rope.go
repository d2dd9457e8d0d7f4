package rope

import "io"

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// The zero value is an empty rope ready to use.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	return buildFromChunks(splitIntoChunks(s))
}

// FromBytes creates a rope holding a copy of data.
func FromBytes(data []byte) Rope {
	return FromString(string(data))
}

// buildFromChunks builds a balanced rope bottom-up.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return Rope{}
	}
	leaves := make([]*Node, 0, len(chunks)/MaxChunksPerLeaf+1)
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leaves = append(leaves, newLeafNode(chunks[i:end:end]))
	}
	return Rope{root: buildNodeFromChildren(leaves)}
}

func (r Rope) node() *Node {
	if r.root == nil {
		return emptyLeaf
	}
	return r.root
}

func (r Rope) clamp(offset ByteOffset) ByteOffset {
	return max(0, min(offset, r.Len()))
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	return r.node().Len()
}

// IsEmpty returns true if the rope holds no bytes.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Newlines returns the number of '\n' bytes.
func (r Rope) Newlines() int64 {
	return r.node().summary.Lines
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int64 {
	return r.Newlines() + 1
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	return r.node().summary
}

// Bytes returns a copy of the full content.
func (r Rope) Bytes() []byte {
	return r.Slice(0, r.Len())
}

// String returns the full content as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	return string(r.Bytes())
}

// Slice returns a copy of the bytes in [start, end).
func (r Rope) Slice(start, end ByteOffset) []byte {
	start, end = r.clamp(start), r.clamp(end)
	if start >= end {
		return []byte{}
	}
	return r.node().appendRange(make([]byte, 0, end-start), start, end)
}

// WriteTo writes the content to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	return r.node().writeTo(w)
}

// Insert inserts text at offset.
// Returns a new rope; original is unchanged.
func (r Rope) Insert(offset ByteOffset, text []byte) Rope {
	if len(text) == 0 {
		return r
	}
	left, right := r.Split(offset)
	return left.Concat(FromBytes(text)).Concat(right)
}

// Delete removes the bytes in [start, end).
// Returns a new rope; original is unchanged.
func (r Rope) Delete(start, end ByteOffset) Rope {
	start, end = r.clamp(start), r.clamp(end)
	if start >= end {
		return r
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(right)
}

// Replace replaces the bytes in [start, end) with text.
func (r Rope) Replace(start, end ByteOffset, text []byte) Rope {
	return r.Delete(start, end).Insert(r.clamp(start), text)
}

// Split splits the rope at offset into [0, offset) and [offset, end).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	l, rt := r.node().split(r.clamp(offset))
	return wrap(l), wrap(rt)
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	return wrap(concat(r.node(), other.node()))
}

func wrap(n *Node) Rope {
	if n.Len() == 0 {
		return Rope{}
	}
	return Rope{root: n}
}

// LineStartOffset returns the byte offset of the start of line (0-indexed).
// Lines past the end return Len().
func (r Rope) LineStartOffset(line int64) ByteOffset {
	if line <= 0 {
		return 0
	}
	if line > r.Newlines() {
		return r.Len()
	}
	return r.node().offsetAfterNewline(line)
}

// LineEndOffset returns the byte offset of the end of line (0-indexed),
// not including the newline.
func (r Rope) LineEndOffset(line int64) ByteOffset {
	if line < 0 {
		return 0
	}
	if line >= r.Newlines() {
		return r.Len()
	}
	return r.LineStartOffset(line+1) - 1
}

// Line returns a copy of line (0-indexed) without its newline.
func (r Rope) Line(line int64) []byte {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToLine returns the 0-indexed line containing offset.
func (r Rope) OffsetToLine(offset ByteOffset) int64 {
	return r.node().newlinesBefore(r.clamp(offset))
}

// Height returns the height of the rope tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// ChunkCount returns the total number of chunks in the rope.
func (r Rope) ChunkCount() int {
	return countChunks(r.node())
}
