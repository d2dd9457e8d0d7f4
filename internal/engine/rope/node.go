package rope

import (
	"io"
	"strings"
)

// Tree structure constants
const (
	// MaxChildren is the maximum children per internal node.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node represents a node in the rope B+ tree.
// Leaf nodes (height == 0) contain chunks. Internal nodes contain one or more
// non-empty children that all have the same height.
// Nodes are never modified after construction.
type Node struct {
	height  uint8
	summary TextSummary

	// Internal node fields (height > 0)
	children       []*Node
	childSummaries []TextSummary

	// Leaf node fields (height == 0)
	chunks []Chunk
}

var emptyLeaf = &Node{}

func newLeafNode(chunks []Chunk) *Node {
	n := &Node{chunks: chunks}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return emptyLeaf
	}
	summaries := make([]TextSummary, len(children))
	var total TextSummary
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}
	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of the subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

// appendRange appends the bytes in [start, end) to dst.
func (n *Node) appendRange(dst []byte, start, end ByteOffset) []byte {
	if start >= end {
		return dst
	}
	var offset ByteOffset
	if n.IsLeaf() {
		for _, c := range n.chunks {
			cEnd := offset + c.summary.Bytes
			if cEnd > start && offset < end {
				lo := max(start-offset, 0)
				hi := min(end-offset, c.summary.Bytes)
				dst = append(dst, c.data[lo:hi]...)
			}
			offset = cEnd
		}
		return dst
	}
	for i, child := range n.children {
		cEnd := offset + n.childSummaries[i].Bytes
		if cEnd > start && offset < end {
			dst = child.appendRange(dst, max(start-offset, 0), min(end, cEnd)-offset)
		}
		offset = cEnd
	}
	return dst
}

// writeTo writes every chunk of the subtree to w in order.
func (n *Node) writeTo(w io.Writer) (int64, error) {
	var total int64
	if n.IsLeaf() {
		for _, c := range n.chunks {
			k, err := io.WriteString(w, c.data)
			total += int64(k)
			if err != nil {
				return total, err
			}
		}
		return total, nil
	}
	for _, child := range n.children {
		k, err := child.writeTo(w)
		total += k
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// split splits the node at offset into [0, offset) and [offset, end).
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	if offset <= 0 {
		return emptyLeaf, n
	}
	if offset >= n.Len() {
		return n, emptyLeaf
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}

	idx, childOffset := n.findChildByOffset(offset)
	left := buildNodeFromChildren(n.children[:idx:idx])
	right := buildNodeFromChildren(n.children[idx+1:])
	if childOffset == 0 {
		return left, concat(n.children[idx], right)
	}
	l, r := n.children[idx].split(childOffset)
	return concat(left, l), concat(r, right)
}

func (n *Node) splitLeaf(offset ByteOffset) (*Node, *Node) {
	var left, right []Chunk
	var pos ByteOffset
	for _, c := range n.chunks {
		cLen := c.summary.Bytes
		switch {
		case pos+cLen <= offset:
			left = append(left, c)
		case pos >= offset:
			right = append(right, c)
		default:
			l, r := c.Split(int(offset - pos))
			left = append(left, l)
			right = append(right, r)
		}
		pos += cLen
	}
	return newLeafNode(left), newLeafNode(right)
}

// buildNodeFromChildren creates a balanced tree over children of equal
// height.
func buildNodeFromChildren(children []*Node) *Node {
	switch {
	case len(children) == 0:
		return emptyLeaf
	case len(children) == 1:
		return children[0]
	case len(children) <= MaxChildren:
		return newInternalNode(children)
	}

	parents := make([]*Node, 0, len(children)/MaxChildren+1)
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		parents = append(parents, newInternalNode(children[i:end]))
	}
	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left.Len() == 0 {
		return right
	}
	if right.Len() == 0 {
		return left
	}
	parts := join(left, right)
	if len(parts) == 1 {
		return parts[0]
	}
	return newInternalNode(parts)
}

// join concatenates two non-empty nodes and returns one or two nodes of
// height max(left.height, right.height). The shorter side is merged into
// the facing edge of the taller one, so sibling heights stay equal.
func join(left, right *Node) []*Node {
	switch {
	case left.height == right.height && left.IsLeaf():
		return packLeaves(left.chunks, right.chunks)
	case left.height == right.height:
		return packChildren(appendNodes(left.children, right.children))
	case left.height > right.height:
		last := len(left.children) - 1
		parts := join(left.children[last], right)
		return packChildren(appendNodes(left.children[:last], parts))
	default:
		parts := join(left, right.children[0])
		return packChildren(appendNodes(parts, right.children[1:]))
	}
}

func appendNodes(a, b []*Node) []*Node {
	out := make([]*Node, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// packChildren groups up to 2*MaxChildren siblings into one or two nodes.
func packChildren(children []*Node) []*Node {
	if len(children) <= MaxChildren {
		return []*Node{newInternalNode(children)}
	}
	mid := len(children) / 2
	return []*Node{
		newInternalNode(children[:mid:mid]),
		newInternalNode(children[mid:]),
	}
}

// packLeaves joins the chunks of two leaves into one or two leaves, merging
// the chunks that meet at the seam when they fit.
func packLeaves(a, b []Chunk) []*Node {
	chunks := make([]Chunk, 0, len(a)+len(b))
	chunks = append(chunks, a...)
	if n := len(chunks); n > 0 && len(b) > 0 && chunks[n-1].Len()+b[0].Len() <= MaxChunkSize {
		chunks[n-1] = NewChunk(chunks[n-1].data + b[0].data)
		b = b[1:]
	}
	chunks = append(chunks, b...)

	if len(chunks) <= MaxChunksPerLeaf {
		return []*Node{newLeafNode(chunks)}
	}
	mid := len(chunks) / 2
	return []*Node{
		newLeafNode(chunks[:mid:mid]),
		newLeafNode(chunks[mid:]),
	}
}

// findChildByOffset finds the child containing offset and the offset within
// that child. An offset at or past the end maps into the last child.
func (n *Node) findChildByOffset(offset ByteOffset) (int, ByteOffset) {
	for i, s := range n.childSummaries {
		if offset < s.Bytes {
			return i, offset
		}
		offset -= s.Bytes
	}
	last := len(n.children) - 1
	return last, offset + n.childSummaries[last].Bytes
}

// offsetAfterNewline returns the offset just past the k-th newline (k >= 1)
// of the subtree. k must not exceed the subtree's newline count.
func (n *Node) offsetAfterNewline(k int64) ByteOffset {
	var base ByteOffset
	for !n.IsLeaf() {
		i := 0
		for ; i < len(n.children)-1; i++ {
			s := n.childSummaries[i]
			if k <= s.Lines {
				break
			}
			k -= s.Lines
			base += s.Bytes
		}
		n = n.children[i]
	}
	for _, c := range n.chunks {
		if k > c.summary.Lines {
			k -= c.summary.Lines
			base += c.summary.Bytes
			continue
		}
		return base + ByteOffset(nthNewline(c.data, k)) + 1
	}
	return base
}

// newlinesBefore counts the newlines in [0, offset).
func (n *Node) newlinesBefore(offset ByteOffset) int64 {
	var count int64
	for !n.IsLeaf() {
		i := 0
		for ; i < len(n.children)-1; i++ {
			s := n.childSummaries[i]
			if offset < s.Bytes {
				break
			}
			offset -= s.Bytes
			count += s.Lines
		}
		n = n.children[i]
	}
	for _, c := range n.chunks {
		if offset >= c.summary.Bytes {
			offset -= c.summary.Bytes
			count += c.summary.Lines
			continue
		}
		return count + int64(strings.Count(c.data[:offset], "\n"))
	}
	return count
}

func countChunks(n *Node) int {
	if n.IsLeaf() {
		return len(n.chunks)
	}
	count := 0
	for _, child := range n.children {
		count += countChunks(child)
	}
	return count
}
