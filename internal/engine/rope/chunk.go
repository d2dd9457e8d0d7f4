package rope

import "unicode/utf8"

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the minimum bytes per chunk when building.
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// Chunk is an immutable run of bytes stored in a leaf.
type Chunk struct {
	data    string
	summary TextSummary
}

// NewChunk creates a chunk holding s.
func NewChunk(s string) Chunk {
	return Chunk{data: s, summary: ComputeSummary(s)}
}

// String returns the chunk's bytes.
func (c Chunk) String() string {
	return c.data
}

// Summary returns the chunk's metrics.
func (c Chunk) Summary() TextSummary {
	return c.summary
}

// Len returns the byte length of the chunk.
func (c Chunk) Len() int {
	return len(c.data)
}

// IsEmpty reports whether the chunk holds no bytes.
func (c Chunk) IsEmpty() bool {
	return len(c.data) == 0
}

// Split splits the chunk at byte offset. Any offset is valid.
func (c Chunk) Split(offset int) (Chunk, Chunk) {
	if offset <= 0 {
		return Chunk{}, c
	}
	if offset >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:offset]), NewChunk(c.data[offset:])
}

// splitIntoChunks cuts s into chunks of at most MaxChunkSize bytes.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		at := findSplitPoint(s, TargetChunkSize)
		chunks = append(chunks, NewChunk(s[:at]))
		s = s[at:]
	}
	return append(chunks, NewChunk(s))
}

// findSplitPoint picks a cut near target. It prefers the byte after a
// newline, then the start of a UTF-8 sequence, then target itself.
func findSplitPoint(s string, target int) int {
	lo := max(target-MinChunkSize/4, 1)
	hi := min(target+MinChunkSize/4, len(s)-1)

	for i := target; i < hi; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= lo; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target; i < min(target+utf8.UTFMax, len(s)); i++ {
		if utf8.RuneStart(s[i]) {
			return i
		}
	}
	return target
}
