package rope

import "strings"

// ByteOffset represents an absolute byte position in the rope.
type ByteOffset = int64

// TextSummary holds aggregated metrics for a span of bytes.
// Summaries form a monoid under Add with the zero value as identity.
type TextSummary struct {
	// Bytes is the byte count.
	Bytes ByteOffset

	// Lines is the number of '\n' bytes.
	Lines int64
}

// Add combines two adjacent summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
	}
}

// IsZero reports whether the summary describes an empty span.
func (s TextSummary) IsZero() bool {
	return s.Bytes == 0
}

// ComputeSummary calculates metrics for s.
func ComputeSummary(s string) TextSummary {
	return TextSummary{
		Bytes: ByteOffset(len(s)),
		Lines: int64(strings.Count(s, "\n")),
	}
}

// nthNewline returns the index of the n-th '\n' (1-indexed) in s, or -1.
func nthNewline(s string, n int64) int {
	pos := 0
	for n > 0 {
		i := strings.IndexByte(s[pos:], '\n')
		if i < 0 {
			return -1
		}
		pos += i
		n--
		if n == 0 {
			return pos
		}
		pos++
	}
	return -1
}
