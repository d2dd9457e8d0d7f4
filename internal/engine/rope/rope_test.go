package rope

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkTree verifies cached summaries, equal sibling heights and the size
// limits of every node.
func checkTree(t *testing.T, r Rope) {
	t.Helper()
	if r.root == nil {
		return
	}
	var walk func(n *Node) TextSummary
	walk = func(n *Node) TextSummary {
		var sum TextSummary
		if n.IsLeaf() {
			require.LessOrEqual(t, len(n.chunks), MaxChunksPerLeaf)
			for _, c := range n.chunks {
				require.False(t, c.IsEmpty())
				require.LessOrEqual(t, c.Len(), MaxChunkSize)
				require.Equal(t, ComputeSummary(c.data), c.summary)
				sum = sum.Add(c.summary)
			}
		} else {
			require.LessOrEqual(t, len(n.children), MaxChildren)
			for i, child := range n.children {
				require.Equal(t, n.height-1, child.height)
				require.NotZero(t, child.Len())
				got := walk(child)
				require.Equal(t, got, n.childSummaries[i])
				sum = sum.Add(got)
			}
		}
		require.Equal(t, sum, n.summary)
		return sum
	}
	walk(r.root)
}

func TestNew(t *testing.T) {
	var zero Rope
	for _, r := range []Rope{New(), zero, FromString("")} {
		assert.True(t, r.IsEmpty())
		assert.Equal(t, int64(0), r.Len())
		assert.Equal(t, int64(1), r.LineCount())
		assert.Equal(t, []byte{}, r.Bytes())
		assert.Equal(t, []byte{}, r.Line(0))
		assert.Equal(t, int64(0), r.OffsetToLine(0))
		assert.Equal(t, 0, r.Height())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"single char", "a"},
		{"with newline", "hello\nworld"},
		{"unicode", "hello 世界 🌍"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"very long string", strings.Repeat("x", 10000)},
		{"invalid utf8", "\xff\xfe\n\xe4\xb8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			assert.Equal(t, tt.input, r.String())
			assert.Equal(t, int64(len(tt.input)), r.Len())
			checkTree(t, r)
		})
	}
}

func TestInsertDeleteReplace(t *testing.T) {
	tests := []struct {
		name string
		run  func(Rope) Rope
		want string
	}{
		{"insert middle", func(r Rope) Rope { return r.Insert(5, []byte(" beautiful")) }, "Hello beautiful World!"},
		{"insert start", func(r Rope) Rope { return r.Insert(0, []byte(">> ")) }, ">> Hello World!"},
		{"insert end", func(r Rope) Rope { return r.Insert(12, []byte("!!")) }, "Hello World!!!"},
		{"insert empty", func(r Rope) Rope { return r.Insert(3, nil) }, "Hello World!"},
		{"delete middle", func(r Rope) Rope { return r.Delete(5, 11) }, "Hello!"},
		{"delete start", func(r Rope) Rope { return r.Delete(0, 6) }, "World!"},
		{"delete end", func(r Rope) Rope { return r.Delete(5, 12) }, "Hello"},
		{"delete all", func(r Rope) Rope { return r.Delete(0, 12) }, ""},
		{"replace", func(r Rope) Rope { return r.Replace(6, 11, []byte("Go")) }, "Hello Go!"},
		{"split inside rune", func(r Rope) Rope { return FromString("世界").Insert(1, []byte("|")) }, "\xe4|\xb8\x96界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.run(FromString("Hello World!"))
			assert.Equal(t, tt.want, r.String())
			assert.Equal(t, int64(len(tt.want)), r.Len())
			checkTree(t, r)
		})
	}
}

func TestImmutability(t *testing.T) {
	before := FromString("line one\nline two\n")
	after := before.Insert(0, []byte("zero\n")).Delete(5, 9)

	assert.Equal(t, "line one\nline two\n", before.String())
	assert.Equal(t, int64(3), before.LineCount())
	assert.Equal(t, "zero\n one\nline two\n", after.String())
}

func TestInsertCopiesInput(t *testing.T) {
	text := []byte("abc")
	r := New().Insert(0, text)
	text[0] = 'X'
	assert.Equal(t, "abc", r.String())
}

func TestLineIndex(t *testing.T) {
	r := FromString("alpha\nbeta\n\ngamma")

	require.Equal(t, int64(4), r.LineCount())
	assert.Equal(t, "alpha", string(r.Line(0)))
	assert.Equal(t, "beta", string(r.Line(1)))
	assert.Equal(t, "", string(r.Line(2)))
	assert.Equal(t, "gamma", string(r.Line(3)))

	assert.Equal(t, int64(0), r.LineStartOffset(0))
	assert.Equal(t, int64(6), r.LineStartOffset(1))
	assert.Equal(t, int64(11), r.LineStartOffset(2))
	assert.Equal(t, int64(12), r.LineStartOffset(3))
	assert.Equal(t, r.Len(), r.LineStartOffset(9))
	assert.Equal(t, int64(10), r.LineEndOffset(1))

	assert.Equal(t, int64(0), r.OffsetToLine(5))
	assert.Equal(t, int64(1), r.OffsetToLine(6))
	assert.Equal(t, int64(3), r.OffsetToLine(r.Len()))
}

func TestTrailingNewlineCountsEmptyLine(t *testing.T) {
	r := FromString("a\nb\n")
	assert.Equal(t, int64(3), r.LineCount())
	assert.Equal(t, "", string(r.Line(2)))
}

func TestLargeContent(t *testing.T) {
	text := strings.Repeat("0123456789abcdef\n", 4096)
	r := FromString(text)

	assert.Equal(t, int64(len(text)), r.Len())
	assert.Greater(t, r.ChunkCount(), MaxChunksPerLeaf)
	assert.Equal(t, int64(4097), r.LineCount())
	assert.Equal(t, "0123456789abcdef", string(r.Line(2048)))
	assert.Equal(t, int64(2048*17), r.LineStartOffset(2048))
	assert.Equal(t, int64(2048), r.OffsetToLine(2048*17))
	checkTree(t, r)
}

func TestRepeatedAppendStaysShallow(t *testing.T) {
	r := New()
	for i := 0; i < 5000; i++ {
		r = r.Insert(r.Len(), []byte("some text that grows\n"))
	}
	assert.Equal(t, int64(5001), r.LineCount())
	assert.LessOrEqual(t, r.Height(), 8)
	checkTree(t, r)
}

func TestClampsOutOfRange(t *testing.T) {
	r := FromString("abc")

	assert.Equal(t, "abcX", r.Insert(99, []byte("X")).String())
	assert.Equal(t, "Xabc", r.Insert(-4, []byte("X")).String())
	assert.Equal(t, "a", r.Delete(1, 99).String())
	assert.Equal(t, "abc", r.Delete(2, 1).String())
	assert.Equal(t, "bc", string(r.Slice(1, 10)))
}

func TestWriteTo(t *testing.T) {
	text := strings.Repeat("chunked output\n", 200)
	var buf bytes.Buffer

	n, err := FromString(text).WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(len(text)), n)
	assert.Equal(t, text, buf.String())
}

// TestRandomEditsMatchModel replays random edits against a plain byte slice
// and compares content, line index and tree shape after every step.
func TestRandomEditsMatchModel(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	alphabet := []byte("abcdefgh\n\n \xe4\xb8\x96")

	var model []byte
	r := New()

	randomText := func() []byte {
		n := rng.IntN(1500)
		out := make([]byte, n)
		for i := range out {
			out[i] = alphabet[rng.IntN(len(alphabet))]
		}
		return out
	}

	for step := 0; step < 400; step++ {
		if len(model) > 0 && rng.IntN(3) == 0 {
			s := rng.IntN(len(model) + 1)
			e := s + rng.IntN(len(model)-s+1)
			r = r.Delete(int64(s), int64(e))
			model = append(model[:s:s], model[e:]...)
		} else {
			off := rng.IntN(len(model) + 1)
			text := randomText()
			r = r.Insert(int64(off), text)
			next := make([]byte, 0, len(model)+len(text))
			next = append(next, model[:off]...)
			next = append(next, text...)
			model = append(next, model[off:]...)
		}

		require.Equal(t, int64(len(model)), r.Len(), "step %d", step)
		require.True(t, bytes.Equal(model, r.Bytes()), "step %d", step)

		lines := bytes.Split(model, []byte{'\n'})
		require.Equal(t, int64(len(lines)), r.LineCount(), "step %d", step)

		n := rng.IntN(len(lines))
		require.Equal(t, string(lines[n]), string(r.Line(int64(n))), "step %d line %d", step, n)

		off := rng.IntN(len(model) + 1)
		require.Equal(t, int64(bytes.Count(model[:off], []byte{'\n'})), r.OffsetToLine(int64(off)))

		if step%50 == 0 {
			checkTree(t, r)
		}
	}
	checkTree(t, r)
}

func TestFindSplitPoint(t *testing.T) {
	s := strings.Repeat("x", 180) + "\n" + strings.Repeat("y", 200)
	assert.Equal(t, 181, findSplitPoint(s, TargetChunkSize))

	s = strings.Repeat("x", 191) + "世" + strings.Repeat("y", 200)
	assert.Equal(t, 194, findSplitPoint(s, 192))
}
