package buffer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	b := New(3)

	assert.Equal(t, ID(3), b.ID())
	assert.Equal(t, "", b.Path())
	assert.False(t, b.Modified())
	assert.Equal(t, int64(0), b.Len())
	assert.Equal(t, 1, b.LineCount())
}

func TestNewBufferWithContent(t *testing.T) {
	content := []byte(strings.Repeat("x", 119) + "\n")
	b := New(3, WithPath("/tmp/a.txt"), WithContent(content))

	assert.Equal(t, "/tmp/a.txt", b.Path())
	assert.Equal(t, int64(120), b.Len())
	assert.False(t, b.Modified())

	content[0] = 'y'
	line, err := b.Line(1)
	require.NoError(t, err)
	assert.Equal(t, byte('x'), line[0], "buffer must own its content")
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"no newline", 1},
		{"one\n", 2},
		{"one\ntwo", 2},
		{"\n\n\n", 4},
	}
	for _, tt := range tests {
		b := New(1, WithContent([]byte(tt.text)))
		assert.Equal(t, tt.want, b.LineCount(), "%q", tt.text)
		assert.Equal(t, 1+strings.Count(tt.text, "\n"), b.LineCount())
	}
}

func TestLine(t *testing.T) {
	b := New(1, WithContent([]byte("line1\nline2\nline3")))

	for n, want := range map[int]string{1: "line1", 2: "line2", 3: "line3"} {
		got, err := b.Line(n)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	_, err := b.Line(4)
	assert.ErrorIs(t, err, ErrLineOutOfRange)
	_, err = b.Line(0)
	assert.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestInsert(t *testing.T) {
	b := New(1, WithContent([]byte("Hello World")))

	edit, err := b.Insert(5, []byte(","))
	require.NoError(t, err)

	assert.Equal(t, "Hello, World", b.Snapshot().String())
	assert.Equal(t, int64(12), b.Len())
	assert.True(t, b.Modified())
	assert.True(t, edit.IsInsert())
	assert.Equal(t, Range{Start: 5, End: 5}, edit.Range)
	assert.Equal(t, int64(1), edit.Delta())
}

func TestInsertOutOfRange(t *testing.T) {
	b := New(1, WithContent([]byte("Hello")))
	rev := b.Revision()

	_, err := b.Insert(6, []byte("X"))
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = b.Insert(-1, []byte("X"))
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	assert.Equal(t, "Hello", b.Snapshot().String())
	assert.False(t, b.Modified())
	assert.Equal(t, rev, b.Revision())
}

func TestDelete(t *testing.T) {
	b := New(1, WithContent([]byte("Hello, World!")))

	edit, err := b.Delete(5, 7)
	require.NoError(t, err)
	assert.Equal(t, "HelloWorld!", b.Snapshot().String())
	assert.True(t, edit.IsDelete())
	assert.Equal(t, int64(-2), edit.Delta())
}

func TestDeleteInvalidRange(t *testing.T) {
	b := New(1, WithContent([]byte("Hello")))

	_, err := b.Delete(3, 2)
	assert.ErrorIs(t, err, ErrRangeInvalid)
	_, err = b.Delete(0, 100)
	assert.ErrorIs(t, err, ErrRangeInvalid)
	assert.False(t, b.Modified())
}

func TestReplace(t *testing.T) {
	b := New(1, WithContent([]byte("Hello, World!")))

	edit, err := b.Replace(7, 12, []byte("Go"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, Go!", b.Snapshot().String())
	assert.Equal(t, int64(-3), edit.Delta())
}

func TestSnapshotIsolation(t *testing.T) {
	b := New(1, WithContent([]byte("first\nsecond")))
	snap := b.Snapshot()

	_, err := b.Insert(0, []byte("zeroth\n"))
	require.NoError(t, err)
	_, err = b.Delete(0, 3)
	require.NoError(t, err)

	assert.Equal(t, "first\nsecond", snap.String())
	assert.Equal(t, 2, snap.LineCount())
	line, err := snap.Line(2)
	require.NoError(t, err)
	assert.Equal(t, "second", string(line))
	assert.NotEqual(t, snap.Revision(), b.Revision())
}

func TestSnapshotWriteTo(t *testing.T) {
	content := strings.Repeat("a line of text\n", 100)
	b := New(1, WithContent([]byte(content)))
	snap := b.Snapshot()
	_, err := b.Delete(0, b.Len())
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := snap.WriteTo(&out)

	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)
	assert.Equal(t, content, out.String())
}

func TestOffsetLineConversion(t *testing.T) {
	b := New(1, WithContent([]byte("ab\ncd\nef")))

	start, err := b.LineStartOffset(3)
	require.NoError(t, err)
	assert.Equal(t, int64(6), start)

	line, err := b.OffsetToLine(4)
	require.NoError(t, err)
	assert.Equal(t, 2, line)

	line, err = b.OffsetToLine(b.Len())
	require.NoError(t, err)
	assert.Equal(t, 3, line)

	_, err = b.OffsetToLine(99)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = b.LineStartOffset(4)
	assert.ErrorIs(t, err, ErrLineOutOfRange)

	r, err := b.LineRange(2)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 3, End: 5}, r)
	r, err = b.LineRange(3)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 6, End: 8}, r)
	_, err = b.LineRange(0)
	assert.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestMarkSaved(t *testing.T) {
	b := New(1)
	_, err := b.Insert(0, []byte("x"))
	require.NoError(t, err)
	require.True(t, b.Modified())

	b.MarkSaved()
	assert.False(t, b.Modified())
}
