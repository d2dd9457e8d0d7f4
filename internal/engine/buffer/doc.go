// Package buffer provides the text buffer of a single open document.
//
// A Buffer owns a document's bytes, its optional file path and its modified
// flag. Content is stored in a rope.Rope, so every edit produces a new
// immutable rope and the buffer simply swaps it in. This gives the
// package its two central properties:
//
//   - Line queries (Line, LineCount, OffsetToLine, LineStartOffset) walk one
//     root-to-leaf path of the rope and never rescan the content.
//   - Snapshot is O(1) and a snapshot is unaffected by later edits.
//
// Lines are 1-indexed at this API boundary, matching what plugin code sees.
// A buffer with no newline has exactly one line; a trailing newline starts a
// final empty line.
//
// Basic usage:
//
//	buf := buffer.New(1, buffer.WithPath("/tmp/a.txt"), buffer.WithContent([]byte("one\ntwo")))
//	snap := buf.Snapshot()
//	buf.Insert(3, []byte("!"))     // "one!\ntwo", Modified() == true
//	line, _ := snap.Line(1)        // "one": the snapshot predates the insert
//
// Thread Safety:
//
// Buffer is not safe for concurrent mutation; the editor state that owns it
// serializes access. Snapshots are immutable and may be shared freely.
package buffer
