// Package rope provides an immutable rope used as the text store of a buffer.
//
// A rope is a B+ tree whose leaves hold small byte chunks and whose internal
// nodes cache the byte and newline counts of every child. Content is an
// arbitrary byte sequence: chunks are never required to hold valid UTF-8.
//
// Key features:
//   - O(log n) insert, delete and slice
//   - Line start and offset-to-line lookups descend one root-to-leaf path
//   - Operations return new ropes that share untouched nodes with the
//     original, so holding a Rope value is an immutable snapshot
//   - Safe for concurrent readers
//
// Basic usage:
//
//	r := rope.FromString("hello\nworld")
//	r = r.Insert(5, []byte(","))   // "hello,\nworld"
//	r.LineCount()                  // 2
//	r.LineStartOffset(1)           // 7
//	string(r.Line(1))              // "world"
//
// Offsets and line numbers are 0-indexed. Out-of-range arguments are clamped;
// validation belongs to the caller.
package rope
