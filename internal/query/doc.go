// Package query is the read-only projection of editor state served to
// plugins and the command line.
//
// A Facade never mutates the state it reads. Every result is a fresh value:
// slices are newly allocated and buffer content is an immutable snapshot, so
// a caller iterating a result is unaffected by later edits.
//
// Session and Export render the whole state as YAML or JSON for inspection.
package query
