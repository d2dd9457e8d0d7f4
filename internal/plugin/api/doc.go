// Package api provides the Lua API modules exposed to plugins.
//
// Plugins reach the editor through the "ks" module:
//
//	local ks = require("ks")
//	local id = ks.buf.active()
//	ks.status.set(ks.buf.info(id).path)
//
// The namespace aggregates these submodules:
//
//   - ks.buf: buffer queries and edits
//   - ks.cursor: cursor and selection queries, multi-cursor edits
//   - ks.view: viewport geometry and scrolling
//   - ks.status: the status message
//   - ks.command: command registration
//   - ks.log: structured logging
//
// Buffer offsets are 0-based bytes and line numbers are 1-based. Functions
// taking a buffer or view id accept nil for the active one. Failures raise a
// Lua error naming the function, so scripts can use pcall.
//
// # Architecture
//
// Each module implements the Module interface and registers itself as a
// _ks_<name> global; Registry.InjectAll moves those globals into the table
// returned by require("ks").
package api
