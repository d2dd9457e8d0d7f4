// Package editor holds the editor-wide state of one session.
//
// A State owns every open buffer, every view and the status line. It is
// created at session start with New and torn down with Close; there is no
// package-level instance, so callers pass the handle explicitly.
//
// Buffers:
//
// Buffer ids are allocated monotonically and never reused within a session.
// ListBuffers returns buffers in creation order without touching content.
// Closing a modified buffer requires force. By default views bound to a
// closed buffer are detached: they stay open, report Detached, and every
// operation needing their buffer fails with ErrNotFound until the caller
// rebinds them with SetViewBuffer or closes them. The ClosePolicy can instead
// destroy or rebind them at close time.
//
// Views:
//
// A view binds one buffer to one cursor set and one viewport. Opening a view
// focuses it. Operations taking a ViewID accept ActiveView to address the
// focused view; they fail with ErrNoActiveView when nothing is focused.
//
// Edits:
//
// Insert, Delete and Replace validate before touching anything. A successful
// edit remaps the cursors of every view bound to the buffer and re-clamps
// their viewports before the call returns.
//
// Thread Safety:
//
// All State methods are safe for concurrent use. Values returned by State are
// copies or immutable snapshots and never change after they are returned.
package editor
