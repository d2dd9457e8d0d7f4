// Package config loads the quill configuration file.
//
// The file is TOML. Every key is optional; missing keys keep their defaults:
//
//	[log]
//	level = "info"          # trace, debug, info, warn, error
//	file = ""               # empty logs to stderr
//
//	[viewport]
//	width = 80
//	height = 24
//	column_units = "bytes"  # or "cells"
//
//	[buffers]
//	close_policy = "detach" # or "destroy", "reassign"
//
//	[plugins]
//	dirs = ["~/.config/quill/plugins"]
//	timeout = "5s"
//	call_stack_size = 256
//	watch = false
//
// Validation errors are criterio.FieldErrors keyed by dotted field path.
package config
