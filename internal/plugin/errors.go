package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin cannot be located.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrNoEntryPoint is returned when a plugin directory has no Lua entry point.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua or plugin.lua)")

	// ErrAlreadyLoaded is returned when loading a plugin that is already loaded.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when using a plugin that is not loaded.
	ErrNotLoaded = errors.New("plugin is not loaded")

	// ErrInvalidPlugin is returned when a manifest fails validation.
	ErrInvalidPlugin = errors.New("invalid plugin")
)
