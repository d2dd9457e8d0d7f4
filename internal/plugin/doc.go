// Package plugin hosts Lua plugins against an editor session.
//
// A plugin is either a single .lua file or a directory holding an entry
// point (init.lua by default) and an optional plugin.toml manifest:
//
//	name = "stats"
//	version = "1.0.0"
//	description = "buffer statistics"
//	main = "init.lua"
//
// Each plugin runs in its own sandboxed Lua state with the ks API installed
// (see package api). The Manager discovers plugins in search paths, loads,
// unloads and reloads them, and can watch their files for changes:
//
//	mgr := plugin.NewManager(apiCtx, plugin.WithPaths(dir), plugin.WithLogger(logger))
//	if err := mgr.LoadAll(ctx); err != nil {
//		return err
//	}
//	go mgr.Watch(ctx)
//
// A plugin may define the global functions setup(info) and deactivate().
// setup runs once after the entry point with {name, version}; an error from
// it fails the load. deactivate runs before the state closes.
//
// Commands a plugin registers are removed when it unloads, so a reload never
// leaves stale handlers behind.
package plugin
