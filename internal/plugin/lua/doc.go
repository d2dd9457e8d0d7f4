// Package lua provides the sandboxed Lua runtime used by plugins.
//
// This package wraps gopher-lua to provide:
//   - A State restricted to the base, table, string and math libraries
//   - A require that only resolves preloaded modules
//   - Execution deadlines enforced through the VM's context support
//   - Conversion between Lua values and Go values
//
// # State
//
//	state, err := lua.NewState(lua.WithTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "stats.lua"); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// gopher-lua's LState is not goroutine-safe. State serializes every entry
// point with a mutex. Go functions called from Lua run while that mutex is
// held and must not re-enter the same State.
package lua
