package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - Plugin is not loaded.
	StateUnloaded State = iota

	// StateLoaded - Plugin code ran and its commands are registered.
	StateLoaded

	// StateError - Loading failed; Host.Error holds the cause.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
