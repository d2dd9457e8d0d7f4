// Package command holds the descriptors of commands contributed by plugins.
//
// A Descriptor is validated once, when it is registered; Execute only looks
// it up and checks the execution context. Callbacks implement Invocable so
// that Go functions and script handlers share one calling convention.
package command
