package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownContext is returned by ParseContext.
var ErrUnknownContext = errors.New("unknown execution context")

// ExecutionContext is an editor situation a command may run in.
type ExecutionContext uint8

const (
	// ContextGlobal allows a command in every context.
	ContextGlobal ExecutionContext = iota + 1
	ContextNormal
	ContextInsert
	ContextPrompt
	ContextPopup
)

var contextNames = map[ExecutionContext]string{
	ContextGlobal: "global",
	ContextNormal: "normal",
	ContextInsert: "insert",
	ContextPrompt: "prompt",
	ContextPopup:  "popup",
}

// String returns the name of the context.
func (c ExecutionContext) String() string {
	if name, ok := contextNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ExecutionContext(%d)", uint8(c))
}

// Valid reports whether c is a known context.
func (c ExecutionContext) Valid() bool {
	_, ok := contextNames[c]
	return ok
}

// ParseContext parses a context name, case-insensitively.
func ParseContext(s string) (ExecutionContext, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range contextNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContext, s)
}
