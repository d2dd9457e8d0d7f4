package command

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
)

// Invocation carries the arguments of one command execution.
type Invocation struct {
	Name    string
	Context ExecutionContext
	Args    map[string]any
}

// Invocable is the callback of a command.
type Invocable interface {
	Invoke(ctx context.Context, inv Invocation) error
}

// InvocableFunc adapts a function to the Invocable interface.
type InvocableFunc func(ctx context.Context, inv Invocation) error

// Invoke calls f(ctx, inv).
func (f InvocableFunc) Invoke(ctx context.Context, inv Invocation) error {
	return f(ctx, inv)
}

// Descriptor describes a command.
type Descriptor struct {
	// Name is the unique command name, e.g. "buffer.info".
	Name string

	Description string

	// Action is the verb shown to the user, e.g. "Show buffer info".
	Action string

	// Contexts lists where the command may run. ContextGlobal allows all.
	Contexts []ExecutionContext

	Callback Invocable

	// Source identifies the registrant, e.g. "plugin:stats".
	Source string
}

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.:-]*$`)

// Validate checks the descriptor and returns criterio.FieldErrors listing
// every problem.
func (d Descriptor) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("name", d.Name, validName),
		criterio.Run("action", d.Action, required),
		d.validateContexts(),
		d.validateCallback(),
	)
}

// AllowedIn reports whether the command may run in ctx.
func (d Descriptor) AllowedIn(ctx ExecutionContext) bool {
	return slices.Contains(d.Contexts, ContextGlobal) || slices.Contains(d.Contexts, ctx)
}

func (d Descriptor) validateContexts() error {
	if len(d.Contexts) == 0 {
		return criterio.NewFieldErrors("contexts", errors.New("at least one context is required"))
	}
	var errs criterio.FieldErrorsBuilder
	for i, c := range d.Contexts {
		if !c.Valid() {
			errs = errs.Append(fmt.Sprintf("contexts[%d]", i), fmt.Errorf("%w: %d", ErrUnknownContext, c))
		}
	}
	return errs.ToError()
}

func (d Descriptor) validateCallback() error {
	if d.Callback == nil {
		return criterio.NewFieldErrors("callback", errors.New("callback is required"))
	}
	return nil
}

func validName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid command name %q", name)
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}
