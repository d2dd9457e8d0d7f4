package config

import (
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine/viewport"
	"github.com/dshills/quill/internal/plugin"
)

// Validate checks the configuration and returns criterio.FieldErrors listing
// every problem.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("log.level", c.Log.Level, func(s string) error {
			_, err := parseLevel(s)
			return err
		}),
		criterio.Run("viewport.width", c.Viewport.Width, positive),
		criterio.Run("viewport.height", c.Viewport.Height, positive),
		criterio.Run("viewport.column_units", c.Viewport.ColumnUnits, func(s string) error {
			_, err := viewport.ParseUnits(s)
			return err
		}),
		criterio.Run("buffers.close_policy", c.Buffers.ClosePolicy, func(s string) error {
			_, err := editor.ParseClosePolicy(s)
			return err
		}),
		criterio.Run("plugins.timeout", c.Plugins.Timeout, func(d Duration) error {
			if d < 0 {
				return errors.New("must not be negative")
			}
			return nil
		}),
		criterio.Run("plugins.call_stack_size", c.Plugins.CallStackSize, positive),
	)
}

func positive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() zerolog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// EditorOptions returns the editor options for the configuration.
func (c *Config) EditorOptions() []editor.Option {
	units, _ := viewport.ParseUnits(c.Viewport.ColumnUnits)
	policy, _ := editor.ParseClosePolicy(c.Buffers.ClosePolicy)
	return []editor.Option{
		editor.WithViewportSize(c.Viewport.Width, c.Viewport.Height),
		editor.WithColumnUnits(units),
		editor.WithClosePolicy(policy),
	}
}

// PluginOptions returns the plugin manager options for the configuration.
func (c *Config) PluginOptions() []plugin.Option {
	return []plugin.Option{
		plugin.WithPaths(c.Plugins.Dirs...),
		plugin.WithTimeout(c.Plugins.Timeout.Std()),
		plugin.WithCallStackSize(c.Plugins.CallStackSize),
	}
}
