package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the quill configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Viewport ViewportConfig `toml:"viewport"`
	Buffers  BuffersConfig  `toml:"buffers"`
	Plugins  PluginsConfig  `toml:"plugins"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the minimum level: trace, debug, info, warn or error.
	Level string `toml:"level"`

	// File receives JSON log lines. Empty logs to stderr.
	File string `toml:"file"`
}

// ViewportConfig configures new views.
type ViewportConfig struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	ColumnUnits string `toml:"column_units"`
}

// BuffersConfig configures buffer lifecycle.
type BuffersConfig struct {
	// ClosePolicy decides what happens to views of a closed buffer.
	ClosePolicy string `toml:"close_policy"`
}

// PluginsConfig configures the Lua plugin host.
type PluginsConfig struct {
	Dirs          []string `toml:"dirs"`
	Timeout       Duration `toml:"timeout"`
	CallStackSize int      `toml:"call_stack_size"`
	Watch         bool     `toml:"watch"`
}

// Duration is a time.Duration written as a string such as "500ms".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ParseError reports a syntax or type error in a config file.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Viewport: ViewportConfig{
			Width:       80,
			Height:      24,
			ColumnUnits: "bytes",
		},
		Buffers: BuffersConfig{
			ClosePolicy: "detach",
		},
		Plugins: PluginsConfig{
			Dirs:          DefaultPluginDirs(),
			Timeout:       Duration(5 * time.Second),
			CallStackSize: 256,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quill", "config.toml")
}

// DefaultPluginDirs returns the default plugin search paths.
func DefaultPluginDirs() []string {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "quill", "plugins"))
	}
	dirs = append(dirs, filepath.Join(".quill", "plugins"))
	return dirs
}

// Load reads the config file at path over the defaults and validates the
// result. A missing file yields the defaults; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		}
	}

	cfg.Plugins.Dirs = expandHome(cfg.Plugins.Dirs)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<input>", data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func expandHome(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = expandPath(p)
	}
	return out
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
