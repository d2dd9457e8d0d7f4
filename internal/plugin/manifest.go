package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the manifest name looked up in plugin directories.
const ManifestFile = "plugin.toml"

// Manifest describes a plugin.
type Manifest struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`

	// Main is the entry point relative to the plugin directory.
	Main string `toml:"main"`

	// path is the plugin directory.
	path string

	// file is set for single-file plugins, whose directory is shared.
	file bool
}

// namePattern validates plugin names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// semverPattern validates version strings (simplified semver).
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest reads and validates the manifest in dir. A missing name
// defaults to the directory name.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPlugin, ManifestFile, err)
	}
	if m.Name == "" {
		m.Name = filepath.Base(dir)
	}
	m.path = dir
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlugin, err)
	}
	return &m, nil
}

// NewManifestMinimal creates the manifest of a plugin without plugin.toml.
func NewManifestMinimal(name, dir, main string) *Manifest {
	m := &Manifest{Name: name, Main: main, path: dir}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = "init.lua"
	}
	if m.Version == "" {
		m.Version = "0.0.0"
	}
}

// Validate checks the manifest and returns criterio.FieldErrors.
func (m *Manifest) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("name", m.Name, func(s string) error {
			if !namePattern.MatchString(s) {
				return fmt.Errorf("invalid plugin name %q", s)
			}
			return nil
		}),
		criterio.Run("version", m.Version, func(s string) error {
			if !semverPattern.MatchString(s) {
				return fmt.Errorf("invalid version %q", s)
			}
			return nil
		}),
		criterio.Run("main", m.Main, func(s string) error {
			if filepath.Ext(s) != ".lua" {
				return errors.New("must be a .lua file")
			}
			if filepath.IsAbs(s) || strings.HasPrefix(filepath.Clean(s), "..") {
				return errors.New("must stay inside the plugin directory")
			}
			return nil
		}),
	)
}

// Dir returns the plugin directory.
func (m *Manifest) Dir() string {
	return m.path
}

// MainPath returns the full path to the entry point.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.path, m.Main)
}

// String returns a short description of the manifest.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}
