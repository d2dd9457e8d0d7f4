package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Info contains discovery information about a plugin.
type Info struct {
	Name     string
	Manifest *Manifest
	Error    error
}

// Discover finds the plugins in the search paths. The first path wins when
// two plugins share a name. Missing paths are skipped. Plugins are sorted by
// name.
func Discover(paths []string) []Info {
	found := make(map[string]Info)

	for _, base := range paths {
		entries, err := os.ReadDir(base)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			info, ok := inspectEntry(base, entry)
			if !ok {
				continue
			}
			if _, exists := found[info.Name]; !exists {
				found[info.Name] = info
			}
		}
	}

	plugins := make([]Info, 0, len(found))
	for _, info := range found {
		plugins = append(plugins, info)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})
	return plugins
}

func inspectEntry(base string, entry fs.DirEntry) (Info, bool) {
	path := filepath.Join(base, entry.Name())
	if entry.IsDir() {
		if strings.HasPrefix(entry.Name(), ".") {
			return Info{}, false
		}
		return Inspect(path)
	}
	if filepath.Ext(entry.Name()) != ".lua" {
		return Info{}, false
	}
	return Inspect(path)
}

// Inspect examines a single plugin: a .lua file or a plugin directory. It
// returns false when path is neither.
func Inspect(path string) (Info, bool) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, false
	}

	if !st.IsDir() {
		if filepath.Ext(path) != ".lua" {
			return Info{}, false
		}
		name := strings.TrimSuffix(filepath.Base(path), ".lua")
		m := NewManifestMinimal(name, filepath.Dir(path), filepath.Base(path))
		m.file = true
		return Info{Name: name, Manifest: m}, true
	}

	name := filepath.Base(path)
	info := Info{Name: name}

	if _, err := os.Stat(filepath.Join(path, ManifestFile)); err == nil {
		m, err := LoadManifest(path)
		if err != nil {
			info.Error = fmt.Errorf("%s: %w", name, err)
			return info, true
		}
		info.Name = m.Name
		info.Manifest = m
		return info, true
	}

	for _, main := range []string{"init.lua", "plugin.lua"} {
		if _, err := os.Stat(filepath.Join(path, main)); err == nil {
			info.Manifest = NewManifestMinimal(name, path, main)
			return info, true
		}
	}

	return Info{}, false
}

// isPluginDir reports whether path is a directory holding a single plugin
// rather than a directory of plugins.
func isPluginDir(path string) bool {
	for _, f := range []string{ManifestFile, "init.lua", "plugin.lua"} {
		if _, err := os.Stat(filepath.Join(path, f)); err == nil {
			return true
		}
	}
	return false
}

// resolve expands a path given on the command line into plugins.
func resolve(path string) ([]Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, path)
		}
		return nil, err
	}
	if !st.IsDir() || isPluginDir(path) {
		info, ok := Inspect(path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoEntryPoint, path)
		}
		return []Info{info}, nil
	}
	return Discover([]string{path}), nil
}
