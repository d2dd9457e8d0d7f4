package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads plugins when their files change until ctx is done.
//
// A write to a plugin file reloads the plugin; removing or renaming its
// entry point (or directory) unloads it. New .lua files and plugin
// directories appearing in a search path are loaded. Rapid changes to the
// same path are coalesced.
func (m *Manager) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range m.watchDirs() {
		if err := w.Add(dir); err != nil {
			m.logger.Warn().Err(err).Str("dir", dir).Msg("cannot watch plugin directory")
		}
	}

	d := newDebouncer(m.debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			d.add(ev.Name, ev.Op)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn().Err(err).Msg("plugin watcher error")

		case ch := <-d.C:
			m.handleChange(ctx, w, ch)
		}
	}
}

// watchDirs returns the search paths plus the directories of loaded plugins.
func (m *Manager) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if seen[dir] {
			return
		}
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	for _, p := range m.paths {
		add(p)
	}
	for _, h := range m.List() {
		add(h.Manifest().Dir())
	}
	return dirs
}

func (m *Manager) handleChange(ctx context.Context, w *fsnotify.Watcher, ch change) {
	log := m.logger.With().Str("path", ch.path).Str("op", ch.op.String()).Logger()

	h, ok := m.hostFor(ch.path)
	if ok {
		man := h.Manifest()
		gone := ch.op.Has(fsnotify.Remove) || ch.op.Has(fsnotify.Rename)
		if gone && !exists(ch.path) && (ch.path == man.MainPath() || ch.path == man.Dir()) {
			log.Debug().Msg("plugin removed")
			_ = m.Unload(h.Name())
			return
		}
		if filepath.Ext(ch.path) != ".lua" && filepath.Base(ch.path) != ManifestFile {
			return
		}
		if !exists(man.MainPath()) {
			return
		}
		log.Debug().Msg("plugin changed")
		_ = m.Reload(ctx, h.Name())
		return
	}

	if !ch.op.Has(fsnotify.Create) || !m.inSearchPath(ch.path) {
		return
	}
	info, ok := Inspect(ch.path)
	if !ok {
		return
	}
	log.Debug().Msg("plugin added")
	if _, err := m.load(ctx, info); err != nil && !errors.Is(err, ErrAlreadyLoaded) {
		return
	}
	if !info.Manifest.file {
		_ = w.Add(info.Manifest.Dir())
	}
}

func (m *Manager) inSearchPath(path string) bool {
	parent := filepath.Dir(path)
	for _, p := range m.paths {
		if abs, err := filepath.Abs(p); err == nil && abs == parent {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// change is a coalesced file event.
type change struct {
	path string
	op   fsnotify.Op
}

// debouncer delays events per path and merges their operations.
type debouncer struct {
	delay time.Duration
	C     chan change

	mu      sync.Mutex
	pending map[string]*pendingChange
	done    chan struct{}
}

type pendingChange struct {
	op    fsnotify.Op
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		C:       make(chan change, 16),
		pending: make(map[string]*pendingChange),
		done:    make(chan struct{}),
	}
}

func (d *debouncer) add(path string, op fsnotify.Op) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[path]; ok {
		p.op |= op
		p.timer.Reset(d.delay)
		return
	}
	p := &pendingChange{op: op}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(path) })
	d.pending[path] = p
}

func (d *debouncer) fire(path string) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if ok {
		delete(d.pending, path)
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	select {
	case d.C <- change{path: path, op: p.op}:
	case <-d.done:
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
	close(d.done)
}
