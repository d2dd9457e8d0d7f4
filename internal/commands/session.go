package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/status"
)

// newSession creates an editor session with one buffer per file and a view
// on the first. Files that do not exist open as empty buffers bound to their
// path.
func newSession(cfg *config.Config, logger zerolog.Logger, files []string) (*editor.State, error) {
	opts := cfg.EditorOptions()
	if w, h, ok := terminalSize(cfg); ok {
		opts = append(opts, editor.WithViewportSize(w, h))
	}
	opts = append(opts,
		editor.WithLogger(logger),
		editor.WithStatusSink(status.Logged(status.Discard, logger)),
	)

	st := editor.New(opts...)

	var first buffer.ID
	for i, path := range files {
		id, err := openFile(st, path)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		if i == 0 {
			first = id
		}
	}
	if len(files) > 0 {
		if _, err := st.OpenView(first); err != nil {
			_ = st.Close()
			return nil, err
		}
	}
	return st, nil
}

func openFile(st *editor.State, path string) (buffer.ID, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return st.CreateBuffer(path)
	case err != nil:
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	return st.OpenBuffer(path, data)
}

// terminalSize reports the stdout terminal size when the configuration keeps
// the default viewport size.
func terminalSize(cfg *config.Config) (int, int, bool) {
	def := config.Default().Viewport
	if cfg.Viewport.Width != def.Width || cfg.Viewport.Height != def.Height {
		return 0, 0, false
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// writeModified saves every modified buffer that has a path.
func writeModified(st *editor.State, logger zerolog.Logger) (int, error) {
	n := 0
	for _, info := range st.ListBuffers() {
		if !info.Modified || info.Path == "" {
			continue
		}
		snap, err := st.Snapshot(info.ID)
		if err != nil {
			return n, err
		}
		if err := writeSnapshot(info.Path, snap); err != nil {
			return n, fmt.Errorf("write %s: %w", info.Path, err)
		}
		if err := st.MarkSaved(info.ID); err != nil {
			return n, err
		}
		logger.Info().Str("path", info.Path).Int64("bytes", info.Length).Msg("buffer written")
		n++
	}
	return n, nil
}

func writeSnapshot(path string, snap buffer.Snapshot) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := snap.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
