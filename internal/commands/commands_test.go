package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/quill/internal/config"
)

const upperScript = `
local ks = require("ks")
ks.command.register({
	name = "upper",
	action = "Uppercase buffer",
	contexts = {"normal"},
	handler = function(args)
		local text = ks.buf.content()
		ks.buf.replace(0, #text, string.upper(text))
		ks.status.set("upper x" .. tostring(args.times or 1))
	end,
})
ks.status.set("loaded")
`

type harness struct {
	dir string
	cfg string
	log string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		dir: dir,
		cfg: filepath.Join(dir, "config.toml"),
		log: filepath.Join(dir, "quill.log"),
	}
	require.NoError(t, os.WriteFile(h.cfg, []byte("[plugins]\ndirs = []\n"), 0o600))
	return h
}

func (h *harness) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp("test", &out)
	full := append([]string{"quill", "--config", h.cfg, "--log-file", h.log}, args...)
	err := app.Run(context.Background(), full)
	return out.String(), err
}

func TestRunPrintsStatus(t *testing.T) {
	h := newHarness(t)
	script := h.file(t, "upper.lua", upperScript)
	doc := h.file(t, "doc.txt", "hello")

	out, err := h.run(t, "run", script, doc)
	require.NoError(t, err)
	assert.Equal(t, "loaded\n", out)
}

func TestRunExecutesCommandAndWrites(t *testing.T) {
	h := newHarness(t)
	script := h.file(t, "upper.lua", upperScript)
	doc := h.file(t, "doc.txt", "hello")

	out, err := h.run(t, "run", "--command", "upper", "--arg", "times=3", "--write", script, doc)
	require.NoError(t, err)
	assert.Equal(t, "upper x3\n", out)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", string(data))
}

func TestRunWithoutWriteLeavesFile(t *testing.T) {
	h := newHarness(t)
	script := h.file(t, "upper.lua", upperScript)
	doc := h.file(t, "doc.txt", "hello")

	_, err := h.run(t, "run", "--command", "upper", script, doc)
	require.NoError(t, err)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRunCommandErrors(t *testing.T) {
	h := newHarness(t)
	script := h.file(t, "upper.lua", upperScript)
	doc := h.file(t, "doc.txt", "hello")

	_, err := h.run(t, "run", "--command", "missing", script, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")

	_, err = h.run(t, "run", "--command", "upper", "--context", "insert", script, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")

	_, err = h.run(t, "run", "--arg", "novalue", script, doc)
	require.Error(t, err)
}

func TestRunScriptError(t *testing.T) {
	h := newHarness(t)
	script := h.file(t, "bad.lua", `error("boom")`)

	_, err := h.run(t, "run", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	logs, err := os.ReadFile(h.log)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "plugin failed to load")
}

func TestInspectJSON(t *testing.T) {
	h := newHarness(t)
	a := h.file(t, "a.txt", "one\ntwo\n")
	b := h.file(t, "b.txt", "three")

	out, err := h.run(t, "inspect", "--format", "json", a, b)
	require.NoError(t, err)

	assert.Equal(t, int64(2), gjson.Get(out, "buffers.#").Int())
	assert.Equal(t, a, gjson.Get(out, "buffers.0.path").String())
	assert.Equal(t, int64(8), gjson.Get(out, "buffers.0.length").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "views.#").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "active_view").Int())
}

func TestInspectYAMLDefault(t *testing.T) {
	h := newHarness(t)
	a := h.file(t, "a.txt", "abc")

	out, err := h.run(t, "inspect", a)
	require.NoError(t, err)
	assert.Contains(t, out, "buffers:")
	assert.Contains(t, out, "path: "+a)
}

func TestInspectMissingFileOpensEmpty(t *testing.T) {
	h := newHarness(t)
	missing := filepath.Join(h.dir, "new.txt")

	out, err := h.run(t, "inspect", "--format", "json", missing)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gjson.Get(out, "buffers.0.length").Int())
	assert.False(t, gjson.Get(out, "buffers.0.modified").Bool())
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.cfg, []byte("[viewport]\nwidth = -1\n"), 0o600))

	_, err := h.run(t, "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "viewport.width")
}

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{"n=3", "ratio=0.5", "force=true", "name=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"n":     int64(3),
		"ratio": 0.5,
		"force": true,
		"name":  "a=b",
	}, args)

	_, err = parseArgs([]string{"=x"})
	require.Error(t, err)
}

func TestNewSessionOpensView(t *testing.T) {
	h := newHarness(t)
	cfg := config.Default()
	a := h.file(t, "a.txt", "abc")
	b := h.file(t, "b.txt", "de")

	st, err := newSession(&cfg, zerologNop(), []string{a, b})
	require.NoError(t, err)
	defer st.Close()

	assert.Len(t, st.ListBuffers(), 2)
	views := st.ListViews()
	require.Len(t, views, 1)
	assert.Equal(t, st.ListBuffers()[0].ID, views[0].Buffer)
	assert.True(t, strings.HasSuffix(st.ListBuffers()[1].Path, "b.txt"))
}

func TestNewSessionLogsStatus(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Default()

	st, err := newSession(&cfg, zerolog.New(&logs).Level(zerolog.DebugLevel), nil)
	require.NoError(t, err)
	defer st.Close()

	st.SetStatus("wrote 3 bytes")

	assert.Equal(t, "wrote 3 bytes", st.Status())
	var found bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if gjson.Get(line, "message").String() == "status updated" {
			found = true
			assert.Equal(t, "wrote 3 bytes", gjson.Get(line, "status").String())
		}
	}
	assert.True(t, found, "status update not logged")
}

func zerologNop() zerolog.Logger {
	return zerolog.Nop()
}
