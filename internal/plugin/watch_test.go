package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// watchEnv starts Watch and returns a channel of manager events.
func watchEnv(t *testing.T, dir string) (*env, <-chan Event) {
	t.Helper()
	e := newEnv(t, WithPaths(dir), WithDebounce(20*time.Millisecond))
	require.NoError(t, e.manager.LoadAll(context.Background()))

	events := make(chan Event, 16)
	cancelSub := e.manager.Subscribe(func(ev Event) { events <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.manager.Watch(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		cancelSub()
	})

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
	return e, events
}

func waitEvent(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s event", want)
			return Event{}
		}
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeter.lua")
	writeFile(t, path, greeter)
	e, events := watchEnv(t, dir)

	writeFile(t, path, `require("ks").status.set("reloaded")`)

	ev := waitEvent(t, events, EventReloaded)
	assert.Equal(t, "greeter", ev.Plugin)
	assert.Equal(t, "reloaded", e.editor.Status())
	_, ok := e.commands.Get("greet")
	assert.False(t, ok)
}

func TestWatchLoadsNewPlugin(t *testing.T) {
	dir := t.TempDir()
	_, events := watchEnv(t, dir)

	writeFile(t, filepath.Join(dir, "fresh.lua"), greeter)

	ev := waitEvent(t, events, EventLoaded)
	assert.Equal(t, "fresh", ev.Plugin)
}

func TestWatchUnloadsOnRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeter.lua")
	writeFile(t, path, greeter)
	e, events := watchEnv(t, dir)

	require.NoError(t, os.Remove(path))

	ev := waitEvent(t, events, EventUnloaded)
	assert.Equal(t, "greeter", ev.Plugin)
	_, ok := e.commands.Get("greet")
	assert.False(t, ok)
}

func TestDebouncerCoalesces(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	d.add("/p/a.lua", fsnotify.Create)
	d.add("/p/a.lua", fsnotify.Write)
	d.add("/p/b.lua", fsnotify.Write)

	got := map[string]fsnotify.Op{}
	for range 2 {
		select {
		case ch := <-d.C:
			got[ch.path] = ch.op
		case <-time.After(2 * time.Second):
			t.Fatal("debouncer did not fire")
		}
	}

	assert.True(t, got["/p/a.lua"].Has(fsnotify.Create))
	assert.True(t, got["/p/a.lua"].Has(fsnotify.Write))
	assert.Equal(t, fsnotify.Write, got["/p/b.lua"])

	select {
	case ch := <-d.C:
		t.Fatalf("unexpected extra change %v", ch)
	case <-time.After(80 * time.Millisecond):
	}
}
