package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rpmd/internal/adapters/watcher"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/rpmd/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newWatcher(t *testing.T) *watcher.Watcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log, 10*time.Millisecond)
	require.NoError(t, err)
	return w
}

func collect(w *watcher.Watcher) <-chan ports.WatchEvent {
	out := make(chan ports.WatchEvent, 16)
	go func() {
		defer close(out)
		for ev := range w.Events() {
			out <- ev
		}
	}()
	return out
}

func next(t *testing.T, events <-chan ports.WatchEvent) ports.WatchEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event stream ended")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return ports.WatchEvent{}
	}
}

func TestWatcher_ReportsRepoFileChanges(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)
	require.NoError(t, w.Start(t.Context(), []string{dir}))
	t.Cleanup(func() { _ = w.Stop() })
	events := collect(w)

	path := filepath.Join(dir, "rpm-repo1.repo")
	require.NoError(t, os.WriteFile(path, []byte("[rpm-repo1]\nbaseurl=/srv/repo1\n"), 0o600))

	ev := next(t, events)
	assert.Equal(t, path, ev.Path)

	require.NoError(t, os.Remove(path))
	// A trailing write from the first batch may still arrive.
	for ev.Operation != ports.OpRemove {
		ev = next(t, events)
		assert.Equal(t, path, ev.Path)
	}
}

func TestWatcher_SkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)
	require.NoError(t, w.Start(t.Context(), []string{filepath.Join(dir, "missing"), dir}))
	require.NoError(t, w.Stop())
}

func TestWatcher_EventsEndOnStop(t *testing.T) {
	w := newWatcher(t)
	require.NoError(t, w.Start(t.Context(), []string{t.TempDir()}))
	events := collect(w)

	require.NoError(t, w.Stop())
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end")
	}
}

func TestWatcher_EventsEndOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	w := newWatcher(t)
	require.NoError(t, w.Start(ctx, []string{t.TempDir()}))
	t.Cleanup(func() { _ = w.Stop() })
	events := collect(w)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end")
	}
}
