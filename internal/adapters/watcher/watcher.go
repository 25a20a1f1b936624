// Package watcher reports changes to repository definition directories.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/rpmd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify. Bursts of events for the
// same path are coalesced into one event carrying the last operation.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	debouncer *Debouncer
	events    chan ports.WatchEvent
	done      chan struct{}

	mu     sync.Mutex
	ops    map[string]ports.WatchOp
	closed bool
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger, window time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	w := &Watcher{
		fsWatcher: fsw,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		done:      make(chan struct{}),
		ops:       make(map[string]ports.WatchOp),
	}
	w.debouncer = NewDebouncer(window, w.deliver)
	return w, nil
}

// Start begins watching dirs. Directories that do not exist are skipped.
func (w *Watcher) Start(ctx context.Context, dirs []string) error {
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
			continue
		}
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events. It ends when the watcher
// stops or its context is canceled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			op, ok := convertOp(event.Op)
			if !ok {
				continue
			}
			w.mu.Lock()
			w.ops[event.Name] = op
			w.mu.Unlock()
			w.debouncer.Add(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

// deliver emits one event per debounced path, in path order.
func (w *Watcher) deliver(paths []string) {
	slices.Sort(paths)
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, path := range paths {
		if w.closed {
			return
		}
		op := w.ops[path]
		delete(w.ops, path)

		select {
		case w.events <- ports.WatchEvent{Path: path, Operation: op}:
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) shutdown() {
	w.debouncer.Stop()
	close(w.done)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	close(w.events)
}

func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
