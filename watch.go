package semreg

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ValueChange describes one observed mutation of a stored value. Hash is the
// 64-bit xxHash of the new content, or zero when the value was deleted.
//
// On changes in very quick succession, reading the value after receiving its
// event may yield newer content than the write that produced the event.
type ValueChange struct {
	Root Root
	Path string
	Name string
	Hash uint64
}

// ValuePath returns the canonical path of the changed value.
func (c ValueChange) ValuePath() ValuePath {
	return ValuePath{KeyPath{c.Root, c.Path}, c.Name}
}

// ValueWatcher delivers change events for the values under a set of keys.
// Close it before closing the store it came from; a store shutdown ends the
// event stream, which watch consumers treat as a fatal condition.
type ValueWatcher struct {
	hub    *watchHub
	keys   map[KeyPath]bool
	events chan ValueChange
	errs   chan error
	once   sync.Once
}

// Events returns the change stream. The channel is closed only when the
// watcher or its store is closed.
func (w *ValueWatcher) Events() <-chan ValueChange {
	return w.events
}

// Errors returns the stream of delivery failures. A watcher that cannot
// keep up receives ErrWatchOverflow; the events in between are lost and the
// consumer should re-read the values it depends on.
func (w *ValueWatcher) Errors() <-chan error {
	return w.errs
}

func (w *ValueWatcher) Close() {
	w.hub.unsubscribe(w)
}

const watchBufferSize = 64

// watchHub fans value mutations out to subscribed watchers. Store backends
// call notify after every effective write or delete.
type watchHub struct {
	mu       sync.Mutex
	watchers map[*ValueWatcher]struct{}
	closed   bool
	logger   *slog.Logger
}

func newWatchHub(logger *slog.Logger) *watchHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &watchHub{
		watchers: make(map[*ValueWatcher]struct{}),
		logger:   logger,
	}
}

func (h *watchHub) subscribe(keys []KeyPath) (*ValueWatcher, error) {
	w := &ValueWatcher{
		hub:    h,
		keys:   make(map[KeyPath]bool, len(keys)),
		events: make(chan ValueChange, watchBufferSize),
		errs:   make(chan error, 1),
	}
	for _, k := range keys {
		w.keys[k] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrWatchClosed
	}
	h.watchers[w] = struct{}{}
	return w, nil
}

func (h *watchHub) unsubscribe(w *ValueWatcher) {
	h.mu.Lock()
	_, present := h.watchers[w]
	delete(h.watchers, w)
	h.mu.Unlock()
	if present {
		w.once.Do(func() { close(w.events) })
	}
}

func (h *watchHub) close() {
	h.mu.Lock()
	watchers := h.watchers
	h.watchers = make(map[*ValueWatcher]struct{})
	h.closed = true
	h.mu.Unlock()
	for w := range watchers {
		w.once.Do(func() { close(w.events) })
	}
}

// notifyWrite reports an effective write of data at path.
func (h *watchHub) notifyWrite(path ValuePath, data []byte) {
	h.notify(path, xxhash.Sum64(data))
}

// notifyDelete reports the removal of the value at path.
func (h *watchHub) notifyDelete(path ValuePath) {
	h.notify(path, 0)
}

func (h *watchHub) notify(path ValuePath, hash uint64) {
	ev := ValueChange{Root: path.Root, Path: path.Path, Name: path.Name, Hash: hash}

	h.mu.Lock()
	defer h.mu.Unlock()
	for w := range h.watchers {
		if !watchCovers(w.keys, path.KeyPath) {
			continue
		}
		select {
		case w.events <- ev:
		default:
			// A stalled consumer loses events rather than stalling writers.
			h.logger.Warn("dropping value change event for slow watcher", "path", path.String())
			select {
			case w.errs <- ErrWatchOverflow:
			default:
			}
		}
	}
}

// watchCovers reports whether any watched key equals the changed key or is
// an ancestor of it.
func watchCovers(keys map[KeyPath]bool, changed KeyPath) bool {
	if keys[changed] {
		return true
	}
	for k := range keys {
		if k.Root == changed.Root && strings.HasPrefix(changed.Path, k.Path+`\`) {
			return true
		}
	}
	return false
}
