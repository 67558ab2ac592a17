// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Default watcher timings.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("watcher already started")

// Change is the new content of a project file.
type Change struct {
	Name    string
	Content string
}

// ChangeFunc receives changes on the watcher's goroutine.
type ChangeFunc func(Change)

// =============================================================================
// WATCHER
// =============================================================================

// Watcher reports edits to project files made outside the session.
type Watcher struct {
	dir          string
	exts         []string
	onChange     ChangeFunc
	debounce     time.Duration
	pollInterval time.Duration
	logger       *slog.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	pending map[string]time.Time // path -> last event time
	started bool

	// owned by the polling goroutine once started
	modTime map[string]time.Time
	primed  bool

	cancel context.CancelFunc
	done   sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long a file must stay quiet before it is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithPollInterval sets the polling fallback interval.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for dir. Nil extensions means
// DefaultExtensions.
func NewWatcher(dir string, exts []string, onChange ChangeFunc, opts ...WatcherOption) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("workspace watcher needs a change callback")
	}
	w := &Watcher{
		dir:          dir,
		exts:         exts,
		onChange:     onChange,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		pending:      make(map[string]time.Time),
		modTime:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching until ctx is done or Close is called. When fsnotify
// cannot watch dir the watcher polls instead.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		if err = fsw.Add(w.dir); err != nil {
			fsw.Close()
		}
	}

	if err != nil {
		if _, statErr := os.Stat(w.dir); statErr != nil {
			cancel()
			return statErr
		}
		w.logger.Warn("fsnotify unavailable, polling project", "dir", w.dir, "error", err)
		w.scan()
		w.done.Add(1)
		go w.poll(ctx)
	} else {
		w.fsw = fsw
		w.done.Add(2)
		go w.processEvents(ctx)
		go w.processPending(ctx)
	}

	w.started = true
	w.cancel = cancel
	return nil
}

// Polling reports whether the watcher fell back to polling.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started && w.fsw == nil
}

// Close stops watching and waits for the watcher goroutines to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	cancel, fsw := w.cancel, w.fsw
	w.cancel = nil
	w.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	var err error
	if fsw != nil {
		err = fsw.Close()
	}
	w.done.Wait()
	return err
}

// =============================================================================
// FSNOTIFY
// =============================================================================

// processEvents queues Write and Create events for tracked files.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.done.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !Tracked(event.Name, w.exts) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		}
	}
}

// processPending reports files that have been quiet for the debounce period.
func (w *Watcher) processPending(ctx context.Context) {
	defer w.done.Done()

	tick := w.debounce / 2
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var ready []string
			for path, changed := range w.pending {
				if now.Sub(changed) >= w.debounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range ready {
				w.report(path)
			}
		}
	}
}

// =============================================================================
// POLLING (FALLBACK)
// =============================================================================

// poll rescans the directory on every interval.
func (w *Watcher) poll(ctx context.Context) {
	defer w.done.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, path := range w.scan() {
				w.report(path)
			}
		}
	}
}

// scan records modification times and returns the files that are new or
// modified since the previous scan. The first scan only records.
func (w *Watcher) scan() []string {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("poll failed", "dir", w.dir, "error", err)
		return nil
	}

	var changed []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !Tracked(e.Name(), w.exts) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		prev, seen := w.modTime[path]
		if w.primed && (!seen || !prev.Equal(info.ModTime())) {
			changed = append(changed, path)
		}
		w.modTime[path] = info.ModTime()
	}
	w.primed = true
	return changed
}

// report reads path and hands it to the callback.
func (w *Watcher) report(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	if info.Size() > MaxFileSize {
		w.logger.Warn("ignoring large file", "path", path, "bytes", info.Size())
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("read changed file", "path", path, "error", err)
		return
	}
	w.logger.Debug("file changed", "path", path)
	w.onChange(Change{Name: filepath.Base(path), Content: string(data)})
}
