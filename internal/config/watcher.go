package config

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives a reloaded, valid configuration.
type ReloadFunc func(cfg *Config)

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler sets a callback for files that fail to load or
// validate. The previous configuration stays in effect.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithWatchLogger sets the watcher's logger.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// Watcher reloads a configuration file when it changes.
//
// The file's directory is watched rather than the file, so editors that
// save by renaming a new file into place are seen as a create.
type Watcher struct {
	mu sync.Mutex

	path     string
	fsw      *fsnotify.Watcher
	onReload ReloadFunc
	onError  func(error)
	logger   *slog.Logger
	debounce time.Duration

	// Debounce state; seq detects stale timer callbacks.
	timer *time.Timer
	seq   uint64

	// reloadMu serializes reloads.
	reloadMu sync.Mutex

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching path. onReload is called from the watcher's
// goroutine after every successful reload.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatchOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFromPath(absPath); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		fsw:      fsw,
		onReload: onReload,
		debounce: DefaultDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// Reload loads and validates the file now.
func (w *Watcher) Reload() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	cfg, err := LoadFile(w.path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		w.logger.Warn("config rejected", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.logger.Info("config reloaded", "path", w.path, "remappings", cfg.RemappingCount())
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "path", w.path, "error", err)
		}
	}
}

// schedule reloads after the debounce period. Calls within the period
// restart it.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.seq++
	current := w.seq

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stale := w.closed || w.seq != current
		w.mu.Unlock()
		if !stale {
			w.Reload()
		}
	})
}
