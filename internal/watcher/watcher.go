// Package watcher watches the content directory with fsnotify and debounces changes
// into reload calls.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches a directory tree and calls onReload once per burst of relevant changes.
type Watcher struct {
	root     string
	relevant func(path string) bool
	onReload func(ctx context.Context)
	debounce time.Duration
	logger   *zap.Logger

	reloadMu sync.Mutex
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	watched  map[string]bool
	pending  []string
	done     chan struct{}
	started  bool
	stopOnce sync.Once
	ctx      context.Context
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output (directory changes, file events, etc.).
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce sets how long the tree must be quiet before onReload runs.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher for root. relevant filters which file paths trigger a
// reload (nil accepts all). onReload runs on its own goroutine, never concurrently
// with itself.
func NewWatcher(root string, relevant func(path string) bool, onReload func(ctx context.Context), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		root:     filepath.Clean(root),
		relevant: relevant,
		onReload: onReload,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		watched:  make(map[string]bool),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
// A missing root is created.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.ctx = ctx
	if err := os.MkdirAll(w.root, 0755); err != nil {
		_ = watcher.Close()
		w.watcher = nil
		w.mu.Unlock()
		return err
	}
	if err := w.addTreeLocked(w.root); err != nil {
		_ = watcher.Close()
		w.watcher = nil
		w.mu.Unlock()
		return err
	}
	w.started = true
	w.logger.Debug("watcher starting", zap.String("root", w.root), zap.Int("directories", len(w.watched)))
	w.mu.Unlock()

	go w.run(ctx, watcher)
	return nil
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	if !inDir(w.root, path) {
		return
	}
	w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))

	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.mu.Lock()
			if w.watcher != nil {
				if err := w.addTreeLocked(path); err != nil {
					w.logger.Warn("watcher failed to add directory", zap.String("path", path), zap.Error(err))
				}
			}
			w.mu.Unlock()
			// Files may have been moved in together with the directory.
			w.schedule(path)
			return
		}
		if w.isRelevant(path) {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Write):
		if w.isRelevant(path) {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.mu.Lock()
		wasDir := w.forgetTreeLocked(path)
		w.mu.Unlock()
		if wasDir || w.isRelevant(path) {
			w.schedule(path)
		}
	}
}

func (w *Watcher) isRelevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return w.relevant == nil || w.relevant(path)
}

// schedule restarts the debounce timer; the reload runs when it fires.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.pending = append(w.pending, path)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	changed := w.pending
	w.pending = nil
	w.timer = nil
	ctx := w.ctx
	w.mu.Unlock()

	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()
	w.logger.Debug("watcher reloading (debounced)", zap.Int("changes", len(changed)), zap.Strings("paths", changed))
	if w.onReload != nil {
		w.onReload(ctx)
	}
}

func (w *Watcher) addTreeLocked(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.watched[path] {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.watched[path] = true
		return nil
	})
}

// forgetTreeLocked drops path and everything below it from the watched set and reports
// whether path was a watched directory. fsnotify removes the kernel watches itself.
func (w *Watcher) forgetTreeLocked(path string) bool {
	wasDir := w.watched[path]
	for p := range w.watched {
		if p == path || inDir(path, p) {
			delete(w.watched, p)
		}
	}
	return wasDir
}

func inDir(dir, path string) bool {
	if dir == path {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Directories returns the directories currently watched, sorted.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watched))
	for p := range w.watched {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Stop stops the watcher and releases resources. A pending reload is dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
