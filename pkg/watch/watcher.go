// Package watch invalidates cached syntax trees when source files change on
// disk. The cache's mtime check already guarantees freshness; the watcher
// just drops stale entries early so their memory is reclaimed.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Invalidator is the cache-side surface the watcher needs.
type Invalidator interface {
	Invalidate(path string)
}

// Watcher observes a directory tree and invalidates changed Python files
// after a debounce window.
type Watcher struct {
	cache    Invalidator
	rootDir  string
	debounce time.Duration

	watcher *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]time.Time
}

// New creates a watcher over rootDir.
func New(cache Invalidator, rootDir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		cache:    cache,
		rootDir:  rootDir,
		debounce: debounce,
		watcher:  fw,
		pending:  make(map[string]time.Time),
	}, nil
}

// Watch blocks until the context is cancelled, invalidating cache entries
// for .py files that change under the root.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.addDirs(); err != nil {
		return err
	}
	slog.Info("watching for file changes", "dir", w.rootDir)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping watcher")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != w.rootDir {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				slog.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	// New directories need to be added to the watch set.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.watcher.Add(event.Name)
			return
		}
	}

	if filepath.Ext(event.Name) != ".py" {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = time.Now()
	w.pendingMu.Unlock()

	slog.Debug("file changed", "path", event.Name, "op", event.Op.String())
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	now := time.Now()
	for path, changedAt := range w.pending {
		if now.Sub(changedAt) < w.debounce {
			continue
		}
		delete(w.pending, path)
		w.cache.Invalidate(path)
		slog.Debug("invalidated cached tree", "path", path)
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
