package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches a catalog drop directory and loads files as they appear.
// Writers that stream a file in produce a burst of events, so loads are
// debounced per path.
type Watcher struct {
	dir        string
	extensions []string
	loader     *Loader
	logger     *zap.Logger

	watcher     *fsnotify.Watcher
	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	debounce    time.Duration
	started     bool
}

// NewWatcher creates a watcher over dir for files with the given extensions.
func NewWatcher(dir string, extensions []string, loader *Loader, logger *zap.Logger) *Watcher {
	return &Watcher{
		dir:         dir,
		extensions:  extensions,
		loader:      loader,
		logger:      logger,
		debounce:    defaultDebounce,
		debounceMap: make(map[string]*time.Timer),
	}
}

// Start loads any files already present, then watches for new ones until ctx
// is cancelled.
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
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	w.mu.Unlock()

	w.logger.Info("watching catalog drop directory", zap.String("dir", w.dir))
	w.loadExisting(ctx)
	go w.run(ctx)
	return nil
}

func (w *Watcher) loadExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("failed to list drop directory", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if w.matches(path) {
			w.load(ctx, path)
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.scheduleLoad(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) scheduleLoad(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.debounceMap[path]; ok {
		timer.Stop()
	}
	w.debounceMap[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()
		w.load(ctx, path)
	})
}

func (w *Watcher) load(ctx context.Context, path string) {
	result, err := w.loader.LoadFile(ctx, path)
	if err != nil {
		w.logger.Error("catalog file load failed", zap.String("path", path), zap.Error(err))
		return
	}
	for _, item := range result.Failed {
		w.logger.Warn("catalog record rejected",
			zap.String("path", path),
			zap.String("property_id", item.ID),
			zap.String("reason", item.Reason))
	}
}

func (w *Watcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
