package internal

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce collapses bursts of editor writes into one reload
const DefaultWatchDebounce = 200 * time.Millisecond

// CatalogWatcher reloads a catalog file when it changes on disk. Reloaded
// registries only affect sessions activated afterwards.
type CatalogWatcher struct {
	path     string
	debounce time.Duration
	onReload func(*MemoryRegistry)
	watcher  *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewCatalogWatcher watches path and calls onReload with each successfully
// parsed version. onReload runs on the watcher goroutine; hosts post it
// into their own loop.
func NewCatalogWatcher(path string, debounce time.Duration, onReload func(*MemoryRegistry)) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors replace files by rename, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, &StorageError{Path: abs, Op: "watch", Err: err}
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &CatalogWatcher{
		path:     abs,
		debounce: debounce,
		onReload: onReload,
		watcher:  watcher,
	}, nil
}

// Run processes events until ctx is cancelled, then closes the watcher
func (cw *CatalogWatcher) Run(ctx context.Context) error {
	defer cw.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			cw.mu.Lock()
			if cw.timer != nil {
				cw.timer.Stop()
			}
			cw.mu.Unlock()
			return ctx.Err()

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				cw.schedule()
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			LogWarn("Catalog watcher: %v", err)
		}
	}
}

func (cw *CatalogWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.debounce, cw.reload)
}

func (cw *CatalogWatcher) reload() {
	cat, err := LoadCatalogFile(cw.path)
	if err != nil {
		LogWarn("Catalog reload failed, keeping the previous version: %v", err)
		return
	}
	reg := cat.Registry()
	LogInfo("Reloaded catalog %s (%d sessions)", cw.path, reg.Len())
	if cw.onReload != nil {
		cw.onReload(reg)
	}
}
