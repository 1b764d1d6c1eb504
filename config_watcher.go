package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of fs events editors emit per save.
const reloadDebounce = 500 * time.Millisecond

// ConfigWatcher reloads the config file when it changes on disk and invokes
// a callback with the new config. The parent directory is watched rather
// than the file itself: saves are atomic renames, which would silently
// detach a direct file watch.
type ConfigWatcher struct {
	svc      *ConfigService
	watcher  *fsnotify.Watcher
	onReload func(Config)

	mu       sync.Mutex
	debounce *time.Timer
	done     chan struct{}
}

// NewConfigWatcher starts watching svc's config file. onReload runs on the
// watcher goroutine after each (debounced) change.
func NewConfigWatcher(svc *ConfigService, onReload func(Config)) (*ConfigWatcher, error) {
	dir := filepath.Dir(svc.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("config: cannot create config dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: cannot create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: cannot watch %s: %w", dir, err)
	}

	cw := &ConfigWatcher{
		svc:      svc,
		watcher:  watcher,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go cw.watchLoop()
	return cw, nil
}

func (cw *ConfigWatcher) watchLoop() {
	name := filepath.Base(cw.svc.Path())
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				cw.scheduleReload()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watch error: %v", err)
		case <-cw.done:
			return
		}
	}
}

// scheduleReload arms (or re-arms) the debounce timer.
func (cw *ConfigWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.debounce != nil {
		cw.debounce.Stop()
	}
	cw.debounce = time.AfterFunc(reloadDebounce, func() {
		log.Printf("config: file changed, reloading")
		cfg := cw.svc.Load()
		cw.onReload(cfg)
	})
}

// Close stops the watcher. Safe to call once.
func (cw *ConfigWatcher) Close() error {
	cw.mu.Lock()
	if cw.debounce != nil {
		cw.debounce.Stop()
	}
	cw.mu.Unlock()
	close(cw.done)
	return cw.watcher.Close()
}
