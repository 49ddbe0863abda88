// Package watch turns filesystem writes into Stack.Update calls: the
// concrete stand-in for "the editor" that spec.md's core assumes drives
// it. A real editor integration calls Update directly; this watcher
// drives the same call from file save events instead.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"codenerd/internal/logging"
	"codenerd/internal/pipeline"

	"github.com/fsnotify/fsnotify"
)

// ModuleWatcher watches a directory of Python modules and calls
// Stack.Update on write events. A path under <dir>/.overlay/ updates the
// corresponding module's overlay (inOverlay=true); any other .py path
// updates the base stack.
type ModuleWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	stack       *pipeline.Stack
	dir         string
	overlayDir  string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewModuleWatcher creates a watcher over dir for stack. dir/.overlay/
// is treated as the shadow tree for unsaved-buffer edits.
func NewModuleWatcher(stack *pipeline.Stack, dir string) (*ModuleWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ModuleWatcher{
		watcher:     watcher,
		stack:       stack,
		dir:         dir,
		overlayDir:  filepath.Join(dir, ".overlay"),
		debounceMap: make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching dir (and its .overlay subdirectory) for changes.
// Non-blocking: the event loop runs in a goroutine.
func (w *ModuleWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.overlayDir, 0755); err != nil {
		logging.WatchWarn("failed to create overlay dir %s: %v (continuing anyway)", w.overlayDir, err)
	}

	if err := w.watcher.Add(w.dir); err != nil {
		logging.WatchWarn("initial watch of %s failed: %v", w.dir, err)
	} else {
		logging.Watch("watching directory: %s", w.dir)
	}
	if err := w.watcher.Add(w.overlayDir); err != nil {
		logging.WatchWarn("initial watch of %s failed: %v", w.overlayDir, err)
	} else {
		logging.Watch("watching overlay directory: %s", w.overlayDir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *ModuleWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.WatchWarn("error closing watcher: %v", err)
	}
	logging.Watch("stopped")
}

func (w *ModuleWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.WatchWarn("watcher error: %v", err)
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *ModuleWatcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".py") {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *ModuleWatcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	ready := make([]string, 0, len(w.debounceMap))
	for path, seen := range w.debounceMap {
		if now.Sub(seen) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.applyUpdate(path)
	}
}

func (w *ModuleWatcher) applyUpdate(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.WatchWarn("failed to read %s: %v", path, err)
		return
	}

	inOverlay := strings.HasPrefix(path, w.overlayDir+string(filepath.Separator))

	var rel string
	if inOverlay {
		rel, err = filepath.Rel(w.overlayDir, path)
	} else {
		rel, err = filepath.Rel(w.dir, path)
	}
	if err != nil {
		logging.WatchWarn("failed to resolve module name for %s: %v", path, err)
		return
	}
	module := strings.TrimSuffix(rel, ".py")

	logging.WatchDebug("update module=%s in_overlay=%v path=%s", module, inOverlay, path)
	if _, err := w.stack.Update(module, string(data), inOverlay); err != nil {
		logging.WatchWarn("update failed for module=%s: %v", module, err)
	}
}
