// Package watch reports changes to the items of a configs directory.
// Bursts of file system events are debounced into a single notification.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/typhoonworks/claude-config/internal/catalog"
)

// Watcher watches the category directories of a configs root.
type Watcher struct {
	root     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a Watcher for the configs tree at root. Category directories
// that do not exist yet are picked up when they are created.
func New(root string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{root: root, debounce: debounce, watcher: fw}

	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	for _, c := range catalog.Categories {
		w.addCategoryDir(filepath.Join(root, c.Dir))
	}

	return w, nil
}

// addCategoryDir starts watching dir if it exists.
func (w *Watcher) addCategoryDir(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		logDebug("[watch] not watching %s: %v", dir, err)
		return
	}
	logDebug("[watch] watching %s", dir)
}

// Run delivers debounced changes to onChange until ctx is cancelled.
// onChange receives the sorted paths that changed since the last call and
// runs on the Run goroutine. Returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !w.relevant(event) {
				continue
			}
			logDebug("[watch] %s", event)
			pending[event.Name] = true

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			clear(pending)
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether event touches a category directory or one of its
// items. Newly created category directories are added to the watch list.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}

	dir := filepath.Dir(event.Name)
	base := filepath.Base(event.Name)

	for _, c := range catalog.Categories {
		catDir := filepath.Join(w.root, c.Dir)
		if event.Name == catDir {
			if event.Has(fsnotify.Create) {
				w.addCategoryDir(catDir)
			}
			return true
		}
		if dir == catDir && strings.HasSuffix(base, c.Ext) {
			return true
		}
	}
	return false
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for watch operations.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}
