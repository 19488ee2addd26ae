package watcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/whmcsguru/ExceptionParser/internal/logging"
	"github.com/whmcsguru/ExceptionParser/internal/source"
)

// Event is a change to one of the watched log files.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher reports changes to a fixed set of log files. It watches their
// parent directories rather than the files, so a file that is rotated away
// and recreated under the same name keeps producing events.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Events  chan Event
	paths   []string
	tracked map[string]bool
}

// New expands the patterns once and watches the directories holding the
// matches. Patterns matching nothing are skipped with a warning.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		Events:  make(chan Event, 256),
		tracked: make(map[string]bool),
	}

	dirs := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := source.Expand([]string{pattern})
		if err != nil {
			logging.Warn("skipping pattern", "pattern", pattern, "error", err)
			continue
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil || w.tracked[abs] {
				continue
			}

			dir := filepath.Dir(abs)
			if !dirs[dir] {
				if err := fsw.Add(dir); err != nil {
					logging.Warn("cannot watch directory", "dir", dir, "error", err)
					continue
				}
				dirs[dir] = true
			}
			w.tracked[abs] = true
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start forwards events for tracked files until the context is cancelled.
// Events for other files in the same directories are dropped.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&relevant == 0 || !w.tracked[filepath.Clean(ev.Name)] {
				continue
			}
			select {
			case w.Events <- Event{Path: filepath.Clean(ev.Name), Op: ev.Op}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("watcher error", "error", err)
		}
	}
}

// Paths returns the tracked files as absolute paths, in pattern order.
func (w *Watcher) Paths() []string {
	return w.paths
}

// Close releases the notification handle. It is only needed when Start is
// never called.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
