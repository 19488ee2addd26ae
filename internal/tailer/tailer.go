package tailer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/whmcsguru/ExceptionParser/internal/logging"
	"github.com/whmcsguru/ExceptionParser/internal/model"
	"github.com/whmcsguru/ExceptionParser/internal/watcher"
)

// Tailer reads newly appended lines from watched files and emits RawLine
// values. Lines keep their terminator; an incomplete trailing line is held
// back until the rest of it is written, or emitted as-is when the file is
// rotated away.
type Tailer struct {
	mu        sync.Mutex
	files     map[string]*trackedFile
	out       chan model.RawLine
	events    <-chan watcher.Event
	watch     *watcher.Watcher
	fromStart bool
}

type trackedFile struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	partial string
}

// New creates a Tailer that reads events from the given Watcher. With
// fromStart set, existing content is emitted before new lines; otherwise
// tailing begins at the current end of each file.
func New(w *watcher.Watcher, fromStart bool) *Tailer {
	return &Tailer{
		files:     make(map[string]*trackedFile),
		out:       make(chan model.RawLine, 512),
		events:    w.Events,
		watch:     w,
		fromStart: fromStart,
	}
}

// Lines returns the channel where raw log lines are sent.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start begins processing watcher events. Blocks until context is cancelled
// or the watcher stops, then closes the Lines channel.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)
	defer t.closeAll()

	for _, p := range t.watch.Paths() {
		if t.openFile(p, t.fromStart) {
			t.readNewLines(ctx, p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.handleEvent(ctx, ev)
		}
	}
}

// handleEvent dispatches watcher events to the appropriate handler.
func (t *Tailer) handleEvent(ctx context.Context, ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// Recreated after rotation; read it whole.
		t.openFile(ev.Path, true)
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		// Drain what the old handle still holds before letting it go.
		t.readNewLines(ctx, ev.Path)
		t.closeFile(ctx, ev.Path)
	}
}

// openFile starts tracking path at its beginning or its end.
func (t *Tailer) openFile(path string, fromStart bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return true
	}

	f, err := os.Open(path)
	if err != nil {
		logging.Warn("cannot open file", "path", path, "error", err)
		return false
	}

	if !fromStart {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			logging.Warn("cannot seek to end", "path", path, "error", err)
		}
	}

	t.files[path] = &trackedFile{
		path:   path,
		file:   f,
		reader: bufio.NewReader(f),
	}
	logging.Debug("tailing file", "path", path, "from_start", fromStart)
	return true
}

// readNewLines reads up to EOF and emits every complete line.
func (t *Tailer) readNewLines(ctx context.Context, path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	for {
		chunk, err := tf.reader.ReadString('\n')
		if err != nil {
			tf.partial += chunk
			if !errors.Is(err, io.EOF) {
				logging.Warn("read error", "path", path, "error", err)
			}
			return
		}

		line := tf.partial + chunk
		tf.partial = ""

		select {
		case t.out <- model.RawLine{Text: line, Source: path}:
		case <-ctx.Done():
			return
		}
	}
}

// closeFile releases a tracked file, emitting any unterminated last line
// so it is not lost across rotation.
func (t *Tailer) closeFile(ctx context.Context, path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	delete(t.files, path)
	t.mu.Unlock()
	if !ok {
		return
	}

	tf.file.Close()
	logging.Debug("closed rotated file", "path", path)

	if tf.partial == "" {
		return
	}
	select {
	case t.out <- model.RawLine{Text: tf.partial, Source: path}:
	case <-ctx.Done():
	}
}

// closeAll closes all tracked file handles.
func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
