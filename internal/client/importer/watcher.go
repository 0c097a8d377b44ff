package importer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rjeczalik/notify"
)

const (
	dropEventBufferSize = 64
	dropDebounceTimeout = 500 * time.Millisecond
)

// DropWatcher watches a directory for CSV files and emits their paths once
// writes have settled. It is the CLI analogue of drag-and-drop intake: drop a
// file into the directory and it feeds the Upload stage.
type DropWatcher struct {
	dir      string
	debounce time.Duration

	rawEvents chan notify.EventInfo
	files     chan string
	done      chan struct{}
	wg        sync.WaitGroup

	debounceMu sync.Mutex
	timers     map[string]*time.Timer
	closed     bool
}

// NewDropWatcher watches dir for dropped CSV files.
func NewDropWatcher(dir string) *DropWatcher {
	return &DropWatcher{
		dir:      dir,
		debounce: dropDebounceTimeout,
		files:    make(chan string, dropEventBufferSize),
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
}

// SetDebounce overrides the settle window. Must be called before Start.
func (w *DropWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Files returns settled CSV paths, one per dropped file.
func (w *DropWatcher) Files() <-chan string {
	return w.files
}

// Start begins watching. Stop must be called to release the watch.
func (w *DropWatcher) Start(ctx context.Context) error {
	slog.Info("drop watcher start", "dir", w.dir)

	w.rawEvents = make(chan notify.EventInfo, dropEventBufferSize)
	if err := notify.Watch(w.dir, w.rawEvents, notify.Create, notify.Write); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.filterEvents(ctx)
	return nil
}

// Stop releases the watch and drains pending timers.
func (w *DropWatcher) Stop() {
	close(w.done)
	if w.rawEvents != nil {
		notify.Stop(w.rawEvents)
	}
	w.wg.Wait()
	slog.Info("drop watcher stopped")
}

func (w *DropWatcher) filterEvents(ctx context.Context) {
	defer func() {
		w.debounceMu.Lock()
		for _, timer := range w.timers {
			timer.Stop()
		}
		w.closed = true
		close(w.files)
		w.debounceMu.Unlock()

		w.wg.Done()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.rawEvents:
			if !ok {
				return
			}

			path := event.Path()
			if !strings.EqualFold(filepath.Ext(path), ".csv") {
				continue
			}

			// writes arrive in bursts while the file lands; re-arming the
			// timer keeps only the last trigger per path
			w.debounceEvent(path)
		}
	}
}

func (w *DropWatcher) debounceEvent(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}

	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.flushEvent(path)
	})
}

func (w *DropWatcher) flushEvent(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.closed {
		return
	}
	delete(w.timers, path)

	select {
	case w.files <- path:
	default:
		slog.Warn("drop watcher channel full, dropping file", "path", path)
	}
}
