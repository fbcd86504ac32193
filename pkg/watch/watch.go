// Package watch reports debounced directory changes so a browser can
// refresh its listing when files change behind its back.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
)

// DefaultDebounce is used when a non-positive debounce is given.
const DefaultDebounce = 250 * time.Millisecond

// Change tells that the contents of Dir changed.
type Change struct {
	Dir string
}

// Watcher watches a set of folders. Only direct children are watched.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	events   chan Change
	fire     chan string
	done     chan struct{}
	stopped  chan struct{}

	mu     sync.Mutex
	dirs   map[string]bool
	timers map[string]*time.Timer

	closeOnce sync.Once
}

// New starts a watcher with no folders.
func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		events:   make(chan Change, 32),
		fire:     make(chan string, 32),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		dirs:     map[string]bool{},
		timers:   map[string]*time.Timer{},
	}
	go w.run()
	return w, nil
}

// Events delivers changes. It is closed by Close.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Watch replaces the watched folders with dirs.
func (w *Watcher) Watch(dirs ...string) error {
	logger := logging.GetLogger("watch")
	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[filepath.Clean(d)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for d := range w.dirs {
		if !want[d] {
			if err := w.fsw.Remove(d); err != nil {
				logger.Debug().Err(err).Str("dir", d).Msg("Failed to unwatch")
			}
			delete(w.dirs, d)
		}
	}
	for d := range want {
		if w.dirs[d] {
			continue
		}
		if err := w.fsw.Add(d); err != nil {
			return errors.FromFS(err, errors.ErrDirectoryNotFound, d)
		}
		w.dirs[d] = true
		logger.Debug().Str("dir", d).Msg("Watching")
	}
	return nil
}

// Watched returns the number of watched folders.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}

// Close stops the watcher and closes Events.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		<-w.stopped
	})
	return err
}

func (w *Watcher) run() {
	logger := logging.GetLogger("watch")
	defer close(w.stopped)
	defer close(w.events)
	defer w.stopTimers()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.schedule(w.dirFor(event.Name))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case dir := <-w.fire:
			select {
			case w.events <- Change{Dir: dir}:
			default:
				logger.Debug().Str("dir", dir).Msg("Change dropped, consumer is behind")
			}
		}
	}
}

// dirFor maps an event path to the watched folder it belongs to. Events
// on a watched folder itself count for that folder.
func (w *Watcher) dirFor(name string) string {
	name = filepath.Clean(name)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[name] {
		return name
	}
	return filepath.Dir(name)
}

func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[dir]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[dir] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, dir)
		w.mu.Unlock()
		select {
		case w.fire <- dir:
		case <-w.done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir, t := range w.timers {
		t.Stop()
		delete(w.timers, dir)
	}
}
