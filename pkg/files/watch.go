package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"flowp/pkg/logging"
)

// Event is the kind of change reported by a Watcher.
type Event int

const (
	New Event = iota + 1
	Change
	Delete
)

func (e Event) String() string {
	switch e {
	case New:
		return "NEW"
	case Change:
		return "CHANGE"
	case Delete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// DefaultDebounce is how long a path must stay quiet before its event is
// delivered.
const DefaultDebounce = 100 * time.Millisecond

// Callback receives debounced events. Callbacks run one at a time on the
// watcher's goroutine and must not call Stop.
type Callback func(path string, event Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period collapsing bursts of events per path.
// Zero delivers every event as soon as it arrives.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher reports changes below a root directory for files matching its
// patterns. Directories are watched recursively, hidden ones excepted.
type Watcher struct {
	root     string
	patterns []string
	callback Callback
	debounce time.Duration

	fsw      *fsnotify.Watcher
	pending  map[string]*pendingEvent
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
}

type pendingEvent struct {
	event    Event
	deadline time.Time
}

// Watch starts watching root. patterns use doublestar syntax and are matched
// against slash-separated paths relative to root; no pattern matches every
// file.
func Watch(root string, patterns []string, callback Callback, opts ...Option) (*Watcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:     abs,
		patterns: patterns,
		callback: callback,
		debounce: DefaultDebounce,
		fsw:      fsw,
		pending:  make(map[string]*pendingEvent),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(abs, false); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.loop()
	logging.Debug("Watcher", "Watching %s for %v", abs, patterns)
	return w, nil
}

// addTree watches dir and its subdirectories. When announce is set, files
// found on the way are reported as new: they may have been created before
// the watch was in place.
func (w *Watcher) addTree(dir string, announce bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if announce {
			w.schedule(path, New)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	var due <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")

		case <-due:
			w.flush(time.Now())
		}

		if next, ok := w.nextDeadline(); ok {
			timer.Reset(time.Until(next))
			due = timer.C
		} else {
			due = nil
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	var event Event
	switch {
	case ev.Op.Has(fsnotify.Create):
		event = New
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(ev.Name), ".") {
				if err := w.addTree(ev.Name, true); err != nil {
					logging.Warn("Watcher", "Failed to watch new directory %s: %v", ev.Name, err)
				}
			}
			return
		}
	case ev.Op.Has(fsnotify.Write):
		event = Change
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		event = Delete
	default:
		return
	}
	w.schedule(ev.Name, event)
}

// schedule records an event for path, merging it with a pending one.
func (w *Watcher) schedule(path string, event Event) {
	if !w.matches(path) {
		return
	}
	if p, ok := w.pending[path]; ok {
		event = mergeEvents(p.event, event)
	}
	w.pending[path] = &pendingEvent{event: event, deadline: time.Now().Add(w.debounce)}
}

// mergeEvents collapses two successive events on one path.
func mergeEvents(old, new Event) Event {
	if new == Delete {
		return Delete
	}
	if old == New {
		return New
	}
	return new
}

func (w *Watcher) matches(path string) bool {
	if len(w.patterns) == 0 {
		return true
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) nextDeadline() (time.Time, bool) {
	var next time.Time
	for _, p := range w.pending {
		if next.IsZero() || p.deadline.Before(next) {
			next = p.deadline
		}
	}
	return next, !next.IsZero()
}

// flush delivers the events whose quiet period is over, oldest first.
func (w *Watcher) flush(now time.Time) {
	type due struct {
		path string
		p    *pendingEvent
	}
	var ready []due
	for path, p := range w.pending {
		if !p.deadline.After(now) {
			ready = append(ready, due{path, p})
		}
	}
	slices.SortFunc(ready, func(a, b due) int {
		return a.p.deadline.Compare(b.p.deadline)
	})
	for _, d := range ready {
		delete(w.pending, d.path)
		logging.Debug("Watcher", "%s %s", d.p.event, d.path)
		w.callback(d.path, d.p.event)
	}
}

// Stop halts the watcher and waits for its goroutine to exit. Pending
// events are dropped. It is safe to call Stop more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.done
		w.stopErr = w.fsw.Close()
		logging.Debug("Watcher", "Stopped watching %s", w.root)
	})
	return w.stopErr
}

// StopWhen blocks until done returns true or timeout elapses, then stops
// the watcher. It reports whether done returned true.
func (w *Watcher) StopWhen(done func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	ok := done()
	for !ok && time.Now().Before(deadline) {
		<-ticker.C
		ok = done()
	}
	if err := w.Stop(); err != nil {
		logging.Warn("Watcher", "Error closing watcher: %v", err)
	}
	return ok
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string {
	return w.root
}
