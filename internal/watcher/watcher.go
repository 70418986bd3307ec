// Package watcher notifies subscribers when the item database changes on disk.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/newhook/outlook/internal/logging"
	"github.com/newhook/outlook/internal/pubsub"
)

// DefaultDebounce coalesces bursts of writes, such as a transaction touching
// the database and its journal.
const DefaultDebounce = 100 * time.Millisecond

// EventKind identifies a watcher event.
type EventKind string

// DBChanged is published after the database settles following a write.
const DBChanged EventKind = "db_changed"

// WatcherEvent is the payload published to subscribers.
type WatcherEvent struct {
	Type EventKind
	Path string
	At   time.Time
}

// Config configures a Watcher.
type Config struct {
	DBPath      string
	DebounceDur time.Duration
}

// DefaultConfig watches dbPath with DefaultDebounce.
func DefaultConfig(dbPath string) Config {
	return Config{DBPath: dbPath, DebounceDur: DefaultDebounce}
}

// Watcher watches the directory holding the database so that journal files
// and atomic replacements are noticed too.
type Watcher struct {
	cfg    Config
	fsw    *fsnotify.Watcher
	broker *pubsub.Broker[WatcherEvent]

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("watcher: database path is required")
	}
	if cfg.DebounceDur <= 0 {
		cfg.DebounceDur = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		cfg:    cfg,
		fsw:    fsw,
		broker: pubsub.NewBroker[WatcherEvent](),
		done:   make(chan struct{}),
	}, nil
}

// Broker returns the broker events are published on.
func (w *Watcher) Broker() *pubsub.Broker[WatcherEvent] {
	return w.broker
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return errors.New("watcher: already started")
	}

	dir := filepath.Dir(w.cfg.DBPath)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.started = true

	w.wg.Add(1)
	go w.loop()
	logging.Debug("watching database", "path", w.cfg.DBPath, "debounce", w.cfg.DebounceDur)
	return nil
}

// Stop stops watching and closes all subscriptions. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	w.broker.Shutdown()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(evt) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("database watcher error", "error", err)
		}
	}
}

// relevant reports whether evt concerns the database or one of its
// -journal, -wal or -shm companions.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) && !evt.Has(fsnotify.Remove) {
		return false
	}
	base := filepath.Base(w.cfg.DBPath)
	name := filepath.Base(evt.Name)
	return name == base || strings.HasPrefix(name, base+"-")
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.DebounceDur, func() {
		w.broker.Publish(pubsub.UpdatedEvent, WatcherEvent{
			Type: DBChanged,
			Path: w.cfg.DBPath,
			At:   time.Now(),
		})
	})
}
