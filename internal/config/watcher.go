package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when operating on a closed watcher.
var ErrWatcherClosed = errors.New("config watcher is closed")

// debounceDelay coalesces the burst of fsnotify events editors produce on
// save into one reload.
const debounceDelay = 100 * time.Millisecond

// Watcher reloads the configuration when the file changes on disk.
type Watcher struct {
	mu     sync.Mutex
	path   string
	fsw    *fsnotify.Watcher
	closed bool

	reloads chan Config
	errs    chan error
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Watch starts watching the configuration file at path. The file's
// directory is watched rather than the file itself so atomic-rename saves
// keep working.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		reloads: make(chan Config, 1),
		errs:    make(chan error, 1),
		closeCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Reloads returns the channel of freshly loaded configurations.
func (w *Watcher) Reloads() <-chan Config {
	return w.reloads
}

// Errors returns the channel of load and watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher. Safe to call twice.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	close(w.reloads)
	close(w.errs)
	return err
}

// processLoop debounces change events and republishes loaded configs.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				debounce.Reset(debounceDelay)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.sendError(err)
				continue
			}
			w.sendReload(cfg)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// sendReload delivers cfg, replacing a pending unread one.
func (w *Watcher) sendReload(cfg Config) {
	select {
	case w.reloads <- cfg:
	default:
		select {
		case <-w.reloads:
		default:
		}
		select {
		case w.reloads <- cfg:
		default:
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
