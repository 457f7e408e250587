// FILE: lixenwraith/flags/watch.go
package flags

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultMaxWatchers = 100

// Notifications sent on watch channels besides flag names.
const (
	NotifyReloadError = "reload_error"
	NotifyFileDeleted = "file_deleted"
)

// WatchOptions configures option-file watching.
type WatchOptions struct {
	// Debounce coalesces bursts of file events into one reload (minimum 10ms)
	Debounce time.Duration

	// MaxWatchers limits concurrent subscriber channels
	MaxWatchers int
}

func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		Debounce:    DefaultDebounce,
		MaxWatchers: DefaultMaxWatchers,
	}
}

// watcher re-applies one option file whenever it changes on disk.
type watcher struct {
	mu               sync.Mutex
	path             string
	opts             WatchOptions
	fsw              *fsnotify.Watcher
	running          atomic.Bool
	reloadInProgress atomic.Bool
	subscribers      map[int64]chan string
	nextID           atomic.Int64
	debounceTimer    *time.Timer
}

// WatchFlagfile is WatchFlagfileWithOptions with DefaultWatchOptions.
func (r *Registry) WatchFlagfile(path string) (<-chan string, error) {
	return r.WatchFlagfileWithOptions(path, DefaultWatchOptions())
}

// WatchFlagfileWithOptions re-reads path through ReadFromFlagsFile each time
// it changes and sends the names of flags whose value changed on the returned
// channel. A reload that fails is rolled back and reported as
// NotifyReloadError. Watching a different path stops the previous watcher.
func (r *Registry) WatchFlagfileWithOptions(path string, opts WatchOptions) (<-chan string, error) {
	if opts.Debounce < MinDebounce {
		opts.Debounce = MinDebounce
	}
	if opts.MaxWatchers <= 0 {
		opts.MaxWatchers = DefaultMaxWatchers
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve flagfile path '%s': %w", path, err)
	}

	r.watchMutex.Lock()
	defer r.watchMutex.Unlock()

	if r.watcher != nil && r.watcher.path == abs && r.watcher.running.Load() {
		return r.watcher.subscribe(), nil
	}
	if r.watcher != nil {
		r.watcher.stop()
		r.watcher = nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// The directory is watched so editors that replace the file by rename
	// keep being followed.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch '%s': %w", filepath.Dir(abs), err)
	}

	w := &watcher{
		path:        abs,
		opts:        opts,
		fsw:         fsw,
		subscribers: make(map[int64]chan string),
	}
	w.running.Store(true)
	r.watcher = w
	go w.loop(r)

	return w.subscribe(), nil
}

// StopWatching stops the option-file watcher and closes its channels.
func (r *Registry) StopWatching() {
	r.watchMutex.Lock()
	defer r.watchMutex.Unlock()

	if r.watcher != nil {
		r.watcher.stop()
		r.watcher = nil
	}
}

func (r *Registry) IsWatching() bool {
	r.watchMutex.Lock()
	defer r.watchMutex.Unlock()
	return r.watcher != nil && r.watcher.running.Load()
}

func (w *watcher) loop(r *Registry) {
	defer w.running.Store(false)

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove):
				w.notify(NotifyFileDeleted)
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.schedule(r)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			r.logger.Warn("flagfile watch error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

func (w *watcher) schedule(r *Registry) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, func() {
		w.reload(r)
	})
}

func (w *watcher) reload(r *Registry) {
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		return
	}
	defer w.reloadInProgress.Store(false)

	before := r.currentTexts()
	if err := r.ReadFromFlagsFile(w.path); err != nil {
		r.logger.Error("flagfile reload failed, flags restored",
			zap.String("path", w.path), zap.Error(err))
		w.notify(NotifyReloadError)
		return
	}

	for name, value := range r.currentTexts() {
		if before[name] != value {
			w.notify(name)
		}
	}
}

func (w *watcher) subscribe() <-chan string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.subscribers) >= w.opts.MaxWatchers {
		ch := make(chan string)
		close(ch)
		return ch
	}

	ch := make(chan string, 10)
	w.subscribers[w.nextID.Add(1)] = ch
	return ch
}

// notify never blocks; a full subscriber misses the message.
func (w *watcher) notify(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (w *watcher) stop() {
	w.fsw.Close()

	for i := 0; i < shutdownPollCycles && w.running.Load(); i++ {
		time.Sleep(SpinWaitInterval)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	for id, ch := range w.subscribers {
		close(ch)
		delete(w.subscribers, id)
	}
}

// currentTexts maps every flag name to its current value as text.
func (r *Registry) currentTexts() map[string]string {
	l := r.lock()
	defer l.unlock()

	texts := make(map[string]string, len(l.r.flags))
	for name, d := range l.r.flags {
		texts[name] = d.current.String()
	}
	return texts
}
