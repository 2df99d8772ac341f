package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce coalesces editor write bursts into one reload
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a config file on change and publishes valid results
// Invalid edits are logged and skipped, the last good config stays in effect
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	log     *zap.Logger
}

// Watch starts watching path, the directory is watched so atomic-rename saves are seen
func Watch(path string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	w := &Watcher{
		path:    path,
		watcher: fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	w.wg.Add(1)
	go w.watchLoop()
	return w, nil
}

// Updates delivers each successfully reloaded config, only the latest is kept if unread
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	debounce := time.NewTimer(reloadDebounce)
	debounce.Stop()
	defer debounce.Stop()

	name := filepath.Base(w.path)

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	// A renamed-away or deleted file would load as defaults, keep the running config instead
	if _, err := os.Stat(w.path); errors.Is(err, os.ErrNotExist) {
		w.log.Warn("config file missing, reload skipped", zap.String("path", w.path))
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn("config reload rejected", zap.String("path", w.path), zap.Error(err))
		return
	}

	// Replace an unread update with the newer one
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	w.log.Info("config reloaded", zap.String("path", w.path))
}

// Close stops the watcher goroutine and releases the inotify handle
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
