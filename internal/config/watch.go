package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration when its file changes on disk.
type Watcher struct {
	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch observes path and calls onReload with each successfully parsed
// new configuration. The parent directory is watched, not the file,
// because editors typically replace the file on save. Reload failures
// are logged and the previous configuration stays in effect.
func Watch(path string, log *slog.Logger, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{fw: fw, done: make(chan struct{})}
	go w.run(path, log, onReload)
	return w, nil
}

func (w *Watcher) run(path string, log *slog.Logger, onReload func(*Config)) {
	// coalesce the burst of events a single save produces
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(100 * time.Millisecond)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warn("config watch error", "error", err)
		case <-pending:
			pending = nil
			cfg, err := LoadFromPath(path)
			if err != nil {
				log.Warn("config reload failed, keeping previous", "path", path, "error", err)
				continue
			}
			log.Info("config reloaded", "path", path)
			onReload(cfg)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
