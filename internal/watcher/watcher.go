// Package watcher triggers a reindex when papers under the docs directory
// change on disk.
package watcher

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

const debounce = 2 * time.Second

type Watcher struct {
	fs     *fsnotify.Watcher
	logger logr.Logger
	done   chan struct{}
}

// Watch observes dir for .tex changes and calls onChange after the burst of
// filesystem events settles. Close stops the watch.
func Watch(dir string, onChange func(), l logr.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, err
	}

	w := &Watcher{fs: fs, logger: l, done: make(chan struct{})}
	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".tex" {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Info("Docs changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error(err, "Watcher error")
		case <-timer.C:
			onChange()
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
