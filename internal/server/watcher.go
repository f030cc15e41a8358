package server

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	debounceTime = 100 * time.Millisecond
)

// startWatcher watches the directory holding path, so editors that replace
// the file by rename are still seen, and reloads when path changes.
func (s *Server) startWatcher(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	s.wg.Add(1)
	go s.watchLoop(watcher, abs)

	s.log.Info("watching source for changes", "path", abs)
	return nil
}

func (s *Server) watchLoop(watcher *fsnotify.Watcher, path string) {
	defer s.wg.Done()
	defer watcher.Close()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event, path) {
				continue
			}

			s.log.Debug("source changed", "file", filepath.Base(event.Name), "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceTime, func() {
				if s.ctx.Err() == nil {
					s.reloadSafely("watch")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "err", err)
		}
	}
}

// shouldIgnoreEvent keeps writes and creates of the watched file.
func shouldIgnoreEvent(event fsnotify.Event, path string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return true
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return true
	}
	return name != path
}
