package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mbucchia/openxr-hostbridge/internal/xrlog"
)

// Watch starts a background goroutine that reloads the config file on
// every write/create event, publishing new snapshots that Current picks
// up immediately. The goroutine runs until stop is closed.
//
// Watching the containing directory rather than the file itself copes
// with editors that replace the file (write-to-temp then rename) rather
// than writing it in place.
func (w *Watcher) Watch(stop <-chan struct{}) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return err
	}

	go func() {
		defer fw.Close()
		for {
			select {
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(w.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				w.reload()
				xrlog.Logger().Info("config: reloaded", "path", w.path)
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				xrlog.Logger().Warn("config: watcher error", "error", err)
			case <-stop:
				return
			}
		}
	}()

	return nil
}
