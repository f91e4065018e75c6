package watcher

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Profile files whose changes warrant a rebuild. Browsers replace these
// atomically via rename, so the directory is watched rather than the files.
var watchedFiles = map[string]bool{
	"Bookmarks": true,
	"History":   true,
}

// Watcher observes a browser profile directory and fires onChange once per
// coalesced change batch. Source data always arrives as a wholesale
// refresh, so a full rebuild is the only action ever taken.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	done     chan struct{}
}

// New starts watching profileDir. onChange runs on the watcher's goroutine
// after each quiet period of debounce.
func New(profileDir string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(profileDir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: NewDebouncer(debounce, onChange),
		done:     make(chan struct{}),
	}
	go w.loop()

	slog.Info("watcher_started",
		slog.String("dir", profileDir),
		slog.Duration("debounce", debounce))
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("profile_change",
				slog.String("file", filepath.Base(event.Name)),
				slog.String("op", event.Op.String()))
			w.debounce.Trigger()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher_error", slog.String("error", err.Error()))
		}
	}
}

// relevant filters events down to the profile files that feed the index.
// Journal and WAL sidecars count as History activity.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	if watchedFiles[base] {
		return true
	}
	return strings.HasPrefix(base, "History-")
}

// Close stops the watcher and cancels any pending rebuild.
func (w *Watcher) Close() error {
	close(w.done)
	w.debounce.Stop()
	return w.fsw.Close()
}
