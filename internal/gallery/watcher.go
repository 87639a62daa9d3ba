package gallery

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tuikit.dev/almanac/internal/config"
	"tuikit.dev/almanac/internal/logger"
)

// SettingsWatcher reloads the settings file as it changes on disk, so an
// edit in another terminal reconfigures the running gallery.
type SettingsWatcher struct {
	watcher       *fsnotify.Watcher
	path          string
	changes       chan config.Settings
	done          chan struct{}
	debounceTimer *time.Timer
}

// NewSettingsWatcher creates a watcher for the settings file at path.
func NewSettingsWatcher(path string) (*SettingsWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &SettingsWatcher{
		watcher: fsWatcher,
		path:    path,
		changes: make(chan config.Settings, 1),
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the settings file's directory. Editors replace
// files rather than writing in place, so the directory is watched and
// events are filtered by name.
func (w *SettingsWatcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch settings directory: %w", err)
	}

	go w.watch()
	return nil
}

// Stop stops the watcher. The changes channel stays open: a debounce
// callback may still be mid-reload, and its send is gated on done instead.
func (w *SettingsWatcher) Stop() {
	close(w.done)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.watcher.Close()
}

// Changes returns the channel of reloaded settings.
func (w *SettingsWatcher) Changes() <-chan config.Settings {
	return w.changes
}

// Done returns a channel that closes when the watcher stops.
func (w *SettingsWatcher) Done() <-chan struct{} {
	return w.done
}

func (w *SettingsWatcher) watch() {
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(debounceDelay, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("settings watcher error", "error", err)
		}
	}
}

func (w *SettingsWatcher) reload() {
	s, err := config.LoadSettings(w.path)
	if err != nil {
		logger.Warn("settings reload failed", "path", w.path, "error", err)
		return
	}

	// Drop any stale queued reload so the newest settings win.
	select {
	case <-w.changes:
	default:
	}

	select {
	case <-w.done:
	case w.changes <- s:
		logger.Debug("settings reloaded", "path", w.path)
	}
}
