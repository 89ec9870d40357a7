// Package watcher reports edits to the pulse config files.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period between two reported changes.
const DefaultDebounce = 100 * time.Millisecond

// ConfigWatcher watches config directories and calls onChange, debounced,
// when a pulse config file is written or created.
type ConfigWatcher struct {
	watcher      *fsnotify.Watcher
	debounce     time.Duration
	lastChange   time.Time
	mu           sync.Mutex
	logger       *logrus.Entry
	onChange     func(file string)
	targetToLink map[string]string // Maps target file paths to their symlink paths
}

// New creates a ConfigWatcher over dirs. Missing directories are skipped.
// fsnotify does not follow symlinks, so the directories of symlinked config
// files are watched as well.
func New(dirs []string, debounce time.Duration, logger *logrus.Entry, onChange func(string)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watchedDirs := make(map[string]bool)
	targetToLink := make(map[string]string)
	watch := func(dir string) {
		if dir == "" || watchedDirs[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			logger.WithError(err).Debugf("Not watching %s", dir)
			return
		}
		watchedDirs[dir] = true
		logger.Debugf("Watching config directory: %s", dir)
	}

	for _, dir := range dirs {
		watch(dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !isConfigFile(entry.Name()) {
				continue
			}
			fullPath := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil || info.Mode()&os.ModeSymlink == 0 {
				continue
			}
			target, err := filepath.EvalSymlinks(fullPath)
			if err != nil {
				logger.WithError(err).Warnf("Failed to resolve symlink %s", entry.Name())
				continue
			}
			targetToLink[target] = fullPath
			watch(filepath.Dir(target))
		}
	}

	return &ConfigWatcher{
		watcher:      watcher,
		debounce:     debounce,
		logger:       logger,
		onChange:     onChange,
		targetToLink: targetToLink,
	}, nil
}

// Start begins watching for config changes. It blocks until the context is cancelled.
func (w *ConfigWatcher) Start(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && isConfigFile(event.Name) {
				file := event.Name
				if link, ok := w.targetToLink[file]; ok {
					file = link
				}
				w.handleChange(file)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// handleChange processes a config file change with debouncing.
func (w *ConfigWatcher) handleChange(file string) {
	w.mu.Lock()
	elapsed := time.Since(w.lastChange)
	if elapsed < w.debounce {
		w.mu.Unlock()
		w.logger.Debugf("Debounced: %s (only %v since last change)", filepath.Base(file), elapsed)
		return
	}
	w.lastChange = time.Now()
	w.mu.Unlock()

	w.logger.Infof("Config changed: %s", filepath.Base(file))
	if w.onChange != nil {
		w.onChange(file)
	}
}

func isConfigFile(name string) bool {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, "pulse.") {
		return false
	}
	switch filepath.Ext(base) {
	case ".yml", ".yaml", ".toml":
		return true
	}
	return false
}
