package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Logger is the subset of the service logger the watcher needs
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// ConfigWatcher watches configuration files for changes and triggers reloads
type ConfigWatcher struct {
	configManager *ConfigManager
	watcher       *fsnotify.Watcher
	logger        Logger
	watchPaths    []string
	mu            sync.RWMutex
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTime  time.Duration
	lastReload    time.Time
}

// NewConfigWatcher creates a new configuration watcher
func NewConfigWatcher(configManager *ConfigManager, logger Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &ConfigWatcher{
		configManager: configManager,
		watcher:       watcher,
		logger:        logger,
		stopChan:      make(chan struct{}),
		debounceTime:  500 * time.Millisecond,
	}, nil
}

// SetDebounceTime sets the debounce time for reload events
func (cw *ConfigWatcher) SetDebounceTime(duration time.Duration) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.debounceTime = duration
}

// AddWatchPath adds a path to watch for configuration changes.
// The parent directory is watched so editors that replace the file are seen.
func (cw *ConfigWatcher) AddWatchPath(path string) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	dir := filepath.Dir(path)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	cw.watchPaths = append(cw.watchPaths, path)
	return nil
}

// Start starts the configuration watcher
func (cw *ConfigWatcher) Start() error {
	cw.mu.RLock()
	paths := append([]string(nil), cw.watchPaths...)
	cw.mu.RUnlock()

	if len(paths) == 0 {
		return fmt.Errorf("no watch paths configured")
	}

	cw.logger.Info("Starting config watcher", "paths", paths)

	go cw.watchLoop()
	return nil
}

// Stop stops the configuration watcher
func (cw *ConfigWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopChan)
		if err := cw.watcher.Close(); err != nil {
			cw.logger.Error("Error closing file watcher", "error", err)
		}
	})
}

// watchLoop is the main watcher loop
func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleFileEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Config watcher error", "error", err)

		case <-cw.stopChan:
			return
		}
	}
}

// handleFileEvent handles file system events
func (cw *ConfigWatcher) handleFileEvent(event fsnotify.Event) {
	if !cw.isWatchedFile(event.Name) {
		return
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	cw.mu.RLock()
	sinceLastReload := time.Since(cw.lastReload)
	debounce := cw.debounceTime
	cw.mu.RUnlock()

	if sinceLastReload < debounce {
		return
	}

	go func() {
		select {
		case <-time.After(debounce):
			cw.triggerReload(event.Name)
		case <-cw.stopChan:
		}
	}()
}

// isWatchedFile checks if a file is in our watch list
func (cw *ConfigWatcher) isWatchedFile(filename string) bool {
	cw.mu.RLock()
	defer cw.mu.RUnlock()

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return false
	}

	for _, watchPath := range cw.watchPaths {
		absWatchPath, err := filepath.Abs(watchPath)
		if err != nil {
			continue
		}

		if absFilename == absWatchPath {
			return true
		}
	}

	return false
}

// triggerReload triggers a configuration reload
func (cw *ConfigWatcher) triggerReload(filename string) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Several events inside one debounce window collapse into one reload
	if time.Since(cw.lastReload) < cw.debounceTime {
		return
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		cw.logger.Error("Config file no longer exists", "file", filename)
		return
	}

	cw.lastReload = time.Now()

	if err := cw.configManager.Reload(); err != nil {
		cw.logger.Error("Failed to reload configuration", "file", filename, "error", err)
		return
	}

	cw.logger.Info("Configuration reloaded", "file", filename)
}
