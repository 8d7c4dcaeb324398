package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/types"
)

// ReloadCallback receives a freshly loaded config, or the error that
// prevented loading it
type ReloadCallback func(*types.SiteConfig, error)

// ReloadManager watches a site config file and re-reads it after edits
// settle. Only settings that are safe to change mid-simulation should be
// applied by callbacks.
type ReloadManager struct {
	configPath     string
	manager        *Manager
	logger         logger.Logger
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	lastModTime    time.Time
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	cancel         context.CancelFunc
	done           chan struct{}
	mu             sync.Mutex
}

// NewReloadManager creates a reload manager for configPath
func NewReloadManager(configPath string, log logger.Logger) *ReloadManager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ReloadManager{
		configPath:     configPath,
		manager:        NewManager(),
		logger:         log.WithComponent("config"),
		debouncePeriod: 300 * time.Millisecond,
	}
}

// AddCallback registers a callback for reload results
func (rm *ReloadManager) AddCallback(callback ReloadCallback) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.callbacks = append(rm.callbacks, callback)
}

// SetDebouncePeriod sets how long edits must settle before a reload
func (rm *ReloadManager) SetDebouncePeriod(period time.Duration) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.debouncePeriod = period
}

// Start watches the config file's directory until ctx is done or Stop is called
func (rm *ReloadManager) Start(ctx context.Context) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.watcher != nil {
		return fmt.Errorf("already watching configuration file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(rm.configPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	if stat, err := os.Stat(rm.configPath); err == nil {
		rm.lastModTime = stat.ModTime()
	}

	ctx, rm.cancel = context.WithCancel(ctx)
	rm.watcher = watcher
	rm.done = make(chan struct{})
	go rm.watchLoop(ctx, watcher, rm.done)

	rm.logger.Debug("Started watching configuration file", logger.WithField("path", rm.configPath))
	return nil
}

// Stop ends watching and waits for the watch loop to exit
func (rm *ReloadManager) Stop() {
	rm.mu.Lock()
	if rm.watcher == nil {
		rm.mu.Unlock()
		return
	}
	rm.cancel()
	if rm.debounceTimer != nil {
		rm.debounceTimer.Stop()
		rm.debounceTimer = nil
	}
	watcher, done := rm.watcher, rm.done
	rm.watcher = nil
	rm.mu.Unlock()

	<-done
	if err := watcher.Close(); err != nil {
		rm.logger.Warn("Error closing file watcher", logger.WithField("error", err))
	}
	rm.logger.Debug("Stopped watching configuration file")
}

// TriggerReload re-reads the config immediately, ignoring the modification time
func (rm *ReloadManager) TriggerReload() {
	rm.reload(true)
}

func (rm *ReloadManager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !rm.isConfigFileEvent(event.Name) {
				continue
			}
			if event.Op&fsnotify.Remove == fsnotify.Remove {
				rm.notify(nil, fmt.Errorf("configuration file was removed: %s", rm.configPath))
				continue
			}
			rm.debounce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			rm.logger.Error("Configuration file watcher error", logger.WithField("error", err))
			rm.notify(nil, err)
		}
	}
}

// isConfigFileEvent matches the config file and the temp files editors save through
func (rm *ReloadManager) isConfigFileEvent(eventPath string) bool {
	name := filepath.Base(rm.configPath)
	base := filepath.Base(eventPath)
	return base == name || (strings.HasPrefix(base, name) && strings.HasSuffix(base, ".tmp"))
}

func (rm *ReloadManager) debounce() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.debounceTimer != nil {
		rm.debounceTimer.Stop()
	}
	rm.debounceTimer = time.AfterFunc(rm.debouncePeriod, func() { rm.reload(false) })
}

func (rm *ReloadManager) reload(force bool) {
	stat, err := os.Stat(rm.configPath)
	if err != nil {
		rm.notify(nil, fmt.Errorf("failed to stat configuration file: %w", err))
		return
	}

	rm.mu.Lock()
	if !force && !stat.ModTime().After(rm.lastModTime) {
		rm.mu.Unlock()
		return
	}
	rm.lastModTime = stat.ModTime()
	rm.mu.Unlock()

	cfg, err := rm.manager.LoadConfig(rm.configPath)
	if err != nil {
		rm.logger.Error("Failed to reload configuration", logger.WithField("error", err))
		rm.notify(nil, err)
		return
	}

	rm.logger.Info("Configuration reloaded",
		logger.WithField("weather", cfg.Weather.Mode),
		logger.WithField("logLevel", cfg.LogLevel))
	rm.notify(cfg, nil)
}

func (rm *ReloadManager) notify(cfg *types.SiteConfig, err error) {
	rm.mu.Lock()
	callbacks := make([]ReloadCallback, len(rm.callbacks))
	copy(callbacks, rm.callbacks)
	rm.mu.Unlock()

	for _, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					rm.logger.Error("Reload callback panic recovered", logger.WithField("panic", r))
				}
			}()
			cb(cfg, err)
		}()
	}
}
