package config

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDelay = 500 * time.Millisecond

// ConfigWatcher reloads the configuration when a file in the config
// directory changes. Only the physics and layout sections are applied at
// runtime; other changes need a restart.
type ConfigWatcher struct {
	loader    *Loader
	config    *Config
	callbacks []func(*Config)
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewConfigWatcher creates a watcher around the loader that produced initial.
func NewConfigWatcher(loader *Loader, initial *Config, logger *zap.Logger) *ConfigWatcher {
	return &ConfigWatcher{
		loader: loader,
		config: initial,
		logger: logger,
	}
}

// OnChange registers a callback to be called when configuration changes.
func (w *ConfigWatcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

// GetConfig returns the current configuration.
func (w *ConfigWatcher) GetConfig() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Run watches until ctx is done. Outside development it returns at once.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	if !w.GetConfig().IsDevelopment() {
		w.logger.Info("Configuration hot reloading disabled",
			zap.String("environment", string(w.GetConfig().Environment)),
		)
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.loader.BasePath()); err != nil {
		// A missing config directory is fine: there is nothing to reload.
		w.logger.Warn("Failed to watch config directory",
			zap.String("path", w.loader.BasePath()),
			zap.Error(err),
		)
		return nil
	}
	w.logger.Info("Configuration hot reloading enabled", zap.String("path", w.loader.BasePath()))

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isConfigFile(event.Name) {
				continue
			}
			w.logger.Debug("Configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() { w.Reload() })

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

// Reload loads the files again and notifies callbacks when the runtime
// sections changed. It reports whether callbacks ran. An invalid file keeps
// the current configuration.
func (w *ConfigWatcher) Reload() bool {
	next, err := w.loader.Load()
	if err != nil {
		w.logger.Error("Invalid configuration after reload", zap.Error(err))
		return false
	}

	w.mu.Lock()
	prev := w.config
	if reflect.DeepEqual(prev.Physics, next.Physics) && reflect.DeepEqual(prev.Layout, next.Layout) {
		w.mu.Unlock()
		w.logger.Debug("Configuration unchanged after reload")
		return false
	}
	w.config = next
	callbacks := append(([]func(*Config))(nil), w.callbacks...)
	w.mu.Unlock()

	for i, cb := range callbacks {
		w.notify(i, cb, next)
	}
	w.logger.Info("Configuration reloaded",
		zap.String("layoutMode", string(next.Layout.Mode)),
		zap.Duration("frameInterval", next.Layout.FrameInterval),
		zap.Int("callbacks", len(callbacks)),
	)
	return true
}

func (w *ConfigWatcher) notify(idx int, cb func(*Config), cfg *Config) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Config callback panicked",
				zap.Int("callback", idx),
				zap.Any("panic", r),
			)
		}
	}()
	cb(cfg)
}

func isConfigFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
