package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/domain/planning"
)

// Watcher re-reads the configuration file when it changes on disk and
// swaps the active snapshot atomically. Invalid rewrites are logged and
// discarded; the last good configuration stays in effect. Planner
// tunables read through Params pick up changes without a restart.
type Watcher struct {
	path     string
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.RWMutex
	current  *Config
	onReload []func(*Config)
}

// NewWatcher creates a watcher seeded with the initial configuration.
func NewWatcher(path string, initial *Config, logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		logger:   logger.Named("config-watcher"),
		debounce: 250 * time.Millisecond,
		current:  initial,
	}
}

// Config returns the active configuration snapshot.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Params returns the active planner tunables. Pass this method as the
// planner service's params provider to make reloads take effect.
func (w *Watcher) Params() planning.Params {
	return w.Config().Planner.Params()
}

// OnReload registers a callback invoked with each accepted snapshot.
// Register before Start; registration is not synchronized with delivery.
func (w *Watcher) OnReload(fn func(*Config)) {
	w.onReload = append(w.onReload, fn)
}

// Start watches the configuration file until the context is canceled.
// It returns immediately with the watch running in the background.
func (w *Watcher) Start(ctx context.Context) error {
	if w.path == "" {
		w.logger.Debug("No config file to watch, reload disabled")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory rather than the file itself so atomic saves
	// (write to temp, rename over) keep being observed
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.run(ctx, watcher)

	w.logger.Info("Watching configuration file",
		zap.String("path", w.path),
	)
	return nil
}

func (w *Watcher) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timer *time.Timer
	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce bursts of events from a single save
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watch error", zap.Error(err))
		}
	}
}

// reload re-reads the file and swaps the snapshot if it validates.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("Rejecting config reload",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	w.logger.Info("Configuration reloaded",
		zap.String("path", w.path),
	)

	for _, fn := range w.onReload {
		fn(cfg)
	}
}
