package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period before a changed file is reloaded.
const DefaultDebounceInterval = 100 * time.Millisecond

// Watcher reloads a configuration file into a Source when the file changes.
// It watches the file's directory so editors that replace the file are seen.
type Watcher struct {
	path     string
	source   *Source
	logger   *slog.Logger
	interval time.Duration
	load     func(path string) (*Config, error)

	// OnReload, if set, is called after every reload attempt
	OnReload func(cfg *Config, err error)
}

// NewWatcher creates a watcher that reloads path into source with
// LoadConfigWithEnvOverrides.
func NewWatcher(path string, source *Source, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		source:   source,
		logger:   logger,
		interval: DefaultDebounceInterval,
		load:     LoadConfigWithEnvOverrides,
	}
}

// SetDebounceInterval overrides DefaultDebounceInterval.
func (w *Watcher) SetDebounceInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// Watch blocks until ctx is cancelled. A file that fails to load or
// validate is logged and the previous configuration stays in place.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", w.path, err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(abs), err)
	}

	debounce := newDebouncer(w.interval)
	defer debounce.stop()

	w.logger.Info("config watcher started",
		"path", abs,
		"debounce_ms", w.interval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !relevant(event, abs) {
				continue
			}

			w.logger.Debug("config file event", "path", event.Name, "op", event.Op.String())
			debounce.trigger(w.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := w.load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous configuration",
			"path", w.path,
			"error", err,
		)
	} else {
		w.source.Store(cfg)
		w.logger.Info("config reloaded",
			"path", w.path,
			"active_provider", cfg.ActiveProvider,
			"failover_provider", cfg.FailoverProvider,
		)
	}

	if w.OnReload != nil {
		w.OnReload(cfg, err)
	}
}

// relevant reports whether event touches the watched file.
func relevant(event fsnotify.Event, abs string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == abs
}

// debouncer collects rapid events and runs the last callback after a quiet period.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			callback()
		}
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
