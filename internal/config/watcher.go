package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/manualbox/internal/eventbus"
)

// Watcher monitors the configuration file and republishes a freshly loaded
// Config on every change, debounced against editor write bursts.
type Watcher struct {
	configPath string
	bus        *eventbus.Bus
	logger     *slog.Logger
	watcher    *fsnotify.Watcher
	reloadCh   chan struct{}
	debounce   time.Duration
	onReload   func(*Config)
}

// NewWatcher creates a watcher for configPath. onReload receives each
// successfully reloaded configuration; a nil bus disables event publication.
func NewWatcher(configPath string, bus *eventbus.Bus, logger *slog.Logger, onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		configPath: absPath,
		bus:        bus,
		logger:     logger,
		watcher:    fsw,
		reloadCh:   make(chan struct{}, 1),
		debounce:   2 * time.Second,
		onReload:   onReload,
	}, nil
}

// Start begins watching. It returns immediately; watching stops when ctx is
// cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	// Watching the directory survives rename-based saves.
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}

	w.logger.Info("watching configuration file", "path", w.configPath)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(w.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Rename):
				w.trigger()
			case event.Op.Has(fsnotify.Remove):
				w.logger.Warn("configuration file removed", "path", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.reloadCh <- struct{}{}:
	default:
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.reloadCh:
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
		case <-timerCh:
			timerCh = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.configPath)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous configuration",
			"path", w.configPath, "error", err)
		return
	}

	w.logger.Info("configuration reloaded", "path", w.configPath)
	if w.onReload != nil {
		w.onReload(cfg)
	}
	if w.bus != nil {
		w.bus.Publish(eventbus.NewConfigReloaded(w.configPath))
	}
}
