package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/manualbox/internal/bridge"
	"git.home.luguber.info/inful/manualbox/internal/config"
	"git.home.luguber.info/inful/manualbox/internal/container"
	"git.home.luguber.info/inful/manualbox/internal/errlog"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/eventstore"
	"git.home.luguber.info/inful/manualbox/internal/expiry"
	"git.home.luguber.info/inful/manualbox/internal/metrics"
	"git.home.luguber.info/inful/manualbox/internal/recovery"
	"git.home.luguber.info/inful/manualbox/internal/screens"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

// runServe wires the full application: store, bus, journal, screen
// containers, warranty sweeper, config watcher, and the optional metrics
// endpoint and NATS bridge. It blocks until SIGINT/SIGTERM.
func runServe(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The config file may refine logging; --verbose still wins.
	if !CLI.Verbose {
		logger = configuredLogger(cfg.Logging)
		slog.SetDefault(logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	bus := eventbus.New(cfg.Events.HistoryCapacity, logger)
	sink := errlog.NewSink(cfg.Errors.LogCapacity, logger)

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		bus.SetRecorder(recorder)

		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux(reg)}
		go func() {
			logger.Info("metrics endpoint listening", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutCtx)
		}()
	}

	if cfg.Data.JournalPath != "" {
		journal, err := eventstore.Open(cfg.Data.JournalPath)
		if err != nil {
			return err
		}
		defer journal.Close()
		bus.SetArchiver(journal)
	}

	deps := container.Deps{
		Bus:      bus,
		Sink:     sink,
		Recorder: recorder,
		Logger:   logger,
		Advisor:  recovery.NewAdvisor(recovery.DefaultPolicy()),
	}
	categories := screens.NewCategories(s.Categories(), deps)
	products := screens.NewProducts(s.Products(), deps)
	warranties := screens.NewWarranties(s.Warranties(), deps)
	defer categories.Cleanup()
	defer products.Cleanup()
	defer warranties.Cleanup()

	categories.Send(screens.LoadCategories{})
	products.Send(screens.LoadProducts{})
	warranties.Send(screens.LoadWarranties{})

	sweeper, err := expiry.NewSweeper(s, bus, recorder, logger, cfg.Expiry.Window)
	if err != nil {
		return err
	}
	if err := sweeper.Start(ctx, cfg.Expiry.SweepInterval); err != nil {
		return err
	}
	defer sweeper.Stop()

	if cfg.Bridge.Enabled {
		br, err := bridge.New(cfg.Bridge, bus, logger)
		if err != nil {
			return fmt.Errorf("start event bridge: %w", err)
		}
		br.Start()
		defer br.Stop()
	}

	watcher, err := config.NewWatcher(configPath, bus, logger, nil)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Close()

	logger.Info("manualbox running", "database", cfg.Data.DatabasePath)
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func configuredLogger(lc config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch lc.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func metricsMux(reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	return mux
}

// runInit writes the example configuration.
func runInit(configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", configPath)
	return nil
}
