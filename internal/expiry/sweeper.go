// Package expiry runs the periodic warranty sweep: warranties entering their
// expiry window are announced on the event bus so screens and the journal can
// react without polling the store.
package expiry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/logfields"
	"git.home.luguber.info/inful/manualbox/internal/metrics"
	"git.home.luguber.info/inful/manualbox/internal/models"
)

// ExpiringFetcher is the store-side contract: warranties whose expiry falls
// inside (from, until].
type ExpiringFetcher interface {
	FetchExpiringBefore(ctx context.Context, from, until time.Time) ([]models.Warranty, error)
}

// Sweeper periodically scans for warranties entering the expiry window and
// publishes one WarrantyExpiring event per warranty per sweep.
type Sweeper struct {
	fetcher   ExpiringFetcher
	bus       *eventbus.Bus
	recorder  metrics.Recorder
	logger    *slog.Logger
	window    time.Duration
	scheduler gocron.Scheduler
}

// NewSweeper creates a sweeper with the given expiring window.
func NewSweeper(fetcher ExpiringFetcher, bus *eventbus.Bus, recorder metrics.Recorder, logger *slog.Logger, window time.Duration) (*Sweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		fetcher:   fetcher,
		bus:       bus,
		recorder:  recorder,
		logger:    logger,
		window:    window,
		scheduler: s,
	}, nil
}

// Start schedules the sweep at the given interval and runs the first sweep
// immediately.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.Sweep(ctx) }),
		gocron.WithName("warranty-sweep"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule warranty sweep: %w", err)
	}

	s.logger.Info("starting warranty sweeper", "interval", interval, "window", s.window)
	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (s *Sweeper) Stop() error {
	s.logger.Info("stopping warranty sweeper")
	return s.scheduler.Shutdown()
}

// Sweep runs one scan and returns how many warranties were announced.
func (s *Sweeper) Sweep(ctx context.Context) int {
	start := time.Now()
	now := start.UTC()

	expiring, err := s.fetcher.FetchExpiringBefore(ctx, now, now.Add(s.window))
	if err != nil {
		s.logger.Error("warranty sweep failed", logfields.Error(err))
		return 0
	}

	for _, w := range expiring {
		s.bus.Publish(eventbus.NewWarrantyExpiring(w.ID, w.ProductID, w.ExpiresAt))
	}

	s.recorder.ObserveSweepDuration(time.Since(start))
	if len(expiring) > 0 {
		s.logger.Info("warranty sweep found expiring warranties", logfields.Count(len(expiring)))
	} else {
		s.logger.Debug("warranty sweep found nothing expiring")
	}
	return len(expiring)
}
