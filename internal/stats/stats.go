// Package stats computes the descriptive inventory and warranty statistics
// shown on the dashboard and by the stats command.
package stats

import (
	"context"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/metrics"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

// DefaultExpiringWindow is how far ahead a warranty counts as expiring soon.
const DefaultExpiringWindow = 30 * 24 * time.Hour

// Service computes statistics from the store.
type Service struct {
	store          *store.Store
	bus            *eventbus.Bus
	recorder       metrics.Recorder
	expiringWindow time.Duration
}

// New creates a statistics service. bus may be nil; recorder nil selects the
// no-op recorder; window <= 0 selects DefaultExpiringWindow.
func New(s *store.Store, bus *eventbus.Bus, recorder metrics.Recorder, window time.Duration) *Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if window <= 0 {
		window = DefaultExpiringWindow
	}
	return &Service{store: s, bus: bus, recorder: recorder, expiringWindow: window}
}

// Inventory computes the inventory summary.
func (s *Service) Inventory(ctx context.Context) (models.InventoryStats, error) {
	start := time.Now()
	var out models.InventoryStats

	counts := []struct {
		dst   *int
		count func(context.Context) (int, error)
		label string
	}{
		{&out.Categories, s.store.Categories().Count, "Category"},
		{&out.Products, s.store.Products().Count, "Product"},
		{&out.Manuals, s.store.Manuals().Count, "Manual"},
		{&out.Orders, s.store.Orders().Count, "Order"},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return models.InventoryStats{}, errors.WrapError(err, errors.CategoryPersistence, "count entities").Build()
		}
		*c.dst = n
		s.recorder.SetTrackedEntities(c.label, n)
	}

	total, err := s.store.SumPriceCents(ctx)
	if err != nil {
		return models.InventoryStats{}, err
	}
	out.TotalValueCents = total

	s.publishRefresh("inventory_stats", time.Since(start))
	return out, nil
}

// Warranties computes warranty coverage at now.
func (s *Service) Warranties(ctx context.Context, now time.Time) (models.WarrantyStats, error) {
	start := time.Now()

	all, err := s.store.Warranties().FetchAll(ctx)
	if err != nil {
		return models.WarrantyStats{}, err
	}

	out := models.WarrantyStats{ComputedAt: now}
	for _, w := range all {
		out.AccumulateWarranty(w.Status(now, s.expiringWindow))
	}

	s.publishRefresh("warranty_stats", time.Since(start))
	return out, nil
}

func (s *Service) publishRefresh(name string, d time.Duration) {
	if s.bus != nil {
		s.bus.Publish(eventbus.NewPerformance(name, d))
	}
}
