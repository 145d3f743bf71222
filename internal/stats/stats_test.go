package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/foundation"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.Categories().Create(ctx, models.Category{
		ID: uuid.NewString(), Name: "Kitchen", Icon: models.IconAppliance,
		Color: models.ColorGreen, CreatedAt: now, UpdatedAt: now,
	}))

	productID := uuid.NewString()
	require.NoError(t, s.Products().Create(ctx, models.Product{
		ID: productID, Name: "Blender", PriceCents: foundation.Some[int64](4500),
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, s.Products().Create(ctx, models.Product{
		ID: uuid.NewString(), Name: "Toaster", PriceCents: foundation.Some[int64](2500),
		CreatedAt: now, UpdatedAt: now,
	}))

	warranties := []time.Time{
		now.Add(365 * 24 * time.Hour), // active
		now.Add(10 * 24 * time.Hour),  // expiring soon
		now.Add(-24 * time.Hour),      // expired
	}
	for _, exp := range warranties {
		require.NoError(t, s.Warranties().Create(ctx, models.Warranty{
			ID: uuid.NewString(), ProductID: productID,
			StartsAt: now.AddDate(-1, 0, 0), ExpiresAt: exp,
			CreatedAt: now, UpdatedAt: now,
		}))
	}
	return s
}

func TestInventory(t *testing.T) {
	s := seedStore(t)
	svc := New(s, nil, nil, 0)

	got, err := svc.Inventory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, got.Categories)
	assert.Equal(t, 2, got.Products)
	assert.Equal(t, 0, got.Manuals)
	assert.Equal(t, int64(7000), got.TotalValueCents)
}

func TestWarranties_StatusBuckets(t *testing.T) {
	s := seedStore(t)
	svc := New(s, nil, nil, 30*24*time.Hour)

	got, err := svc.Warranties(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 1, got.Active)
	assert.Equal(t, 1, got.ExpiringSoon)
	assert.Equal(t, 1, got.Expired)
	assert.InDelta(t, 2.0/3.0, got.CoverageRatio(), 1e-9)
}

func TestStats_PublishPerformanceEvents(t *testing.T) {
	s := seedStore(t)
	bus := eventbus.New(10, nil)
	svc := New(s, bus, nil, 0)

	var names []string
	bus.Subscribe("PerformanceEvent", "test", func(e eventbus.Event) {
		names = append(names, e.(eventbus.PerformanceEvent).Name)
	})

	_, err := svc.Inventory(context.Background())
	require.NoError(t, err)
	_, err = svc.Warranties(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"inventory_stats", "warranty_stats"}, names)
}
