package expiry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/manualbox/internal/eventbus"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

func seedWarranties(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	now := time.Now().UTC()
	expiries := map[string]time.Time{
		"w-soon":    now.Add(10 * 24 * time.Hour),
		"w-later":   now.Add(90 * 24 * time.Hour),
		"w-expired": now.Add(-24 * time.Hour),
	}
	for id, exp := range expiries {
		require.NoError(t, s.Warranties().Create(ctx, models.Warranty{
			ID: id, ProductID: uuid.NewString(),
			StartsAt: now.AddDate(-1, 0, 0), ExpiresAt: exp,
			CreatedAt: now, UpdatedAt: now,
		}))
	}
	return s
}

func TestSweepPublishesOnlyWindowed(t *testing.T) {
	s := seedWarranties(t)
	bus := eventbus.New(16, nil)

	var events []eventbus.WarrantyExpiring
	bus.Subscribe("WarrantyExpiring", "test", func(e eventbus.Event) {
		events = append(events, e.(eventbus.WarrantyExpiring))
	})

	sw, err := NewSweeper(s, bus, nil, nil, 30*24*time.Hour)
	require.NoError(t, err)

	n := sw.Sweep(context.Background())
	assert.Equal(t, 1, n)
	require.Len(t, events, 1)
	assert.Equal(t, "w-soon", events[0].WarrantyID)
	assert.NotEmpty(t, events[0].ProductID)
}

func TestSweepEmptyStore(t *testing.T) {
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	bus := eventbus.New(16, nil)
	sw, err := NewSweeper(s, bus, nil, nil, 30*24*time.Hour)
	require.NoError(t, err)

	assert.Zero(t, sw.Sweep(context.Background()))
	assert.Empty(t, bus.History("WarrantyExpiring", 0))
}

func TestSweeperStartStop(t *testing.T) {
	s := seedWarranties(t)
	bus := eventbus.New(16, nil)
	sw, err := NewSweeper(s, bus, nil, nil, 30*24*time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, sw.Start(ctx, time.Hour))

	// The immediate first run announces the expiring warranty.
	require.Eventually(t, func() bool {
		return len(bus.History("WarrantyExpiring", 0)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sw.Stop())
}
