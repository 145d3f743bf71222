package screens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/manualbox/internal/models"
)

func TestSaveWarranty_Validation(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name     string
		warranty models.Warranty
	}{
		{"missing product", models.Warranty{
			StartsAt: now, ExpiresAt: now.AddDate(1, 0, 0),
		}},
		{"expiry before start", models.Warranty{
			ProductID: "prod-1", StartsAt: now, ExpiresAt: now.AddDate(-1, 0, 0),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps, s := testDeps(t)
			c := NewWarranties(s.Warranties(), deps)
			defer c.Cleanup()

			c.Send(SaveWarranty{Warranty: tt.warranty})
			require.Eventually(t, func() bool {
				return c.State().ErrorMessage() != ""
			}, waitFor, tick)

			n, err := s.Warranties().Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestSaveWarranty_CreateAndReload(t *testing.T) {
	deps, s := testDeps(t)
	c := NewWarranties(s.Warranties(), deps)
	defer c.Cleanup()

	now := time.Now().UTC()
	c.Send(SaveWarranty{Warranty: models.Warranty{
		ProductID: "prod-1",
		StartsAt:  now,
		ExpiresAt: now.AddDate(2, 0, 0),
	}})

	require.Eventually(t, func() bool {
		return len(c.State().Warranties) == 1
	}, waitFor, tick)

	got := c.State().Warranties[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "prod-1", got.ProductID)
	assert.Empty(t, c.State().ErrorMessage())
}

func TestWarrantiesState_Visible(t *testing.T) {
	now := time.Now().UTC()
	window := 30 * 24 * time.Hour
	state := WarrantiesState{
		Warranties: []models.Warranty{
			{ID: "w-active", ExpiresAt: now.AddDate(1, 0, 0)},
			{ID: "w-soon", ExpiresAt: now.Add(10 * 24 * time.Hour)},
			{ID: "w-expired", ExpiresAt: now.Add(-time.Hour)},
		},
	}

	all := state.Visible(now, window)
	assert.Len(t, all, 3)

	state.Filter = models.WarrantyExpiringSoon
	soon := state.Visible(now, window)
	require.Len(t, soon, 1)
	assert.Equal(t, "w-soon", soon[0].ID)

	state.Filter = models.WarrantyExpired
	expired := state.Visible(now, window)
	require.Len(t, expired, 1)
	assert.Equal(t, "w-expired", expired[0].ID)
}

func TestSetWarrantyFilter(t *testing.T) {
	deps, s := testDeps(t)
	c := NewWarranties(s.Warranties(), deps)
	defer c.Cleanup()

	c.Send(SetWarrantyFilter{Status: models.WarrantyExpired})
	require.Eventually(t, func() bool {
		return c.State().Filter == models.WarrantyExpired
	}, waitFor, tick)
}
