package models

import (
	"testing"
	"time"
)

func TestWarrantyStatus(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	window := 30 * 24 * time.Hour

	tests := []struct {
		name      string
		expiresAt time.Time
		want      WarrantyStatus
	}{
		{"far future", now.AddDate(1, 0, 0), WarrantyActive},
		{"just outside window", now.Add(window + time.Hour), WarrantyActive},
		{"inside window", now.Add(10 * 24 * time.Hour), WarrantyExpiringSoon},
		{"already expired", now.Add(-time.Minute), WarrantyExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Warranty{ExpiresAt: tt.expiresAt}
			if got := w.Status(now, window); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWarrantyStatsAccumulate(t *testing.T) {
	var s WarrantyStats
	for _, status := range []WarrantyStatus{
		WarrantyActive, WarrantyActive, WarrantyExpiringSoon, WarrantyExpired,
	} {
		s.AccumulateWarranty(status)
	}

	if s.Total != 4 || s.Active != 2 || s.ExpiringSoon != 1 || s.Expired != 1 {
		t.Errorf("stats = %+v", s)
	}
	if got := s.CoverageRatio(); got != 0.75 {
		t.Errorf("CoverageRatio() = %v, want 0.75", got)
	}
}

func TestWarrantyStatsCoverageEmpty(t *testing.T) {
	var s WarrantyStats
	if got := s.CoverageRatio(); got != 0 {
		t.Errorf("CoverageRatio() on empty stats = %v, want 0", got)
	}
}

func TestStatusLabels(t *testing.T) {
	if WarrantyExpiringSoon.Label() != "Expiring soon" {
		t.Errorf("label = %q", WarrantyExpiringSoon.Label())
	}
	if OrderStatus("bogus").Label() != "Unknown" {
		t.Errorf("unknown order status label = %q", OrderStatus("bogus").Label())
	}
}
