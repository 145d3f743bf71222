package models

import "time"

// InventoryStats summarizes the tracked inventory.
type InventoryStats struct {
	Categories      int   `json:"categories"`
	Products        int   `json:"products"`
	Manuals         int   `json:"manuals"`
	Orders          int   `json:"orders"`
	TotalValueCents int64 `json:"total_value_cents"`
}

// WarrantyStats summarizes warranty coverage at a point in time.
type WarrantyStats struct {
	Total        int       `json:"total"`
	Active       int       `json:"active"`
	ExpiringSoon int       `json:"expiring_soon"`
	Expired      int       `json:"expired"`
	ComputedAt   time.Time `json:"computed_at"`
}

// CoverageRatio returns the fraction of warranties still active (including
// those expiring soon); 0 when there are none.
func (s WarrantyStats) CoverageRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Active+s.ExpiringSoon) / float64(s.Total)
}

// AccumulateWarranty folds one warranty status into the stats.
func (s *WarrantyStats) AccumulateWarranty(status WarrantyStatus) {
	s.Total++
	switch status {
	case WarrantyActive:
		s.Active++
	case WarrantyExpiringSoon:
		s.ExpiringSoon++
	case WarrantyExpired:
		s.Expired++
	}
}
