// Package models holds the ManualBox domain value types: the tracked
// entities (categories, products, warranties, orders, manuals) and the
// descriptive statistics derived from them.
package models

import (
	"time"

	"git.home.luguber.info/inful/manualbox/internal/foundation"
)

// Category groups products for browsing.
type Category struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Icon      CategoryIcon              `json:"icon"`
	Color     CategoryColor             `json:"color"`
	Note      foundation.Option[string] `json:"note"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Product is one owned item.
type Product struct {
	ID         string                       `json:"id"`
	CategoryID foundation.Option[string]    `json:"category_id"`
	Name       string                       `json:"name"`
	Brand      foundation.Option[string]    `json:"brand"`
	Model      foundation.Option[string]    `json:"model"`
	Notes      foundation.Option[string]    `json:"notes"`
	PurchaseAt foundation.Option[time.Time] `json:"purchase_at"`
	PriceCents foundation.Option[int64]     `json:"price_cents"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

// Warranty covers a product for a period.
type Warranty struct {
	ID        string                    `json:"id"`
	ProductID string                    `json:"product_id"`
	Provider  foundation.Option[string] `json:"provider"`
	StartsAt  time.Time                 `json:"starts_at"`
	ExpiresAt time.Time                 `json:"expires_at"`
	Note      foundation.Option[string] `json:"note"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Status derives the warranty's display status at the given instant.
func (w Warranty) Status(now time.Time, expiringWindow time.Duration) WarrantyStatus {
	switch {
	case now.After(w.ExpiresAt):
		return WarrantyExpired
	case now.Add(expiringWindow).After(w.ExpiresAt):
		return WarrantyExpiringSoon
	default:
		return WarrantyActive
	}
}

// Order records where and when a product was bought.
type Order struct {
	ID          string                    `json:"id"`
	ProductID   string                    `json:"product_id"`
	Merchant    foundation.Option[string] `json:"merchant"`
	OrderNumber foundation.Option[string] `json:"order_number"`
	Status      OrderStatus               `json:"status"`
	PlacedAt    time.Time                 `json:"placed_at"`
	TotalCents  foundation.Option[int64]  `json:"total_cents"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

// Manual is a usage guide attached to a product, stored as Markdown or a
// pointer to an HTML document.
type Manual struct {
	ID        string                    `json:"id"`
	ProductID string                    `json:"product_id"`
	Title     string                    `json:"title"`
	Format    ManualFormat              `json:"format"`
	Content   string                    `json:"content"`
	SourceURL foundation.Option[string] `json:"source_url"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}
