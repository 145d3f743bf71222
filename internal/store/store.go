// Package store implements the persistence collaborator over SQLite. Every
// repository follows the same contract: FetchAll, FetchByID, Create, Save,
// Delete, Count — context-aware, failing with classifiable persistence
// errors. Use ":memory:" as the path for tests.
package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/foundation"
	"git.home.luguber.info/inful/manualbox/internal/models"
)

// CategoryRepo is the persistence contract for categories.
type CategoryRepo interface {
	FetchAll(ctx context.Context) ([]models.Category, error)
	FetchByID(ctx context.Context, id string) (models.Category, error)
	Create(ctx context.Context, c models.Category) error
	Save(ctx context.Context, c models.Category) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ProductRepo is the persistence contract for products.
type ProductRepo interface {
	FetchAll(ctx context.Context) ([]models.Product, error)
	FetchByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p models.Product) error
	Save(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// WarrantyRepo is the persistence contract for warranties.
type WarrantyRepo interface {
	FetchAll(ctx context.Context) ([]models.Warranty, error)
	FetchByID(ctx context.Context, id string) (models.Warranty, error)
	Create(ctx context.Context, w models.Warranty) error
	Save(ctx context.Context, w models.Warranty) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ManualRepo is the persistence contract for manuals.
type ManualRepo interface {
	FetchAll(ctx context.Context) ([]models.Manual, error)
	FetchByID(ctx context.Context, id string) (models.Manual, error)
	Create(ctx context.Context, m models.Manual) error
	Save(ctx context.Context, m models.Manual) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// OrderRepo is the persistence contract for orders.
type OrderRepo interface {
	FetchAll(ctx context.Context) ([]models.Order, error)
	FetchByID(ctx context.Context, id string) (models.Order, error)
	Create(ctx context.Context, o models.Order) error
	Save(ctx context.Context, o models.Order) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Store bundles all entity repositories over one SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database at dbPath and initializes the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPersistence, "open database").
			WithContext("path", dbPath).Build()
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryPersistence, "initialize schema").Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		icon TEXT NOT NULL,
		color TEXT NOT NULL,
		note TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		category_id TEXT,
		name TEXT NOT NULL,
		brand TEXT,
		model TEXT,
		notes TEXT,
		purchase_at INTEGER,
		price_cents INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS warranties (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		provider TEXT,
		starts_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		note TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS manuals (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		title TEXT NOT NULL,
		format TEXT NOT NULL,
		content TEXT NOT NULL,
		source_url TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL,
		merchant TEXT,
		order_number TEXT,
		status TEXT NOT NULL,
		placed_at INTEGER NOT NULL,
		total_cents INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
	CREATE INDEX IF NOT EXISTS idx_warranties_product ON warranties(product_id);
	CREATE INDEX IF NOT EXISTS idx_warranties_expires ON warranties(expires_at);
	CREATE INDEX IF NOT EXISTS idx_manuals_product ON manuals(product_id);
	CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Categories returns the category repository.
func (s *Store) Categories() CategoryRepo { return (*categoryRepo)(s) }

// Products returns the product repository.
func (s *Store) Products() ProductRepo { return (*productRepo)(s) }

// Warranties returns the warranty repository.
func (s *Store) Warranties() WarrantyRepo { return (*warrantyRepo)(s) }

// Manuals returns the manual repository.
func (s *Store) Manuals() ManualRepo { return (*manualRepo)(s) }

// Orders returns the order repository.
func (s *Store) Orders() OrderRepo { return (*orderRepo)(s) }

// NotFound reports whether err is the not-found persistence error.
func NotFound(err error) bool {
	ce, ok := err.(*errors.ClassifiedError)
	return ok && ce.Reason == reasonNotFound
}

const reasonNotFound = "not_found"

func notFoundError(entity, id string) *errors.ClassifiedError {
	return errors.PersistenceError(entity+" not found").
		WithReason(reasonNotFound).
		Build().
		WithContext("id", id)
}

func persistErr(err error, op string) error {
	return errors.WrapError(err, errors.CategoryPersistence, op).Build()
}

// nullString maps Option[string] to a nullable column value.
func nullString(o foundation.Option[string]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

// nullInt64 maps Option[int64] to a nullable column value.
func nullInt64(o foundation.Option[int64]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

// nullUnix maps Option[time.Time] to a nullable unix-seconds column value.
func nullUnix(o foundation.Option[time.Time]) any {
	if v, ok := o.Get(); ok {
		return v.Unix()
	}
	return nil
}

func optUnix(ni sql.NullInt64) foundation.Option[time.Time] {
	if ni.Valid {
		return foundation.Some(time.Unix(ni.Int64, 0).UTC())
	}
	return foundation.None[time.Time]()
}

func optString(ns sql.NullString) foundation.Option[string] {
	if ns.Valid {
		return foundation.Some(ns.String)
	}
	return foundation.None[string]()
}

func optInt64(ni sql.NullInt64) foundation.Option[int64] {
	if ni.Valid {
		return foundation.Some(ni.Int64)
	}
	return foundation.None[int64]()
}
