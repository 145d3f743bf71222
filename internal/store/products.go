package store

import (
	"context"
	"database/sql"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/models"
)

type productRepo Store

const productCols = "id, category_id, name, brand, model, notes, purchase_at, price_cents, created_at, updated_at"

func (r *productRepo) FetchAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productCols+" FROM products ORDER BY name")
	if err != nil {
		return nil, persistErr(err, "query products")
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, persistErr(err, "scan product")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "iterate products")
	}
	return out, nil
}

func (r *productRepo) FetchByID(ctx context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx,
		"SELECT "+productCols+" FROM products WHERE id = ?", id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return models.Product{}, notFoundError("product", id)
	}
	if err != nil {
		return models.Product{}, persistErr(err, "fetch product")
	}
	return p, nil
}

func (r *productRepo) Create(ctx context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO products ("+productCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, nullString(p.CategoryID), p.Name, nullString(p.Brand), nullString(p.Model),
		nullString(p.Notes), nullUnix(p.PurchaseAt), nullInt64(p.PriceCents),
		p.CreatedAt.Unix(), p.UpdatedAt.Unix())
	if err != nil {
		return persistErr(err, "insert product")
	}
	return nil
}

func (r *productRepo) Save(ctx context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET category_id = ?, name = ?, brand = ?, model = ?, notes = ?,
		 purchase_at = ?, price_cents = ?, updated_at = ? WHERE id = ?`,
		nullString(p.CategoryID), p.Name, nullString(p.Brand), nullString(p.Model),
		nullString(p.Notes), nullUnix(p.PurchaseAt), nullInt64(p.PriceCents),
		time.Now().Unix(), p.ID)
	if err != nil {
		return persistErr(err, "update product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("product", p.ID)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return persistErr(err, "delete product")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("product", id)
	}
	return nil
}

func (r *productRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, persistErr(err, "count products")
	}
	return n, nil
}

// SumPriceCents totals the recorded purchase prices, treating absent prices
// as zero. Used by the statistics service.
func (s *Store) SumPriceCents(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		"SELECT SUM(price_cents) FROM products").Scan(&total); err != nil {
		return 0, persistErr(err, "sum product prices")
	}
	return total.Int64, nil
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var categoryID, brand, model, notes sql.NullString
	var purchaseAt, priceCents sql.NullInt64
	var created, updated int64
	if err := row.Scan(&p.ID, &categoryID, &p.Name, &brand, &model, &notes,
		&purchaseAt, &priceCents, &created, &updated); err != nil {
		return models.Product{}, err
	}
	p.CategoryID = optString(categoryID)
	p.Brand = optString(brand)
	p.Model = optString(model)
	p.Notes = optString(notes)
	p.PurchaseAt = optUnix(purchaseAt)
	p.PriceCents = optInt64(priceCents)
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.UpdatedAt = time.Unix(updated, 0).UTC()
	return p, nil
}
