package store

import (
	"context"
	"database/sql"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/models"
)

type orderRepo Store

const orderCols = "id, product_id, merchant, order_number, status, placed_at, total_cents, created_at, updated_at"

func (r *orderRepo) FetchAll(ctx context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderCols+" FROM orders ORDER BY placed_at DESC")
	if err != nil {
		return nil, persistErr(err, "query orders")
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, persistErr(err, "scan order")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "iterate orders")
	}
	return out, nil
}

func (r *orderRepo) FetchByID(ctx context.Context, id string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id = ?", id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return models.Order{}, notFoundError("order", id)
	}
	if err != nil {
		return models.Order{}, persistErr(err, "fetch order")
	}
	return o, nil
}

func (r *orderRepo) Create(ctx context.Context, o models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO orders ("+orderCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		o.ID, o.ProductID, nullString(o.Merchant), nullString(o.OrderNumber),
		string(o.Status), o.PlacedAt.Unix(), nullInt64(o.TotalCents),
		o.CreatedAt.Unix(), o.UpdatedAt.Unix())
	if err != nil {
		return persistErr(err, "insert order")
	}
	return nil
}

func (r *orderRepo) Save(ctx context.Context, o models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET product_id = ?, merchant = ?, order_number = ?, status = ?,
		 placed_at = ?, total_cents = ?, updated_at = ? WHERE id = ?`,
		o.ProductID, nullString(o.Merchant), nullString(o.OrderNumber), string(o.Status),
		o.PlacedAt.Unix(), nullInt64(o.TotalCents), time.Now().Unix(), o.ID)
	if err != nil {
		return persistErr(err, "update order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("order", o.ID)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return persistErr(err, "delete order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("order", id)
	}
	return nil
}

func (r *orderRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&n); err != nil {
		return 0, persistErr(err, "count orders")
	}
	return n, nil
}

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	var merchant, orderNumber sql.NullString
	var status string
	var totalCents sql.NullInt64
	var placed, created, updated int64
	if err := row.Scan(&o.ID, &o.ProductID, &merchant, &orderNumber, &status,
		&placed, &totalCents, &created, &updated); err != nil {
		return models.Order{}, err
	}
	o.Merchant = optString(merchant)
	o.OrderNumber = optString(orderNumber)
	o.Status = models.OrderStatus(status)
	o.TotalCents = optInt64(totalCents)
	o.PlacedAt = time.Unix(placed, 0).UTC()
	o.CreatedAt = time.Unix(created, 0).UTC()
	o.UpdatedAt = time.Unix(updated, 0).UTC()
	return o, nil
}
