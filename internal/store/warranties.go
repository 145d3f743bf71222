package store

import (
	"context"
	"database/sql"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/models"
)

type warrantyRepo Store

const warrantyCols = "id, product_id, provider, starts_at, expires_at, note, created_at, updated_at"

func (r *warrantyRepo) FetchAll(ctx context.Context) ([]models.Warranty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+warrantyCols+" FROM warranties ORDER BY expires_at")
	if err != nil {
		return nil, persistErr(err, "query warranties")
	}
	defer rows.Close()

	var out []models.Warranty
	for rows.Next() {
		w, err := scanWarranty(rows)
		if err != nil {
			return nil, persistErr(err, "scan warranty")
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "iterate warranties")
	}
	return out, nil
}

func (r *warrantyRepo) FetchByID(ctx context.Context, id string) (models.Warranty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx,
		"SELECT "+warrantyCols+" FROM warranties WHERE id = ?", id)
	w, err := scanWarranty(row)
	if err == sql.ErrNoRows {
		return models.Warranty{}, notFoundError("warranty", id)
	}
	if err != nil {
		return models.Warranty{}, persistErr(err, "fetch warranty")
	}
	return w, nil
}

// FetchExpiringBefore returns warranties that expire after `from` and on or
// before `until`, soonest first. The expiry sweeper drives this query.
func (s *Store) FetchExpiringBefore(ctx context.Context, from, until time.Time) ([]models.Warranty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+warrantyCols+" FROM warranties WHERE expires_at > ? AND expires_at <= ? ORDER BY expires_at",
		from.Unix(), until.Unix())
	if err != nil {
		return nil, persistErr(err, "query expiring warranties")
	}
	defer rows.Close()

	var out []models.Warranty
	for rows.Next() {
		w, err := scanWarranty(rows)
		if err != nil {
			return nil, persistErr(err, "scan warranty")
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "iterate warranties")
	}
	return out, nil
}

func (r *warrantyRepo) Create(ctx context.Context, w models.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO warranties ("+warrantyCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		w.ID, w.ProductID, nullString(w.Provider), w.StartsAt.Unix(), w.ExpiresAt.Unix(),
		nullString(w.Note), w.CreatedAt.Unix(), w.UpdatedAt.Unix())
	if err != nil {
		return persistErr(err, "insert warranty")
	}
	return nil
}

func (r *warrantyRepo) Save(ctx context.Context, w models.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE warranties SET product_id = ?, provider = ?, starts_at = ?, expires_at = ?,
		 note = ?, updated_at = ? WHERE id = ?`,
		w.ProductID, nullString(w.Provider), w.StartsAt.Unix(), w.ExpiresAt.Unix(),
		nullString(w.Note), time.Now().Unix(), w.ID)
	if err != nil {
		return persistErr(err, "update warranty")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("warranty", w.ID)
	}
	return nil
}

func (r *warrantyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM warranties WHERE id = ?", id)
	if err != nil {
		return persistErr(err, "delete warranty")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("warranty", id)
	}
	return nil
}

func (r *warrantyRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM warranties").Scan(&n); err != nil {
		return 0, persistErr(err, "count warranties")
	}
	return n, nil
}

func scanWarranty(row rowScanner) (models.Warranty, error) {
	var w models.Warranty
	var provider, note sql.NullString
	var starts, expires, created, updated int64
	if err := row.Scan(&w.ID, &w.ProductID, &provider, &starts, &expires,
		&note, &created, &updated); err != nil {
		return models.Warranty{}, err
	}
	w.Provider = optString(provider)
	w.Note = optString(note)
	w.StartsAt = time.Unix(starts, 0).UTC()
	w.ExpiresAt = time.Unix(expires, 0).UTC()
	w.CreatedAt = time.Unix(created, 0).UTC()
	w.UpdatedAt = time.Unix(updated, 0).UTC()
	return w, nil
}
