package store

import (
	"context"
	"database/sql"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/models"
)

type manualRepo Store

const manualCols = "id, product_id, title, format, content, source_url, created_at, updated_at"

func (r *manualRepo) FetchAll(ctx context.Context) ([]models.Manual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+manualCols+" FROM manuals ORDER BY title")
	if err != nil {
		return nil, persistErr(err, "query manuals")
	}
	defer rows.Close()

	var out []models.Manual
	for rows.Next() {
		m, err := scanManual(rows)
		if err != nil {
			return nil, persistErr(err, "scan manual")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "iterate manuals")
	}
	return out, nil
}

func (r *manualRepo) FetchByID(ctx context.Context, id string) (models.Manual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx,
		"SELECT "+manualCols+" FROM manuals WHERE id = ?", id)
	m, err := scanManual(row)
	if err == sql.ErrNoRows {
		return models.Manual{}, notFoundError("manual", id)
	}
	if err != nil {
		return models.Manual{}, persistErr(err, "fetch manual")
	}
	return m, nil
}

func (r *manualRepo) Create(ctx context.Context, m models.Manual) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO manuals ("+manualCols+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.ProductID, m.Title, string(m.Format), m.Content,
		nullString(m.SourceURL), m.CreatedAt.Unix(), m.UpdatedAt.Unix())
	if err != nil {
		return persistErr(err, "insert manual")
	}
	return nil
}

func (r *manualRepo) Save(ctx context.Context, m models.Manual) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE manuals SET product_id = ?, title = ?, format = ?, content = ?,
		 source_url = ?, updated_at = ? WHERE id = ?`,
		m.ProductID, m.Title, string(m.Format), m.Content,
		nullString(m.SourceURL), time.Now().Unix(), m.ID)
	if err != nil {
		return persistErr(err, "update manual")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("manual", m.ID)
	}
	return nil
}

func (r *manualRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM manuals WHERE id = ?", id)
	if err != nil {
		return persistErr(err, "delete manual")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("manual", id)
	}
	return nil
}

func (r *manualRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM manuals").Scan(&n); err != nil {
		return 0, persistErr(err, "count manuals")
	}
	return n, nil
}

func scanManual(row rowScanner) (models.Manual, error) {
	var m models.Manual
	var format string
	var sourceURL sql.NullString
	var created, updated int64
	if err := row.Scan(&m.ID, &m.ProductID, &m.Title, &format, &m.Content,
		&sourceURL, &created, &updated); err != nil {
		return models.Manual{}, err
	}
	m.Format = models.ManualFormat(format)
	m.SourceURL = optString(sourceURL)
	m.CreatedAt = time.Unix(created, 0).UTC()
	m.UpdatedAt = time.Unix(updated, 0).UTC()
	return m, nil
}
