package store

import (
	"context"
	"database/sql"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/models"
)

type categoryRepo Store

const categoryCols = "id, name, icon, color, note, created_at, updated_at"

func (r *categoryRepo) FetchAll(ctx context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryCols+" FROM categories ORDER BY name")
	if err != nil {
		return nil, persistErr(err, "query categories")
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, persistErr(err, "scan category")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr(err, "iterate categories")
	}
	return out, nil
}

func (r *categoryRepo) FetchByID(ctx context.Context, id string) (models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRowContext(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE id = ?", id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return models.Category{}, notFoundError("category", id)
	}
	if err != nil {
		return models.Category{}, persistErr(err, "fetch category")
	}
	return c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO categories ("+categoryCols+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, string(c.Icon), string(c.Color), nullString(c.Note),
		c.CreatedAt.Unix(), c.UpdatedAt.Unix())
	if err != nil {
		return persistErr(err, "insert category")
	}
	return nil
}

func (r *categoryRepo) Save(ctx context.Context, c models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, icon = ?, color = ?, note = ?, updated_at = ? WHERE id = ?",
		c.Name, string(c.Icon), string(c.Color), nullString(c.Note),
		time.Now().Unix(), c.ID)
	if err != nil {
		return persistErr(err, "update category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("category", c.ID)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return persistErr(err, "delete category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundError("category", id)
	}
	return nil
}

func (r *categoryRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n); err != nil {
		return 0, persistErr(err, "count categories")
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var icon, color string
	var note sql.NullString
	var created, updated int64
	if err := row.Scan(&c.ID, &c.Name, &icon, &color, &note, &created, &updated); err != nil {
		return models.Category{}, err
	}
	c.Icon = models.CategoryIcon(icon)
	c.Color = models.CategoryColor(color)
	c.Note = optString(note)
	c.CreatedAt = time.Unix(created, 0).UTC()
	c.UpdatedAt = time.Unix(updated, 0).UTC()
	return c, nil
}
