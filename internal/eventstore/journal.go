// Package eventstore persists bus events to SQLite so event history outlives
// the process. The journal implements eventbus.Archiver and is attached to
// the bus at startup.
package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/eventbus"
)

// Record is one journaled event row. EntityID is empty for events that do not
// concern a single entity.
type Record struct {
	Seq       int64           `json:"seq"`
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	EntityID  string          `json:"entity_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Journal is a SQLite-backed append-only event log.
// Use ":memory:" for tests.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the journal database and initializes the schema.
func Open(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPersistence, "open event journal").
			WithContext("path", dbPath).Build()
	}

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, errors.WrapError(err, errors.CategoryPersistence, "initialize journal schema").Build()
	}
	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		entity_id TEXT,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type);
	CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Archive implements eventbus.Archiver: the full concrete event is stored as
// the JSON payload, with the concerned entity's ID indexed separately so
// per-entity history stays queryable.
func (j *Journal) Archive(event eventbus.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.WrapError(err, errors.CategoryPersistence, "marshal event payload").
			WithContext("event_type", event.Type()).Build()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err = j.db.Exec(
		"INSERT INTO events (event_id, event_type, entity_id, timestamp, payload) VALUES (?, ?, ?, ?, ?)",
		event.ID(), event.Type(), nullEntityID(event), event.Timestamp().Unix(), payload)
	if err != nil {
		return errors.WrapError(err, errors.CategoryPersistence, "insert event").
			WithContext("event_type", event.Type()).Build()
	}
	return nil
}

// nullEntityID extracts the concerned entity's ID from events that carry one.
func nullEntityID(event eventbus.Event) any {
	switch e := event.(type) {
	case eventbus.DataChangeEvent:
		return e.EntityID
	case eventbus.NavigationEvent:
		if e.EntityID != "" {
			return e.EntityID
		}
	case eventbus.WarrantyExpiring:
		return e.WarrantyID
	}
	return nil
}

// GetByType retrieves up to limit records of the given type, newest first.
// limit <= 0 returns all.
func (j *Journal) GetByType(ctx context.Context, eventType string, limit int) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	query := "SELECT " + recordCols + " FROM events WHERE event_type = ? ORDER BY seq DESC"
	args := []any{eventType}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPersistence, "query events").Build()
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByEntity retrieves up to limit records concerning the given entity,
// newest first. limit <= 0 returns all.
func (j *Journal) GetByEntity(ctx context.Context, entityID string, limit int) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	query := "SELECT " + recordCols + " FROM events WHERE entity_id = ? ORDER BY seq DESC"
	args := []any{entityID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPersistence, "query events").
			WithContext("entity_id", entityID).Build()
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetRange retrieves records within a time range, oldest first.
func (j *Journal) GetRange(ctx context.Context, start, end time.Time) ([]Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT "+recordCols+" FROM events WHERE timestamp >= ? AND timestamp <= ? ORDER BY seq",
		start.Unix(), end.Unix())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryPersistence, "query events").Build()
	}
	defer rows.Close()

	return scanRecords(rows)
}

const recordCols = "seq, event_id, event_type, entity_id, timestamp, payload"

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		var entity sql.NullString
		var ts int64
		var payload []byte
		if err := rows.Scan(&r.Seq, &r.EventID, &r.EventType, &entity, &ts, &payload); err != nil {
			return nil, errors.WrapError(err, errors.CategoryPersistence, "scan event").Build()
		}
		r.EntityID = entity.String
		r.Timestamp = time.Unix(ts, 0).UTC()
		r.Payload = payload
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryPersistence, "iterate events").Build()
	}
	return out, nil
}

// Close closes the journal and releases resources.
func (j *Journal) Close() error {
	return j.db.Close()
}
