package alarm

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository persists alarm events across restarts.
type Repository interface {
	// Save stores one event. Saving an event that already exists is a
	// no-op, mirroring the in-memory duplicate rule.
	Save(ctx context.Context, ev Event) error

	// Recent returns up to limit events for one alarm, newest first.
	Recent(ctx context.Context, alarmID string, limit int) ([]Event, error)
}

// SQLiteRepository implements Repository on the embedded SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the repository and ensures its table exists.
func NewSQLiteRepository(ctx context.Context, db *sql.DB) (*SQLiteRepository, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS alarm_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			alarm_id    TEXT NOT NULL,
			event_type  TEXT NOT NULL,
			detail      TEXT NOT NULL DEFAULT '',
			smoke_level REAL,
			timestamp   TEXT NOT NULL,
			UNIQUE (alarm_id, event_type, timestamp)
		);
		CREATE INDEX IF NOT EXISTS idx_alarm_events_alarm_time
			ON alarm_events (alarm_id, timestamp DESC);
	`)
	if err != nil {
		return nil, fmt.Errorf("creating alarm_events table: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Save stores one event. The UNIQUE constraint plus INSERT OR IGNORE makes
// duplicate delivery harmless.
func (r *SQLiteRepository) Save(ctx context.Context, ev Event) error {
	if ev.AlarmID == "" {
		return ErrMissingAlarmID
	}

	var smoke sql.NullFloat64
	if ev.SmokeLevel != nil {
		smoke = sql.NullFloat64{Float64: *ev.SmokeLevel, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO alarm_events (alarm_id, event_type, detail, smoke_level, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.AlarmID,
		string(ev.EventType),
		ev.Detail,
		smoke,
		ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting alarm event: %w", err)
	}
	return nil
}

// Recent returns up to limit events for one alarm, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, alarmID string, limit int) ([]Event, error) {
	if alarmID == "" {
		return nil, ErrMissingAlarmID
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT alarm_id, event_type, detail, smoke_level, timestamp
		 FROM alarm_events
		 WHERE alarm_id = ?
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		alarmID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying alarm events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var ev Event
		var eventType string
		var smoke sql.NullFloat64
		var ts string

		if err := rows.Scan(&ev.AlarmID, &eventType, &ev.Detail, &smoke, &ts); err != nil {
			return nil, fmt.Errorf("scanning alarm event: %w", err)
		}

		ev.EventType = EventType(eventType)
		if smoke.Valid {
			v := smoke.Float64
			ev.SmokeLevel = &v
		}

		timestamp, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing alarm event timestamp: %w", err)
		}
		ev.Timestamp = timestamp

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alarm events: %w", err)
	}
	return events, nil
}

// Restore replays all persisted events for every alarm into the given log
// at startup, so history queries survive restarts. Call it before
// attaching the repository to the log, or every replayed event gets
// written straight back out.
func (r *SQLiteRepository) Restore(ctx context.Context, log *Log) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT alarm_id, event_type, detail, smoke_level, timestamp
		 FROM alarm_events
		 ORDER BY timestamp ASC`,
	)
	if err != nil {
		return fmt.Errorf("querying alarm events for restore: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev Event
		var eventType string
		var smoke sql.NullFloat64
		var ts string

		if err := rows.Scan(&ev.AlarmID, &eventType, &ev.Detail, &smoke, &ts); err != nil {
			return fmt.Errorf("scanning alarm event: %w", err)
		}
		ev.EventType = EventType(eventType)
		if smoke.Valid {
			v := smoke.Float64
			ev.SmokeLevel = &v
		}
		timestamp, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return fmt.Errorf("parsing alarm event timestamp: %w", err)
		}
		ev.Timestamp = timestamp

		if _, err := log.Append(ctx, ev); err != nil {
			return fmt.Errorf("replaying alarm event: %w", err)
		}
	}
	return rows.Err()
}
