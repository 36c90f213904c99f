package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"mdpreview/internal/domain"
)

const (
	createEventsTable = `CREATE TABLE IF NOT EXISTS log_events (
		id BIGSERIAL PRIMARY KEY,
		ts TIMESTAMPTZ NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL
	);`
	createEventsIndex = `CREATE INDEX IF NOT EXISTS idx_log_events_ts ON log_events (ts);`
	insertEvent       = `INSERT INTO log_events (ts, level, message) VALUES ($1, $2, $3);`
)

// EventStore appends log events to the log_events table. The schema is
// created on first successful use.
type EventStore struct {
	DB  *DB
	DSN string

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewEventStore returns a store for dsn.
func NewEventStore(db *DB, dsn string) *EventStore {
	return &EventStore{DB: db, DSN: dsn}
}

func (s *EventStore) ensureSchema(ctx context.Context, db *sql.DB) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	if _, err := db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create log_events: %w", err)
	}
	if _, err := db.ExecContext(ctx, createEventsIndex); err != nil {
		return fmt.Errorf("create log_events index: %w", err)
	}
	s.schemaReady = true
	return nil
}

// AppendEvent inserts ev.
func (s *EventStore) AppendEvent(ctx context.Context, ev domain.LogEvent) error {
	db, err := s.DB.Get(s.DSN)
	if err != nil {
		return err
	}
	if err := s.ensureSchema(ctx, db); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, insertEvent, ev.Timestamp, string(ev.Level), ev.Message); err != nil {
		return fmt.Errorf("insert log event: %w", err)
	}
	return nil
}
