package relay

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/robotalks/relay.go/pkg/relay/msgs"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	relay TEXT NOT NULL,
	received_at INTEGER NOT NULL,
	fields TEXT NOT NULL,
	raw BLOB
);
CREATE INDEX IF NOT EXISTS records_received_at ON records(received_at);
`

// SQLiteSink archives records in a SQLite database.
type SQLiteSink struct {
	DB *sql.DB
}

// OpenSQLiteSink opens (or creates) the archive at path.
func OpenSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %v", err)
	}
	if _, err := db.ExecContext(ctx, recordsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %v", err)
	}
	return &SQLiteSink{DB: db}, nil
}

// Send implements Sink.
func (s *SQLiteSink) Send(ctx context.Context, m *msgs.Record) error {
	fields, err := json.Marshal(m.Fields)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO records (id, relay, received_at, fields, raw) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Relay, m.ReceivedAt, string(fields), m.Raw)
	return err
}

// Recent returns up to limit records, newest first.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]*msgs.Record, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, relay, received_at, fields, raw FROM records ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*msgs.Record
	for rows.Next() {
		var m msgs.Record
		var fields string
		if err := rows.Scan(&m.ID, &m.Relay, &m.ReceivedAt, &fields, &m.Raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &m.Fields); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}

// Close implements io.Closer.
func (s *SQLiteSink) Close() error {
	return s.DB.Close()
}
