// Package sqlite stores round entries in a local SQLite file opened in WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"

	// pure-Go driver, no CGO
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS round_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    round_id        TEXT    NOT NULL,
    status          TEXT    NOT NULL,
    client_name     TEXT    NOT NULL DEFAULT '',
    item_name       TEXT    NOT NULL DEFAULT '',
    order_id        INTEGER,
    error_messages  TEXT    NOT NULL DEFAULT '[]',
    trace_id        TEXT    NOT NULL DEFAULT '',
    span_id         TEXT    NOT NULL DEFAULT '',
    recorded_at     TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_round_logs_round_id ON round_logs(round_id, id);
CREATE INDEX IF NOT EXISTS idx_round_logs_trace_id ON round_logs(trace_id);
`

type Repository struct {
	db *sql.DB
}

var _ roundlog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/rounds.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, entry *roundlog.Entry) error {
	const q = `
		INSERT INTO round_logs
			(round_id, status, client_name, item_name, order_id, error_messages, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.RoundID,
		string(entry.Status),
		entry.ClientName,
		entry.ItemName,
		nullableID(entry.OrderID),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format(storedLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save round log for %q: %w", entry.RoundID, err)
	}
	return nil
}

func (r *Repository) Round(ctx context.Context, roundID string) ([]roundlog.Entry, error) {
	const q = `
		SELECT round_id, status, client_name, item_name, COALESCE(order_id, 0),
		       error_messages, trace_id, span_id, recorded_at
		FROM   round_logs
		WHERE  round_id = ?
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q, roundID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query round %q: %w", roundID, err)
	}
	defer rows.Close()

	var out []roundlog.Entry
	for rows.Next() {
		var e roundlog.Entry
		var recordedAt string
		if err := rows.Scan(
			&e.RoundID,
			&e.Status,
			&e.ClientName,
			&e.ItemName,
			&e.OrderID,
			&e.ErrorMessages,
			&e.TraceID,
			&e.SpanID,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan round %q: %w", roundID, err)
		}
		if e.RecordedAt, err = parseRFC3339(recordedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// nullableID stores NULL for rows that have no order.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
