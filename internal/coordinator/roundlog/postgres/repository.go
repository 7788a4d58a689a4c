// Package postgres stores round entries in a shared PostgreSQL database.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"
)

const schema = `
CREATE TABLE IF NOT EXISTS round_logs (
    id              BIGSERIAL PRIMARY KEY,
    round_id        TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    client_name     TEXT        NOT NULL DEFAULT '',
    item_name       TEXT        NOT NULL DEFAULT '',
    order_id        BIGINT,
    error_messages  JSONB       NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    recorded_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_round_logs_round_id ON round_logs(round_id, id);
CREATE INDEX IF NOT EXISTS idx_round_logs_trace_id ON round_logs(trace_id);
`

type Repository struct {
	pool *pgxpool.Pool
}

var _ roundlog.Repository = (*Repository)(nil)

// Connect dials dsn, pings it and applies the schema.
func Connect(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: apply schema: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Save(ctx context.Context, entry *roundlog.Entry) error {
	var orderID *int64
	if entry.OrderID != 0 {
		orderID = &entry.OrderID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO round_logs
			(round_id, status, client_name, item_name, order_id, error_messages, trace_id, span_id, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9)`,
		entry.RoundID,
		string(entry.Status),
		entry.ClientName,
		entry.ItemName,
		orderID,
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: save round log for %q: %w", entry.RoundID, err)
	}
	return nil
}

func (r *Repository) Round(ctx context.Context, roundID string) ([]roundlog.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT round_id, status, client_name, item_name, COALESCE(order_id, 0),
		       error_messages::text, trace_id, span_id, recorded_at
		FROM   round_logs
		WHERE  round_id = $1
		ORDER  BY id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("postgres: query round %q: %w", roundID, err)
	}
	defer rows.Close()

	var out []roundlog.Entry
	for rows.Next() {
		var e roundlog.Entry
		var status string
		if err := rows.Scan(
			&e.RoundID,
			&status,
			&e.ClientName,
			&e.ItemName,
			&e.OrderID,
			&e.ErrorMessages,
			&e.TraceID,
			&e.SpanID,
			&e.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan round %q: %w", roundID, err)
		}
		e.Status = roundlog.Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
