package roundlog

import "context"

// Repository persists round entries. Save appends; it never updates a row.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	// Round returns every entry of one round in the order it was written.
	Round(ctx context.Context, roundID string) ([]Entry, error)
	Close() error
}
