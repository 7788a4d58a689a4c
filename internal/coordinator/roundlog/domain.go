// Package roundlog is the append-only audit trail of submission rounds.
//
// One round is one "fazer pedido" press: a STARTED row, one row per unit
// order attempted, and a closing COMPLETED or FAILED row. Each row carries the
// trace and span ids active when it was written so a round can be found in
// the tracing backend.
package roundlog

import "time"

type Status string

const (
	StatusStarted     Status = "STARTED"
	StatusUnitCreated Status = "UNIT_CREATED"
	StatusUnitFailed  Status = "UNIT_FAILED"
	// StatusCompleted closes a round where at least one unit was created.
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Entry is a single row in the round_logs table.
type Entry struct {
	RoundID    string
	Status     Status
	ClientName string
	// ItemName and OrderID are set on unit rows only.
	ItemName string
	OrderID  int64
	// ErrorMessages is a JSON array of failure reasons.
	ErrorMessages string
	TraceID       string
	SpanID        string
	RecordedAt    time.Time
}
