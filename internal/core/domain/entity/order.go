package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status values are the ones the order and kitchen services put on the wire.
type Status string

const (
	StatusReceived  Status = "RECEBIDO"
	StatusPreparing Status = "PREPARANDO"
	StatusReady     Status = "PRONTO"
	StatusCanceled  Status = "CANCELADO"
)

// Terminal reports whether no transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusCanceled
}

// Order is one unit of one item.
type Order struct {
	ID         int64
	IntakeID   int64 // id of the originating intake order, when the kitchen knows it
	ClientName string
	ItemName   string
	Note       string
	Value      decimal.Decimal
	Status     Status

	ReceivedAt  time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	// PreparationMinutes is the server-committed duration.
	PreparationMinutes *int
	CancelReason       string
}

// CreateOrderInput is the body of one unit-order creation request.
type CreateOrderInput struct {
	ClientName string
	ItemName   string
	Note       string
	// IdempotencyKey lets the order service drop a repeated request. Empty
	// means the adapter mints one.
	IdempotencyKey string
}

// SumValues adds the value of every order.
func SumValues(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Value)
	}
	return total
}
