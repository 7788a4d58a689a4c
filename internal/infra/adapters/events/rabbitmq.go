// Package events consumes order status updates that the kitchen service
// broadcasts over RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
)

const DefaultExchange = "pedidos_prontos_exchange"

const defaultRetryDelay = 2 * time.Second

// StatusEvent is one broadcast status change. IntakeID is the id the intake
// client knows the order by.
type StatusEvent struct {
	IntakeID   int64
	ClientName string
	ItemName   string
	Status     entity.Status
}

type statusMessage struct {
	PedidoCaixaID *int64 `json:"pedido_caixa_id"`
	Cliente       string `json:"cliente"`
	Item          string `json:"item"`
	Status        string `json:"status"`
}

var ErrMalformedEvent = errors.New("malformed status event")

func DecodeStatusEvent(body []byte) (StatusEvent, error) {
	var msg statusMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return StatusEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if msg.PedidoCaixaID == nil || msg.Status == "" {
		return StatusEvent{}, fmt.Errorf("%w: missing pedido_caixa_id or status", ErrMalformedEvent)
	}
	return StatusEvent{
		IntakeID:   *msg.PedidoCaixaID,
		ClientName: msg.Cliente,
		ItemName:   msg.Item,
		Status:     entity.Status(msg.Status),
	}, nil
}

// Handler applies one event. An error nacks the delivery without requeueing.
type Handler func(ctx context.Context, ev StatusEvent) error

// Listener binds an exclusive queue to the fanout exchange and feeds every
// delivery to the handler, reconnecting after any broker failure.
type Listener struct {
	url        string
	exchange   string
	handle     Handler
	retryDelay time.Duration
}

func NewListener(url, exchange string, handle Handler) *Listener {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Listener{
		url:        url,
		exchange:   exchange,
		handle:     handle,
		retryDelay: defaultRetryDelay,
	}
}

// Run blocks until ctx is done. It always returns nil; connection failures
// are logged and retried.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		slog.WarnContext(ctx, "status listener disconnected, retrying",
			"exchange", l.exchange,
			"retry_in", l.retryDelay.String(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *Listener) consume(ctx context.Context) error {
	conn, err := amqp.Dial(l.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	// the publisher declares it non-durable; the declaration must match
	if err := ch.ExchangeDeclare(l.exchange, "fanout", false, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", l.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	deliveries, err := ch.Consume(q.Name, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	slog.InfoContext(ctx, "status listener started", "exchange", l.exchange, "queue", q.Name)

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr == nil {
				return errors.New("connection closed")
			}
			return amqpErr
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := l.process(ctx, d.Body); err != nil {
				slog.ErrorContext(ctx, "failed to apply status event", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (l *Listener) process(ctx context.Context, body []byte) error {
	ev, err := DecodeStatusEvent(body)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "status event received",
		"order_id", ev.IntakeID,
		"item", ev.ItemName,
		"status", string(ev.Status),
	)
	return l.handle(ctx, ev)
}
