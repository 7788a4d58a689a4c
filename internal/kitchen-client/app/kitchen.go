package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/apierr"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/guard"
)

const (
	DefaultCancelReason    = "Ingredientes insuficientes"
	defaultReplenishReason = "Reposição manual"
	refreshKey             = "atualizar"
)

// ActionResult reports what a lifecycle action did. Applied is false when the
// order was not in the snapshot and nothing was sent.
type ActionResult struct {
	OrderID int64                   `json:"id"`
	Applied bool                    `json:"aplicado"`
	Status  entity.Status           `json:"status,omitempty"`
	Time    *entity.PreparationTime `json:"tempo,omitempty"`
}

// Kitchen drives the fulfillment station: lifecycle actions, replenishment
// and snapshot refreshes.
type Kitchen struct {
	board        *Board
	kitchen      ports.KitchenService
	inventory    ports.InventoryService
	guard        *guard.Guard
	cancelReason string
	now          func() time.Time
}

// Option configures a Kitchen.
type Option func(*Kitchen)

// WithClock replaces time.Now for estimates and snapshot times.
func WithClock(now func() time.Time) Option {
	return func(k *Kitchen) { k.now = now }
}

// WithCancelReason overrides the reason used when a cancel carries none.
func WithCancelReason(reason string) Option {
	return func(k *Kitchen) {
		if strings.TrimSpace(reason) != "" {
			k.cancelReason = reason
		}
	}
}

func NewKitchen(board *Board, kitchen ports.KitchenService, inventory ports.InventoryService, opts ...Option) *Kitchen {
	k := &Kitchen{
		board:        board,
		kitchen:      kitchen,
		inventory:    inventory,
		guard:        guard.New(),
		cancelReason: DefaultCancelReason,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Kitchen) Board() *Board { return k.board }

// Refresh fetches orders and stock concurrently and applies each snapshot
// that arrived. The fetches are independent: one failing neither cancels the
// other nor keeps it from being applied. Both failures are returned joined.
func (k *Kitchen) Refresh(ctx context.Context) error {
	release, err := k.guard.Acquire(refreshKey)
	if err != nil {
		return err
	}
	defer release()

	var (
		orders    []entity.Order
		stock     []entity.IngredientStock
		ordersErr error
		stockErr  error
		g         errgroup.Group
	)
	g.Go(func() error {
		orders, ordersErr = k.kitchen.Queue(ctx)
		return nil
	})
	g.Go(func() error {
		stock, stockErr = k.inventory.Stock(ctx)
		return nil
	})
	_ = g.Wait()

	now := k.now()
	if ordersErr == nil {
		k.board.ApplyOrders(orders, now)
	} else {
		ordersErr = fmt.Errorf("fetch queue: %w", ordersErr)
	}
	if stockErr == nil {
		k.board.ApplyStock(stock, now)
	} else {
		stockErr = fmt.Errorf("fetch stock: %w", stockErr)
	}
	return errors.Join(ordersErr, stockErr)
}

func (k *Kitchen) Start(ctx context.Context, id int64) (ActionResult, error) {
	o, ok := k.board.Find(id)
	if !ok {
		return k.missing(ctx, id, entity.ActionStart), nil
	}
	return k.start(ctx, o)
}

func (k *Kitchen) Finish(ctx context.Context, id int64) (ActionResult, error) {
	o, ok := k.board.Find(id)
	if !ok {
		return k.missing(ctx, id, entity.ActionFinish), nil
	}
	return k.finish(ctx, o, 0)
}

// FinishWithMinutes is Finish with a hint typed by the cook instead of the
// estimate. minutes must be at least 1.
func (k *Kitchen) FinishWithMinutes(ctx context.Context, id int64, minutes int) (ActionResult, error) {
	if minutes < 1 {
		return ActionResult{OrderID: id}, apierr.ValidationError{Field: "tempo", Message: "Informe o tempo de preparação"}
	}
	o, ok := k.board.Find(id)
	if !ok {
		return k.missing(ctx, id, entity.ActionFinish), nil
	}
	return k.finish(ctx, o, minutes)
}

// Cancel aborts an order. A blank reason falls back to the configured default.
func (k *Kitchen) Cancel(ctx context.Context, id int64, reason string) (ActionResult, error) {
	o, ok := k.board.Find(id)
	if !ok {
		return k.missing(ctx, id, entity.ActionCancel), nil
	}
	return k.cancel(ctx, o, reason)
}

// ConfirmSelection runs the action of the open selection against the order
// as it was captured, then closes the selection on success.
func (k *Kitchen) ConfirmSelection(ctx context.Context, reason string, minutes int) (ActionResult, error) {
	sel, ok := k.board.Selected()
	if !ok {
		return ActionResult{}, ErrNoSelection
	}

	var (
		res ActionResult
		err error
	)
	switch sel.Action {
	case entity.ActionStart:
		res, err = k.start(ctx, sel.Order)
	case entity.ActionFinish:
		if minutes < 0 {
			return ActionResult{OrderID: sel.Order.ID}, apierr.ValidationError{Field: "tempo", Message: "Informe o tempo de preparação"}
		}
		res, err = k.finish(ctx, sel.Order, minutes)
	case entity.ActionCancel:
		res, err = k.cancel(ctx, sel.Order, reason)
	default:
		return ActionResult{}, fmt.Errorf("%w: %s", entity.ErrIllegalTransition, sel.Action)
	}
	if err != nil {
		return res, err
	}
	k.board.Close()
	return res, nil
}

func (k *Kitchen) missing(ctx context.Context, id int64, a entity.Action) ActionResult {
	slog.InfoContext(ctx, "order not in snapshot, ignoring action", "order_id", id, "action", string(a))
	return ActionResult{OrderID: id}
}

func (k *Kitchen) start(ctx context.Context, o entity.Order) (ActionResult, error) {
	return k.transition(ctx, o, entity.ActionStart, func(ctx context.Context) (ActionResult, error) {
		if err := k.kitchen.Start(ctx, o.ID); err != nil {
			return ActionResult{}, err
		}
		at := k.now()
		k.board.UpdateOrder(o.ID, func(cur *entity.Order) { _ = cur.Start(at) })
		return ActionResult{OrderID: o.ID, Applied: true, Status: entity.StatusPreparing}, nil
	})
}

// finish sends hint when positive, else the elapsed estimate.
func (k *Kitchen) finish(ctx context.Context, o entity.Order, hint int) (ActionResult, error) {
	return k.transition(ctx, o, entity.ActionFinish, func(ctx context.Context) (ActionResult, error) {
		now := k.now()
		estimate := 1
		if o.StartedAt != nil {
			estimate = entity.EstimateMinutes(*o.StartedAt, now)
		}
		sent := estimate
		if hint > 0 {
			sent = hint
		}

		confirmed, err := k.kitchen.Finish(ctx, o.ID, sent)
		if err != nil {
			return ActionResult{}, err
		}
		k.board.UpdateOrder(o.ID, func(cur *entity.Order) { _ = cur.Finish(now, confirmed) })

		pt := entity.PreparationTime{EstimatedMinutes: estimate, ConfirmedMinutes: confirmed}
		return ActionResult{OrderID: o.ID, Applied: true, Status: entity.StatusReady, Time: &pt}, nil
	})
}

func (k *Kitchen) cancel(ctx context.Context, o entity.Order, reason string) (ActionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = k.cancelReason
	}
	return k.transition(ctx, o, entity.ActionCancel, func(ctx context.Context) (ActionResult, error) {
		if err := k.kitchen.Cancel(ctx, o.ID, reason); err != nil {
			return ActionResult{}, err
		}
		k.board.UpdateOrder(o.ID, func(cur *entity.Order) { _ = cur.Cancel(reason) })
		return ActionResult{OrderID: o.ID, Applied: true, Status: entity.StatusCanceled}, nil
	})
}

// transition checks legality against o, holds the per-order guard while send
// runs, then refreshes. A failed refresh is logged, not returned.
func (k *Kitchen) transition(ctx context.Context, o entity.Order, a entity.Action, send func(context.Context) (ActionResult, error)) (ActionResult, error) {
	if _, err := entity.NextStatus(o.Status, a); err != nil {
		return ActionResult{OrderID: o.ID}, fmt.Errorf("order %d: %w", o.ID, err)
	}

	release, err := k.guard.Acquire(orderKey(o.ID))
	if err != nil {
		return ActionResult{OrderID: o.ID}, err
	}
	defer release()

	res, err := send(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "order action failed", "order_id", o.ID, "action", string(a), "error", err)
		return ActionResult{OrderID: o.ID}, err
	}
	slog.InfoContext(ctx, "order action applied", "order_id", o.ID, "action", string(a), "status", string(res.Status))

	if err := k.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "refresh after action failed", "order_id", o.ID, "error", err)
	}
	return res, nil
}

// Replenish adds delta units of ingredient. delta <= 0 is rejected before any request.
func (k *Kitchen) Replenish(ctx context.Context, ingredient string, delta int, reason string) (entity.IngredientStock, error) {
	if delta <= 0 {
		return entity.IngredientStock{}, apierr.ValidationError{Field: "quantidade", Message: "Quantidade deve ser maior que zero"}
	}
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return entity.IngredientStock{}, apierr.ValidationError{Field: "ingrediente", Message: "Informe o ingrediente"}
	}
	if strings.TrimSpace(reason) == "" {
		reason = defaultReplenishReason
	}

	release, err := k.guard.Acquire("repor:" + ingredient)
	if err != nil {
		return entity.IngredientStock{}, err
	}
	defer release()

	if err := k.inventory.Replenish(ctx, ingredient, delta, reason); err != nil {
		slog.ErrorContext(ctx, "replenish failed", "ingredient", ingredient, "quantity", delta, "error", err)
		return entity.IngredientStock{}, err
	}

	updated, ok := k.board.UpdateStock(ingredient, func(s entity.IngredientStock) entity.IngredientStock {
		next, _ := s.Replenished(delta)
		return next
	})
	if !ok {
		updated = entity.IngredientStock{Name: ingredient, Quantity: delta}
	}
	slog.InfoContext(ctx, "stock replenished", "ingredient", ingredient, "quantity", delta, "new_quantity", updated.Quantity)
	return updated, nil
}

// Busy reports whether an action on order id is in flight.
func (k *Kitchen) Busy(id int64) bool { return k.guard.Busy(orderKey(id)) }

func orderKey(id int64) string { return fmt.Sprintf("pedido:%d", id) }
