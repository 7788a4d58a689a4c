package ports

import (
	"context"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
)

// MenuService serves the cardápio.
type MenuService interface {
	Menu(ctx context.Context) ([]entity.MenuItem, error)
}

// MenuInvalidator is implemented by menu services that keep a copy of the
// menu and can drop it.
type MenuInvalidator interface {
	Invalidate(ctx context.Context) error
}

// OrderService is the intake side of the order service.
type OrderService interface {
	// CreateOrder creates exactly one unit order.
	CreateOrder(ctx context.Context, in entity.CreateOrderInput) (*entity.Order, error)
	ListOrders(ctx context.Context, limit int) ([]entity.Order, error)
}

// KitchenService is the fulfillment side of the order service.
type KitchenService interface {
	Queue(ctx context.Context) ([]entity.Order, error)
	Start(ctx context.Context, id int64) error
	// Finish sends the client's estimate as a hint and returns the duration the
	// server committed, nil when it reported none.
	Finish(ctx context.Context, id int64, estimatedMinutes int) (*int, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// InventoryService reads and replenishes ingredient stock.
type InventoryService interface {
	Stock(ctx context.Context) ([]entity.IngredientStock, error)
	Replenish(ctx context.Context, ingredient string, quantity int, reason string) error
}
