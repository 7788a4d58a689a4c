package coordinator

import (
	"context"
	"fmt"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
)

// CreateUnitOrderStep creates one order for one unit of one item.
type CreateUnitOrderStep struct {
	orders ports.OrderService
	input  entity.CreateOrderInput
	// created is set once Execute succeeds.
	created *entity.Order
}

func NewCreateUnitOrderStep(orders ports.OrderService, input entity.CreateOrderInput) *CreateUnitOrderStep {
	return &CreateUnitOrderStep{orders: orders, input: input}
}

func (s *CreateUnitOrderStep) Name() string { return s.input.ItemName }

func (s *CreateUnitOrderStep) Execute(ctx context.Context) error {
	order, err := s.orders.CreateOrder(ctx, s.input)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("create order %s: empty order in response", s.input.ItemName)
	}
	s.created = order
	return nil
}

// Created returns the order the service created, nil before success.
func (s *CreateUnitOrderStep) Created() *entity.Order { return s.created }

func (s *CreateUnitOrderStep) OrderID() int64 {
	if s.created == nil {
		return 0
	}
	return s.created.ID
}
