package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
)

var _ ports.OrderService = (*HTTPOrderService)(nil)

// HTTPOrderService talks to the intake order service.
type HTTPOrderService struct {
	client *Client
}

func NewHTTPOrderService(client *Client) *HTTPOrderService {
	return &HTTPOrderService{client: client}
}

// CreateOrder posts one unit order under the input's idempotency key, or a
// fresh one when the input has none.
func (s *HTTPOrderService) CreateOrder(ctx context.Context, in entity.CreateOrderInput) (*entity.Order, error) {
	req := createOrderRequest{
		Cliente:    in.ClientName,
		Item:       in.ItemName,
		Observacao: in.Note,
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	var res struct {
		Pedido *orderDTO `json:"pedido"`
	}
	if err := s.client.do(ctx, http.MethodPost, "/pedidos", req, &res, withIdempotencyKey(key)); err != nil {
		return nil, err
	}
	if res.Pedido == nil {
		return nil, fmt.Errorf("create order %s: empty order in response", in.ItemName)
	}

	o := res.Pedido.toEntity()
	return &o, nil
}

func (s *HTTPOrderService) ListOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	var res struct {
		Pedidos []orderDTO `json:"pedidos"`
	}
	path := "/pedidos?limit=" + strconv.Itoa(limit)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return ordersToEntity(res.Pedidos), nil
}
