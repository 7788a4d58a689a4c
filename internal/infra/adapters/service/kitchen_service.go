package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
)

var _ ports.KitchenService = (*HTTPKitchenService)(nil)

// HTTPKitchenService talks to the kitchen service.
type HTTPKitchenService struct {
	client *Client
}

func NewHTTPKitchenService(client *Client) *HTTPKitchenService {
	return &HTTPKitchenService{client: client}
}

func (s *HTTPKitchenService) Queue(ctx context.Context) ([]entity.Order, error) {
	var res struct {
		Pedidos []orderDTO `json:"pedidos"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/fila", nil, &res); err != nil {
		return nil, err
	}
	return ordersToEntity(res.Pedidos), nil
}

func (s *HTTPKitchenService) Start(ctx context.Context, id int64) error {
	return s.client.do(ctx, http.MethodPut, fmt.Sprintf("/pedidos/%d/iniciar", id), nil, nil)
}

func (s *HTTPKitchenService) Finish(ctx context.Context, id int64, estimatedMinutes int) (*int, error) {
	var res finishResponse
	path := fmt.Sprintf("/pedidos/%d/finalizar", id)
	if err := s.client.do(ctx, http.MethodPut, path, finishRequest{TempoPreparacao: estimatedMinutes}, &res); err != nil {
		return nil, err
	}
	return res.TempoTotal, nil
}

func (s *HTTPKitchenService) Cancel(ctx context.Context, id int64, reason string) error {
	path := fmt.Sprintf("/pedidos/%d/cancelar", id)
	return s.client.do(ctx, http.MethodPut, path, cancelRequest{Motivo: reason}, nil)
}
