package service

import (
	"context"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
)

var _ ports.MenuService = (*HTTPMenuService)(nil)

// HTTPMenuService reads the cardápio from the order service.
type HTTPMenuService struct {
	client *Client
}

func NewHTTPMenuService(client *Client) *HTTPMenuService {
	return &HTTPMenuService{client: client}
}

func (s *HTTPMenuService) Menu(ctx context.Context) ([]entity.MenuItem, error) {
	var res struct {
		Cardapio []menuItemDTO `json:"cardapio"`
	}
	if err := s.client.do(ctx, "GET", "/cardapio", nil, &res); err != nil {
		return nil, err
	}
	items := make([]entity.MenuItem, 0, len(res.Cardapio))
	for _, d := range res.Cardapio {
		items = append(items, d.toEntity())
	}
	return items, nil
}
