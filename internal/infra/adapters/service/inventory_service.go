package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
)

var _ ports.InventoryService = (*HTTPInventoryService)(nil)

// HTTPInventoryService talks to the inventory service (`/estoque`).
type HTTPInventoryService struct {
	client *Client
}

func NewHTTPInventoryService(client *Client) *HTTPInventoryService {
	return &HTTPInventoryService{client: client}
}

func (s *HTTPInventoryService) Stock(ctx context.Context) ([]entity.IngredientStock, error) {
	var res struct {
		Estoque []stockDTO `json:"estoque"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/estoque", nil, &res); err != nil {
		return nil, err
	}
	out := make([]entity.IngredientStock, 0, len(res.Estoque))
	for _, d := range res.Estoque {
		out = append(out, d.toEntity())
	}
	return out, nil
}

// Replenish adds quantity units of ingredient. Ingredient names may contain
// spaces and accents, so the path segment is escaped.
func (s *HTTPInventoryService) Replenish(ctx context.Context, ingredient string, quantity int, reason string) error {
	path := "/estoque/" + url.PathEscape(ingredient) + "/adicionar"
	return s.client.do(ctx, http.MethodPost, path, replenishRequest{Quantidade: quantity, Motivo: reason}, nil)
}
