package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/cache"
)

var (
	_ ports.MenuService     = (*CachedMenuService)(nil)
	_ ports.MenuInvalidator = (*CachedMenuService)(nil)
)

// CachedMenuService serves the menu from the cache and falls through to next
// on a miss. Cache failures are logged and never fail the call.
type CachedMenuService struct {
	next  ports.MenuService
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedMenuService(next ports.MenuService, c cache.Cache, ttl time.Duration) *CachedMenuService {
	return &CachedMenuService{next: next, cache: c, ttl: ttl}
}

func (s *CachedMenuService) key() string { return s.cache.GenerateKey("menu", "cardapio") }

// Invalidate drops the cached menu so the next Menu call reaches the service.
func (s *CachedMenuService) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.key()); err != nil {
		return fmt.Errorf("invalidate menu cache: %w", err)
	}
	return nil
}

func (s *CachedMenuService) Menu(ctx context.Context) ([]entity.MenuItem, error) {
	key := s.key()

	if raw, err := s.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "menu cache read failed", "key", key, "error", err)
	} else if raw != "" {
		var cached []menuItemDTO
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			items := make([]entity.MenuItem, 0, len(cached))
			for _, d := range cached {
				items = append(items, d.toEntity())
			}
			return items, nil
		}
		slog.WarnContext(ctx, "discarding unreadable menu cache entry", "key", key)
	}

	items, err := s.next.Menu(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]menuItemDTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, menuItemDTO{Nome: it.Name, Descricao: it.Description, Preco: it.Price})
	}
	if b, err := json.Marshal(dtos); err == nil {
		if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil {
			slog.WarnContext(ctx, "menu cache write failed", "key", key, "error", err)
		}
	}
	return items, nil
}
