package app

import (
	"context"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/dispatch"
)

// Commands exposes the client's actions by name.
func (c *Client) Commands() *dispatch.Table {
	t := dispatch.NewTable()

	t.Register(actionLoadMenu, func(ctx context.Context, _ dispatch.Args) (any, error) {
		if _, err := c.LoadMenu(ctx); err != nil {
			return nil, err
		}
		return c.View(), nil
	})

	t.Register("recarregar_cardapio", func(ctx context.Context, _ dispatch.Args) (any, error) {
		if _, err := c.ReloadMenu(ctx); err != nil {
			return nil, err
		}
		return c.View(), nil
	})

	t.Register("rodada", func(ctx context.Context, args dispatch.Args) (any, error) {
		entries, err := c.Round(ctx, args.String("id"))
		if err != nil {
			return nil, err
		}
		return projectRound(entries), nil
	})

	t.Register("adicionar", func(_ context.Context, args dispatch.Args) (any, error) {
		if _, err := c.AddToCart(args.String("item")); err != nil {
			return nil, err
		}
		return c.View(), nil
	})

	t.Register("remover", func(_ context.Context, args dispatch.Args) (any, error) {
		c.RemoveFromCart(args.String("item"))
		return c.View(), nil
	})

	t.Register("limpar", func(context.Context, dispatch.Args) (any, error) {
		c.ClearCart()
		return c.View(), nil
	})

	t.Register("identificar", func(_ context.Context, args dispatch.Args) (any, error) {
		c.SetCustomer(args["cliente"], args["observacao"])
		return c.View(), nil
	})

	t.Register(actionSubmit, func(ctx context.Context, args dispatch.Args) (any, error) {
		if _, ok := args["cliente"]; ok {
			c.SetCustomer(args["cliente"], args["observacao"])
		}
		return c.Submit(ctx)
	})

	t.Register(actionHistory, func(ctx context.Context, args dispatch.Args) (any, error) {
		if f := args.String("filtro"); f != "" {
			c.SetHistoryFilter(parseHistoryFilter(f))
		}
		if err := c.LoadHistory(ctx); err != nil {
			return nil, err
		}
		return c.View(), nil
	})

	t.Register("filtrar", func(_ context.Context, args dispatch.Args) (any, error) {
		c.SetHistoryFilter(parseHistoryFilter(args.String("filtro")))
		return c.View(), nil
	})

	return t
}

// parseHistoryFilter defaults to every order; the history screen has no
// separate active-only view.
func parseHistoryFilter(v string) entity.Filter {
	if v == "" {
		return entity.FilterAll
	}
	return entity.ParseFilter(v)
}
