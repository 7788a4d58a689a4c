package app

import (
	"context"
	"fmt"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/dispatch"
)

// Commands exposes the kitchen actions by name. defaultMinimum is passed to
// every rendered view.
func (k *Kitchen) Commands(defaultMinimum int) *dispatch.Table {
	t := dispatch.NewTable()
	view := func() any { return k.View(defaultMinimum) }

	t.Register("atualizar", func(ctx context.Context, _ dispatch.Args) (any, error) {
		if err := k.Refresh(ctx); err != nil {
			return nil, err
		}
		return view(), nil
	})

	t.Register("filtrar", func(_ context.Context, args dispatch.Args) (any, error) {
		k.board.SetFilter(entity.ParseFilter(args.String("filtro")))
		return view(), nil
	})

	t.Register(string(entity.ActionStart), func(ctx context.Context, args dispatch.Args) (any, error) {
		id, err := args.Int64("id")
		if err != nil {
			return nil, err
		}
		return k.Start(ctx, id)
	})

	t.Register(string(entity.ActionFinish), func(ctx context.Context, args dispatch.Args) (any, error) {
		id, err := args.Int64("id")
		if err != nil {
			return nil, err
		}
		if args.String("tempo") != "" {
			minutes, err := args.Int("tempo")
			if err != nil {
				return nil, err
			}
			return k.FinishWithMinutes(ctx, id, minutes)
		}
		return k.Finish(ctx, id)
	})

	t.Register(string(entity.ActionCancel), func(ctx context.Context, args dispatch.Args) (any, error) {
		id, err := args.Int64("id")
		if err != nil {
			return nil, err
		}
		return k.Cancel(ctx, id, args.String("motivo"))
	})

	t.Register("abrir", func(_ context.Context, args dispatch.Args) (any, error) {
		id, err := args.Int64("id")
		if err != nil {
			return nil, err
		}
		action := entity.Action(args.String("acao"))
		switch action {
		case entity.ActionStart, entity.ActionFinish, entity.ActionCancel:
		default:
			return nil, fmt.Errorf("%w: %q", entity.ErrIllegalTransition, action)
		}
		if _, ok := k.board.Open(id, action, k.now()); !ok {
			return ActionResult{OrderID: id}, nil
		}
		return view(), nil
	})

	t.Register("fechar", func(context.Context, dispatch.Args) (any, error) {
		k.board.Close()
		return view(), nil
	})

	t.Register("confirmar", func(ctx context.Context, args dispatch.Args) (any, error) {
		minutes := 0
		if args.String("tempo") != "" {
			m, err := args.Int("tempo")
			if err != nil {
				return nil, err
			}
			if m < 1 {
				m = -1
			}
			minutes = m
		}
		return k.ConfirmSelection(ctx, args.String("motivo"), minutes)
	})

	t.Register("repor", func(ctx context.Context, args dispatch.Args) (any, error) {
		qty, err := args.Int("quantidade")
		if err != nil {
			return nil, err
		}
		return k.Replenish(ctx, args.String("ingrediente"), qty, args.String("motivo"))
	})

	return t
}
