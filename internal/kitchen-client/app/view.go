package app

import (
	"time"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
)

type CountsView struct {
	Received  int `json:"recebidos"`
	Preparing int `json:"preparando"`
	Ready     int `json:"prontos"`
	Canceled  int `json:"cancelados"`
}

// OrderView is one row of the kitchen queue. Minutes is the server-confirmed
// duration when Confirmed is set, else the running estimate.
type OrderView struct {
	ID         int64    `json:"id"`
	IntakeID   int64    `json:"pedido_id"`
	ClientName string   `json:"cliente"`
	ItemName   string   `json:"item"`
	Note       string   `json:"observacao,omitempty"`
	Status     string   `json:"status"`
	ReceivedAt string   `json:"recebido_em,omitempty"`
	Minutes    *int     `json:"minutos,omitempty"`
	Confirmed  bool     `json:"confirmado"`
	Actions    []string `json:"acoes"`
	Busy       bool     `json:"ocupado"`
}

type StockLineView struct {
	Name     string `json:"nome"`
	Quantity int    `json:"quantidade"`
	Unit     string `json:"unidade"`
	Minimum  int    `json:"estoque_minimo"`
	Health   string `json:"status"`
	Class    string `json:"classe"`
}

type SelectionView struct {
	Action   string    `json:"acao"`
	Order    OrderView `json:"pedido"`
	OpenedAt string    `json:"aberta_em"`
	// AgeSeconds is how long the dialog has been open; the order shown is
	// the copy captured at that time.
	AgeSeconds int `json:"aberta_ha_segundos"`
}

// View is a projection of the board at one instant.
type View struct {
	Filter    string          `json:"filtro"`
	Counts    CountsView      `json:"estatisticas"`
	Orders    []OrderView     `json:"pedidos"`
	Stock     []StockLineView `json:"estoque"`
	Selection *SelectionView  `json:"selecao,omitempty"`
	FetchedAt string          `json:"atualizado_em,omitempty"`
	// StockFetchedAt differs from FetchedAt when one of the two fetches failed.
	StockFetchedAt string `json:"estoque_atualizado_em,omitempty"`
}

var orderActions = []entity.Action{entity.ActionStart, entity.ActionFinish, entity.ActionCancel}

// View renders the board. defaultMinimum applies to stock rows without a threshold.
func (k *Kitchen) View(defaultMinimum int) View {
	now := k.now()
	b := k.board
	snap := b.Orders()
	filter := b.Filter()

	c := snap.Counts()
	v := View{
		Filter: string(filter),
		Counts: CountsView{Received: c.Received, Preparing: c.Preparing, Ready: c.Ready, Canceled: c.Canceled},
	}
	if !snap.FetchedAt().IsZero() {
		v.FetchedAt = snap.FetchedAt().Format(time.RFC3339)
	}

	for _, o := range snap.NewestFirst(filter) {
		v.Orders = append(v.Orders, k.orderView(o, now))
	}

	if at := b.StockFetchedAt(); !at.IsZero() {
		v.StockFetchedAt = at.Format(time.RFC3339)
	}
	for _, s := range b.Stock() {
		minimum := s.MinimumOr(defaultMinimum)
		h := entity.Classify(s.Quantity, minimum)
		v.Stock = append(v.Stock, StockLineView{
			Name:     s.Name,
			Quantity: s.Quantity,
			Unit:     s.UnitOrDefault(),
			Minimum:  minimum,
			Health:   string(h),
			Class:    h.Class(),
		})
	}

	if sel, ok := b.Selected(); ok {
		v.Selection = &SelectionView{
			Action:     string(sel.Action),
			Order:      k.orderView(sel.Order, now),
			OpenedAt:   sel.OpenedAt.Format(time.RFC3339),
			AgeSeconds: int(now.Sub(sel.OpenedAt) / time.Second),
		}
	}
	return v
}

func (k *Kitchen) orderView(o entity.Order, now time.Time) OrderView {
	ov := OrderView{
		ID:         o.ID,
		IntakeID:   o.IntakeID,
		ClientName: o.ClientName,
		ItemName:   o.ItemName,
		Note:       o.Note,
		Status:     string(o.Status),
		Busy:       k.Busy(o.ID),
		Actions:    []string{},
	}
	if !o.ReceivedAt.IsZero() {
		ov.ReceivedAt = o.ReceivedAt.Format("15:04")
	}

	switch {
	case o.PreparationMinutes != nil:
		m := *o.PreparationMinutes
		ov.Minutes = &m
		ov.Confirmed = true
	case o.Status == entity.StatusPreparing && o.StartedAt != nil:
		m := entity.EstimateMinutes(*o.StartedAt, now)
		ov.Minutes = &m
	}

	for _, a := range orderActions {
		if o.CanApply(a) {
			ov.Actions = append(ov.Actions, string(a))
		}
	}
	return ov
}
