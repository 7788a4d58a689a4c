package app

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"
	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
)

// MenuItemView is a menu entry with its price already formatted.
type MenuItemView struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Price       string `json:"preco"`
}

type MenuSectionView struct {
	Title string         `json:"titulo"`
	Items []MenuItemView `json:"itens"`
}

type CartLineView struct {
	Quantity int    `json:"quantidade"`
	Name     string `json:"item"`
	Subtotal string `json:"subtotal"`
}

// CartView is the cart summary panel. ClientName and Note carry their
// placeholders when blank; CanSubmit gates the submit button.
type CartView struct {
	Visible    bool           `json:"visivel"`
	Lines      []CartLineView `json:"itens"`
	Units      int            `json:"unidades"`
	Total      string         `json:"total"`
	ClientName string         `json:"cliente"`
	Note       string         `json:"observacao"`
	CanSubmit  bool           `json:"pode_enviar"`
}

// OrderView is one row of the order history.
type OrderView struct {
	ID         int64  `json:"id"`
	ClientName string `json:"cliente"`
	ItemName   string `json:"item"`
	Note       string `json:"observacao,omitempty"`
	Value      string `json:"valor"`
	Status     string `json:"status"`
	OrderedAt  string `json:"data_pedido,omitempty"`
}

// View is everything a presentation layer needs to render the intake screen.
type View struct {
	Menu        []MenuSectionView `json:"cardapio"`
	Cart        CartView          `json:"carrinho"`
	Filter      string            `json:"filtro"`
	History     []OrderView       `json:"pedidos"`
	LastOutcome *Outcome          `json:"ultimo_resultado,omitempty"`
	Busy        map[string]bool   `json:"ocupado"`
}

func money(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) }

// View projects the current state. Calling it has no side effects.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Filter: string(c.historyFilter),
		Busy: map[string]bool{
			actionLoadMenu: c.guard.Busy(actionLoadMenu),
			actionSubmit:   c.guard.Busy(actionSubmit),
			actionHistory:  c.guard.Busy(actionHistory),
		},
		LastOutcome: c.lastOutcome,
	}

	for _, sec := range entity.GroupMenu(c.menu) {
		sv := MenuSectionView{Title: sec.Title}
		for _, it := range sec.Items {
			sv.Items = append(sv.Items, MenuItemView{Name: it.Name, Description: it.Description, Price: money(it.Price)})
		}
		v.Menu = append(v.Menu, sv)
	}

	v.Cart = projectCart(c.cart.Summary(), c.clientName, c.note, v.Busy[actionSubmit])

	for _, o := range c.history.NewestFirst(c.historyFilter) {
		ov := OrderView{
			ID:         o.ID,
			ClientName: o.ClientName,
			ItemName:   o.ItemName,
			Note:       o.Note,
			Value:      money(o.Value),
			Status:     string(o.Status),
		}
		if !o.ReceivedAt.IsZero() {
			ov.OrderedAt = o.ReceivedAt.Format("02/01/2006 15:04:05")
		}
		v.History = append(v.History, ov)
	}
	return v
}

func projectCart(sum entity.CartSummary, clientName, note string, submitting bool) CartView {
	cv := CartView{
		Visible:    sum.Visible(),
		Units:      sum.Units,
		Total:      money(sum.Total),
		ClientName: strings.TrimSpace(clientName),
		Note:       strings.TrimSpace(note),
	}
	if cv.ClientName == "" {
		cv.ClientName = "—"
	}
	if cv.Note == "" {
		cv.Note = "Nenhuma"
	}
	for _, l := range sum.Lines {
		cv.Lines = append(cv.Lines, CartLineView{Quantity: l.Quantity, Name: l.Item.Name, Subtotal: money(l.Subtotal())})
	}
	cv.CanSubmit = sum.Visible() && customerReady(clientName) && !submitting
	return cv
}

// RoundEntryView is one audit row of a submission round.
type RoundEntryView struct {
	Status   string   `json:"status"`
	Item     string   `json:"item,omitempty"`
	OrderID  int64    `json:"pedido_id,omitempty"`
	Errors   []string `json:"erros,omitempty"`
	TraceID  string   `json:"trace_id,omitempty"`
	Recorded string   `json:"registrado_em"`
}

func projectRound(entries []roundlog.Entry) []RoundEntryView {
	out := make([]RoundEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, RoundEntryView{
			Status:   string(e.Status),
			Item:     e.ItemName,
			OrderID:  e.OrderID,
			Errors:   e.Errors(),
			TraceID:  e.TraceID,
			Recorded: e.RecordedAt.Format(time.RFC3339),
		})
	}
	return out
}
