package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jcmexdev/lanchonete-stations/internal/coordinator/roundlog"
	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
	"github.com/jcmexdev/lanchonete-stations/internal/core/ports"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/apierr"
	"github.com/jcmexdev/lanchonete-stations/internal/pkg/guard"
)

const (
	actionLoadMenu = "carregar_cardapio"
	actionSubmit   = "fazer_pedido"
	actionHistory  = "meus_pedidos"
)

// Client is the state of one intake session. Every method is safe for
// concurrent use; remote calls never run under the state lock.
type Client struct {
	menuSvc      ports.MenuService
	orders       ports.OrderService
	submitter    *Submitter
	guard        *guard.Guard
	historyLimit int
	now          func() time.Time

	mu            sync.Mutex
	menu          []entity.MenuItem
	cart          *entity.Cart
	clientName    string
	note          string
	history       entity.Snapshot
	historyFilter entity.Filter
	lastOutcome   *Outcome
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces time.Now for history snapshot times.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(menu ports.MenuService, orders ports.OrderService, submitter *Submitter, historyLimit int, opts ...Option) *Client {
	c := &Client{
		menuSvc:       menu,
		orders:        orders,
		submitter:     submitter,
		guard:         guard.New(),
		historyLimit:  historyLimit,
		now:           time.Now,
		cart:          entity.NewCart(),
		historyFilter: entity.FilterAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadMenu fetches the menu and keeps it for the session.
func (c *Client) LoadMenu(ctx context.Context) ([]entity.MenuSection, error) {
	release, err := c.guard.Acquire(actionLoadMenu)
	if err != nil {
		return nil, err
	}
	defer release()

	items, err := c.menuSvc.Menu(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load menu", "error", err)
		return nil, fmt.Errorf("load menu: %w", err)
	}

	c.mu.Lock()
	c.menu = items
	c.mu.Unlock()

	slog.InfoContext(ctx, "menu loaded", "items", len(items))
	return entity.GroupMenu(items), nil
}

// ReloadMenu drops any cached copy of the menu, then loads it again. A failed
// invalidation is logged and the load still runs.
func (c *Client) ReloadMenu(ctx context.Context) ([]entity.MenuSection, error) {
	if inv, ok := c.menuSvc.(ports.MenuInvalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			slog.WarnContext(ctx, "menu invalidation failed", "error", err)
		}
	}
	return c.LoadMenu(ctx)
}

// Round returns the audit rows of roundID, or of the last submission when
// roundID is empty.
func (c *Client) Round(ctx context.Context, roundID string) ([]roundlog.Entry, error) {
	if roundID == "" {
		c.mu.Lock()
		if c.lastOutcome != nil {
			roundID = c.lastOutcome.RoundID
		}
		c.mu.Unlock()
	}
	if roundID == "" {
		return nil, apierr.ValidationError{Field: "rodada", Message: "Nenhum pedido enviado nesta sessão"}
	}
	return c.submitter.Round(ctx, roundID)
}

// AddToCart adds one unit of the named menu item.
func (c *Client) AddToCart(itemName string) (entity.CartSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := entity.FindMenuItem(c.menu, itemName)
	if !ok {
		return c.cart.Summary(), apierr.ValidationError{Field: "item", Message: fmt.Sprintf("Item '%s' não está no cardápio", itemName)}
	}
	return c.cart.Add(item), nil
}

func (c *Client) RemoveFromCart(itemName string) entity.CartSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Remove(itemName)
}

func (c *Client) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart.Clear()
}

// SetCustomer records the name and note typed in the form.
func (c *Client) SetCustomer(clientName, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientName = clientName
	c.note = note
}

// Submit sends the current cart. A second call while one is in flight fails
// with guard.ErrBusy. On success the cart and the form are cleared.
func (c *Client) Submit(ctx context.Context) (Outcome, error) {
	release, err := c.guard.Acquire(actionSubmit)
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	c.mu.Lock()
	sub := Submission{
		ClientName: c.clientName,
		Note:       c.note,
		Lines:      c.cart.Lines(),
	}
	c.mu.Unlock()

	out, err := c.submitter.Submit(ctx, sub)
	if err != nil {
		return Outcome{}, err
	}

	c.mu.Lock()
	c.lastOutcome = &out
	if out.Success {
		c.cart.Clear()
		c.clientName = ""
		c.note = ""
	}
	c.mu.Unlock()

	return out, nil
}

// LoadHistory fetches the latest orders and replaces the history snapshot.
func (c *Client) LoadHistory(ctx context.Context) error {
	release, err := c.guard.Acquire(actionHistory)
	if err != nil {
		return err
	}
	defer release()

	orders, err := c.orders.ListOrders(ctx, c.historyLimit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load order history", "error", err)
		return fmt.Errorf("load history: %w", err)
	}
	c.ApplyHistory(orders, c.now())
	return nil
}

// ApplyHistory is the only way the history snapshot is replaced.
func (c *Client) ApplyHistory(orders []entity.Order, fetchedAt time.Time) {
	snap := entity.NewSnapshot(orders, fetchedAt)
	c.mu.Lock()
	c.history = snap
	c.mu.Unlock()
}

// ApplyStatus records a status broadcast for one of this station's orders.
// Broadcasts may arrive out of order, so a status is applied only when the
// lifecycle can reach it from the current one. It reports whether the
// history changed.
func (c *Client) ApplyStatus(orderID int64, status entity.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.history.Find(orderID)
	if !ok || !entity.Reachable(cur.Status, status) {
		return false
	}
	next, _ := c.history.With(orderID, func(o *entity.Order) { o.Status = status })
	c.history = next
	return true
}

func (c *Client) SetHistoryFilter(f entity.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.historyFilter = f
}

// History returns the filtered history, newest first.
func (c *Client) History() []entity.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.NewestFirst(c.historyFilter)
}

func (c *Client) Cart() entity.CartSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Summary()
}

// customerReady reports whether the typed name is usable for submission.
func customerReady(name string) bool { return strings.TrimSpace(name) != "" }
