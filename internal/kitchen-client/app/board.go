package app

import (
	"errors"
	"sync"
	"time"

	"github.com/jcmexdev/lanchonete-stations/internal/core/domain/entity"
)

var ErrNoSelection = errors.New("no order selected")

// Selection is the order a confirmation dialog was opened for. It is a copy
// taken at open time and is not touched by later refreshes.
type Selection struct {
	Order    entity.Order
	Action   entity.Action
	OpenedAt time.Time
}

// Board holds the kitchen's read-mostly state: the order and stock snapshots,
// the active filter and the open selection.
type Board struct {
	mu             sync.RWMutex
	orders         entity.Snapshot
	stock          []entity.IngredientStock
	stockFetchedAt time.Time
	filter         entity.Filter
	selection      *Selection
}

func NewBoard() *Board {
	return &Board{filter: entity.FilterActive}
}

// ApplyOrders replaces the order snapshot. Counts are derived by the snapshot
// itself, so readers never see stale ones.
func (b *Board) ApplyOrders(orders []entity.Order, fetchedAt time.Time) {
	snap := entity.NewSnapshot(orders, fetchedAt)
	b.mu.Lock()
	b.orders = snap
	b.mu.Unlock()
}

// ApplyStock replaces the stock snapshot.
func (b *Board) ApplyStock(stock []entity.IngredientStock, fetchedAt time.Time) {
	own := make([]entity.IngredientStock, len(stock))
	copy(own, stock)
	b.mu.Lock()
	b.stock = own
	b.stockFetchedAt = fetchedAt
	b.mu.Unlock()
}

// StockFetchedAt is when the stock snapshot was applied; zero before the first.
func (b *Board) StockFetchedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stockFetchedAt
}

func (b *Board) Orders() entity.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.orders
}

func (b *Board) Stock() []entity.IngredientStock {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.IngredientStock, len(b.stock))
	copy(out, b.stock)
	return out
}

func (b *Board) Find(id int64) (entity.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.orders.Find(id)
}

// UpdateOrder swaps in a snapshot where order id was changed by fn.
func (b *Board) UpdateOrder(id int64, fn func(*entity.Order)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	next, ok := b.orders.With(id, fn)
	if ok {
		b.orders = next
	}
	return ok
}

// UpdateStock replaces the named stock row with the result of fn.
func (b *Board) UpdateStock(name string, fn func(entity.IngredientStock) entity.IngredientStock) (entity.IngredientStock, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.stock {
		if b.stock[i].Name == name {
			next := make([]entity.IngredientStock, len(b.stock))
			copy(next, b.stock)
			next[i] = fn(next[i])
			b.stock = next
			return next[i], true
		}
	}
	return entity.IngredientStock{}, false
}

func (b *Board) SetFilter(f entity.Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = f
}

func (b *Board) Filter() entity.Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// Open captures order id for action. Unknown ids return false and leave any
// previous selection in place.
func (b *Board) Open(id int64, action entity.Action, at time.Time) (Selection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders.Find(id)
	if !ok {
		return Selection{}, false
	}
	b.selection = &Selection{Order: o, Action: action, OpenedAt: at}
	return *b.selection, true
}

func (b *Board) Selected() (Selection, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.selection == nil {
		return Selection{}, false
	}
	return *b.selection, true
}

func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = nil
}
