package entity

import "time"

// Filter selects which orders a view shows.
type Filter string

const (
	// FilterAll shows every order, canceled ones included.
	FilterAll Filter = "todos"
	// FilterActive is the default view: everything except canceled orders.
	FilterActive Filter = "ativos"
)

// FilterStatus shows only orders in s.
func FilterStatus(s Status) Filter { return Filter(s) }

// ParseFilter accepts "todos", "ativos" or a status; anything else is FilterActive.
func ParseFilter(v string) Filter {
	switch f := Filter(v); f {
	case FilterAll, FilterActive:
		return f
	case Filter(StatusReceived), Filter(StatusPreparing), Filter(StatusReady), Filter(StatusCanceled):
		return f
	default:
		return FilterActive
	}
}

func (f Filter) match(o Order) bool {
	switch f {
	case FilterAll:
		return true
	case FilterActive, "":
		return o.Status != StatusCanceled
	default:
		return o.Status == Status(f)
	}
}

// Counts is the number of orders per status in one snapshot.
type Counts struct {
	Received  int
	Preparing int
	Ready     int
	Canceled  int
}

// Snapshot is the order list fetched at one refresh, in arrival order.
// It is immutable once built; counts are derived at construction.
type Snapshot struct {
	orders    []Order
	counts    Counts
	fetchedAt time.Time
}

func NewSnapshot(orders []Order, fetchedAt time.Time) Snapshot {
	own := make([]Order, len(orders))
	copy(own, orders)

	var c Counts
	for _, o := range own {
		switch o.Status {
		case StatusReceived:
			c.Received++
		case StatusPreparing:
			c.Preparing++
		case StatusReady:
			c.Ready++
		case StatusCanceled:
			c.Canceled++
		}
	}
	return Snapshot{orders: own, counts: c, fetchedAt: fetchedAt}
}

func (s Snapshot) Len() int             { return len(s.orders) }
func (s Snapshot) Counts() Counts       { return s.counts }
func (s Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Orders returns a copy of every order in arrival order.
func (s Snapshot) Orders() []Order { return s.FilteredBy(FilterAll) }

// FilteredBy returns the matching orders in arrival order.
func (s Snapshot) FilteredBy(f Filter) []Order {
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.match(o) {
			out = append(out, o)
		}
	}
	return out
}

// NewestFirst returns the matching orders in reverse arrival order, as the
// history view renders them.
func (s Snapshot) NewestFirst(f Filter) []Order {
	out := s.FilteredBy(f)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Find looks an order up by id.
func (s Snapshot) Find(id int64) (Order, bool) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return Order{}, false
}

// With returns a new snapshot where the order with id is replaced by the
// result of fn. The receiver is left untouched.
func (s Snapshot) With(id int64, fn func(*Order)) (Snapshot, bool) {
	orders := s.Orders()
	for i := range orders {
		if orders[i].ID == id {
			fn(&orders[i])
			return NewSnapshot(orders, s.fetchedAt), true
		}
	}
	return s, false
}
