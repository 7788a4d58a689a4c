package entity

import "github.com/shopspring/decimal"

// CartLine aggregates every unit of one menu item in the cart.
type CartLine struct {
	Item     MenuItem
	Quantity int
}

// Subtotal is the unit price times the quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartSummary is the derived view of the cart, recomputed on every mutation.
type CartSummary struct {
	Lines []CartLine
	Units int
	Total decimal.Decimal
}

// Visible reports whether the order summary should be shown at all.
func (s CartSummary) Visible() bool { return len(s.Lines) > 0 }

// Cart keeps one line per distinct item name, in order of first add.
// Every present line has Quantity >= 1.
type Cart struct {
	lines   []CartLine
	summary CartSummary
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	c := &Cart{}
	c.recompute()
	return c
}

// Add increments the line for item.Name, creating it with quantity 1 on first add.
func (c *Cart) Add(item MenuItem) CartSummary {
	if i := c.indexOf(item.Name); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, CartLine{Item: item, Quantity: 1})
	}
	c.recompute()
	return c.summary
}

// Remove decrements the named line and drops it once it would fall below 1.
// Unknown names are ignored.
func (c *Cart) Remove(itemName string) CartSummary {
	i := c.indexOf(itemName)
	if i < 0 {
		return c.summary
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	} else {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	c.recompute()
	return c.summary
}

// Clear drops every line.
func (c *Cart) Clear() {
	c.lines = nil
	c.recompute()
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Summary() CartSummary { return c.summary }

func (c *Cart) indexOf(name string) int {
	for i, l := range c.lines {
		if l.Item.Name == name {
			return i
		}
	}
	return -1
}

func (c *Cart) recompute() {
	total := decimal.Zero
	units := 0
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
		units += l.Quantity
	}
	c.summary = CartSummary{Lines: c.Lines(), Units: units, Total: total}
}
