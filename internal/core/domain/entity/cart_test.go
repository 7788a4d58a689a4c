package entity

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func item(name, price string) MenuItem {
	return MenuItem{Name: name, Price: decimal.RequireFromString(price)}
}

func TestCart_AddTwiceMergesLine(t *testing.T) {
	c := NewCart()
	burger := item("X-Burger", "10.00")

	c.Add(burger)
	sum := c.Add(burger)

	if len(sum.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(sum.Lines))
	}
	if sum.Lines[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", sum.Lines[0].Quantity)
	}
	if !sum.Total.Equal(decimal.NewFromInt(20)) || sum.Units != 2 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := NewCart()
	c.Add(item("X-Burger", "10"))
	c.Add(item("Suco", "6"))
	c.Add(item("X-Burger", "10"))

	sum := c.Remove("X-Burger")
	if len(sum.Lines) != 2 || sum.Lines[0].Quantity != 1 {
		t.Errorf("after first remove: %+v", sum.Lines)
	}
	sum = c.Remove("X-Burger")
	if len(sum.Lines) != 1 || sum.Lines[0].Item.Name != "Suco" {
		t.Errorf("after second remove: %+v", sum.Lines)
	}
	sum = c.Remove("Pizza")
	if len(sum.Lines) != 1 {
		t.Errorf("removing unknown item changed the cart: %+v", sum.Lines)
	}

	c.Clear()
	if !c.Empty() || c.Summary().Visible() || !c.Summary().Total.IsZero() {
		t.Errorf("cart not empty after Clear: %+v", c.Summary())
	}
}

func TestCart_InsertionOrder(t *testing.T) {
	c := NewCart()
	for _, n := range []string{"Suco", "X-Burger", "Suco", "Refri"} {
		c.Add(item(n, "1"))
	}
	want := []string{"Suco", "X-Burger", "Refri"}
	for i, l := range c.Lines() {
		if l.Item.Name != want[i] {
			t.Errorf("line %d = %s, want %s", i, l.Item.Name, want[i])
		}
	}
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := NewCart()
	c.Add(item("Suco", "6"))
	lines := c.Lines()
	lines[0].Quantity = 99
	if c.Lines()[0].Quantity != 1 {
		t.Error("mutating Lines() leaked into the cart")
	}
}

// Random add/remove sequences keep one line per present name and no line below 1.
func TestCart_RandomSequencesKeepInvariants(t *testing.T) {
	names := []string{"X-Burger", "X-Salada", "Suco", "Refri"}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		c := NewCart()
		model := map[string]int{}

		for step := 0; step < 50; step++ {
			n := names[rng.Intn(len(names))]
			if rng.Intn(2) == 0 {
				c.Add(item(n, "2.50"))
				model[n]++
			} else {
				c.Remove(n)
				if model[n] > 0 {
					model[n]--
				}
				if model[n] == 0 {
					delete(model, n)
				}
			}

			lines := c.Lines()
			if len(lines) != len(model) {
				t.Fatalf("run %d step %d: %d lines, model has %d", run, step, len(lines), len(model))
			}
			seen := map[string]bool{}
			units := 0
			for _, l := range lines {
				if l.Quantity < 1 {
					t.Fatalf("line %s has quantity %d", l.Item.Name, l.Quantity)
				}
				if seen[l.Item.Name] {
					t.Fatalf("duplicate line %s", l.Item.Name)
				}
				seen[l.Item.Name] = true
				if model[l.Item.Name] != l.Quantity {
					t.Fatalf("line %s quantity %d, model %d", l.Item.Name, l.Quantity, model[l.Item.Name])
				}
				units += l.Quantity
			}
			want := decimal.RequireFromString("2.50").Mul(decimal.NewFromInt(int64(units)))
			if !c.Summary().Total.Equal(want) {
				t.Fatalf("total = %s, want %s", c.Summary().Total, want)
			}
		}
	}
}
