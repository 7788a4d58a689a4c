package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MenuItem is one entry of the cardápio. Name is the unique key.
type MenuItem struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

const sandwichPrefix = "X-"

// MenuSection is a titled group of menu items, in service order.
type MenuSection struct {
	Title string
	Items []MenuItem
}

// GroupMenu splits the menu into sandwiches ("X-" prefix) and drinks.
// Empty sections are omitted.
func GroupMenu(items []MenuItem) []MenuSection {
	var sandwiches, drinks []MenuItem
	for _, it := range items {
		if strings.HasPrefix(it.Name, sandwichPrefix) {
			sandwiches = append(sandwiches, it)
		} else {
			drinks = append(drinks, it)
		}
	}

	sections := make([]MenuSection, 0, 2)
	if len(sandwiches) > 0 {
		sections = append(sections, MenuSection{Title: "Lanches", Items: sandwiches})
	}
	if len(drinks) > 0 {
		sections = append(sections, MenuSection{Title: "Bebidas", Items: drinks})
	}
	return sections
}

// FindMenuItem looks an item up by its exact name.
func FindMenuItem(items []MenuItem, name string) (MenuItem, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return MenuItem{}, false
}
