package entity

import "testing"

func TestGroupMenu(t *testing.T) {
	items := []MenuItem{
		item("Suco", "6"),
		item("X-Burger", "10"),
		item("Refri", "5"),
		item("X-Salada", "12"),
	}
	sections := GroupMenu(items)
	if len(sections) != 2 {
		t.Fatalf("got %d sections", len(sections))
	}
	if sections[0].Title != "Lanches" || len(sections[0].Items) != 2 || sections[0].Items[0].Name != "X-Burger" {
		t.Errorf("lanches = %+v", sections[0])
	}
	if sections[1].Title != "Bebidas" || sections[1].Items[0].Name != "Suco" || sections[1].Items[1].Name != "Refri" {
		t.Errorf("bebidas = %+v", sections[1])
	}

	if got := GroupMenu([]MenuItem{item("Suco", "6")}); len(got) != 1 || got[0].Title != "Bebidas" {
		t.Errorf("drinks only = %+v", got)
	}
}

func TestFindMenuItem(t *testing.T) {
	items := []MenuItem{item("Suco", "6")}
	if _, ok := FindMenuItem(items, "Suco"); !ok {
		t.Error("Suco not found")
	}
	if _, ok := FindMenuItem(items, "suco"); ok {
		t.Error("lookup should be exact")
	}
}
