package model

import (
	"errors"
	"testing"
)

func sampleCollection() Collection {
	return Collection{
		{ID: "1", Name: "Milk", Category: CategoryDairy, ListType: ListToBuy},
		{ID: "2", Name: "Apples", Category: CategoryProduce, ListType: ListToBuy, Purchased: true},
		{ID: "3", Name: "Oat milk", Category: CategoryDairy, ListType: ListFavorites, Note: "barista"},
		{ID: "4", Name: "Liver", Category: CategoryMeat, ListType: ListNeverBuy},
	}
}

func TestCollectionAddRejectsDuplicates(t *testing.T) {
	c := sampleCollection()
	if _, err := c.Add(Item{ID: "1", Name: "Dup"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if _, err := c.AddMany(Item{ID: "9", Name: "A"}, Item{ID: "9", Name: "B"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate within batch to fail, got %v", err)
	}
	next, err := c.AddMany(Item{ID: "9", Name: "A"}, Item{ID: "10", Name: "B"})
	if err != nil {
		t.Fatalf("add many: %v", err)
	}
	if len(next) != 6 || len(c) != 4 {
		t.Fatalf("unexpected lengths: next=%d original=%d", len(next), len(c))
	}
	if next[4].ID != "9" || next[5].ID != "10" {
		t.Fatalf("expected insertion order preserved, got %+v", next[4:])
	}
}

func TestCollectionMutatorsDoNotAliasReceiver(t *testing.T) {
	c := sampleCollection()
	next, err := c.TogglePurchased("1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if c[0].Purchased {
		t.Fatal("receiver was mutated")
	}
	if !next[0].Purchased {
		t.Fatal("expected toggled item purchased")
	}

	updated := next[0]
	updated.Note = "2%"
	next2, err := next.Update(updated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if next[0].Note != "" || next2[0].Note != "2%" {
		t.Fatalf("unexpected notes: %q %q", next[0].Note, next2[0].Note)
	}
}

func TestCollectionNotFound(t *testing.T) {
	c := sampleCollection()
	if _, err := c.Remove("nope"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("remove: expected not found, got %v", err)
	}
	if _, err := c.Update(Item{ID: "nope"}); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("update: expected not found, got %v", err)
	}
	if _, _, err := c.AddToCart("nope"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("cart: expected not found, got %v", err)
	}
}

func TestMoveToListResetsPurchased(t *testing.T) {
	c := sampleCollection()
	next, err := c.MoveToList("2", ListFavorites)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	got, _ := next.Find("2")
	if got.ListType != ListFavorites || got.Purchased {
		t.Fatalf("unexpected moved item: %+v", got)
	}
	if _, err := c.MoveToList("2", "wishlist"); !errors.Is(err, ErrInvalidListType) {
		t.Fatalf("expected invalid list error, got %v", err)
	}
}

func TestAddToCartDuplicatesFavorite(t *testing.T) {
	c := sampleCollection()
	next, dup, err := c.AddToCart("3")
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if len(next) != len(c)+1 {
		t.Fatalf("expected one new item, got %d", len(next))
	}
	if dup.ID == "3" || dup.ListType != ListToBuy || dup.Purchased || dup.Note != "barista" {
		t.Fatalf("unexpected duplicate: %+v", dup)
	}
	src, _ := next.Find("3")
	if src.ListType != ListFavorites {
		t.Fatalf("source moved: %+v", src)
	}
}

func TestClearPurchasedAndRemove(t *testing.T) {
	c := sampleCollection()
	next, removed := c.ClearPurchased()
	if removed != 1 || len(next) != 3 {
		t.Fatalf("unexpected clear result: removed=%d len=%d", removed, len(next))
	}
	if _, ok := next.Find("2"); ok {
		t.Fatal("purchased item still present")
	}
	next, err := next.Remove("4")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(next) != 2 {
		t.Fatalf("unexpected length after remove: %d", len(next))
	}
}

func TestFilterSearchAndCategory(t *testing.T) {
	c := sampleCollection()
	if got := c.ByList(ListToBuy); len(got) != 2 {
		t.Fatalf("expected 2 to-buy items, got %d", len(got))
	}
	if got := c.Filter(Filter{Search: "MILK"}); len(got) != 2 {
		t.Fatalf("expected case-insensitive search hits, got %d", len(got))
	}
	if got := c.Filter(Filter{List: ListToBuy, Category: CategoryDairy}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected category filter result: %+v", got)
	}
	if got := c.Filter(Filter{Category: CategoryAll}); len(got) != len(c) {
		t.Fatalf("expected all filter to match everything, got %d", len(got))
	}
	if got := c.ByList(ListToBuy).PurchasedCount(); got != 1 {
		t.Fatalf("expected 1 purchased, got %d", got)
	}
}

func TestGroupByCategoryOrder(t *testing.T) {
	c := Collection{
		{ID: "1", Name: "Soap", Category: CategoryHousehold},
		{ID: "2", Name: "Chips", Category: "snacks"},
		{ID: "3", Name: "Kale", Category: CategoryProduce},
		{ID: "4", Name: "Sponge", Category: CategoryHousehold},
	}
	groups := c.GroupByCategory()
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Category != CategoryProduce || groups[1].Category != CategoryHousehold || groups[2].Category != "snacks" {
		t.Fatalf("unexpected group order: %+v", groups)
	}
	if len(groups[1].Items) != 2 || groups[1].Items[0].ID != "1" {
		t.Fatalf("unexpected household group: %+v", groups[1].Items)
	}
}
