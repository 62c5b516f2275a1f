package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestItemValidate(t *testing.T) {
	valid := Item{ID: "a1", Name: "Milk", Category: CategoryDairy, ListType: ListToBuy}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Item)
		want error
	}{
		{"missing id", func(i *Item) { i.ID = " " }, nil},
		{"missing name", func(i *Item) { i.Name = "" }, nil},
		{"bad category", func(i *Item) { i.Category = "snacks" }, ErrInvalidCategory},
		{"bad list", func(i *Item) { i.ListType = "wishlist" }, ErrInvalidListType},
	}
	for _, tc := range cases {
		item := valid
		tc.mut(&item)
		err := item.Validate()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseCategoryAndListType(t *testing.T) {
	if c, ok := ParseCategory("  Dairy "); !ok || c != CategoryDairy {
		t.Fatalf("unexpected category parse: %q %v", c, ok)
	}
	if _, ok := ParseCategory("snacks"); ok {
		t.Fatal("expected snacks to be unknown")
	}
	if l, ok := ParseListType("FAVORITES"); !ok || l != ListFavorites {
		t.Fatalf("unexpected list parse: %q %v", l, ok)
	}
	if len(Categories()) != 7 || len(ListTypes()) != 3 {
		t.Fatalf("unexpected enum sizes: %d %d", len(Categories()), len(ListTypes()))
	}
}

func TestNewItemDefaults(t *testing.T) {
	item, err := NewItem("  Bread ", CategoryBakery, ListFavorites, " sourdough ")
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	if item.ID == "" || item.Name != "Bread" || item.Note != "sourdough" || item.Purchased {
		t.Fatalf("unexpected item: %+v", item)
	}
	if _, err := NewItem("", CategoryBakery, ListFavorites, ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNewIDShapeAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if len(id) != idLength {
			t.Fatalf("unexpected id length %d: %q", len(id), id)
		}
		for _, r := range id {
			if !strings.ContainsRune(idAlphabet, r) {
				t.Fatalf("unexpected rune %q in %q", r, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestShortIDIgnoresTimestamp(t *testing.T) {
	var a, b uuid.UUID
	for i := 0; i < 6; i++ {
		a[i] = 0x00
		b[i] = 0xff
	}
	if shortID(a) != shortID(b) {
		t.Fatalf("timestamp bytes leaked into id: %q vs %q", shortID(a), shortID(b))
	}
	b[12] = 1
	if shortID(a) == shortID(b) {
		t.Fatal("expected random bytes to change the id")
	}
}

func TestItemCloneCopiesExtra(t *testing.T) {
	item := Item{ID: "a", Name: "Tea"}
	if item.Clone().Extra != nil {
		t.Fatal("expected nil extra to stay nil")
	}

	item.Extra = orderedmap.New[string, any]()
	item.Extra.Set("qty", "2")
	clone := item.Clone()
	clone.Extra.Set("qty", "3")
	if v, _ := item.Extra.Get("qty"); v != "2" {
		t.Fatalf("clone shares extra map with source: %v", v)
	}
}
