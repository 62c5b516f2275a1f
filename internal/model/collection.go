package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrItemNotFound = errors.New("model: item not found")
	ErrDuplicateID  = errors.New("model: duplicate item id")
)

// Collection is an ordered item list. Mutators never modify the receiver;
// they return a new Collection.
type Collection []Item

type Filter struct {
	List     ListType
	Search   string
	Category Category
}

type CategoryGroup struct {
	Category Category
	Items    []Item
}

func (c Collection) clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

func (c Collection) index(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) Find(id string) (Item, bool) {
	if i := c.index(id); i >= 0 {
		return c[i], true
	}
	return Item{}, false
}

func (c Collection) Add(item Item) (Collection, error) {
	return c.AddMany(item)
}

// AddMany appends all items or none of them.
func (c Collection) AddMany(items ...Item) (Collection, error) {
	seen := make(map[string]bool, len(c)+len(items))
	for _, existing := range c {
		seen[existing.ID] = true
	}
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			return c, errors.New("model: item id is required")
		}
		if seen[item.ID] {
			return c, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		seen[item.ID] = true
	}
	out := make(Collection, 0, len(c)+len(items))
	out = append(out, c...)
	out = append(out, items...)
	return out, nil
}

// Update replaces the item carrying the same id.
func (c Collection) Update(item Item) (Collection, error) {
	i := c.index(item.ID)
	if i < 0 {
		return c, fmt.Errorf("%w: %s", ErrItemNotFound, item.ID)
	}
	out := c.clone()
	out[i] = item
	return out, nil
}

func (c Collection) Remove(id string) (Collection, error) {
	i := c.index(id)
	if i < 0 {
		return c, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	out := make(Collection, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	return out, nil
}

func (c Collection) TogglePurchased(id string) (Collection, error) {
	i := c.index(id)
	if i < 0 {
		return c, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	out := c.clone()
	out[i].Purchased = !out[i].Purchased
	return out, nil
}

// MoveToList changes the item's list and resets its purchased flag.
func (c Collection) MoveToList(id string, list ListType) (Collection, error) {
	if !list.IsValid() {
		return c, fmt.Errorf("%w: %q", ErrInvalidListType, list)
	}
	i := c.index(id)
	if i < 0 {
		return c, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	out := c.clone()
	out[i].ListType = list
	out[i].Purchased = false
	return out, nil
}

// AddToCart copies the item into the to-buy list under a new id, leaving
// the source item where it is.
func (c Collection) AddToCart(id string) (Collection, Item, error) {
	src, ok := c.Find(id)
	if !ok {
		return c, Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	newID, err := NewID()
	if err != nil {
		return c, Item{}, err
	}
	dup := src.Clone()
	dup.ID = newID
	dup.ListType = ListToBuy
	dup.Purchased = false
	out, err := c.Add(dup)
	if err != nil {
		return c, Item{}, err
	}
	return out, dup, nil
}

// ClearPurchased drops every purchased item and reports how many were removed.
func (c Collection) ClearPurchased() (Collection, int) {
	out := make(Collection, 0, len(c))
	for _, item := range c {
		if !item.Purchased {
			out = append(out, item)
		}
	}
	return out, len(c) - len(out)
}

func (c Collection) ByList(list ListType) Collection {
	return c.Filter(Filter{List: list})
}

func (c Collection) Filter(f Filter) Collection {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make(Collection, 0, len(c))
	for _, item := range c {
		if f.List != "" && item.ListType != f.List {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && item.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c Collection) PurchasedCount() int {
	n := 0
	for _, item := range c {
		if item.Purchased {
			n++
		}
	}
	return n
}

// GroupByCategory groups items in canonical category order. Unknown
// categories follow in order of first appearance.
func (c Collection) GroupByCategory() []CategoryGroup {
	buckets := make(map[Category][]Item)
	unknown := make([]Category, 0)
	for _, item := range c {
		if _, ok := buckets[item.Category]; !ok && !item.Category.IsValid() {
			unknown = append(unknown, item.Category)
		}
		buckets[item.Category] = append(buckets[item.Category], item)
	}
	out := make([]CategoryGroup, 0, len(buckets))
	for _, cat := range append(Categories(), unknown...) {
		if items := buckets[cat]; len(items) > 0 {
			out = append(out, CategoryGroup{Category: cat, Items: items})
		}
	}
	return out
}
