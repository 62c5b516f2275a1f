package model

import (
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrInvalidCategory = errors.New("model: invalid category")
	ErrInvalidListType = errors.New("model: invalid list type")
)

type Category string

const (
	CategoryProduce   Category = "produce"
	CategoryDairy     Category = "dairy"
	CategoryMeat      Category = "meat"
	CategoryBakery    Category = "bakery"
	CategoryFrozen    Category = "frozen"
	CategoryPantry    Category = "pantry"
	CategoryHousehold Category = "household"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll Category = "all"

func (c Category) IsValid() bool {
	switch c {
	case CategoryProduce, CategoryDairy, CategoryMeat, CategoryBakery, CategoryFrozen, CategoryPantry, CategoryHousehold:
		return true
	default:
		return false
	}
}

func Categories() []Category {
	return []Category{
		CategoryProduce,
		CategoryDairy,
		CategoryMeat,
		CategoryBakery,
		CategoryFrozen,
		CategoryPantry,
		CategoryHousehold,
	}
}

// ParseCategory matches case-insensitively and reports whether raw named a known category.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.IsValid()
}

type ListType string

const (
	ListToBuy     ListType = "tobuy"
	ListFavorites ListType = "favorites"
	ListNeverBuy  ListType = "neverbuy"
)

func (l ListType) IsValid() bool {
	switch l {
	case ListToBuy, ListFavorites, ListNeverBuy:
		return true
	default:
		return false
	}
}

func (l ListType) Label() string {
	switch l {
	case ListToBuy:
		return "To Buy"
	case ListFavorites:
		return "Favorites"
	case ListNeverBuy:
		return "Never Buy"
	default:
		return string(l)
	}
}

func ListTypes() []ListType {
	return []ListType{ListToBuy, ListFavorites, ListNeverBuy}
}

func ParseListType(raw string) (ListType, bool) {
	l := ListType(strings.ToLower(strings.TrimSpace(raw)))
	return l, l.IsValid()
}

type Item struct {
	ID        string
	Name      string
	Category  Category
	ListType  ListType
	Note      string
	Purchased bool
	// Extra holds wire fields this version does not recognize, in their original order.
	Extra *orderedmap.OrderedMap[string, any]
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: item id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("model: item name is required")
	}
	if !i.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, i.Category)
	}
	if !i.ListType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidListType, i.ListType)
	}
	return nil
}

func (i Item) Clone() Item {
	out := i
	if i.Extra != nil {
		out.Extra = orderedmap.New[string, any](orderedmap.WithCapacity[string, any](i.Extra.Len()))
		for p := i.Extra.Oldest(); p != nil; p = p.Next() {
			out.Extra.Set(p.Key, p.Value)
		}
	}
	return out
}

// NewItem builds a validated, unpurchased item with a fresh id.
func NewItem(name string, category Category, list ListType, note string) (Item, error) {
	id, err := NewID()
	if err != nil {
		return Item{}, err
	}
	item := Item{
		ID:       id,
		Name:     strings.TrimSpace(name),
		Category: category,
		ListType: list,
		Note:     strings.TrimSpace(note),
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	return item, nil
}
