package codec

import "github.com/sandeepkv93/grocer/internal/model"

const (
	FieldID        = "id"
	FieldName      = "name"
	FieldCategory  = "category"
	FieldListType  = "listType"
	FieldNote      = "note"
	FieldPurchased = "purchased"
)

var fieldAliases = map[string]string{
	FieldID:        "i",
	FieldName:      "n",
	FieldCategory:  "c",
	FieldListType:  "l",
	FieldNote:      "o",
	FieldPurchased: "p",
}

var categoryAliases = map[string]string{
	string(model.CategoryProduce):   "pr",
	string(model.CategoryDairy):     "da",
	string(model.CategoryMeat):      "me",
	string(model.CategoryBakery):    "ba",
	string(model.CategoryFrozen):    "fr",
	string(model.CategoryPantry):    "pa",
	string(model.CategoryHousehold): "ho",
}

var listTypeAliases = map[string]string{
	string(model.ListToBuy):     "tb",
	string(model.ListFavorites): "fv",
	string(model.ListNeverBuy):  "nb",
}

var (
	fieldNames    = reverse(fieldAliases)
	categoryNames = reverse(categoryAliases)
	listTypeNames = reverse(listTypeAliases)
)

func reverse(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[v] = k
	}
	return out
}

// Scheme is one compact wire layout. Schemes share the alias tables and
// differ in which list type, if any, is implied rather than written.
type Scheme struct {
	name        string
	impliedList model.ListType
}

var (
	// Full writes every field, including listType.
	Full = &Scheme{name: "full"}
	// ToBuy leaves listType out for to-buy items and restores it on expand.
	ToBuy = &Scheme{name: "tobuy", impliedList: model.ListToBuy}
)

func (s *Scheme) Name() string {
	return s.name
}

func aliasKey(key string) string {
	if a, ok := fieldAliases[key]; ok {
		return a
	}
	return key
}

func canonicalKey(key string) string {
	if name, ok := fieldNames[key]; ok {
		return name
	}
	return key
}

func aliasValue(key string, v any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	var table map[string]string
	switch key {
	case FieldCategory:
		table = categoryAliases
	case FieldListType:
		table = listTypeAliases
	default:
		return v
	}
	if a, ok := table[str]; ok {
		return a
	}
	return v
}

func canonicalValue(key string, v any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	var table map[string]string
	switch key {
	case FieldCategory:
		table = categoryNames
	case FieldListType:
		table = listTypeNames
	default:
		return v
	}
	if name, ok := table[str]; ok {
		return name
	}
	return v
}
