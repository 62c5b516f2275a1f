package codec

import (
	"encoding/json"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/sandeepkv93/grocer/internal/model"
)

var knownFields = map[string]bool{
	FieldID:        true,
	FieldName:      true,
	FieldCategory:  true,
	FieldListType:  true,
	FieldNote:      true,
	FieldPurchased: true,
}

// ItemToTree renders an item in canonical (expanded) form. Extra fields
// follow the known ones in their stored order.
func ItemToTree(item model.Item) *Object {
	obj := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](6))
	obj.Set(FieldID, item.ID)
	obj.Set(FieldName, item.Name)
	obj.Set(FieldCategory, string(item.Category))
	obj.Set(FieldListType, string(item.ListType))
	obj.Set(FieldNote, item.Note)
	obj.Set(FieldPurchased, item.Purchased)
	if item.Extra != nil {
		for p := item.Extra.Oldest(); p != nil; p = p.Next() {
			if knownFields[p.Key] {
				continue
			}
			obj.Set(p.Key, p.Value)
		}
	}
	return obj
}

func ItemsToTree(items model.Collection) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, ItemToTree(item))
	}
	return out
}

// TreeToItems reads an expanded tree. A single object is treated as a
// one-item list. Elements that are not objects, or that have no usable id,
// are skipped.
func TreeToItems(tree any) model.Collection {
	var elems []any
	switch typed := tree.(type) {
	case []any:
		elems = typed
	case *Object:
		elems = []any{typed}
	default:
		return model.Collection{}
	}

	out := make(model.Collection, 0, len(elems))
	seen := make(map[string]bool, len(elems))
	for _, el := range elems {
		obj, ok := el.(*Object)
		if !ok || obj == nil {
			continue
		}
		item, ok := itemFromObject(obj)
		if !ok || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}

func itemFromObject(obj *Object) (model.Item, bool) {
	raw, ok := obj.Get(FieldID)
	if !ok {
		return model.Item{}, false
	}
	id, ok := idString(raw)
	if !ok || id == "" {
		return model.Item{}, false
	}

	item := model.Item{ID: id, ListType: model.ListToBuy}
	for p := obj.Oldest(); p != nil; p = p.Next() {
		switch p.Key {
		case FieldID:
		case FieldName:
			item.Name, _ = p.Value.(string)
		case FieldCategory:
			if s, ok := p.Value.(string); ok {
				item.Category = model.Category(s)
			}
		case FieldListType:
			if s, ok := p.Value.(string); ok && s != "" {
				item.ListType = model.ListType(s)
			}
		case FieldNote:
			item.Note, _ = p.Value.(string)
		case FieldPurchased:
			item.Purchased, _ = p.Value.(bool)
		default:
			if item.Extra == nil {
				item.Extra = orderedmap.New[string, any]()
			}
			item.Extra.Set(p.Key, p.Value)
		}
	}
	return item, true
}

func idString(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	default:
		return "", false
	}
}

// EncodeItems encodes a collection under the scheme.
func (s *Scheme) EncodeItems(items model.Collection) (Encoded, error) {
	return s.Encode(ItemsToTree(items))
}

// DecodeItems decodes a stored value into items. The Decoded result carries
// the strategy that succeeded and earlier failures.
func (s *Scheme) DecodeItems(raw string) (model.Collection, Decoded) {
	dec := s.Decode(raw)
	return TreeToItems(dec.Tree), dec
}
