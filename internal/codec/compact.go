package codec

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Compact shortens recognized keys and enum values and drops fields that
// hold their default. Arrays are compacted element by element; anything that
// is not an object or array is returned unchanged.
func (s *Scheme) Compact(v any) any {
	switch typed := v.(type) {
	case []any:
		out := make([]any, len(typed))
		for i, el := range typed {
			out[i] = s.Compact(el)
		}
		return out
	case *Object:
		if typed == nil {
			return v
		}
		return s.compactObject(typed)
	default:
		return v
	}
}

func (s *Scheme) compactObject(obj *Object) *Object {
	out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](obj.Len()))
	for p := obj.Oldest(); p != nil; p = p.Next() {
		if s.isDefault(p.Key, p.Value) || shadowsKnownField(obj, p.Key) {
			continue
		}
		out.Set(aliasKey(p.Key), aliasValue(p.Key, p.Value))
	}
	return out
}

// shadowsKnownField reports whether key is an unrecognized field spelled like
// the alias of a field obj also carries. The known field keeps the slot and
// the unrecognized one is dropped.
func shadowsKnownField(obj *Object, key string) bool {
	name, ok := fieldNames[key]
	if !ok {
		return false
	}
	_, present := obj.Get(name)
	return present
}

func (s *Scheme) isDefault(key string, v any) bool {
	switch key {
	case FieldPurchased:
		b, ok := v.(bool)
		return ok && !b
	case FieldNote:
		str, ok := v.(string)
		return ok && str == ""
	case FieldListType:
		str, ok := v.(string)
		return ok && s.impliedList != "" && str == string(s.impliedList)
	default:
		return false
	}
}

// Expand is the inverse of Compact. Objects carrying an id get their omitted
// defaults back. Values that were never compacted pass through with the
// defaults still applied.
func (s *Scheme) Expand(v any) any {
	switch typed := v.(type) {
	case []any:
		out := make([]any, len(typed))
		for i, el := range typed {
			out[i] = s.Expand(el)
		}
		return out
	case *Object:
		if typed == nil {
			return v
		}
		return s.expandObject(typed)
	default:
		return v
	}
}

func (s *Scheme) expandObject(obj *Object) *Object {
	out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](obj.Len() + 3))
	for p := obj.Oldest(); p != nil; p = p.Next() {
		key := canonicalKey(p.Key)
		out.Set(key, canonicalValue(key, p.Value))
	}
	if _, ok := out.Get(FieldID); !ok {
		return out
	}
	if _, ok := out.Get(FieldNote); !ok {
		out.Set(FieldNote, "")
	}
	if _, ok := out.Get(FieldPurchased); !ok {
		out.Set(FieldPurchased, false)
	}
	if s.impliedList != "" {
		if _, ok := out.Get(FieldListType); !ok {
			out.Set(FieldListType, string(s.impliedList))
		}
	}
	return out
}

func Compact(v any) any { return Full.Compact(v) }

func Expand(v any) any { return Full.Expand(v) }
