package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var ErrMalformedJSON = errors.New("codec: malformed json")

// Object is the generic JSON object used throughout the codec. Key order is
// the order keys appeared in the source document.
type Object = orderedmap.OrderedMap[string, any]

func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// ParseTree decodes JSON into ordered objects, []any arrays, strings,
// json.Number, bool and nil.
func ParseTree(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, ErrMalformedJSON
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	return buildNode(value, typ)
}

func buildNode(value []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			node, err := buildNode(v, t)
			if err != nil {
				return err
			}
			if _, dup := obj.Get(string(key)); !dup {
				obj.Set(string(key), node)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return obj, nil
	case jsonparser.Array:
		out := make([]any, 0)
		var inner error
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, _ error) {
			if inner != nil {
				return
			}
			node, err := buildNode(v, t)
			if err != nil {
				inner = err
				return
			}
			out = append(out, node)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		if inner != nil {
			return nil, inner
		}
		return out, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return s, nil
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return b, nil
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unexpected value type %s", ErrMalformedJSON, typ)
	}
}

func MarshalTree(tree any) (string, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	return string(data), nil
}
