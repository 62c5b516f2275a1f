package codec

import (
	"errors"
	"fmt"
)

var ErrEmptyValue = errors.New("codec: empty value")

type Encoded struct {
	Value      string
	Plain      string
	Compressed bool
}

// Encode compacts tree, serializes it and keeps whichever of the compressed
// and plain forms is shorter. Ties go to the compressed form. If compression
// itself fails the plain form is used.
func (s *Scheme) Encode(tree any) (Encoded, error) {
	plain, err := MarshalTree(s.Compact(tree))
	if err != nil {
		return Encoded{}, err
	}
	compressed, err := Compress(plain)
	if err != nil {
		return Encoded{Value: plain, Plain: plain}, nil
	}
	return shorter(plain, compressed), nil
}

func shorter(plain, compressed string) Encoded {
	if len(compressed) > len(plain) {
		return Encoded{Value: plain, Plain: plain}
	}
	return Encoded{Value: compressed, Plain: plain, Compressed: true}
}

// Strategy is one way of turning a stored value into a JSON tree.
type Strategy struct {
	Name   string
	Decode func(raw string) (any, error)
}

const (
	StrategyCompressed = "compressed"
	StrategyPlain      = "plain"
	StrategyDefault    = "default"
)

// Strategies lists the decode attempts in order. The last never fails.
func Strategies() []Strategy {
	return []Strategy{
		{Name: StrategyCompressed, Decode: decodeCompressed},
		{Name: StrategyPlain, Decode: decodePlain},
		{Name: StrategyDefault, Decode: func(string) (any, error) { return []any{}, nil }},
	}
}

func decodeCompressed(raw string) (any, error) {
	text, err := Decompress(raw)
	if err != nil {
		return nil, err
	}
	tree, err := ParseTree([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: decompressed output: %v", ErrNotCompressed, err)
	}
	return tree, nil
}

func decodePlain(raw string) (any, error) {
	if raw == "" {
		return nil, ErrEmptyValue
	}
	return ParseTree([]byte(raw))
}

type Decoded struct {
	// Tree is the expanded value.
	Tree     any
	Strategy string
	// Failures holds the errors of the strategies tried before the one that won.
	Failures []error
}

// Fallback reports whether no stored format could be read.
func (d Decoded) Fallback() bool {
	return d.Strategy == StrategyDefault
}

func (d Decoded) Err() error {
	return errors.Join(d.Failures...)
}

func (s *Scheme) Decode(raw string) Decoded {
	var failures []error
	for _, st := range Strategies() {
		tree, err := st.Decode(raw)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", st.Name, err))
			continue
		}
		return Decoded{Tree: s.Expand(tree), Strategy: st.Name, Failures: failures}
	}
	return Decoded{Tree: []any{}, Strategy: StrategyDefault, Failures: failures}
}
