package fragment

import (
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is the fragment read as a query string. Keys keep the order they
// were first seen or set in.
type Params struct {
	m *orderedmap.OrderedMap[string, string]
}

func NewParams() Params {
	return Params{m: orderedmap.New[string, string]()}
}

// ParseParams never fails. A leading '#' is ignored, pieces that cannot be
// unescaped are kept verbatim and only the first value of a repeated key is kept.
func ParseParams(fragment string) Params {
	p := NewParams()
	raw := strings.TrimPrefix(fragment, "#")
	if raw == "" {
		return p
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key := unescape(k)
		if _, exists := p.m.Get(key); exists {
			continue
		}
		p.m.Set(key, unescape(v))
	}
	return p
}

func unescape(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return out
}

func (p Params) Get(key string) (string, bool) {
	if p.m == nil {
		return "", false
	}
	return p.m.Get(key)
}

// Set replaces the value in place, or appends the key if it is new.
func (p Params) Set(key, value string) {
	p.m.Set(key, value)
}

func (p Params) Delete(key string) bool {
	if p.m == nil {
		return false
	}
	_, existed := p.m.Delete(key)
	return existed
}

func (p Params) Len() int {
	if p.m == nil {
		return 0
	}
	return p.m.Len()
}

func (p Params) Keys() []string {
	out := make([]string, 0, p.Len())
	if p.m == nil {
		return out
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Encode serializes without the leading '#'.
func (p Params) Encode() string {
	if p.m == nil {
		return ""
	}
	var b strings.Builder
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}
