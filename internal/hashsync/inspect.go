package hashsync

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/grocer/internal/codec"
	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/model"
)

// SourceValue marks a State decoded from a bare stored value rather than a
// fragment key.
const SourceValue = "value"

// Inspect decodes a link, a fragment or a bare stored value without touching
// any live location. Fragments are read the way Hydrate reads them in mode.
func Inspect(raw string, mode Mode, logger *slog.Logger) State {
	frag := FragmentFromLink(raw)
	if isBareValue(frag) {
		items, dec := codec.Full.DecodeItems(frag)
		if logger != nil && dec.Fallback() {
			logger.Warn("decode value", "error", dec.Err())
		}
		return State{Items: items, Tab: model.ListToBuy, Source: SourceValue, Strategy: dec.Strategy}
	}
	loc := fragment.NewMemoryLocation(frag)
	return New(loc, Options{Mode: mode, Logger: logger}).Hydrate(context.Background(), nil)
}

func isBareValue(frag string) bool {
	if frag == "" {
		return false
	}
	switch frag[0] {
	case '[', '{':
		return true
	}
	return !strings.Contains(frag, "=")
}
