package hashsync

import (
	"context"

	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/model"
)

// ReadTab returns the active list. A missing or unknown value reads as to-buy.
func ReadTab(ctx context.Context, c *fragment.Codec) model.ListType {
	return tabFromParams(c.Params(ctx))
}

func WriteTab(ctx context.Context, c *fragment.Codec, tab model.ListType) error {
	if !tab.IsValid() {
		return model.ErrInvalidListType
	}
	return c.Write(ctx, KeyTab, string(tab))
}

func tabFromParams(p fragment.Params) model.ListType {
	raw, ok := p.Get(KeyTab)
	if !ok {
		return model.ListToBuy
	}
	tab := model.ListType(raw)
	if !tab.IsValid() {
		return model.ListToBuy
	}
	return tab
}
