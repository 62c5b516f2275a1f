package hashsync

import (
	"errors"
	"strings"

	"github.com/sandeepkv93/grocer/internal/codec"
	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/model"
)

const DefaultShareBaseURL = "https://grocer.local/"

var ErrNothingToShare = errors.New("hashsync: no to-buy items to share")

// ShareFragment encodes the to-buy items of items as a share fragment that
// opens on the to-buy tab.
func ShareFragment(items model.Collection) (string, codec.Encoded, error) {
	tobuy := items.ByList(model.ListToBuy)
	if len(tobuy) == 0 {
		return "", codec.Encoded{}, ErrNothingToShare
	}
	enc, err := codec.ToBuy.EncodeItems(tobuy)
	if err != nil {
		return "", codec.Encoded{}, err
	}
	p := fragment.NewParams()
	p.Set(KeyTab, string(model.ListToBuy))
	p.Set(KeyShare, enc.Value)
	return p.Encode(), enc, nil
}

// ShareURL builds base#tab=tobuy&share=<value>. Any fragment already on base
// is replaced.
func ShareURL(base string, items model.Collection) (string, error) {
	frag, _, err := ShareFragment(items)
	if err != nil {
		return "", err
	}
	if base == "" {
		base = DefaultShareBaseURL
	}
	base, _, _ = strings.Cut(base, "#")
	return base + "#" + frag, nil
}

// FragmentFromLink accepts a full URL, a "#..." fragment or a bare parameter
// string and returns the fragment without its '#'. A URL without a fragment
// yields "".
func FragmentFromLink(link string) string {
	link = strings.TrimSpace(link)
	if _, frag, ok := strings.Cut(link, "#"); ok {
		return frag
	}
	if strings.Contains(link, "://") {
		return ""
	}
	return link
}
