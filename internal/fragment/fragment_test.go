package fragment

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseParamsOrderAndDecoding(t *testing.T) {
	p := ParseParams("#tab=favorites&share=%5B%7B%22i%22%3A%22a%22%7D%5D&note=two+words&bad=%zz&tab=neverbuy")
	require.Equal(t, []string{"tab", "share", "note", "bad"}, p.Keys())

	tab, ok := p.Get("tab")
	require.True(t, ok)
	require.Equal(t, "favorites", tab, "first value of a repeated key wins")

	share, _ := p.Get("share")
	require.Equal(t, `[{"i":"a"}]`, share)

	note, _ := p.Get("note")
	require.Equal(t, "two words", note)

	bad, _ := p.Get("bad")
	require.Equal(t, "%zz", bad, "undecodable values are kept verbatim")

	_, ok = p.Get("missing")
	require.False(t, ok)
}

func TestParamsEncodeRoundTrip(t *testing.T) {
	p := NewParams()
	p.Set("tab", "tobuy")
	p.Set("share", `[{"i":"a","n":"Milk & honey"}]`)
	p.Set("tab", "favorites")

	encoded := p.Encode()
	require.True(t, strings.HasPrefix(encoded, "tab=favorites&share="), encoded)

	back := ParseParams(encoded)
	require.Equal(t, p.Keys(), back.Keys())
	v, _ := back.Get("share")
	require.Equal(t, `[{"i":"a","n":"Milk & honey"}]`, v)

	require.True(t, back.Delete("tab"))
	require.False(t, back.Delete("tab"))
	require.Equal(t, []string{"share"}, back.Keys())
}

func TestParseParamsEmpty(t *testing.T) {
	for _, in := range []string{"", "#", "&&"} {
		require.Zero(t, ParseParams(in).Len(), in)
	}
	var zero Params
	_, ok := zero.Get("x")
	require.False(t, ok)
	require.Equal(t, "", zero.Encode())
}

func TestCodecWriteKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	loc := NewMemoryLocation("#tab=favorites")
	c := NewCodec(loc, 0, nil)

	require.NoError(t, c.Write(ctx, "groceryItems", "abc"))
	tab, ok := c.Read(ctx, "tab")
	require.True(t, ok)
	require.Equal(t, "favorites", tab)

	require.NoError(t, c.Write(ctx, "tab", "neverbuy"))
	items, ok := c.Read(ctx, "groceryItems")
	require.True(t, ok)
	require.Equal(t, "abc", items)

	frag, _ := loc.Fragment(ctx)
	require.Equal(t, "tab=neverbuy&groceryItems=abc", frag)

	require.NoError(t, c.Delete(ctx, "groceryItems"))
	frag, _ = loc.Fragment(ctx)
	require.Equal(t, "tab=neverbuy", frag)
}

func TestCodecSkipsUnchangedWrites(t *testing.T) {
	ctx := context.Background()
	loc := NewMemoryLocation("tab=tobuy")
	c := NewCodec(loc, 0, nil)

	require.NoError(t, c.Write(ctx, "tab", "tobuy"))
	require.NoError(t, c.Delete(ctx, "missing"))
	entries, _ := loc.Entries()
	require.Len(t, entries, 1)
}

func TestCodecWarnsPastThreshold(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := NewCodec(NewMemoryLocation(""), 20, logger)

	require.NoError(t, c.Write(ctx, "k", "short"))
	require.Empty(t, buf.String())

	require.NoError(t, c.Write(ctx, "k", strings.Repeat("x", 40)))
	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "threshold=20")

	v, _ := c.Read(ctx, "k")
	require.Len(t, v, 40, "the write proceeds past the threshold")
}

type brokenLocation struct{ *MemoryLocation }

func (brokenLocation) Fragment(context.Context) (string, error) {
	return "", errors.New("unavailable")
}

func TestCodecRefusesBlindWrites(t *testing.T) {
	ctx := context.Background()
	loc := brokenLocation{MemoryLocation: NewMemoryLocation("tab=favorites")}
	c := NewCodec(loc, 0, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	require.Error(t, c.Write(ctx, "share", "x"))
	_, ok := c.Read(ctx, "tab")
	require.False(t, ok)
}

func TestMemoryLocationHistory(t *testing.T) {
	ctx := context.Background()
	loc := NewMemoryLocation("#a=1")
	var changes []Change
	cancel := loc.Subscribe(func(ch Change) { changes = append(changes, ch) })

	require.NoError(t, loc.Assign(ctx, "a=2"))
	require.NoError(t, loc.Assign(ctx, "a=3"))
	require.Empty(t, changes, "own writes do not notify")

	moved, err := loc.Back(ctx)
	require.NoError(t, err)
	require.True(t, moved)
	frag, _ := loc.Fragment(ctx)
	require.Equal(t, "a=2", frag)

	require.NoError(t, loc.Assign(ctx, "a=9"))
	moved, _ = loc.Forward(ctx)
	require.False(t, moved, "assigning drops forward history")

	require.NoError(t, loc.Navigate(ctx, "#a=7"))
	require.NoError(t, loc.Navigate(ctx, "a=7"))
	require.Equal(t, []Change{
		{Fragment: "a=2", Cause: CauseBack},
		{Fragment: "a=7", Cause: CauseNavigate},
	}, changes)

	entries, index := loc.Entries()
	require.Equal(t, []string{"a=1", "a=2", "a=9", "a=7"}, entries)
	require.Equal(t, 3, index)

	cancel()
	cancel()
	_, _ = loc.Back(ctx)
	require.Len(t, changes, 2, "no events after cancel")
}

func TestSubscribersNotifyInOrder(t *testing.T) {
	var s Subscribers
	var order []int
	s.Add(func(Change) { order = append(order, 1) })
	cancel := s.Add(func(Change) { order = append(order, 2) })
	s.Add(func(Change) { order = append(order, 3) })
	cancel()
	s.Notify(Change{})
	require.Equal(t, []int{1, 3}, order)
	require.Equal(t, 2, s.Len())
}
