// Package hashsync binds a grocery collection to a fragment: it hydrates
// state from the fragment on mount, writes every change back, and
// re-hydrates when the fragment changes underneath it.
package hashsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/grocer/internal/codec"
	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/model"
)

var ErrInvalidMode = errors.New("hashsync: invalid mode")

type Mode string

const (
	// ModeFull stores every item under KeyItems.
	ModeFull Mode = "full"
	// ModeShare stores only to-buy items under KeyShare.
	ModeShare Mode = "share"
)

func (m Mode) IsValid() bool {
	return m == ModeFull || m == ModeShare
}

func ParseMode(raw string) (Mode, error) {
	m := Mode(raw)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
	return m, nil
}

const (
	KeyItems = "groceryItems"
	KeyShare = "share"
	KeyTab   = "tab"
)

// SourceFallback marks a State built from the caller's fallback value.
const SourceFallback = "fallback"

// State is the result of one hydration.
type State struct {
	Items model.Collection
	Tab   model.ListType
	// Source is the fragment key the items came from, or SourceFallback.
	Source string
	// Strategy is the decode strategy that produced the items.
	Strategy string
}

func (s State) FromFragment() bool {
	return s.Source != SourceFallback
}

type Options struct {
	Mode       Mode
	WarnLength int
	Logger     *slog.Logger
	// OnExternal receives the re-hydrated state after a change that the
	// application did not make itself.
	OnExternal func(State)
}

type source struct {
	key    string
	scheme *codec.Scheme
}

type Synchronizer struct {
	codec      *fragment.Codec
	mode       Mode
	logger     *slog.Logger
	onExternal func(State)

	mu       sync.Mutex
	mounted  bool
	gen      uint64
	fallback model.Collection
	cancel   func()
}

func New(loc fragment.Location, opts Options) *Synchronizer {
	if !opts.Mode.IsValid() {
		opts.Mode = ModeFull
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		codec:      fragment.NewCodec(loc, opts.WarnLength, logger),
		mode:       opts.Mode,
		logger:     logger,
		onExternal: opts.OnExternal,
	}
}

func (s *Synchronizer) Codec() *fragment.Codec {
	return s.codec
}

func (s *Synchronizer) Mode() Mode {
	return s.mode
}

func (s *Synchronizer) sources() []source {
	items := source{key: KeyItems, scheme: codec.Full}
	share := source{key: KeyShare, scheme: codec.ToBuy}
	if s.mode == ModeShare {
		return []source{share, items}
	}
	return []source{items, share}
}

// Hydrate reads the collection from the fragment. Keys are tried in mode
// order; the first one that decodes wins. Decode failures are logged and
// never returned.
func (s *Synchronizer) Hydrate(ctx context.Context, fallback model.Collection) State {
	params := s.codec.Params(ctx)
	tab := tabFromParams(params)
	for _, src := range s.sources() {
		raw, ok := params.Get(src.key)
		if !ok {
			continue
		}
		items, dec := src.scheme.DecodeItems(raw)
		if dec.Fallback() {
			s.logger.Warn("decode fragment state", "key", src.key, "source", dec.Strategy, "error", dec.Err())
			continue
		}
		s.logger.Debug("hydrated from fragment", "key", src.key, "source", dec.Strategy, "items", len(items))
		return State{Items: items, Tab: tab, Source: src.key, Strategy: dec.Strategy}
	}
	s.logger.Debug("hydrated from fallback", "items", len(fallback))
	return State{Items: cloneItems(fallback), Tab: tab, Source: SourceFallback, Strategy: codec.StrategyDefault}
}

// Mount hydrates with initial as the fallback and starts listening for
// fragment changes. Mounting again replaces the previous listener.
func (s *Synchronizer) Mount(ctx context.Context, initial model.Collection) State {
	s.Unmount()
	state := s.Hydrate(ctx, initial)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mounted = true
	s.fallback = cloneItems(initial)
	s.mu.Unlock()

	base := context.WithoutCancel(ctx)
	cancel := s.codec.Location().Subscribe(func(ch fragment.Change) {
		s.handleChange(base, gen, ch)
	})

	s.mu.Lock()
	if s.gen == gen {
		s.cancel = cancel
		cancel = nil
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return state
}

func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mounted = false
	s.gen++
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Synchronizer) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

func (s *Synchronizer) handleChange(ctx context.Context, gen uint64, ch fragment.Change) {
	s.mu.Lock()
	if !s.mounted || s.gen != gen {
		s.mu.Unlock()
		return
	}
	fallback := s.fallback
	s.mu.Unlock()

	state := s.Hydrate(ctx, fallback)
	s.logger.Debug("fragment changed", "cause", ch.Cause, "source", state.Source)
	if s.onExternal != nil {
		s.onExternal(state)
	}
}

// Publish writes items to the fragment under the mode's key. In share mode
// an empty to-buy list removes the key.
func (s *Synchronizer) Publish(ctx context.Context, items model.Collection) error {
	if s.mode == ModeShare {
		tobuy := items.ByList(model.ListToBuy)
		if len(tobuy) == 0 {
			return s.codec.Delete(ctx, KeyShare)
		}
		return s.write(ctx, KeyShare, codec.ToBuy, tobuy)
	}
	return s.write(ctx, KeyItems, codec.Full, items)
}

func (s *Synchronizer) write(ctx context.Context, key string, scheme *codec.Scheme, items model.Collection) error {
	enc, err := scheme.EncodeItems(items)
	if err != nil {
		s.logger.Warn("encode fragment state", "key", key, "error", err)
		return fmt.Errorf("hashsync: encode %s: %w", key, err)
	}
	if err := s.codec.Write(ctx, key, enc.Value); err != nil {
		s.logger.Warn("write fragment state", "key", key, "error", err)
		return err
	}
	return nil
}

func cloneItems(in model.Collection) model.Collection {
	out := make(model.Collection, 0, len(in))
	for _, item := range in {
		out = append(out, item.Clone())
	}
	return out
}
