package fragment

import (
	"context"
	"fmt"
	"log/slog"
)

const DefaultWarnLength = 1000

// Codec reads and writes single parameters of a Location's fragment. Every
// write re-reads the whole parameter set, changes one key and writes the set
// back, so keys owned by other writers survive.
type Codec struct {
	loc        Location
	warnLength int
	logger     *slog.Logger
}

func NewCodec(loc Location, warnLength int, logger *slog.Logger) *Codec {
	if warnLength <= 0 {
		warnLength = DefaultWarnLength
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{loc: loc, warnLength: warnLength, logger: logger}
}

func (c *Codec) Location() Location {
	return c.loc
}

func (c *Codec) WarnLength() int {
	return c.warnLength
}

// Params returns the current parameter set. An unreadable fragment reads as empty.
func (c *Codec) Params(ctx context.Context) Params {
	frag, err := c.loc.Fragment(ctx)
	if err != nil {
		c.logger.Warn("read fragment", "error", err)
		return NewParams()
	}
	return ParseParams(frag)
}

func (c *Codec) Read(ctx context.Context, key string) (string, bool) {
	return c.Params(ctx).Get(key)
}

func (c *Codec) Write(ctx context.Context, key, value string) error {
	return c.update(ctx, key, func(p Params) bool {
		if cur, ok := p.Get(key); ok && cur == value {
			return false
		}
		p.Set(key, value)
		return true
	})
}

func (c *Codec) Delete(ctx context.Context, key string) error {
	return c.update(ctx, key, func(p Params) bool {
		return p.Delete(key)
	})
}

func (c *Codec) update(ctx context.Context, key string, mutate func(Params) bool) error {
	frag, err := c.loc.Fragment(ctx)
	if err != nil {
		// without the current set a write would drop other owners' keys
		return fmt.Errorf("fragment: read before write of %q: %w", key, err)
	}
	params := ParseParams(frag)
	if !mutate(params) {
		return nil
	}
	next := params.Encode()
	if err := c.loc.Assign(ctx, next); err != nil {
		return fmt.Errorf("fragment: write %q: %w", key, err)
	}
	if len(next) > c.warnLength {
		c.logger.Warn("fragment exceeds soft length limit; links may be truncated",
			"key", key, "length", len(next), "threshold", c.warnLength)
	}
	return nil
}
