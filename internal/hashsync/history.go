package hashsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/storage"
)

const DefaultHistoryLimit = 200

// Navigator is a Location with browser-style navigation.
type Navigator interface {
	fragment.Location
	Navigate(ctx context.Context, fragment string) error
	Back(ctx context.Context) (bool, error)
	Forward(ctx context.Context) (bool, error)
}

var (
	_ Navigator = (*fragment.MemoryLocation)(nil)
	_ Navigator = (*HistoryLocation)(nil)
)

// HistoryLocation keeps the fragment history in a storage.Repository so that
// several processes can share it. The repository cursor is the current entry.
type HistoryLocation struct {
	repo   storage.Repository
	limit  int
	logger *slog.Logger
	subs   fragment.Subscribers

	mu      sync.Mutex
	seenSeq int64
}

func NewHistoryLocation(ctx context.Context, repo storage.Repository, limit int, logger *slog.Logger) (*HistoryLocation, error) {
	if repo == nil {
		return nil, errors.New("hashsync: nil repository")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &HistoryLocation{repo: repo, limit: limit, logger: logger}
	cur, err := repo.GetCursor(ctx)
	switch {
	case err == nil:
		h.seenSeq = cur.Seq
	case errors.Is(err, storage.ErrNotFound):
		seq, err := h.restoreCursor(ctx)
		if err != nil {
			return nil, err
		}
		h.seenSeq = seq
	default:
		return nil, fmt.Errorf("hashsync: read cursor: %w", err)
	}
	return h, nil
}

// restoreCursor points a missing cursor at the newest entry. An empty history
// keeps no cursor.
func (h *HistoryLocation) restoreCursor(ctx context.Context) (int64, error) {
	latest, err := h.repo.LatestEntry(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("hashsync: read latest entry: %w", err)
	}
	if err := h.repo.SetCursor(ctx, storage.Cursor{Seq: latest.Seq}); err != nil {
		return 0, fmt.Errorf("hashsync: restore cursor: %w", err)
	}
	h.logger.Warn("history cursor missing, moved to newest entry", "seq", latest.Seq)
	return latest.Seq, nil
}

func (h *HistoryLocation) Fragment(ctx context.Context) (string, error) {
	entry, err := h.current(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.Fragment, nil
}

func (h *HistoryLocation) current(ctx context.Context) (storage.Entry, error) {
	cur, err := h.repo.GetCursor(ctx)
	if err != nil {
		return storage.Entry{}, err
	}
	return h.repo.GetEntry(ctx, cur.Seq)
}

func (h *HistoryLocation) Assign(ctx context.Context, frag string) error {
	_, err := h.push(ctx, frag, storage.OriginApp)
	return err
}

func (h *HistoryLocation) Navigate(ctx context.Context, frag string) error {
	frag = fragment.Normalize(frag)
	added, err := h.push(ctx, frag, storage.OriginNavigate)
	if err != nil {
		return err
	}
	if added {
		h.subs.Notify(fragment.Change{Fragment: frag, Cause: fragment.CauseNavigate})
	}
	return nil
}

func (h *HistoryLocation) push(ctx context.Context, frag string, origin storage.Origin) (bool, error) {
	frag = fragment.Normalize(frag)
	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.Fragment(ctx)
	if err != nil {
		return false, err
	}
	if current == frag {
		return false, nil
	}
	entry, err := h.repo.PushEntry(ctx, storage.Entry{Fragment: frag, Origin: origin})
	if err != nil {
		return false, fmt.Errorf("hashsync: push history: %w", err)
	}
	h.seenSeq = entry.Seq
	if n, err := h.repo.PruneEntries(ctx, h.limit); err != nil {
		h.logger.Warn("prune history", "error", err)
	} else if n > 0 {
		h.logger.Debug("pruned history", "removed", n, "limit", h.limit)
	}
	return true, nil
}

func (h *HistoryLocation) Back(ctx context.Context) (bool, error) {
	return h.step(ctx, h.repo.PreviousEntry, fragment.CauseBack)
}

func (h *HistoryLocation) Forward(ctx context.Context) (bool, error) {
	return h.step(ctx, h.repo.NextEntry, fragment.CauseForward)
}

func (h *HistoryLocation) step(ctx context.Context, neighbour func(context.Context, int64) (storage.Entry, error), cause fragment.Cause) (bool, error) {
	h.mu.Lock()
	cur, err := h.repo.GetCursor(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		h.mu.Unlock()
		return false, nil
	}
	if err != nil {
		h.mu.Unlock()
		return false, err
	}
	entry, err := neighbour(ctx, cur.Seq)
	if errors.Is(err, storage.ErrNotFound) {
		h.mu.Unlock()
		return false, nil
	}
	if err != nil {
		h.mu.Unlock()
		return false, err
	}
	if err := h.repo.SetCursor(ctx, storage.Cursor{Seq: entry.Seq}); err != nil {
		h.mu.Unlock()
		return false, err
	}
	h.seenSeq = entry.Seq
	h.mu.Unlock()

	h.subs.Notify(fragment.Change{Fragment: entry.Fragment, Cause: cause})
	return true, nil
}

// Poll notifies subscribers when another process moved the cursor since
// the last look. It reports whether it did.
func (h *HistoryLocation) Poll(ctx context.Context) (bool, error) {
	h.mu.Lock()
	cur, err := h.repo.GetCursor(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		h.mu.Unlock()
		return false, nil
	}
	if err != nil {
		h.mu.Unlock()
		return false, err
	}
	if cur.Seq == h.seenSeq {
		h.mu.Unlock()
		return false, nil
	}
	entry, err := h.repo.GetEntry(ctx, cur.Seq)
	if err != nil {
		h.mu.Unlock()
		return false, err
	}
	h.seenSeq = cur.Seq
	h.mu.Unlock()

	h.subs.Notify(fragment.Change{Fragment: entry.Fragment, Cause: fragment.CauseExternal})
	return true, nil
}

func (h *HistoryLocation) Subscribe(fn func(fragment.Change)) func() {
	return h.subs.Add(fn)
}

// Entries lists the stored history, newest first.
func (h *HistoryLocation) Entries(ctx context.Context, limit int) ([]storage.Entry, error) {
	return h.repo.ListEntries(ctx, storage.HistoryListFilter{Newest: true, Limit: limit})
}
