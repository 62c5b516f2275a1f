package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	// PushEntry drops entries after the cursor, appends in and moves the
	// cursor to it, atomically.
	PushEntry(ctx context.Context, in Entry) (Entry, error)
	GetEntry(ctx context.Context, seq int64) (Entry, error)
	// LatestEntry returns the entry with the highest seq, cursor or not.
	LatestEntry(ctx context.Context) (Entry, error)
	PreviousEntry(ctx context.Context, seq int64) (Entry, error)
	NextEntry(ctx context.Context, seq int64) (Entry, error)
	ListEntries(ctx context.Context, filter HistoryListFilter) ([]Entry, error)
	PruneEntries(ctx context.Context, keep int) (int64, error)

	GetCursor(ctx context.Context) (Cursor, error)
	SetCursor(ctx context.Context, in Cursor) error
}
