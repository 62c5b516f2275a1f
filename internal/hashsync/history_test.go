package hashsync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/storage"
)

func openHistory(t *testing.T, path string, limit int) *HistoryLocation {
	t.Helper()
	repo, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	loc, err := NewHistoryLocation(context.Background(), repo, limit, quietLogger())
	require.NoError(t, err)
	return loc
}

func TestHistoryLocationNavigation(t *testing.T) {
	ctx := context.Background()
	loc := openHistory(t, filepath.Join(t.TempDir(), "h.db"), 0)

	frag, err := loc.Fragment(ctx)
	require.NoError(t, err)
	require.Equal(t, "", frag)

	var changes []fragment.Change
	loc.Subscribe(func(ch fragment.Change) { changes = append(changes, ch) })

	require.NoError(t, loc.Assign(ctx, "#a=1"))
	require.NoError(t, loc.Assign(ctx, "a=2"))
	require.NoError(t, loc.Assign(ctx, "a=2"))
	require.Empty(t, changes)

	entries, err := loc.Entries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2, "unchanged fragments add no entry")

	moved, err := loc.Back(ctx)
	require.NoError(t, err)
	require.True(t, moved)
	frag, _ = loc.Fragment(ctx)
	require.Equal(t, "a=1", frag)

	moved, err = loc.Back(ctx)
	require.NoError(t, err)
	require.False(t, moved)

	require.NoError(t, loc.Assign(ctx, "a=3"))
	moved, err = loc.Forward(ctx)
	require.NoError(t, err)
	require.False(t, moved, "assigning drops forward history")

	require.NoError(t, loc.Navigate(ctx, "a=4"))
	require.Equal(t, []fragment.Change{
		{Fragment: "a=1", Cause: fragment.CauseBack},
		{Fragment: "a=4", Cause: fragment.CauseNavigate},
	}, changes)

	entries, err = loc.Entries(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, storage.OriginNavigate, entries[0].Origin)
	require.Equal(t, "a=4", entries[0].Fragment)
}

func TestHistoryLocationPollSeesOtherProcess(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")
	tui := openHistory(t, path, 0)
	cli := openHistory(t, path, 0)

	var changes []fragment.Change
	tui.Subscribe(func(ch fragment.Change) { changes = append(changes, ch) })

	require.NoError(t, tui.Assign(ctx, "tab=tobuy"))
	changed, err := tui.Poll(ctx)
	require.NoError(t, err)
	require.False(t, changed, "own writes are not external")

	require.NoError(t, cli.Assign(ctx, "tab=favorites"))
	changed, err = tui.Poll(ctx)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, []fragment.Change{{Fragment: "tab=favorites", Cause: fragment.CauseExternal}}, changes)

	changed, err = tui.Poll(ctx)
	require.NoError(t, err)
	require.False(t, changed)

	frag, err := tui.Fragment(ctx)
	require.NoError(t, err)
	require.Equal(t, "tab=favorites", frag)
}

func TestHistoryLocationPrunes(t *testing.T) {
	ctx := context.Background()
	loc := openHistory(t, filepath.Join(t.TempDir(), "prune.db"), 2)
	for _, frag := range []string{"n=1", "n=2", "n=3", "n=4"} {
		require.NoError(t, loc.Assign(ctx, frag))
	}
	entries, err := loc.Entries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "n=4", entries[0].Fragment)
	require.Equal(t, "n=3", entries[1].Fragment)
}

func TestNewHistoryLocationRequiresRepo(t *testing.T) {
	_, err := NewHistoryLocation(context.Background(), nil, 0, nil)
	require.Error(t, err)
}

// lostCursorRepo reports no cursor until one is set.
type lostCursorRepo struct {
	storage.Repository
	lost bool
}

func (r *lostCursorRepo) GetCursor(ctx context.Context) (storage.Cursor, error) {
	if r.lost {
		return storage.Cursor{}, storage.ErrNotFound
	}
	return r.Repository.GetCursor(ctx)
}

func (r *lostCursorRepo) SetCursor(ctx context.Context, in storage.Cursor) error {
	r.lost = false
	return r.Repository.SetCursor(ctx, in)
}

func TestNewHistoryLocationRestoresMissingCursor(t *testing.T) {
	ctx := context.Background()
	sqlite, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "cursor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	for _, frag := range []string{"n=1", "n=2"} {
		_, err := sqlite.PushEntry(ctx, storage.Entry{Fragment: frag})
		require.NoError(t, err)
	}

	repo := &lostCursorRepo{Repository: sqlite, lost: true}
	loc, err := NewHistoryLocation(ctx, repo, 0, quietLogger())
	require.NoError(t, err)
	require.False(t, repo.lost)

	frag, err := loc.Fragment(ctx)
	require.NoError(t, err)
	require.Equal(t, "n=2", frag)

	changed, err := loc.Poll(ctx)
	require.NoError(t, err)
	require.False(t, changed, "restoring the cursor is not an external change")
}

func TestNewHistoryLocationEmptyHistoryKeepsNoCursor(t *testing.T) {
	ctx := context.Background()
	sqlite, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	_, err = NewHistoryLocation(ctx, sqlite, 0, quietLogger())
	require.NoError(t, err)
	_, err = sqlite.GetCursor(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
