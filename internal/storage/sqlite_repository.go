package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

const entryColumns = `seq, fragment, origin, created_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens (creating if needed) the history database at path and
// applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func appendEntry(ctx context.Context, ex execer, in Entry) (Entry, error) {
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	if in.Origin == "" {
		in.Origin = OriginApp
	}
	res, err := ex.ExecContext(ctx, `
		INSERT INTO history (fragment, origin, created_at)
		VALUES (?, ?, ?)`,
		in.Fragment, in.Origin, mustTime(in.CreatedAt),
	)
	if err != nil {
		return Entry{}, err
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return Entry{}, err
	}
	in.Seq = seq
	return in, nil
}

func (r *SQLiteRepository) PushEntry(ctx context.Context, in Entry) (Entry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := scanCursor(tx.QueryRowContext(ctx, `SELECT seq, updated_at FROM cursor WHERE id = 1`))
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE seq > ?`, cur.Seq); err != nil {
			return Entry{}, err
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return Entry{}, err
	}

	out, err := appendEntry(ctx, tx, in)
	if err != nil {
		return Entry{}, err
	}
	if err := setCursor(ctx, tx, Cursor{Seq: out.Seq, UpdatedAt: out.CreatedAt}); err != nil {
		return Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, seq int64) (Entry, error) {
	return r.queryEntry(ctx, `SELECT `+entryColumns+` FROM history WHERE seq = ?`, seq)
}

func (r *SQLiteRepository) LatestEntry(ctx context.Context) (Entry, error) {
	return r.queryEntry(ctx, `SELECT `+entryColumns+` FROM history ORDER BY seq DESC LIMIT 1`)
}

func (r *SQLiteRepository) PreviousEntry(ctx context.Context, seq int64) (Entry, error) {
	return r.queryEntry(ctx, `SELECT `+entryColumns+` FROM history WHERE seq < ? ORDER BY seq DESC LIMIT 1`, seq)
}

func (r *SQLiteRepository) NextEntry(ctx context.Context, seq int64) (Entry, error) {
	return r.queryEntry(ctx, `SELECT `+entryColumns+` FROM history WHERE seq > ? ORDER BY seq ASC LIMIT 1`, seq)
}

func (r *SQLiteRepository) queryEntry(ctx context.Context, query string, args ...any) (Entry, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return entry, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, filter HistoryListFilter) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM history`
	args := make([]any, 0, 3)
	if filter.Origin != "" {
		query += ` WHERE origin = ?`
		args = append(args, filter.Origin)
	}
	if filter.Newest {
		query += ` ORDER BY seq DESC`
	} else {
		query += ` ORDER BY seq ASC`
	}
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// PruneEntries keeps the newest keep entries. The entry under the cursor is
// never removed.
func (r *SQLiteRepository) PruneEntries(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM history
		WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)
		AND seq <> COALESCE((SELECT seq FROM cursor WHERE id = 1), -1)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) GetCursor(ctx context.Context) (Cursor, error) {
	cur, err := scanCursor(r.db.QueryRowContext(ctx, `SELECT seq, updated_at FROM cursor WHERE id = 1`))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cursor{}, ErrNotFound
		}
		return Cursor{}, err
	}
	return cur, nil
}

func (r *SQLiteRepository) SetCursor(ctx context.Context, in Cursor) error {
	return setCursor(ctx, r.db, in)
}

func setCursor(ctx context.Context, ex execer, in Cursor) error {
	if in.UpdatedAt.IsZero() {
		in.UpdatedAt = time.Now().UTC()
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO cursor (id, seq, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET seq = excluded.seq, updated_at = excluded.updated_at`,
		in.Seq, mustTime(in.UpdatedAt),
	)
	return err
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		// sqlite rejects OFFSET without LIMIT
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		entry     Entry
		origin    string
		createdAt string
	)
	if err := s.Scan(&entry.Seq, &entry.Fragment, &origin, &createdAt); err != nil {
		return Entry{}, err
	}
	tm, err := parseRequiredTime(createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at: %w", err)
	}
	entry.Origin = Origin(origin)
	entry.CreatedAt = tm
	return entry, nil
}

func scanCursor(s scanner) (Cursor, error) {
	var (
		cur       Cursor
		updatedAt string
	)
	if err := s.Scan(&cur.Seq, &updatedAt); err != nil {
		return Cursor{}, err
	}
	tm, err := parseRequiredTime(updatedAt)
	if err != nil {
		return Cursor{}, fmt.Errorf("parse updated_at: %w", err)
	}
	cur.UpdatedAt = tm
	return cur, nil
}
