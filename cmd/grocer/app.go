package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/hashsync"
	"github.com/sandeepkv93/grocer/internal/storage"
	"github.com/sandeepkv93/grocer/internal/update"
)

// app holds everything a subcommand needs. The fragment history lives in
// sqlite so that the TUI, the CLI and the MCP server see each other's
// writes.
type app struct {
	cfg    update.RuntimeConfig
	logger *slog.Logger
	out    io.Writer

	repo *storage.SQLiteRepository
	nav  *hashsync.HistoryLocation
	sync *hashsync.Synchronizer
	feed *update.ExternalFeed
}

func openApp(ctx context.Context, cfg update.RuntimeConfig, logger *slog.Logger, out io.Writer) (*app, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	path := cfg.DBPath
	if cfg.Memory {
		path = ":memory:"
	}
	repo, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	nav, err := hashsync.NewHistoryLocation(ctx, repo, cfg.HistoryLimit, logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	feed := update.NewExternalFeed(cfg.ExternalBuffer)
	sync := hashsync.New(nav, hashsync.Options{
		Mode:       mode,
		WarnLength: cfg.WarnLength,
		Logger:     logger,
		OnExternal: feed.Push,
	})
	logger.Debug("grocer started", "db", path, "mode", mode, "config_global", cfg.Sources.Global, "config_project", cfg.Sources.Project)
	return &app{cfg: cfg, logger: logger, out: out, repo: repo, nav: nav, sync: sync, feed: feed}, nil
}

func (a *app) Close() error {
	a.sync.Unmount()
	return a.repo.Close()
}

// session returns a command session hydrated from the current fragment.
func (a *app) session(ctx context.Context) *commands.Session {
	s := commands.NewSession(a.sync, a.nav, a.cfg.ShareBaseURL)
	s.Reload(ctx)
	return s
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// newLogger writes to path when set and to fallback otherwise. File logs
// include debug records.
func newLogger(path string, fallback io.Writer) (*slog.Logger, func(), error) {
	if path == "" {
		h := slog.NewTextHandler(fallback, &slog.HandlerOptions{Level: slog.LevelWarn})
		return slog.New(h), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { _ = f.Close() }, nil
}
