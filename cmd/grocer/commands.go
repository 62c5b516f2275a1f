package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"

	"github.com/sandeepkv93/grocer/internal/codec"
	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/hashsync"
	"github.com/sandeepkv93/grocer/internal/importer"
	"github.com/sandeepkv93/grocer/internal/mcptools"
	"github.com/sandeepkv93/grocer/internal/storage"
	"github.com/sandeepkv93/grocer/internal/update"
	"github.com/sandeepkv93/grocer/internal/views"
	"github.com/sandeepkv93/grocer/internal/watch"
)

// command is one grocer subcommand with its own flag set.
type command struct {
	flags *flag.FlagSet
	usage string
	short string
	// quiet commands own the terminal or stdout, so logs without a log
	// file are discarded
	quiet bool
	exec  func(ctx context.Context, a *app, args []string) error
}

func (c *command) Name() string {
	name, _, _ := strings.Cut(c.usage, " ")
	return name
}

func (c *command) HelpLine() string {
	return fmt.Sprintf("  %-32s %s", c.usage, c.short)
}

func (c *command) Run(ctx context.Context, a *app, args []string, stderr io.Writer) int {
	if err := c.flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.printHelp(a.out)
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		c.printHelp(stderr)
		return 2
	}
	if err := c.exec(ctx, a, c.flags.Args()); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func (c *command) printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: grocer", c.usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.short)
	if c.flags.HasFlags() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		var buf strings.Builder
		c.flags.SetOutput(&buf)
		c.flags.PrintDefaults()
		c.flags.SetOutput(io.Discard)
		fmt.Fprint(w, buf.String())
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func allCommands() []*command {
	return []*command{
		tuiCommand(),
		doCommand(),
		listCommand(),
		shareCommand(),
		openCommand(),
		decodeCommand(),
		exportCommand(),
		importCommand(),
		historyCommand(),
		replCommand(),
		mcpCommand(),
	}
}

func lookupCommand(name string) (*command, bool) {
	for _, c := range allCommands() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

func exactArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return fmt.Errorf("usage: grocer %s", usage)
	}
	return nil
}

func tuiCommand() *command {
	return &command{
		flags: newFlags("tui"),
		usage: "tui",
		short: "start the terminal UI (default)",
		quiet: true,
		exec:  runTUI,
	}
}

func runTUI(ctx context.Context, a *app, _ []string) error {
	w, err := watch.New(a.nav, a.cfg.WatchInterval(), a.logger)
	if err != nil {
		return err
	}
	w.Start(ctx)
	defer w.Stop()

	m := update.NewModelWithConfig(ctx, a.sync, a.nav, a.feed, a.cfg)
	defer a.sync.Unmount()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("grocer failed: %w", err)
	}
	a.logger.Debug("tui closed", "polls", w.Polls(), "changes", w.Changes(), "poll_errors", w.Errors(), "dropped", a.feed.Dropped())
	return nil
}

func doCommand() *command {
	fs := newFlags("do")
	fs.SetInterspersed(false)
	return &command{
		flags: fs,
		usage: "do <command line>",
		short: "run one palette command, e.g. grocer do add Milk cat:dairy",
		exec: func(ctx context.Context, a *app, args []string) error {
			if len(args) == 0 {
				return errors.New("usage: grocer do <command line>")
			}
			res, err := a.session(ctx).Run(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.println(res.Message)
			return nil
		},
	}
}

func listCommand() *command {
	fs := newFlags("list")
	all := fs.BoolP("all", "a", false, "print every list")
	return &command{
		flags: fs,
		usage: "list [tobuy|favorites|neverbuy]",
		short: "print a list; without an argument, the open tab",
		exec: func(ctx context.Context, a *app, args []string) error {
			s := a.session(ctx)
			if *all {
				for i, c := range []string{"tobuy", "favorites", "neverbuy"} {
					if i > 0 {
						a.println()
					}
					res, err := s.Run(ctx, "list "+c)
					if err != nil {
						return err
					}
					a.println(res.Message)
				}
				return nil
			}
			res, err := s.Run(ctx, strings.TrimSpace("list "+strings.Join(args, " ")))
			if err != nil {
				return err
			}
			a.println(res.Message)
			return nil
		},
	}
}

func shareCommand() *command {
	fs := newFlags("share")
	out := fs.StringP("out", "o", "", "also write the link to this file")
	return &command{
		flags: fs,
		usage: "share [--out file]",
		short: "print a link holding the to-buy list",
		exec: func(ctx context.Context, a *app, args []string) error {
			if err := exactArgs(args, 0, "share [--out file]"); err != nil {
				return err
			}
			res, err := a.session(ctx).Share()
			if err != nil {
				return err
			}
			a.println(res.Message)
			if len(res.Message) > a.cfg.WarnLength {
				a.logger.Warn("share link exceeds soft length limit; it may be truncated",
					"length", len(res.Message), "threshold", a.cfg.WarnLength)
			}
			if *out != "" {
				return commands.WriteFileAtomic(*out, []byte(res.Message+"\n"))
			}
			return nil
		},
	}
}

func openCommand() *command {
	return &command{
		flags: newFlags("open"),
		usage: "open <link>",
		short: "load a shared link; back restores the previous list",
		exec: func(ctx context.Context, a *app, args []string) error {
			if err := exactArgs(args, 1, "open <link>"); err != nil {
				return err
			}
			res, err := a.session(ctx).Open(ctx, args[0])
			if err != nil {
				return err
			}
			a.println(res.Message)
			return nil
		},
	}
}

func decodeCommand() *command {
	return &command{
		flags: newFlags("decode"),
		usage: "decode <value|link>",
		short: "show what a link or stored value holds without loading it",
		exec: func(_ context.Context, a *app, args []string) error {
			if err := exactArgs(args, 1, "decode <value|link>"); err != nil {
				return err
			}
			mode, _ := a.cfg.Mode()
			st := hashsync.Inspect(args[0], mode, a.logger)
			if !st.FromFragment() || st.Strategy == codec.StrategyDefault {
				return errors.New("no grocery items found")
			}
			a.println(fmt.Sprintf("source: %s (%s)", st.Source, st.Strategy))
			a.println("tab:", st.Tab)
			a.println(commands.FormatItems("Items", st.Items))
			return nil
		},
	}
}

func exportCommand() *command {
	fs := newFlags("export")
	out := fs.StringP("out", "o", "", "write markdown to this file")
	render := fs.Bool("render", false, "render the markdown for the terminal")
	return &command{
		flags: fs,
		usage: "export [--out file] [--render]",
		short: "export every item as markdown",
		exec: func(ctx context.Context, a *app, args []string) error {
			if err := exactArgs(args, 0, "export [--out file] [--render]"); err != nil {
				return err
			}
			s := a.session(ctx)
			if *render {
				fmt.Fprint(a.out, views.RenderMarkdown(importer.RenderMarkdown(s.Items)))
				return nil
			}
			res, err := s.Export(*out)
			if err != nil {
				return err
			}
			if *out == "" {
				fmt.Fprint(a.out, res.Message)
				return nil
			}
			a.println(res.Message)
			return nil
		},
	}
}

func importCommand() *command {
	return &command{
		flags: newFlags("import"),
		usage: "import <file>",
		short: "add markdown items to favorites",
		exec: func(ctx context.Context, a *app, args []string) error {
			if err := exactArgs(args, 1, "import <file>"); err != nil {
				return err
			}
			res, err := a.session(ctx).Import(ctx, args[0])
			if err != nil {
				return err
			}
			a.println(res.Message)
			return nil
		},
	}
}

func historyCommand() *command {
	fs := newFlags("history")
	limit := fs.IntP("limit", "n", 20, "entries to show")
	return &command{
		flags: fs,
		usage: "history [--limit n]",
		short: "list stored fragments, newest first",
		exec: func(ctx context.Context, a *app, args []string) error {
			if err := exactArgs(args, 0, "history [--limit n]"); err != nil {
				return err
			}
			entries, err := a.nav.Entries(ctx, *limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				a.println("no history yet")
				return nil
			}
			var current int64
			if cur, err := a.repo.GetCursor(ctx); err == nil {
				current = cur.Seq
			} else if !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			a.println(historyTable(entries, current, a.logger))
			return nil
		},
	}
}

func historyTable(entries []storage.Entry, current int64, logger *slog.Logger) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "SEQ", "ORIGIN", "CREATED", "CHARS", "ITEMS")
	for _, e := range entries {
		mark := ""
		if e.Seq == current {
			mark = "*"
		}
		items := "-"
		if st := hashsync.Inspect(e.Fragment, hashsync.ModeFull, logger); st.FromFragment() {
			items = strconv.Itoa(len(st.Items))
		}
		t.Row(mark,
			strconv.FormatInt(e.Seq, 10),
			string(e.Origin),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(len(e.Fragment)),
			items,
		)
	}
	return t.String()
}

func replCommand() *command {
	return &command{
		flags: newFlags("repl"),
		usage: "repl",
		short: "interactive command prompt",
		quiet: true,
		exec: func(ctx context.Context, a *app, _ []string) error {
			return runREPL(ctx, a)
		},
	}
}

func mcpCommand() *command {
	return &command{
		flags: newFlags("mcp"),
		usage: "mcp",
		short: "serve grocer tools over MCP (stdio)",
		exec: func(_ context.Context, a *app, _ []string) error {
			tools := mcptools.New(a.sync, a.nav, a.cfg.ShareBaseURL, a.logger)
			return server.ServeStdio(mcptools.NewServer(tools))
		},
	}
}
