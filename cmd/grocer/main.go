// Command grocer keeps a grocery list whose whole state lives in a URL
// fragment. Without a subcommand it starts the terminal UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/sandeepkv93/grocer/internal/update"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type globalFlags struct {
	fs        *flag.FlagSet
	db        string
	config    string
	logFile   string
	mode      string
	shareBase string
	memory    bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{fs: flag.NewFlagSet("grocer", flag.ContinueOnError)}
	g.fs.SetInterspersed(false)
	g.fs.SetOutput(io.Discard)
	g.fs.StringVar(&g.db, "db", "", "history database path")
	g.fs.StringVar(&g.config, "config", "", "config file (default ./"+update.ConfigFileName+")")
	g.fs.StringVar(&g.logFile, "log-file", "", "write logs to this file")
	g.fs.StringVar(&g.mode, "mode", "", "sync mode: full or share")
	g.fs.StringVar(&g.shareBase, "share-base", "", "base URL for share links")
	g.fs.BoolVar(&g.memory, "memory", false, "keep history in memory only")
	return g
}

// apply layers explicitly set flags over cfg.
func (g *globalFlags) apply(cfg update.RuntimeConfig) update.RuntimeConfig {
	if g.fs.Changed("db") {
		cfg.DBPath = g.db
	}
	if g.fs.Changed("log-file") {
		cfg.LogFile = g.logFile
	}
	if g.fs.Changed("mode") {
		cfg.SyncMode = strings.ToLower(g.mode)
	}
	if g.fs.Changed("share-base") {
		cfg.ShareBaseURL = g.shareBase
	}
	if g.fs.Changed("memory") {
		cfg.Memory = g.memory
	}
	return cfg
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g := newGlobalFlags()
	if err := g.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout, g)
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		printUsage(stderr, g)
		return 2
	}

	rest := g.fs.Args()
	name := "tui"
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	if name == "help" {
		printUsage(stdout, g)
		return 0
	}
	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "error: unknown command %q\n", name)
		printUsage(stderr, g)
		return 2
	}

	cfg, err := update.LoadConfig(update.DefaultRuntimeConfig(), "", g.config)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	cfg = g.apply(update.RuntimeConfigFromEnv(cfg))
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}

	logOut := stderr
	if cmd.quiet {
		logOut = io.Discard
	}
	logger, closeLog, err := newLogger(cfg.LogFile, logOut)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer closeLog()

	a, err := openApp(ctx, cfg, logger, stdout)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer a.Close()

	return cmd.Run(ctx, a, rest, stderr)
}

func printUsage(w io.Writer, g *globalFlags) {
	fmt.Fprintln(w, "Usage: grocer [flags] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range allCommands() {
		fmt.Fprintln(w, c.HelpLine())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	var buf strings.Builder
	g.fs.SetOutput(&buf)
	g.fs.PrintDefaults()
	g.fs.SetOutput(io.Discard)
	fmt.Fprint(w, buf.String())
}
