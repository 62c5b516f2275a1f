package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/sandeepkv93/grocer/internal/commands"
)

const replHistoryName = ".grocer_history"

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, replHistoryName)
}

// replCompleter completes the command word, and list names after commands
// that take one.
func replCompleter(line string) []string {
	head, rest, hasArgs := strings.Cut(line, " ")
	if !hasArgs {
		var out []string
		for _, u := range commands.Usages() {
			if strings.HasPrefix(string(u.Type), strings.ToLower(head)) {
				out = append(out, string(u.Type)+" ")
			}
		}
		for _, w := range []string{"help", "quit"} {
			if strings.HasPrefix(w, head) {
				out = append(out, w)
			}
		}
		sort.Strings(out)
		return out
	}
	switch commands.Type(strings.ToLower(head)) {
	case commands.TypeTab, commands.TypeList:
		var out []string
		for _, l := range []string{"tobuy", "favorites", "neverbuy"} {
			if strings.HasPrefix(l, strings.TrimSpace(rest)) {
				out = append(out, head+" "+l)
			}
		}
		return out
	}
	return nil
}

func printREPLHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, u := range commands.Usages() {
		fmt.Fprintf(w, "  %-56s %s\n", u.Syntax, u.Summary)
	}
	fmt.Fprintf(w, "  %-56s %s\n", "help", "show this help")
	fmt.Fprintf(w, "  %-56s %s\n", "quit", "leave the prompt")
}

func runREPL(ctx context.Context, a *app) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(replCompleter)
	path := replHistoryPath()
	if f, err := os.Open(path); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if path == "" {
			return
		}
		if f, err := os.Create(path); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := a.session(ctx)
	fmt.Fprintln(a.out, "grocer - type 'help' for commands, 'quit' to leave")
	for ctx.Err() == nil {
		input, err := line.Prompt(fmt.Sprintf("grocer [%s]> ", s.Tab))
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			printREPLHelp(a.out)
			continue
		}

		// another process may have written since the last prompt
		s.Reload(ctx)
		res, err := s.Run(ctx, input)
		if err != nil {
			fmt.Fprintln(a.out, "error:", err)
			continue
		}
		fmt.Fprintln(a.out, res.Message)
	}
	return nil
}
