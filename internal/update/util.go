package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

// editInput applies one key to a single-line input, always appending at the end.
func editInput(in textinput.Model, msg tea.KeyMsg) textinput.Model {
	switch msg.Type {
	case tea.KeyRunes:
		in.SetValue(in.Value() + string(msg.Runes))
	case tea.KeySpace:
		in.SetValue(in.Value() + " ")
	case tea.KeyBackspace:
		if r := []rune(in.Value()); len(r) > 0 {
			in.SetValue(string(r[:len(r)-1]))
		}
	default:
		in, _ = in.Update(msg)
	}
	in.CursorEnd()
	return in
}

func paletteHead(input string) string {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
