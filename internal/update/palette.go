package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/commands"
)

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active"}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		m.commandInput = editInput(m.commandInput, msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.fail(err)
		return m
	}
	var out string
	ok := m.apply(func(s *commands.Session) (commands.Result, error) {
		res, err := commands.Execute(cmd, s.Handlers(m.ctx))
		if err == nil && strings.Contains(res.Message, "\n") {
			out = res.Message
			res.Message = firstLine(res.Message)
		}
		return res, err
	})
	if !ok {
		return m
	}
	if out != "" {
		m.Output = out
	}
	switch cmd.Type {
	case commands.TypeTab, commands.TypeSearch, commands.TypeFilter, commands.TypeOpen,
		commands.TypeBack, commands.TypeForward, commands.TypeImport:
		m.Cursor = 0
	}
	return m
}
