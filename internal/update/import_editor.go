package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/views"
)

func (m *Model) openImport() {
	m.Import = ImportState{Active: true}
	m.importArea.Reset()
	m.importArea.Focus()
	m.preview.SetContent("")
	m.Status = StatusBar{Text: "paste markdown, ctrl+s to import"}
}

func (m *Model) closeImport() {
	m.Import = ImportState{}
	m.importArea.Blur()
}

func (m Model) handleImportKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closeImport()
		m.Status = StatusBar{Text: "import cancelled"}
		return m
	case "ctrl+s":
		text := m.importArea.Value()
		if m.apply(func(s *commands.Session) (commands.Result, error) { return s.ImportText(m.ctx, text) }) {
			m.closeImport()
			m.Cursor = 0
			return m
		}
		m.Import.Err = m.Status.Text
		return m
	}
	m.importArea, _ = m.importArea.Update(msg)
	m.Import.Err = ""
	m.refreshPreview()
	return m
}

func (m *Model) refreshPreview() {
	m.preview.SetContent(views.RenderMarkdown(m.importArea.Value()))
}
