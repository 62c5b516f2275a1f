package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/model"
	"github.com/sandeepkv93/grocer/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.feed != nil {
		return waitForExternalCmd(m.feed.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case ExternalStateMsg:
		m.reload("list updated from another window")
		if m.feed != nil {
			return m, waitForExternalCmd(m.feed.C())
		}
		return m, nil
	case SwitchTabMsg:
		if typed.Tab.IsValid() {
			m.switchTab(typed.Tab)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	switch {
	case m.Palette.Active:
		return m.handlePaletteKey(msg), nil
	case m.Form.Active:
		return m.handleFormKey(msg), nil
	case m.Import.Active:
		return m.handleImportKey(msg), nil
	case m.SearchActive:
		return m.handleSearchKey(msg), nil
	}

	switch keyStr {
	case "/":
		m.openPalette()
		return m, nil
	case m.Keys.ToBuy:
		m.switchTab(model.ListToBuy)
		return m, nil
	case m.Keys.Favorites:
		m.switchTab(model.ListFavorites)
		return m, nil
	case m.Keys.NeverBuy:
		m.switchTab(model.ListNeverBuy)
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.Output = ""
		m.ShareLink = ""
		return m, nil
	}
	return m.handleListKey(msg), nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("grocer | tab: %s | mode: %s | selected: %s", m.ActiveTab.Label(), m.sync.Mode(), m.SelectedID),
		Tabs:         m.renderTabs(),
		LeftPane:     m.renderListView(),
		RightPane:    m.renderSidePane(),
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s/%s/%s tabs | a add | i import | S share | / cmd | %s help | %s quit",
			m.Keys.ToBuy, m.Keys.Favorites, m.Keys.NeverBuy, m.Keys.Help, m.Keys.Quit),
		Width: m.width,
	})
}
