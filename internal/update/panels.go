package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/grocer/internal/importer"
	"github.com/sandeepkv93/grocer/internal/model"
	"github.com/sandeepkv93/grocer/internal/views"
)

func (m Model) renderTabs() string {
	keys := []string{m.Keys.ToBuy, m.Keys.Favorites, m.Keys.NeverBuy}
	tabs := make([]views.TabData, 0, len(keys))
	for i, list := range model.ListTypes() {
		tabs = append(tabs, views.TabData{
			Key:    keys[i],
			Label:  list.Label(),
			Count:  len(m.Items.ByList(list)),
			Active: list == m.ActiveTab,
		})
	}
	return views.RenderTabs(tabs)
}

func (m Model) renderListView() string {
	var groups []views.GroupData
	for _, g := range m.visible().GroupByCategory() {
		rows := make([]views.ItemRow, 0, len(g.Items))
		for _, item := range g.Items {
			rows = append(rows, views.ItemRow{
				ID:        item.ID,
				Name:      item.Name,
				Note:      item.Note,
				Purchased: item.Purchased,
				Selected:  item.ID == m.SelectedID,
			})
		}
		groups = append(groups, views.GroupData{Heading: importer.Heading(g.Category), Items: rows})
	}
	toBuy := m.Items.ByList(model.ListToBuy)
	search := m.Search
	if m.SearchActive {
		search = m.searchInput.Value()
	}
	out := views.RenderListPanel(views.ListPanelData{
		Title:         m.ActiveTab.Label(),
		Groups:        groups,
		Search:        search,
		Category:      string(m.Category),
		Purchased:     toBuy.PurchasedCount(),
		Total:         len(toBuy),
		ShowPurchased: m.ActiveTab == model.ListToBuy,
	})
	if m.SearchActive {
		out = m.searchInput.View() + "\n" + out
	}
	return out
}

// renderSidePane shows whichever editor is open, else the last output.
func (m Model) renderSidePane() string {
	var parts []string
	switch {
	case m.Form.Active:
		title := "add item"
		if m.Form.EditID != "" {
			title = "edit item"
		}
		parts = append(parts, views.RenderFormPanel(views.FormPanelData{
			Title:    title,
			NameView: m.nameInput.View(),
			NoteView: m.noteInput.View(),
			Category: string(m.Form.Category),
			List:     m.Form.List.Label(),
			Field:    int(m.Form.Field),
			Error:    m.Form.Err,
		}))
	case m.Import.Active:
		parts = append(parts, views.RenderImportPanel(views.ImportPanelData{
			EditorView:  m.importArea.View(),
			PreviewView: m.preview.View(),
			Error:       m.Import.Err,
		}))
	case m.Palette.Active:
		parts = append(parts, views.RenderCommandPalette(true, m.Palette.Input, m.usageList.View()))
	default:
		if m.ShareLink != "" {
			parts = append(parts, views.RenderShareLink(m.ShareLink))
		}
		if m.Output != "" {
			parts = append(parts, m.Output)
		}
	}
	parts = append(parts, views.RenderFragment(views.FragmentData{
		Length:    m.fragLen,
		Threshold: m.warnLen,
		Source:    m.Source,
	}))
	return strings.Join(parts, "\n\n") + m.renderHelpIfVisible()
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}

func (m *Model) succeed(text string) {
	m.LastError = nil
	m.Status = StatusBar{Text: text}
	m.notify("Grocer", text, levelFromError(false))
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), levelFromError(true))
}
