package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/grocer/internal/model"
	"github.com/sandeepkv93/grocer/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.tabBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Tab:      m.ActiveTab.Label(),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.ToBuy, Action: "show To Buy"},
		{Key: m.Keys.Favorites, Action: "show Favorites"},
		{Key: m.Keys.NeverBuy, Action: "show Never Buy"},
		{Key: "/", Action: "open command palette"},
		{Key: "a", Action: "add item"},
		{Key: "i", Action: "import markdown"},
		{Key: "S", Action: "share to-buy list"},
		{Key: "u/r", Action: "back / forward"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) tabBindings() []KeyBinding {
	common := []KeyBinding{
		{Key: "j/k", Action: "move cursor"},
		{Key: "e", Action: "edit item"},
		{Key: "x", Action: "remove item"},
		{Key: "s", Action: "search"},
		{Key: "[/]", Action: "cycle category filter"},
	}
	switch m.ActiveTab {
	case model.ListToBuy:
		return append(common,
			KeyBinding{Key: "space", Action: "toggle purchased"},
			KeyBinding{Key: "C", Action: "clear purchased"},
			KeyBinding{Key: "f/n", Action: "move to favorites / never buy"},
		)
	case model.ListFavorites:
		return append(common,
			KeyBinding{Key: "c", Action: "add to cart"},
			KeyBinding{Key: "t/n", Action: "move to to-buy / never buy"},
		)
	default:
		return append(common,
			KeyBinding{Key: "t/f", Action: "move to to-buy / favorites"},
		)
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.tabBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.tabBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
