package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/model"
)

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.visible())-1 {
			m.Cursor++
		}
	case " ", "space":
		m.withSelected(func(s *commands.Session, item model.Item) (commands.Result, error) {
			return s.Toggle(m.ctx, item.ID)
		})
	case "t":
		m.moveSelected(model.ListToBuy)
	case "f":
		m.moveSelected(model.ListFavorites)
	case "n":
		m.moveSelected(model.ListNeverBuy)
	case "c":
		m.withSelected(func(s *commands.Session, item model.Item) (commands.Result, error) {
			return s.Cart(m.ctx, item.ID)
		})
	case "x":
		m.withSelected(func(s *commands.Session, item model.Item) (commands.Result, error) {
			return s.Remove(m.ctx, item.ID)
		})
	case "a":
		m.openForm(nil)
	case "e":
		if item, ok := m.selectedItem(); ok {
			m.openForm(&item)
		}
	case "s":
		m.SearchActive = true
		m.searchInput.Focus()
		m.Status = StatusBar{Text: "search: type to filter, enter to keep, esc to clear"}
	case "[":
		m.cycleCategory(-1)
	case "]":
		m.cycleCategory(1)
	case "C":
		m.apply(func(s *commands.Session) (commands.Result, error) { return s.Clear(m.ctx) })
	case "i":
		m.openImport()
	case "S":
		m.apply(func(s *commands.Session) (commands.Result, error) { return s.Share() })
	case "u":
		m.apply(func(s *commands.Session) (commands.Result, error) { return s.Back(m.ctx) })
	case "r":
		m.apply(func(s *commands.Session) (commands.Result, error) { return s.Forward(m.ctx) })
	}
	return m
}

func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.SearchActive = false
		m.searchInput.Blur()
		m.Search = ""
		m.Status = StatusBar{Text: "search cleared"}
		return m
	case "enter":
		m.SearchActive = false
		m.searchInput.Blur()
		if m.Search != "" {
			m.Status = StatusBar{Text: fmt.Sprintf("searching %q", m.Search)}
		}
		return m
	}
	m.searchInput = editInput(m.searchInput, msg)
	m.Search = strings.TrimSpace(m.searchInput.Value())
	m.Cursor = 0
	return m
}

func (m *Model) session() *commands.Session {
	s := commands.NewSession(m.sync, m.nav, m.cfg.ShareBaseURL)
	s.Items = m.Items
	s.Tab = m.ActiveTab
	s.Search = m.Search
	s.Category = m.Category
	return s
}

func (m *Model) absorb(s *commands.Session) {
	m.Items = s.Items
	m.ActiveTab = s.Tab
	m.Search = s.Search
	m.Category = s.Category
	if s.LastShare != "" {
		m.ShareLink = s.LastShare
	}
}

// apply runs op on a session over the model's state and copies the result
// back. Reports whether op succeeded.
func (m *Model) apply(op func(*commands.Session) (commands.Result, error)) bool {
	s := m.session()
	res, err := op(s)
	m.absorb(s)
	m.clampCursor()
	if err != nil {
		m.fail(err)
		return false
	}
	m.succeed(res.Message)
	return true
}

func (m *Model) withSelected(op func(*commands.Session, model.Item) (commands.Result, error)) {
	item, ok := m.selectedItem()
	if !ok {
		m.Status = StatusBar{Text: "no item selected"}
		return
	}
	m.apply(func(s *commands.Session) (commands.Result, error) { return op(s, item) })
}

func (m *Model) moveSelected(list model.ListType) {
	m.withSelected(func(s *commands.Session, item model.Item) (commands.Result, error) {
		return s.Move(m.ctx, item.ID, list)
	})
}

func (m *Model) switchTab(tab model.ListType) {
	if m.apply(func(s *commands.Session) (commands.Result, error) { return s.SetTab(m.ctx, tab) }) {
		m.Cursor = 0
	}
}

func (m *Model) cycleCategory(delta int) {
	options := append([]model.Category{""}, model.Categories()...)
	idx := 0
	for i, c := range options {
		if c == m.Category {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	m.apply(func(s *commands.Session) (commands.Result, error) { return s.SetFilter(options[idx]), nil })
	m.Cursor = 0
}

// reload re-reads the fragment. Used for external changes so a stale
// message never overwrites newer local state.
func (m *Model) reload(reason string) {
	m.load(m.sync.Hydrate(m.ctx, nil))
	m.succeed(reason)
}

func (m Model) visible() model.Collection {
	return m.session().Visible()
}

func (m Model) selectedItem() (model.Item, bool) {
	items := m.visible()
	if m.Cursor < 0 || m.Cursor >= len(items) {
		return model.Item{}, false
	}
	return items[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedID = ""
	if item, ok := m.selectedItem(); ok {
		m.SelectedID = item.ID
	}
}
