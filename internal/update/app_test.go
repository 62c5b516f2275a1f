package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/hashsync"
	"github.com/sandeepkv93/grocer/internal/importer"
	"github.com/sandeepkv93/grocer/internal/model"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func addItem(t *testing.T, m Model, args commands.AddArgs) Model {
	t.Helper()
	if !m.apply(func(s *commands.Session) (commands.Result, error) { return s.Add(context.Background(), args) }) {
		t.Fatalf("add %q failed: %v", args.Name, m.LastError)
	}
	m.syncBubbleData()
	return m
}

func currentFragment(t *testing.T, m Model) string {
	t.Helper()
	frag, err := m.sync.Codec().Location().Fragment(context.Background())
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	return frag
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.ActiveTab != model.ListToBuy {
		t.Fatalf("expected default tab %q, got %q", model.ListToBuy, m.ActiveTab)
	}
	if m.Keys.Quit != "q" || m.Keys.Favorites != "2" {
		t.Fatalf("unexpected keys: %+v", m.Keys)
	}
	if len(m.Items) != 0 || m.Source != hashsync.SourceFallback {
		t.Fatalf("expected empty fallback state, got %d items from %q", len(m.Items), m.Source)
	}
	if m.Init() == nil {
		t.Fatal("expected external feed command")
	}
}

func TestTabKeysWriteFragment(t *testing.T) {
	m := press(t, NewModel(), "2")
	if m.ActiveTab != model.ListFavorites {
		t.Fatalf("expected favorites tab, got %q", m.ActiveTab)
	}
	if frag := currentFragment(t, m); frag != "tab=favorites" {
		t.Fatalf("unexpected fragment %q", frag)
	}

	updated, _ := m.Update(SwitchTabMsg{Tab: model.ListNeverBuy})
	m = updated.(Model)
	if m.ActiveTab != model.ListNeverBuy {
		t.Fatalf("expected never buy tab, got %q", m.ActiveTab)
	}
	updated, _ = m.Update(SwitchTabMsg{Tab: "later"})
	if updated.(Model).ActiveTab != model.ListNeverBuy {
		t.Fatal("unknown tab must be ignored")
	}
}

func TestAddFormWithKeyboard(t *testing.T) {
	m := press(t, NewModel(), "a")
	if !m.Form.Active || m.Form.List != model.ListToBuy {
		t.Fatalf("expected add form for active tab: %+v", m.Form)
	}
	m = press(t, m, "Milkk", "backspace", "tab", "2%", "tab", "right", "enter")
	if m.Form.Active {
		t.Fatalf("expected form closed, err=%q", m.Form.Err)
	}
	if len(m.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(m.Items))
	}
	item := m.Items[0]
	if item.Name != "Milk" || item.Note != "2%" || item.Category != model.CategoryHousehold || item.ListType != model.ListToBuy {
		t.Fatalf("unexpected item: %+v", item)
	}
	if !strings.Contains(currentFragment(t, m), hashsync.KeyItems+"=") {
		t.Fatal("expected items published to the fragment")
	}
}

func TestAddFormRequiresName(t *testing.T) {
	m := press(t, NewModel(), "a", "enter")
	if !m.Form.Active || m.Form.Err == "" {
		t.Fatalf("expected form to stay open with an error: %+v", m.Form)
	}
	m = press(t, m, "esc")
	if m.Form.Active || len(m.Items) != 0 {
		t.Fatalf("expected form closed without items")
	}
}

func TestEditFormMovesItem(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Bread", Category: model.CategoryBakery})
	m = press(t, m, "e")
	if m.Form.EditID != m.Items[0].ID {
		t.Fatalf("expected edit form for %q: %+v", m.Items[0].ID, m.Form)
	}
	m = press(t, m, "tab", "tab", "tab", "right", "enter")
	if m.Form.Active {
		t.Fatalf("expected form closed, err=%q", m.Form.Err)
	}
	if len(m.Items) != 1 || m.Items[0].ListType != model.ListFavorites || m.Items[0].Name != "Bread" {
		t.Fatalf("unexpected items: %+v", m.Items)
	}
	if len(m.visible()) != 0 {
		t.Fatal("moved item must leave the to-buy view")
	}
}

func TestToggleAndClearPurchased(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Eggs"})
	m = press(t, m, " ")
	if !m.Items[0].Purchased {
		t.Fatal("expected item purchased")
	}
	if !strings.Contains(m.View(), "purchased: 1/1") {
		t.Fatalf("expected purchased counter in view")
	}
	m = press(t, m, "C")
	if len(m.Items) != 0 || m.Status.Text != "cleared 1 purchased item(s)" {
		t.Fatalf("unexpected clear result: %d items, status %q", len(m.Items), m.Status.Text)
	}
}

func TestToggleOutsideToBuyFails(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Rice", List: model.ListFavorites})
	m = press(t, m, "2", " ")
	if !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	if m.Items[0].Purchased {
		t.Fatal("favorite must not be purchased")
	}
}

func TestCartAndMoveKeys(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Rice", List: model.ListFavorites})
	m = press(t, m, "2", "c")
	if got := m.Items.ByList(model.ListToBuy); len(got) != 1 || got[0].Name != "Rice" {
		t.Fatalf("expected cart copy, got %+v", got)
	}
	m = press(t, m, "n")
	if got := m.Items.ByList(model.ListNeverBuy); len(got) != 1 {
		t.Fatalf("expected never-buy item, got %+v", m.Items)
	}
	m = press(t, m, "3", "x")
	if len(m.Items.ByList(model.ListNeverBuy)) != 0 {
		t.Fatalf("expected removal, got %+v", m.Items)
	}
}

func TestCursorMovesWithinVisibleItems(t *testing.T) {
	m := NewModel()
	m = addItem(t, m, commands.AddArgs{Name: "Soap", Category: model.CategoryHousehold})
	m = addItem(t, m, commands.AddArgs{Name: "Apples", Category: model.CategoryProduce})
	if m.SelectedID != m.Items[1].ID {
		t.Fatalf("expected produce first in display order, selected %q", m.SelectedID)
	}
	m = press(t, m, "j", "j", "j")
	if m.Cursor != 1 || m.SelectedID != m.Items[0].ID {
		t.Fatalf("cursor must stop at the last item: %d %q", m.Cursor, m.SelectedID)
	}
	m = press(t, m, "k", "k")
	if m.Cursor != 0 {
		t.Fatalf("cursor must stop at zero: %d", m.Cursor)
	}
}

func TestSearchAndCategoryFilter(t *testing.T) {
	m := NewModel()
	m = addItem(t, m, commands.AddArgs{Name: "Oat milk", Category: model.CategoryDairy})
	m = addItem(t, m, commands.AddArgs{Name: "Apples", Category: model.CategoryProduce})

	m = press(t, m, "s", "oat", " ", "m")
	if m.Search != "oat m" || len(m.visible()) != 1 {
		t.Fatalf("expected search to narrow the list: %q %d", m.Search, len(m.visible()))
	}
	m = press(t, m, "enter")
	if m.SearchActive || m.Search != "oat m" {
		t.Fatalf("enter keeps the search: %+v", m.Search)
	}
	m = press(t, m, "s", "esc")
	if m.Search != "" || len(m.visible()) != 2 {
		t.Fatalf("esc clears the search")
	}

	m = press(t, m, "]")
	if m.Category != model.CategoryProduce || len(m.visible()) != 1 {
		t.Fatalf("expected produce filter, got %q", m.Category)
	}
	m = press(t, m, "[")
	if m.Category != "" {
		t.Fatalf("expected all categories, got %q", m.Category)
	}
}

func TestImportEditorSwitchesToFavorites(t *testing.T) {
	m := press(t, NewModel(), "i")
	if !m.Import.Active {
		t.Fatal("expected import editor")
	}
	m.importArea.SetValue("# Dairy\n- Milk\n- Cheese: aged\n")
	m = press(t, m, "ctrl+s")
	if m.Import.Active {
		t.Fatalf("expected editor closed, err=%q", m.Import.Err)
	}
	if m.ActiveTab != model.ListFavorites || len(m.Items) != 2 {
		t.Fatalf("expected 2 favorites on favorites tab, got %q %+v", m.ActiveTab, m.Items)
	}
	if m.Status.Text != "Added 2 items to your favorites." {
		t.Fatalf("unexpected status %q", m.Status.Text)
	}
	if hashsync.ReadTab(context.Background(), m.sync.Codec()) != model.ListFavorites {
		t.Fatal("expected tab written to fragment")
	}
}

func TestImportEditorShowsNoItemsError(t *testing.T) {
	m := press(t, NewModel(), "i", "nothing useful", "ctrl+s")
	if !m.Import.Active {
		t.Fatal("editor stays open on failure")
	}
	if m.Import.Err != commands.NoItemsMessage || !errors.Is(m.LastError, importer.ErrNoItems) {
		t.Fatalf("unexpected import error %q", m.Import.Err)
	}
	if len(m.Items) != 0 || m.ActiveTab != model.ListToBuy {
		t.Fatal("failed import must not change state")
	}
}

func TestPaletteRunsCommands(t *testing.T) {
	m := press(t, NewModel(), "/", "add Eggs cat:dairy", "enter")
	if m.Palette.Active {
		t.Fatal("expected palette closed")
	}
	if len(m.Items) != 1 || m.Items[0].Category != model.CategoryDairy {
		t.Fatalf("unexpected items: %+v", m.Items)
	}

	m = press(t, m, "/", "list", "enter")
	if !strings.HasPrefix(m.Output, "To Buy (1)") || m.Status.Text != "To Buy (1)" {
		t.Fatalf("unexpected list output %q / %q", m.Output, m.Status.Text)
	}

	m = press(t, m, "/", "frobnicate", "enter")
	if !m.Status.IsError {
		t.Fatalf("expected error for unknown command, got %+v", m.Status)
	}
}

func TestShareKeySetsLink(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Milk"})
	m = press(t, m, "S")
	if !strings.HasPrefix(m.ShareLink, hashsync.DefaultShareBaseURL+"#tab=tobuy&share=") {
		t.Fatalf("unexpected share link %q", m.ShareLink)
	}
	if !strings.Contains(m.View(), "share link:") {
		t.Fatal("expected share link in view")
	}
}

func TestBackAndForwardKeys(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Milk"})
	m = press(t, m, "u")
	if len(m.Items) != 0 {
		t.Fatalf("expected empty list after back, got %+v", m.Items)
	}
	m = press(t, m, "r")
	if len(m.Items) != 1 || m.Items[0].Name != "Milk" {
		t.Fatalf("expected milk after forward, got %+v", m.Items)
	}
}

func newExternalModel(t *testing.T) (Model, *fragment.MemoryLocation, *ExternalFeed) {
	t.Helper()
	feed := NewExternalFeed(4)
	loc := fragment.NewMemoryLocation("")
	sync := hashsync.New(loc, hashsync.Options{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnExternal: feed.Push,
	})
	t.Cleanup(sync.Unmount)
	return NewModelWithConfig(context.Background(), sync, loc, feed, DefaultRuntimeConfig()), loc, feed
}

func TestExternalNavigationRehydrates(t *testing.T) {
	m, loc, feed := newExternalModel(t)
	milk, err := model.NewItem("Milk", model.CategoryDairy, model.ListToBuy, "")
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	frag, _, err := hashsync.ShareFragment(model.Collection{milk})
	if err != nil {
		t.Fatalf("share fragment: %v", err)
	}
	if err := loc.Navigate(context.Background(), frag); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	st := <-feed.C()
	if len(st.Items) != 1 {
		t.Fatalf("expected pushed state, got %+v", st)
	}
	updated, cmd := m.Update(ExternalStateMsg{State: st})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected the feed to be re-armed")
	}
	if len(m.Items) != 1 || m.Items[0].ID != milk.ID || m.Source != hashsync.KeyShare {
		t.Fatalf("unexpected items after external change: %+v from %q", m.Items, m.Source)
	}
}

func TestStaleExternalMessageReadsFragment(t *testing.T) {
	m, _, _ := newExternalModel(t)
	m = addItem(t, m, commands.AddArgs{Name: "Eggs"})
	updated, _ := m.Update(ExternalStateMsg{State: hashsync.State{}})
	m = updated.(Model)
	if len(m.Items) != 1 || m.Items[0].Name != "Eggs" {
		t.Fatalf("stale message must not drop local items: %+v", m.Items)
	}
}

func TestExternalFeedDropsOldest(t *testing.T) {
	feed := NewExternalFeed(2)
	for i := range 5 {
		feed.Push(hashsync.State{Source: string(rune('a' + i))})
	}
	if feed.Dropped() != 3 {
		t.Fatalf("expected 3 dropped, got %d", feed.Dropped())
	}
	first, second := <-feed.C(), <-feed.C()
	if first.Source != "d" || second.Source != "e" {
		t.Fatalf("expected newest states, got %q %q", first.Source, second.Source)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" || !next.Status.IsError {
		t.Fatalf("unexpected error state: %v %+v", next.LastError, next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status != (StatusBar{}) {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestHelpToggle(t *testing.T) {
	m := press(t, NewModel(), "?")
	if !m.HelpVisible || !strings.Contains(m.View(), "help:") {
		t.Fatal("expected help panel")
	}
	m = press(t, m, "?")
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}

func TestUpdateQuitKey(t *testing.T) {
	updated, cmd := NewModel().Update(keyMsg("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatal("expected quit")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := addItem(t, NewModel(), commands.AddArgs{Name: "Butter", Category: model.CategoryDairy})
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"tab: To Buy", "mode: full", "[1] To Buy (1)", "Dairy:", "Butter", "status: all good", "fragment: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view: %q", want, out)
		}
	}
}
