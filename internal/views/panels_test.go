package views

import (
	"strings"
	"testing"
)

func TestRenderListPanelGroupsAndMarks(t *testing.T) {
	out := RenderListPanel(ListPanelData{
		Title: "To Buy",
		Groups: []GroupData{
			{Heading: "Dairy", Items: []ItemRow{
				{ID: "a", Name: "Milk", Note: "2%", Selected: true},
				{ID: "b", Name: "Butter", Purchased: true},
			}},
			{Heading: "Pantry", Items: []ItemRow{{ID: "c", Name: "Rice"}}},
		},
		Search:        "i",
		Purchased:     1,
		Total:         3,
		ShowPurchased: true,
	})
	for _, want := range []string{"to buy:", "purchased: 1/3", `filter: search "i"`, "Dairy:", "Pantry:", "[x]", "Butter", "Milk", "- 2%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
	if strings.Index(out, "Dairy:") > strings.Index(out, "Pantry:") {
		t.Fatalf("groups out of order: %q", out)
	}
}

func TestRenderListPanelEmpty(t *testing.T) {
	out := RenderListPanel(ListPanelData{Title: "Favorites"})
	if !strings.Contains(out, "(no items)") || strings.Contains(out, "purchased:") {
		t.Fatalf("unexpected empty panel: %q", out)
	}
}

func TestRenderFragmentWarnsPastThreshold(t *testing.T) {
	ok := RenderFragment(FragmentData{Length: 10, Threshold: 1000, Source: "groceryItems"})
	if ok != "fragment: 10/1000 chars | from groceryItems" {
		t.Fatalf("unexpected meter %q", ok)
	}
	long := RenderFragment(FragmentData{Length: 1200, Threshold: 1000})
	if !strings.Contains(long, "links may be truncated") {
		t.Fatalf("expected truncation warning: %q", long)
	}
}

func TestRenderTabsMarksCounts(t *testing.T) {
	out := RenderTabs([]TabData{
		{Key: "1", Label: "To Buy", Count: 2, Active: true},
		{Key: "2", Label: "Favorites", Count: 0},
	})
	if !strings.Contains(out, "[1] To Buy (2)") || !strings.Contains(out, "[2] Favorites (0)") {
		t.Fatalf("unexpected tabs %q", out)
	}
}

func TestRenderCommandPaletteInactive(t *testing.T) {
	if got := RenderCommandPalette(false, "add", "x"); got != "" {
		t.Fatalf("expected empty palette, got %q", got)
	}
	if got := RenderCommandPalette(true, "add", ""); got != "command: /add" {
		t.Fatalf("unexpected palette %q", got)
	}
}

func TestRenderAppIncludesSections(t *testing.T) {
	out := RenderApp(AppData{
		Header:       "grocer",
		Tabs:         "tabs",
		LeftPane:     "left",
		RightPane:    "right",
		StatusLine:   "status: ok",
		Notification: "note",
		Footer:       "keys",
		Width:        120,
	})
	for _, want := range []string{"grocer", "tabs", "left", "right", "status: ok", "note", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
