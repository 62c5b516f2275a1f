package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/grocer/internal/model"
)

func TestParseMarkdownDairyScenario(t *testing.T) {
	items, err := ParseMarkdown("# Dairy\n- Milk: 2%\n- Eggs")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "Milk", items[0].Name)
	require.Equal(t, "2%", items[0].Note)
	require.Equal(t, "Eggs", items[1].Name)
	require.Equal(t, "", items[1].Note)
	for _, item := range items {
		require.Equal(t, model.CategoryDairy, item.Category)
		require.Equal(t, model.ListFavorites, item.ListType)
		require.False(t, item.Purchased)
		require.NotEmpty(t, item.ID)
	}
	require.NotEqual(t, items[0].ID, items[1].ID)
}

func TestParseCategoriesAndDelimiters(t *testing.T) {
	text := strings.Join([]string{
		"- Rice",
		"## PRODUCE",
		"* Apples - honey crisp",
		"  - Kiwi – ripe ones",
		"# Snacks",
		"- Chips: salted: big bag",
		"-NoSpace",
		"plain text line",
		"- : only a note",
		"",
		"#Household\r",
		"- TP",
	}, "\n")

	entries, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Line: 1, Name: "Rice", Category: model.CategoryPantry},
		{Line: 3, Name: "Apples", Category: model.CategoryProduce, Note: "honey crisp"},
		{Line: 4, Name: "Kiwi", Category: model.CategoryProduce, Note: "ripe ones"},
		{Line: 6, Name: "Chips", Category: model.CategoryProduce, Note: "salted: big bag"},
		{Line: 12, Name: "TP", Category: model.CategoryHousehold},
	}, entries)
}

func TestParseColonWinsOverDash(t *testing.T) {
	entries, err := Parse(strings.NewReader("- Cheese - sliced: two kinds"))
	require.NoError(t, err)
	require.Equal(t, "Cheese - sliced", entries[0].Name)
	require.Equal(t, "two kinds", entries[0].Note)
}

func TestParseNoItems(t *testing.T) {
	for _, text := range []string{"", "# Dairy\n\nnothing here", "-Milk"} {
		_, err := ParseMarkdown(text)
		require.ErrorIs(t, err, ErrNoItems, text)
	}
}

func TestRenderMarkdownRoundTrip(t *testing.T) {
	items := model.Collection{
		{ID: "1", Name: "Eggs", Category: model.CategoryDairy, ListType: model.ListToBuy},
		{ID: "2", Name: "Apples", Category: model.CategoryProduce, ListType: model.ListFavorites, Note: "honey crisp"},
		{ID: "3", Name: "Milk", Category: model.CategoryDairy, ListType: model.ListToBuy, Note: "2%"},
	}
	md := RenderMarkdown(items)
	require.Equal(t, "# Produce\n\n- Apples: honey crisp\n\n# Dairy\n\n- Eggs\n- Milk: 2%\n", md)

	entries, err := Parse(strings.NewReader(md))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, model.CategoryProduce, entries[0].Category)
	require.Equal(t, "honey crisp", entries[0].Note)
	require.Equal(t, model.CategoryDairy, entries[2].Category)
	require.Equal(t, "2%", entries[2].Note)
}

func TestRenderMarkdownEmpty(t *testing.T) {
	require.Equal(t, "", RenderMarkdown(nil))
}
