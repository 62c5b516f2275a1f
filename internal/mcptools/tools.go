package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sandeepkv93/grocer/internal/codec"
	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/hashsync"
	"github.com/sandeepkv93/grocer/internal/model"
)

func listArg(req mcp.CallToolRequest, key string) (model.ListType, error) {
	raw := strings.TrimSpace(req.GetString(key, ""))
	if raw == "" {
		return "", nil
	}
	list, ok := model.ParseListType(raw)
	if !ok {
		return "", fmt.Errorf("unknown list %q: use tobuy, favorites or neverbuy", raw)
	}
	return list, nil
}

func categoryArg(req mcp.CallToolRequest, key string) (model.Category, error) {
	raw := strings.TrimSpace(req.GetString(key, ""))
	if raw == "" || strings.EqualFold(raw, string(model.CategoryAll)) {
		return "", nil
	}
	cat, ok := model.ParseCategory(raw)
	if !ok {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return cat, nil
}

func requiredArg(req mcp.CallToolRequest, key string) (string, error) {
	v := strings.TrimSpace(req.GetString(key, ""))
	if v == "" {
		return "", fmt.Errorf("'%s' is required", key)
	}
	return v, nil
}

func categoryNames() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func listItemsTool() mcp.Tool {
	return mcp.NewTool("list_items",
		mcp.WithDescription("List grocery items with their ids. Without a list, the list open in the fragment is used."),
		mcp.WithString("list", mcp.Description("tobuy, favorites or neverbuy")),
		mcp.WithString("search", mcp.Description("Case-insensitive name filter")),
		mcp.WithString("category", mcp.Description("Category filter, or all")),
	)
}

func (t *Tools) ListItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := listArg(req, "list")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat, err := categoryArg(req, "category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(ctx, "list_items", func(s *commands.Session) (string, error) {
		s.SetSearch(req.GetString("search", ""))
		s.SetFilter(cat)
		return s.List(list).Message, nil
	})
}

func addItemTool() mcp.Tool {
	return mcp.NewTool("add_item",
		mcp.WithDescription("Add an item to a grocery list."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Item name")),
		mcp.WithString("category", mcp.Description("One of: "+categoryNames()+" (default: pantry)")),
		mcp.WithString("list", mcp.Description("tobuy, favorites or neverbuy (default: the open list)")),
		mcp.WithString("note", mcp.Description("Optional note, e.g. a quantity")),
	)
}

func (t *Tools) AddItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredArg(req, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := listArg(req, "list")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat, err := categoryArg(req, "category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(ctx, "add_item", func(s *commands.Session) (string, error) {
		res, err := s.Add(ctx, commands.AddArgs{
			Name:     name,
			Category: cat,
			List:     list,
			Note:     strings.TrimSpace(req.GetString("note", "")),
		})
		if err != nil {
			return "", err
		}
		added := s.Items[len(s.Items)-1]
		return fmt.Sprintf("%s\nID: %s", res.Message, added.ID), nil
	})
}

func idTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id from list_items")),
	)
}

func toggleItemTool() mcp.Tool {
	return idTool("toggle_item", "Mark a to-buy item purchased, or not purchased if it already is.")
}

func (t *Tools) ToggleItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withID(ctx, req, "toggle_item", func(s *commands.Session, id string) (commands.Result, error) {
		return s.Toggle(ctx, id)
	})
}

func cartItemTool() mcp.Tool {
	return idTool("cart_item", "Copy an item, usually a favorite, into the to-buy list.")
}

func (t *Tools) CartItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withID(ctx, req, "cart_item", func(s *commands.Session, id string) (commands.Result, error) {
		return s.Cart(ctx, id)
	})
}

func removeItemTool() mcp.Tool {
	return idTool("remove_item", "Delete an item.")
}

func (t *Tools) RemoveItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withID(ctx, req, "remove_item", func(s *commands.Session, id string) (commands.Result, error) {
		return s.Remove(ctx, id)
	})
}

func (t *Tools) withID(ctx context.Context, req mcp.CallToolRequest, name string, fn func(*commands.Session, string) (commands.Result, error)) (*mcp.CallToolResult, error) {
	id, err := requiredArg(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(ctx, name, func(s *commands.Session) (string, error) {
		res, err := fn(s, id)
		return res.Message, err
	})
}

func moveItemTool() mcp.Tool {
	return mcp.NewTool("move_item",
		mcp.WithDescription("Move an item to another list."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id from list_items")),
		mcp.WithString("list", mcp.Required(), mcp.Description("tobuy, favorites or neverbuy")),
	)
}

func (t *Tools) MoveItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredArg(req, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := listArg(req, "list")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if list == "" {
		return mcp.NewToolResultError("'list' is required"), nil
	}
	return t.run(ctx, "move_item", func(s *commands.Session) (string, error) {
		res, err := s.Move(ctx, id, list)
		return res.Message, err
	})
}

func clearPurchasedTool() mcp.Tool {
	return mcp.NewTool("clear_purchased",
		mcp.WithDescription("Remove every purchased item from the to-buy list."),
	)
}

func (t *Tools) ClearPurchased(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, "clear_purchased", func(s *commands.Session) (string, error) {
		res, err := s.Clear(ctx)
		return res.Message, err
	})
}

func shareLinkTool() mcp.Tool {
	return mcp.NewTool("share_link",
		mcp.WithDescription("Build a link holding the current to-buy list."),
	)
}

func (t *Tools) ShareLink(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(ctx, "share_link", func(s *commands.Session) (string, error) {
		res, err := s.Share()
		return res.Message, err
	})
}

func openLinkTool() mcp.Tool {
	return mcp.NewTool("open_link",
		mcp.WithDescription("Load a shared link. The current list is kept in history and can be restored."),
		mcp.WithString("link", mcp.Required(), mcp.Description("A grocer link, a #fragment or a bare fragment")),
	)
}

func (t *Tools) OpenLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := requiredArg(req, "link")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(ctx, "open_link", func(s *commands.Session) (string, error) {
		res, err := s.Open(ctx, link)
		return res.Message, err
	})
}

func importMarkdownTool() mcp.Tool {
	return mcp.NewTool("import_markdown",
		mcp.WithDescription("Add items to favorites from markdown: '# Category' headings followed by '- item' lines."),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown text")),
	)
}

func (t *Tools) ImportMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, err := requiredArg(req, "markdown")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(ctx, "import_markdown", func(s *commands.Session) (string, error) {
		res, err := s.ImportText(ctx, md)
		return res.Message, err
	})
}

func decodeFragmentTool() mcp.Tool {
	return mcp.NewTool("decode_fragment",
		mcp.WithDescription("Show the items held by a link, fragment or stored value without loading it."),
		mcp.WithString("value", mcp.Required(), mcp.Description("Link, #fragment or stored value")),
	)
}

func (t *Tools) DecodeFragment(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := requiredArg(req, "value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	st := hashsync.Inspect(raw, t.sync.Mode(), t.logger)
	if !st.FromFragment() || st.Strategy == codec.StrategyDefault {
		return mcp.NewToolResultError("no grocery items found in value"), nil
	}
	text := fmt.Sprintf("source: %s (%s)\ntab: %s\n%s",
		st.Source, st.Strategy, st.Tab, commands.FormatItems("Items", st.Items))
	return mcp.NewToolResultText(text), nil
}
