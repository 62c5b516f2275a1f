// Package mcptools exposes grocery list operations as MCP tools.
//
// Every call re-reads the list from the fragment before acting, so tools
// see changes made by the TUI or the CLI against the same history.
package mcptools

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/hashsync"
)

const Version = "0.1.0"

// Tools holds the dependencies shared by every tool handler.
type Tools struct {
	sync      *hashsync.Synchronizer
	nav       hashsync.Navigator
	shareBase string
	logger    *slog.Logger

	// tool calls may arrive concurrently; each one owns the fragment
	// for the length of its read-modify-write
	mu sync.Mutex
}

func New(syncer *hashsync.Synchronizer, nav hashsync.Navigator, shareBase string, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{sync: syncer, nav: nav, shareBase: shareBase, logger: logger}
}

// NewServer builds an MCP server with every grocer tool registered.
func NewServer(t *Tools) *server.MCPServer {
	s := server.NewMCPServer(
		"grocer",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.AddTools(t.ServerTools()...)
	return s
}

// ServerTools pairs each tool definition with its handler.
func (t *Tools) ServerTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: listItemsTool(), Handler: t.ListItems},
		{Tool: addItemTool(), Handler: t.AddItem},
		{Tool: toggleItemTool(), Handler: t.ToggleItem},
		{Tool: moveItemTool(), Handler: t.MoveItem},
		{Tool: cartItemTool(), Handler: t.CartItem},
		{Tool: removeItemTool(), Handler: t.RemoveItem},
		{Tool: clearPurchasedTool(), Handler: t.ClearPurchased},
		{Tool: shareLinkTool(), Handler: t.ShareLink},
		{Tool: openLinkTool(), Handler: t.OpenLink},
		{Tool: importMarkdownTool(), Handler: t.ImportMarkdown},
		{Tool: decodeFragmentTool(), Handler: t.DecodeFragment},
	}
}

// run loads a fresh session, applies fn and turns the outcome into a tool
// result. Failures are reported as tool errors, never as protocol errors.
func (t *Tools) run(ctx context.Context, name string, fn func(*commands.Session) (string, error)) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := commands.NewSession(t.sync, t.nav, t.shareBase)
	s.Reload(ctx)
	text, err := fn(s)
	if err != nil {
		t.logger.Warn("mcp tool failed", "tool", name, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.logger.Debug("mcp tool", "tool", name, "items", len(s.Items))
	return mcp.NewToolResultText(text), nil
}

const instructions = `grocer keeps a grocery list in three lists: tobuy, favorites and neverbuy.
Use list_items to see item ids before calling toggle_item, move_item, cart_item or remove_item.
Only tobuy items can be marked purchased. share_link returns a link holding the tobuy list;
open_link loads such a link. import_markdown adds "# Category" / "- item" markdown to favorites.`
