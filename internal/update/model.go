package update

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/grocer/internal/commands"
	"github.com/sandeepkv93/grocer/internal/fragment"
	"github.com/sandeepkv93/grocer/internal/hashsync"
	"github.com/sandeepkv93/grocer/internal/model"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	ToBuy     string
	Favorites string
	NeverBuy  string
	Help      string
	Quit      string
}

type FormField int

const (
	FieldName FormField = iota
	FieldNote
	FieldCategory
	FieldList
)

// FormState drives the add/edit form. EditID is empty when adding.
type FormState struct {
	Active   bool
	EditID   string
	Field    FormField
	Category model.Category
	List     model.ListType
	Err      string
}

type ImportState struct {
	Active bool
	Err    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	ActiveTab    model.ListType
	Items        model.Collection
	Search       string
	SearchActive bool
	Category     model.Category
	Cursor       int
	SelectedID   string
	// Source is where the last hydration found its items.
	Source        string
	Form          FormState
	Import        ImportState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	ShareLink     string
	// Output holds the last multi-line command result (list, export).
	Output    string
	Status    StatusBar
	Keys      GlobalKeyMap
	Quitting  bool
	LastError error

	ctx       context.Context
	sync      *hashsync.Synchronizer
	nav       hashsync.Navigator
	feed      *ExternalFeed
	cfg       RuntimeConfig
	width     int
	fragLen   int
	warnLen   int
	usageList list.Model

	nameInput    textinput.Model
	noteInput    textinput.Model
	searchInput  textinput.Model
	commandInput textinput.Model
	importArea   textarea.Model
	preview      viewport.Model
	helpModel    help.Model
}

type usageItem struct {
	usage commands.Usage
}

func (i usageItem) FilterValue() string { return string(i.usage.Type) }
func (i usageItem) Title() string       { return i.usage.Syntax }
func (i usageItem) Description() string { return i.usage.Summary }

type SwitchTabMsg struct {
	Tab model.ListType
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// NewModel runs against an in-memory history.
func NewModel() Model {
	cfg := DefaultRuntimeConfig()
	feed := NewExternalFeed(cfg.ExternalBuffer)
	loc := fragment.NewMemoryLocation("")
	sync := hashsync.New(loc, hashsync.Options{
		Mode:       hashsync.ModeFull,
		WarnLength: cfg.WarnLength,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnExternal: feed.Push,
	})
	return NewModelWithConfig(context.Background(), sync, loc, feed, cfg)
}

// NewModelWithConfig mounts sync and hydrates from the current fragment.
// The feed should be the one the synchronizer's OnExternal pushes to.
func NewModelWithConfig(ctx context.Context, sync *hashsync.Synchronizer, nav hashsync.Navigator, feed *ExternalFeed, cfg RuntimeConfig) Model {
	m := Model{
		ActiveTab: model.ListToBuy,
		Keys: GlobalKeyMap{
			ToBuy:     "1",
			Favorites: "2",
			NeverBuy:  "3",
			Help:      "?",
			Quit:      "q",
		},
		ctx:     ctx,
		sync:    sync,
		nav:     nav,
		feed:    feed,
		cfg:     cfg,
		warnLen: sync.Codec().WarnLength(),
	}
	m.initBubbleComponents()
	m.load(sync.Mount(ctx, nil))
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.usageList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 10)
	m.usageList.Title = "Commands"
	m.usageList.SetShowHelp(false)
	m.usageList.SetShowStatusBar(false)
	m.usageList.SetFilteringEnabled(false)

	m.nameInput = textinput.New()
	m.nameInput.Prompt = ""
	m.nameInput.Placeholder = "item name"
	m.nameInput.CharLimit = 120
	m.nameInput.Width = 40

	m.noteInput = textinput.New()
	m.noteInput.Prompt = ""
	m.noteInput.Placeholder = "optional note"
	m.noteInput.CharLimit = 200
	m.noteInput.Width = 40

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 120
	m.searchInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 512
	m.commandInput.Width = 48

	m.importArea = textarea.New()
	m.importArea.SetWidth(54)
	m.importArea.SetHeight(8)
	m.importArea.ShowLineNumbers = false
	m.importArea.Placeholder = "# Dairy\n- Milk: 2%\n- Cheese"

	m.preview = viewport.New(54, 10)
	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	m.clampCursor()

	usages := commands.Usages()
	items := make([]list.Item, 0, len(usages))
	prefix := paletteHead(m.Palette.Input)
	for _, u := range usages {
		if prefix == "" || hasPrefixFold(string(u.Type), prefix) {
			items = append(items, usageItem{usage: u})
		}
	}
	m.usageList.SetItems(items)

	if !m.SearchActive {
		m.searchInput.SetValue(m.Search)
		m.searchInput.CursorEnd()
	}
	m.commandInput.SetValue(m.Palette.Input)
	m.commandInput.CursorEnd()

	m.fragLen = 0
	if frag, err := m.sync.Codec().Location().Fragment(m.ctx); err == nil {
		m.fragLen = len(frag)
	}
}

func (m *Model) load(st hashsync.State) {
	m.Items = st.Items
	m.ActiveTab = st.Tab
	m.Source = st.Source
	m.clampCursor()
}
