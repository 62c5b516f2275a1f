package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/sandeepkv93/grocer/internal/hashsync"
	"github.com/sandeepkv93/grocer/internal/importer"
	"github.com/sandeepkv93/grocer/internal/model"
)

// Session applies commands to a collection bound to a fragment. Every
// mutation is published before the method returns.
type Session struct {
	Sync      *hashsync.Synchronizer
	Nav       hashsync.Navigator
	ShareBase string

	Items    model.Collection
	Tab      model.ListType
	Search   string
	Category model.Category

	LastShare  string
	LastExport string

	ReadFile  func(path string) ([]byte, error)
	WriteFile func(path string, data []byte) error
}

func NewSession(sync *hashsync.Synchronizer, nav hashsync.Navigator, shareBase string) *Session {
	return &Session{
		Sync:      sync,
		Nav:       nav,
		ShareBase: shareBase,
		Tab:       model.ListToBuy,
		ReadFile:  os.ReadFile,
		WriteFile: WriteFileAtomic,
	}
}

// WriteFileAtomic replaces path through a temporary file and rename.
func WriteFileAtomic(path string, data []byte) error {
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func (s *Session) Load(st hashsync.State) {
	s.Items = st.Items
	s.Tab = st.Tab
}

// Reload re-reads items and tab from the fragment.
func (s *Session) Reload(ctx context.Context) hashsync.State {
	st := s.Sync.Hydrate(ctx, nil)
	s.Load(st)
	return st
}

func (s *Session) activeTab() model.ListType {
	if s.Tab.IsValid() {
		return s.Tab
	}
	return model.ListToBuy
}

// Visible returns the active tab's items after search and category
// filtering, in display order.
func (s *Session) Visible() model.Collection {
	return s.VisibleIn(s.activeTab())
}

func (s *Session) VisibleIn(list model.ListType) model.Collection {
	filtered := s.Items.Filter(model.Filter{List: list, Search: s.Search, Category: s.Category})
	out := make(model.Collection, 0, len(filtered))
	for _, g := range filtered.GroupByCategory() {
		out = append(out, g.Items...)
	}
	return out
}

func (s *Session) commit(ctx context.Context, next model.Collection, message string) (Result, error) {
	s.Items = next
	if err := s.Sync.Publish(ctx, next); err != nil {
		return Result{}, fmt.Errorf("save to fragment: %w", err)
	}
	return Result{Message: message}, nil
}

func (s *Session) Add(ctx context.Context, a AddArgs) (Result, error) {
	list := a.List
	if list == "" {
		list = s.activeTab()
	}
	category := a.Category
	if category == "" {
		category = model.CategoryPantry
	}
	item, err := model.NewItem(a.Name, category, list, a.Note)
	if err != nil {
		return Result{}, invalid("%v", err)
	}
	next, err := s.Items.Add(item)
	if err != nil {
		return Result{}, err
	}
	return s.commit(ctx, next, fmt.Sprintf("added %s to %s", item.Name, list.Label()))
}

// Edit replaces the item with the same id.
func (s *Session) Edit(ctx context.Context, item model.Item) (Result, error) {
	if err := item.Validate(); err != nil {
		return Result{}, invalid("%v", err)
	}
	next, err := s.Items.Update(item)
	if err != nil {
		return Result{}, err
	}
	return s.commit(ctx, next, fmt.Sprintf("updated %s", item.Name))
}

func (s *Session) find(id string) (model.Item, error) {
	item, ok := s.Items.Find(id)
	if !ok {
		return model.Item{}, invalid("no item with id %q", id)
	}
	return item, nil
}

func (s *Session) Toggle(ctx context.Context, id string) (Result, error) {
	item, err := s.find(id)
	if err != nil {
		return Result{}, err
	}
	if item.ListType != model.ListToBuy {
		return Result{}, invalid("only to-buy items can be marked purchased")
	}
	next, err := s.Items.TogglePurchased(id)
	if err != nil {
		return Result{}, err
	}
	state := "purchased"
	if item.Purchased {
		state = "not purchased"
	}
	return s.commit(ctx, next, fmt.Sprintf("%s marked %s", item.Name, state))
}

func (s *Session) Move(ctx context.Context, id string, list model.ListType) (Result, error) {
	item, err := s.find(id)
	if err != nil {
		return Result{}, err
	}
	if item.ListType == list {
		return Result{Message: fmt.Sprintf("%s is already in %s", item.Name, list.Label())}, nil
	}
	next, err := s.Items.MoveToList(id, list)
	if err != nil {
		return Result{}, err
	}
	return s.commit(ctx, next, fmt.Sprintf("moved %s to %s", item.Name, list.Label()))
}

// Cart copies an item into the to-buy list under a new id.
func (s *Session) Cart(ctx context.Context, id string) (Result, error) {
	next, added, err := s.Items.AddToCart(id)
	if errors.Is(err, model.ErrItemNotFound) {
		return Result{}, invalid("no item with id %q", id)
	}
	if err != nil {
		return Result{}, err
	}
	return s.commit(ctx, next, fmt.Sprintf("added %s to cart", added.Name))
}

func (s *Session) Remove(ctx context.Context, id string) (Result, error) {
	item, err := s.find(id)
	if err != nil {
		return Result{}, err
	}
	next, err := s.Items.Remove(id)
	if err != nil {
		return Result{}, err
	}
	return s.commit(ctx, next, fmt.Sprintf("removed %s", item.Name))
}

func (s *Session) Clear(ctx context.Context) (Result, error) {
	next, n := s.Items.ClearPurchased()
	if n == 0 {
		return Result{Message: "no purchased items to clear"}, nil
	}
	return s.commit(ctx, next, fmt.Sprintf("cleared %d purchased item(s)", n))
}

func (s *Session) SetTab(ctx context.Context, tab model.ListType) (Result, error) {
	if !tab.IsValid() {
		return Result{}, invalid("unknown list %q", tab)
	}
	s.Tab = tab
	if err := hashsync.WriteTab(ctx, s.Sync.Codec(), tab); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("showing %s", tab.Label())}, nil
}

func (s *Session) SetSearch(query string) Result {
	s.Search = strings.TrimSpace(query)
	if s.Search == "" {
		return Result{Message: "search cleared"}
	}
	return Result{Message: fmt.Sprintf("searching %q", s.Search)}
}

func (s *Session) SetFilter(cat model.Category) Result {
	if cat == model.CategoryAll {
		cat = ""
	}
	s.Category = cat
	if cat == "" {
		return Result{Message: "showing all categories"}
	}
	return Result{Message: fmt.Sprintf("showing %s", cat)}
}

func (s *Session) Share() (Result, error) {
	link, err := hashsync.ShareURL(s.ShareBase, s.Items)
	if err != nil {
		return Result{}, err
	}
	s.LastShare = link
	return Result{Message: link}, nil
}

func (s *Session) Open(ctx context.Context, link string) (Result, error) {
	if s.Nav == nil {
		return missing(TypeOpen)
	}
	frag := hashsync.FragmentFromLink(link)
	if frag == "" {
		return Result{}, invalid("link has no fragment")
	}
	if err := s.Nav.Navigate(ctx, frag); err != nil {
		return Result{}, err
	}
	st := s.Reload(ctx)
	if !st.FromFragment() {
		return Result{Message: "link opened; it holds no readable items"}, nil
	}
	return Result{Message: fmt.Sprintf("opened link with %d item(s)", len(st.Items))}, nil
}

func (s *Session) Back(ctx context.Context) (Result, error) {
	return s.step(ctx, TypeBack)
}

func (s *Session) Forward(ctx context.Context) (Result, error) {
	return s.step(ctx, TypeForward)
}

func (s *Session) step(ctx context.Context, t Type) (Result, error) {
	if s.Nav == nil {
		return missing(t)
	}
	move := s.Nav.Back
	edge := "already at the oldest entry"
	if t == TypeForward {
		move = s.Nav.Forward
		edge = "already at the newest entry"
	}
	moved, err := move(ctx)
	if err != nil {
		return Result{}, err
	}
	if !moved {
		return Result{Message: edge}, nil
	}
	st := s.Reload(ctx)
	return Result{Message: fmt.Sprintf("went %s: %d item(s)", t, len(st.Items))}, nil
}

// NoItemsMessage is shown when an import finds nothing to add.
const NoItemsMessage = "No valid items found in the markdown content. Make sure to use proper formatting."

// UserError pairs a message meant for people with the error behind it.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// ImportText adds the parsed markdown items to favorites and switches to
// that tab. Nothing is added when parsing fails.
func (s *Session) ImportText(ctx context.Context, text string) (Result, error) {
	items, err := importer.ParseMarkdown(text)
	if errors.Is(err, importer.ErrNoItems) {
		return Result{}, &UserError{Message: NoItemsMessage, Err: err}
	}
	if err != nil {
		return Result{}, err
	}
	next, err := s.Items.AddMany(items...)
	if err != nil {
		return Result{}, err
	}
	if _, err := s.commit(ctx, next, ""); err != nil {
		return Result{}, err
	}
	if _, err := s.SetTab(ctx, model.ListFavorites); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf("Added %d items to your favorites.", len(items))}, nil
}

func (s *Session) Import(ctx context.Context, path string) (Result, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return s.ImportText(ctx, string(data))
}

// Export renders the collection as markdown. With an empty path the
// markdown is the result message.
func (s *Session) Export(path string) (Result, error) {
	md := importer.RenderMarkdown(s.Items)
	s.LastExport = md
	if path == "" {
		return Result{Message: md}, nil
	}
	if err := s.WriteFile(path, []byte(md)); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}
	return Result{Message: fmt.Sprintf("exported %d item(s) to %s", len(s.Items), path)}, nil
}

// List renders one list as text, one item per line.
func (s *Session) List(list model.ListType) Result {
	if list == "" {
		list = s.activeTab()
	}
	return Result{Message: FormatItems(list.Label(), s.VisibleIn(list))}
}

// FormatItems writes a "title (n)" line followed by one line per item.
func FormatItems(title string, items model.Collection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)", title, len(items))
	for _, item := range items {
		mark := " "
		if item.Purchased {
			mark = "x"
		}
		fmt.Fprintf(&b, "\n[%s] %s  %s (%s)", mark, item.ID, item.Name, item.Category)
		if item.Note != "" {
			fmt.Fprintf(&b, " - %s", item.Note)
		}
	}
	return b.String()
}

// Handlers binds every command to this session.
func (s *Session) Handlers(ctx context.Context) Handlers {
	return Handlers{
		Add:     func(a AddArgs) (Result, error) { return s.Add(ctx, a) },
		Search:  func(a SearchArgs) (Result, error) { return s.SetSearch(a.Query), nil },
		Filter:  func(a FilterArgs) (Result, error) { return s.SetFilter(a.Category), nil },
		Tab:     func(a TabArgs) (Result, error) { return s.SetTab(ctx, a.List) },
		Clear:   func() (Result, error) { return s.Clear(ctx) },
		Share:   s.Share,
		Open:    func(a OpenArgs) (Result, error) { return s.Open(ctx, a.Link) },
		Import:  func(a ImportArgs) (Result, error) { return s.Import(ctx, a.Path) },
		Export:  func(a ExportArgs) (Result, error) { return s.Export(a.Path) },
		Back:    func() (Result, error) { return s.Back(ctx) },
		Forward: func() (Result, error) { return s.Forward(ctx) },
		Remove:  func(a TargetArgs) (Result, error) { return s.Remove(ctx, a.ID) },
		Move:    func(a MoveArgs) (Result, error) { return s.Move(ctx, a.ID, a.List) },
		Cart:    func(a TargetArgs) (Result, error) { return s.Cart(ctx, a.ID) },
		Toggle:  func(a TargetArgs) (Result, error) { return s.Toggle(ctx, a.ID) },
		List:    func(a ListArgs) (Result, error) { return s.List(a.List), nil },
	}
}

// Run parses and executes one command line.
func (s *Session) Run(ctx context.Context, input string) (Result, error) {
	cmd, err := Parse(input)
	if err != nil {
		return Result{}, err
	}
	return Execute(cmd, s.Handlers(ctx))
}
