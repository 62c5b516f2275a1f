package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/grocer/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeSearch  Type = "search"
	TypeFilter  Type = "filter"
	TypeTab     Type = "tab"
	TypeClear   Type = "clear"
	TypeShare   Type = "share"
	TypeOpen    Type = "open"
	TypeImport  Type = "import"
	TypeExport  Type = "export"
	TypeBack    Type = "back"
	TypeForward Type = "forward"
	TypeRemove  Type = "remove"
	TypeMove    Type = "move"
	TypeCart    Type = "cart"
	TypeToggle  Type = "toggle"
	TypeList    Type = "list"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs leaves List empty when the command did not name one; the caller
// decides (usually the active tab).
type AddArgs struct {
	Name     string
	Category model.Category
	List     model.ListType
	Note     string
}

type SearchArgs struct {
	Query string
}

type FilterArgs struct {
	Category model.Category
}

type TabArgs struct {
	List model.ListType
}

type OpenArgs struct {
	Link string
}

type ImportArgs struct {
	Path string
}

type ExportArgs struct {
	Path string
}

// TargetArgs names one item by id.
type TargetArgs struct {
	ID string
}

type MoveArgs struct {
	ID   string
	List model.ListType
}

type ListArgs struct {
	List model.ListType
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Search *SearchArgs
	Filter *FilterArgs
	Tab    *TabArgs
	Open   *OpenArgs
	Import *ImportArgs
	Export *ExportArgs
	Target *TargetArgs
	Move   *MoveArgs
	List   *ListArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch t := Type(head); t {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSearch:
		return Command{Type: t, Raw: input, Search: &SearchArgs{Query: strings.Join(args, " ")}}, nil
	case TypeFilter:
		return parseFilter(input, args)
	case TypeTab:
		list, err := requireList(t, args)
		if err != nil {
			return Command{}, err
		}
		return Command{Type: t, Raw: input, Tab: &TabArgs{List: list}}, nil
	case TypeClear, TypeShare, TypeBack, TypeForward:
		return Command{Type: t, Raw: input}, nil
	case TypeOpen:
		if len(args) == 0 {
			return Command{}, invalid("open requires a link")
		}
		return Command{Type: t, Raw: input, Open: &OpenArgs{Link: strings.Join(args, "")}}, nil
	case TypeImport:
		if len(args) == 0 {
			return Command{}, invalid("import requires a file path")
		}
		return Command{Type: t, Raw: input, Import: &ImportArgs{Path: strings.Join(args, " ")}}, nil
	case TypeExport:
		return Command{Type: t, Raw: input, Export: &ExportArgs{Path: strings.Join(args, " ")}}, nil
	case TypeRemove, TypeCart, TypeToggle:
		if len(args) != 1 {
			return Command{}, invalid("%s requires an item id", t)
		}
		return Command{Type: t, Raw: input, Target: &TargetArgs{ID: args[0]}}, nil
	case TypeMove:
		return parseMove(input, args)
	case TypeList:
		return parseList(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add <name> [cat:<c>] [list:<l>] [note:<text>]". Everything
// after note: belongs to the note.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{Category: model.CategoryPantry}
	var name []string
	for i, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case strings.HasPrefix(lower, "cat:"):
			cat, ok := model.ParseCategory(arg[len("cat:"):])
			if !ok {
				return Command{}, invalid("unknown category %q", arg[len("cat:"):])
			}
			out.Category = cat
		case strings.HasPrefix(lower, "list:"):
			list, ok := model.ParseListType(arg[len("list:"):])
			if !ok {
				return Command{}, invalid("unknown list %q", arg[len("list:"):])
			}
			out.List = list
		case strings.HasPrefix(lower, "note:"):
			note := append([]string{arg[len("note:"):]}, args[i+1:]...)
			out.Note = strings.TrimSpace(strings.Join(note, " "))
			return finishAdd(raw, out, name)
		default:
			name = append(name, arg)
		}
	}
	return finishAdd(raw, out, name)
}

func finishAdd(raw string, out AddArgs, name []string) (Command, error) {
	out.Name = strings.TrimSpace(strings.Join(name, " "))
	if out.Name == "" {
		return Command{}, invalid("add requires a name")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("filter requires a category or all")
	}
	value := strings.ToLower(args[0])
	if model.Category(value) == model.CategoryAll {
		return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Category: model.CategoryAll}}, nil
	}
	cat, ok := model.ParseCategory(value)
	if !ok {
		return Command{}, invalid("unknown category %q", args[0])
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Category: cat}}, nil
}

func requireList(t Type, args []string) (model.ListType, error) {
	if len(args) != 1 {
		return "", invalid("%s requires one of tobuy, favorites, neverbuy", t)
	}
	list, ok := model.ParseListType(args[0])
	if !ok {
		return "", invalid("unknown list %q", args[0])
	}
	return list, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("move requires an item id and a list")
	}
	list, err := requireList(TypeMove, args[1:])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{ID: args[0], List: list}}, nil
}

func parseList(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: TypeList, Raw: raw, List: &ListArgs{}}, nil
	}
	list, err := requireList(TypeList, args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeList, Raw: raw, List: &ListArgs{List: list}}, nil
}

type Usage struct {
	Type    Type
	Syntax  string
	Summary string
}

// Usages lists every command in help order.
func Usages() []Usage {
	return []Usage{
		{TypeAdd, "add <name> [cat:<category>] [list:<list>] [note:<text>]", "add an item"},
		{TypeSearch, "search [text]", "filter items by name; empty clears"},
		{TypeFilter, "filter <category|all>", "show one category"},
		{TypeTab, "tab <tobuy|favorites|neverbuy>", "switch list"},
		{TypeList, "list [list]", "print items"},
		{TypeToggle, "toggle <id>", "mark purchased or not"},
		{TypeMove, "move <id> <list>", "move an item to another list"},
		{TypeCart, "cart <id>", "copy a favorite into to-buy"},
		{TypeRemove, "remove <id>", "delete an item"},
		{TypeClear, "clear", "remove purchased items"},
		{TypeShare, "share", "build a share link for the to-buy list"},
		{TypeOpen, "open <link>", "load a shared link"},
		{TypeImport, "import <file>", "import markdown into favorites"},
		{TypeExport, "export [file]", "export items as markdown"},
		{TypeBack, "back", "previous fragment"},
		{TypeForward, "forward", "next fragment"},
	}
}
