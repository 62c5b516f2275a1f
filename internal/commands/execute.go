package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Search  func(SearchArgs) (Result, error)
	Filter  func(FilterArgs) (Result, error)
	Tab     func(TabArgs) (Result, error)
	Clear   func() (Result, error)
	Share   func() (Result, error)
	Open    func(OpenArgs) (Result, error)
	Import  func(ImportArgs) (Result, error)
	Export  func(ExportArgs) (Result, error)
	Back    func() (Result, error)
	Forward func() (Result, error)
	Remove  func(TargetArgs) (Result, error)
	Move    func(MoveArgs) (Result, error)
	Cart    func(TargetArgs) (Result, error)
	Toggle  func(TargetArgs) (Result, error)
	List    func(ListArgs) (Result, error)
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func call[A any](t Type, fn func(A) (Result, error), args *A) (Result, error) {
	if fn == nil {
		return missing(t)
	}
	if args == nil {
		return Result{}, invalid("%s is missing its arguments", t)
	}
	return fn(*args)
}

func call0(t Type, fn func() (Result, error)) (Result, error) {
	if fn == nil {
		return missing(t)
	}
	return fn()
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		return call(cmd.Type, handlers.Add, cmd.Add)
	case TypeSearch:
		return call(cmd.Type, handlers.Search, cmd.Search)
	case TypeFilter:
		return call(cmd.Type, handlers.Filter, cmd.Filter)
	case TypeTab:
		return call(cmd.Type, handlers.Tab, cmd.Tab)
	case TypeClear:
		return call0(cmd.Type, handlers.Clear)
	case TypeShare:
		return call0(cmd.Type, handlers.Share)
	case TypeOpen:
		return call(cmd.Type, handlers.Open, cmd.Open)
	case TypeImport:
		return call(cmd.Type, handlers.Import, cmd.Import)
	case TypeExport:
		return call(cmd.Type, handlers.Export, cmd.Export)
	case TypeBack:
		return call0(cmd.Type, handlers.Back)
	case TypeForward:
		return call0(cmd.Type, handlers.Forward)
	case TypeRemove:
		return call(cmd.Type, handlers.Remove, cmd.Target)
	case TypeMove:
		return call(cmd.Type, handlers.Move, cmd.Move)
	case TypeCart:
		return call(cmd.Type, handlers.Cart, cmd.Target)
	case TypeToggle:
		return call(cmd.Type, handlers.Toggle, cmd.Target)
	case TypeList:
		return call(cmd.Type, handlers.List, cmd.List)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
