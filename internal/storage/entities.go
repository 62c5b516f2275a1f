package storage

import "time"

type Origin string

const (
	// OriginApp entries were written by the application itself.
	OriginApp Origin = "app"
	// OriginNavigate entries came from opening a link.
	OriginNavigate Origin = "navigate"
)

type Entry struct {
	Seq       int64
	Fragment  string
	Origin    Origin
	CreatedAt time.Time
}

// Cursor points at the history entry currently shown.
type Cursor struct {
	Seq       int64
	UpdatedAt time.Time
}

type HistoryListFilter struct {
	Origin Origin
	Newest bool
	Limit  int
	Offset int
}
