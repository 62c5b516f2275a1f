package fragment

import (
	"context"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Cause string

const (
	CauseNavigate Cause = "navigate"
	CauseBack     Cause = "back"
	CauseForward  Cause = "forward"
	// CauseExternal marks a change made by another process sharing the history.
	CauseExternal Cause = "external"
)

type Change struct {
	Fragment string
	Cause    Cause
}

// Location is the holder of the current fragment. Assign is the
// application's own write and does not notify subscribers; every other way
// the fragment can change does.
type Location interface {
	Fragment(ctx context.Context) (string, error)
	Assign(ctx context.Context, fragment string) error
	Subscribe(fn func(Change)) (cancel func())
}

// Subscribers is a set of change listeners safe for concurrent use.
type Subscribers struct {
	mu   sync.Mutex
	next int
	fns  *orderedmap.OrderedMap[int, func(Change)]
}

func (s *Subscribers) Add(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = orderedmap.New[int, func(Change)]()
	}
	id := s.next
	s.next++
	s.fns.Set(id, fn)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.fns.Delete(id)
			s.mu.Unlock()
		})
	}
}

func (s *Subscribers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		return 0
	}
	return s.fns.Len()
}

// Notify calls listeners in subscription order, outside the lock.
func (s *Subscribers) Notify(ch Change) {
	s.mu.Lock()
	var fns []func(Change)
	if s.fns != nil {
		fns = make([]func(Change), 0, s.fns.Len())
		for p := s.fns.Oldest(); p != nil; p = p.Next() {
			fns = append(fns, p.Value)
		}
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ch)
	}
}

func Normalize(fragment string) string {
	return strings.TrimPrefix(strings.TrimSpace(fragment), "#")
}

// MemoryLocation keeps a browser-like history in memory.
type MemoryLocation struct {
	mu      sync.Mutex
	entries []string
	index   int
	subs    Subscribers
}

func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{entries: []string{Normalize(initial)}}
}

func (l *MemoryLocation) Fragment(context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[l.index], nil
}

func (l *MemoryLocation) Assign(_ context.Context, fragment string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.push(Normalize(fragment))
	return nil
}

// push adds an entry after the current one and drops forward history. An
// unchanged fragment adds nothing. Reports whether an entry was added.
func (l *MemoryLocation) push(fragment string) bool {
	if l.entries[l.index] == fragment {
		return false
	}
	l.entries = append(l.entries[:l.index+1], fragment)
	l.index = len(l.entries) - 1
	return true
}

// Navigate behaves like the user pasting a link: a new entry plus a change
// notification.
func (l *MemoryLocation) Navigate(_ context.Context, fragment string) error {
	fragment = Normalize(fragment)
	l.mu.Lock()
	added := l.push(fragment)
	l.mu.Unlock()
	if added {
		l.subs.Notify(Change{Fragment: fragment, Cause: CauseNavigate})
	}
	return nil
}

func (l *MemoryLocation) Back(context.Context) (bool, error) {
	return l.step(-1, CauseBack), nil
}

func (l *MemoryLocation) Forward(context.Context) (bool, error) {
	return l.step(1, CauseForward), nil
}

func (l *MemoryLocation) step(delta int, cause Cause) bool {
	l.mu.Lock()
	next := l.index + delta
	if next < 0 || next >= len(l.entries) {
		l.mu.Unlock()
		return false
	}
	l.index = next
	fragment := l.entries[next]
	l.mu.Unlock()
	l.subs.Notify(Change{Fragment: fragment, Cause: cause})
	return true
}

func (l *MemoryLocation) Subscribe(fn func(Change)) func() {
	return l.subs.Add(fn)
}

// Entries returns a copy of the history and the current position.
func (l *MemoryLocation) Entries() ([]string, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out, l.index
}
