package update

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/grocer/internal/hashsync"
)

// ExternalStateMsg reports that the fragment changed outside this program.
// The carried state is informational; the model re-reads the fragment.
type ExternalStateMsg struct {
	State hashsync.State
}

// ExternalFeed hands synchronizer callbacks to the bubbletea loop. Push
// never blocks: when the buffer is full the oldest state is dropped.
type ExternalFeed struct {
	mu      sync.Mutex
	ch      chan hashsync.State
	dropped atomic.Uint64
}

func NewExternalFeed(size int) *ExternalFeed {
	if size <= 0 {
		size = 1
	}
	return &ExternalFeed{ch: make(chan hashsync.State, size)}
}

func (f *ExternalFeed) Push(st hashsync.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		select {
		case f.ch <- st:
			return
		default:
		}
		select {
		case <-f.ch:
			f.dropped.Add(1)
		default:
		}
	}
}

func (f *ExternalFeed) C() <-chan hashsync.State {
	return f.ch
}

func (f *ExternalFeed) Dropped() uint64 {
	return f.dropped.Load()
}

func waitForExternalCmd(ch <-chan hashsync.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return ExternalStateMsg{State: st}
	}
}
