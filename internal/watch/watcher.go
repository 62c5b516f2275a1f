package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultInterval = 500 * time.Millisecond

var ErrNilPoller = errors.New("watch: nil poller")

// Poller checks once for a change and reports whether it saw one.
type Poller interface {
	Poll(ctx context.Context) (bool, error)
}

type PollerFunc func(ctx context.Context) (bool, error)

func (f PollerFunc) Poll(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Watcher calls a Poller on a fixed interval until stopped.
type Watcher struct {
	mu       sync.Mutex
	poller   Poller
	interval time.Duration
	logger   *slog.Logger
	wakeup   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool

	polls    uint64
	changes  uint64
	failures uint64
}

func New(p Poller, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if p == nil {
		return nil, ErrNilPoller
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		poller:   p,
		interval: interval,
		logger:   logger,
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins polling. The watcher also stops when ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.loop(ctx)
}

// Stop waits for an in-flight poll to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	started := w.started
	w.mu.Unlock()
	if started {
		<-w.doneCh
	}
}

// Trigger requests a poll without waiting for the next tick.
func (w *Watcher) Trigger() {
	select {
	case w.wakeup <- struct{}{}:
	default:
	}
}

func (w *Watcher) Polls() uint64   { return atomic.LoadUint64(&w.polls) }
func (w *Watcher) Changes() uint64 { return atomic.LoadUint64(&w.changes) }
func (w *Watcher) Errors() uint64  { return atomic.LoadUint64(&w.failures) }

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.poll(ctx)
		case <-w.wakeup:
			w.poll(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	atomic.AddUint64(&w.polls, 1)
	changed, err := w.poller.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		atomic.AddUint64(&w.failures, 1)
		w.logger.Warn("poll for fragment changes", "error", err)
		return
	}
	if changed {
		atomic.AddUint64(&w.changes, 1)
	}
}
