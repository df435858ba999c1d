// Package loader appends successive result pages of one query to a growing list,
// one fetch at a time, for infinite-scroll style presentation.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hyperjump/motoblog/internal/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 10 * time.Second

// State is the loader's position in its fetch cycle.
type State int

const (
	// Idle accepts the next visibility signal.
	Idle State = iota
	// Loading has one fetch in flight.
	Loading
	// Exhausted saw an empty page and never fetches again.
	Exhausted
	// Error is reported to observers when a fetch fails; the loader then returns to Idle.
	Error
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Exhausted:
		return "exhausted"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the loader state passed to change observers.
type Snapshot struct {
	State State
	Page  int
	Items int
	Err   error
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout sets the per-fetch timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithOnChange registers fn to be called after every state change.
// fn runs outside the loader's lock and may call its accessors.
func WithOnChange(fn func(Snapshot)) Option {
	return func(l *Loader) { l.onChange = fn }
}

// Loader holds the displayed list for one query and fetches the page after the last
// one shown whenever the end of the list becomes visible.
type Loader struct {
	fetcher  Fetcher
	timeout  time.Duration
	logger   *zap.Logger
	onChange func(Snapshot)

	mu         sync.Mutex
	query      models.Query
	items      []models.Post
	page       int
	state      State
	err        error
	generation uint64
	done       chan struct{}
	cancel     context.CancelFunc
}

// New creates a loader for q seeded with its first page. first may be nil, in which
// case the first visibility signal fetches page 1.
func New(fetcher Fetcher, q models.Query, first *models.ResultPage, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.seed(q, first)
	return l
}

func (l *Loader) seed(q models.Query, first *models.ResultPage) {
	l.query = q
	l.items = nil
	l.page = 0
	if first != nil {
		l.items = append([]models.Post(nil), first.Items...)
		l.page = first.Page
	}
	l.state = Idle
	l.err = nil
	l.done = nil
	l.cancel = nil
}

// OnSentinelVisible signals that the end of the displayed list is visible. It starts a
// fetch of the next page when the loader is Idle and reports whether it did. While a
// fetch is in flight or after exhaustion it does nothing.
func (l *Loader) OnSentinelVisible(ctx context.Context) bool {
	l.mu.Lock()
	if l.state != Idle {
		l.mu.Unlock()
		return false
	}
	l.state = Loading
	gen := l.generation
	q := l.query
	next := l.page + 1

	var fetchCtx context.Context
	var cancel context.CancelFunc
	if l.timeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		fetchCtx, cancel = context.WithCancel(ctx)
	}
	done := make(chan struct{})
	l.done = done
	l.cancel = cancel
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(snap)
	go l.fetch(fetchCtx, cancel, done, gen, q, next)
	return true
}

func (l *Loader) fetch(ctx context.Context, cancel context.CancelFunc, done chan struct{}, gen uint64, q models.Query, page int) {
	defer close(done)
	defer cancel()

	startTime := time.Now()
	items, err := l.fetcher.FetchPage(ctx, q, page)

	l.mu.Lock()
	if gen != l.generation {
		l.mu.Unlock()
		l.logger.Debug("discarding page for stale query", zap.Int("page", page))
		return
	}
	l.done = nil
	l.cancel = nil

	if err != nil {
		l.err = fmt.Errorf("fetch page %d: %w: %w", page, models.ErrFetch, err)
		l.state = Error
		failed := l.snapshotLocked()
		l.state = Idle
		settled := l.snapshotLocked()
		l.mu.Unlock()

		l.logger.Warn("page fetch failed", zap.Int("page", page), zap.Error(err))
		l.notify(failed)
		l.notify(settled)
		return
	}

	l.err = nil
	if len(items) == 0 {
		l.state = Exhausted
	} else {
		l.items = append(l.items, items...)
		l.page = page
		l.state = Idle
	}
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.logger.Debug("page fetched",
		zap.Int("page", page),
		zap.Int("items", len(items)),
		zap.Stringer("state", snap.State),
		zap.Duration("took", time.Since(startTime)),
	)
	l.notify(snap)
}

// Wait blocks until no fetch is in flight or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset replaces the query and the displayed list. A fetch still in flight for the
// previous query is cancelled and its result discarded.
func (l *Loader) Reset(q models.Query, first *models.ResultPage) {
	l.mu.Lock()
	l.generation++
	if l.cancel != nil {
		l.cancel()
	}
	l.seed(q, first)
	snap := l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)
}

// Items returns a copy of the displayed list.
func (l *Loader) Items() []models.Post {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Post(nil), l.items...)
}

// State returns the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Page returns the last page appended to the list.
func (l *Loader) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Err returns the last fetch failure, cleared by the next successful fetch.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Query returns the query the list belongs to.
func (l *Loader) Query() models.Query {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

func (l *Loader) snapshotLocked() Snapshot {
	return Snapshot{State: l.state, Page: l.page, Items: len(l.items), Err: l.err}
}

func (l *Loader) notify(s Snapshot) {
	if l.onChange != nil {
		l.onChange(s)
	}
}
