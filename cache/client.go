package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Client is the query cache shared by every observer and mutation of one
// application instance. Tests build one per case.
type Client struct {
	mu        sync.Mutex
	entries   map[string]*entry
	nextID    uint64
	baseCtx   context.Context
	cancel    context.CancelFunc
	log       zerolog.Logger
	staleTime time.Duration
	listeners []func(Key)
}

type entry struct {
	key       Key
	state     Entry
	fetch     Fetcher
	gen       uint64
	inflight  bool
	done      chan struct{} // closed when the newest fetch settles
	observers map[uint64]subscriber
}

type subscriber interface {
	notify()
	active() bool
}

type Option func(*Client)

// WithLogger sets the logger used for fetch lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithStaleTime sets how long a successful result counts as fresh. With the
// default of zero every newly attached observer triggers a refetch.
func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

// WithInvalidationListener registers fn to be called with the filter of every
// Invalidate call.
func WithInvalidationListener(fn func(Key)) Option {
	return func(c *Client) { c.listeners = append(c.listeners, fn) }
}

// New creates an empty cache.
func New(opts ...Option) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		entries: make(map[string]*entry),
		baseCtx: ctx,
		cancel:  cancel,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Peek implements Reader
func (c *Client) Peek(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return e.state, true
}

// Invalidate implements Invalidator. Entries under prefix become stale;
// the ones with an active observer refetch in the background. Entries nobody
// observes are only marked and fetch again on their next observer.
func (c *Client) Invalidate(prefix Key) {
	c.invalidate(prefix)
}

// Refetch invalidates prefix like Invalidate and then waits until every
// refetch it triggered has settled. It returns the first fetch error.
func (c *Client) Refetch(ctx context.Context, prefix Key) error {
	waits := c.invalidate(prefix)

	g, ctx := errgroup.WithContext(ctx)
	for _, w := range waits {
		g.Go(func() error {
			select {
			case <-w.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			if st := c.state(w.entry); st.Status == StatusError {
				return fmt.Errorf("refetch %s: %w", w.entry.key, st.Err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Remove evicts the entry for key. Entries that still have observers are
// kept; the return value reports whether anything was removed. A fetch in
// flight for the entry is abandoned and its waiters are released.
func (c *Client) Remove(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := key.String()
	e, ok := c.entries[id]
	if !ok || len(e.observers) > 0 {
		return false
	}
	e.gen++
	e.abandonLocked()
	delete(c.entries, id)
	return true
}

// Clear drops every cached result and cancels in-flight fetches. Results that
// arrive afterwards are discarded. Entries that still have observers stay
// registered, reset to idle, and those with an enabled observer fetch again
// so nothing mounted is left loading or cut off from invalidation.
func (c *Client) Clear() {
	c.mu.Lock()
	c.cancel()
	c.baseCtx, c.cancel = context.WithCancel(context.Background())

	kept := make(map[string]*entry)
	var notify []subscriber
	for id, e := range c.entries {
		e.gen++
		e.abandonLocked()
		if len(e.observers) == 0 {
			continue
		}
		e.state = Entry{Status: StatusIdle}
		kept[id] = e
		if e.hasActive() && e.fetch != nil {
			notify = append(notify, c.startLocked(e)...)
		} else {
			notify = append(notify, e.subscribers()...)
		}
	}
	c.entries = kept
	c.mu.Unlock()

	c.log.Debug().Int("kept", len(kept)).Msg("query cache cleared")
	for _, s := range notify {
		s.notify()
	}
}

// abandonLocked forgets the fetch in flight for e and releases its waiters.
// The caller bumps gen so the abandoned result is discarded on arrival.
func (e *entry) abandonLocked() {
	e.inflight = false
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
}

type pendingFetch struct {
	entry *entry
	done  chan struct{}
}

func (c *Client) invalidate(prefix Key) []pendingFetch {
	for _, fn := range c.listeners {
		fn(prefix)
	}

	c.mu.Lock()
	var (
		waits  []pendingFetch
		notify []subscriber
	)
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.state.Stale = true
		if !e.hasActive() {
			continue
		}
		notify = append(notify, c.startLocked(e)...)
		waits = append(waits, pendingFetch{entry: e, done: e.done})
	}
	c.mu.Unlock()

	c.log.Debug().Str("filter", prefix.String()).Int("refetching", len(waits)).Msg("invalidated")
	for _, s := range notify {
		s.notify()
	}
	return waits
}

// attach registers sub on the entry for key, creating it if needed, and
// starts a fetch when an enabled observer finds the entry stale.
func (c *Client) attach(key Key, fetch Fetcher, sub subscriber) (*entry, uint64) {
	c.mu.Lock()
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{
			key:       append(Key(nil), key...),
			state:     Entry{Status: StatusIdle},
			observers: make(map[uint64]subscriber),
		}
		c.entries[id] = e
	}
	c.nextID++
	subID := c.nextID
	e.observers[subID] = sub

	var notify []subscriber
	if sub.active() {
		e.fetch = fetch
		if c.needsFetchLocked(e) {
			notify = c.startLocked(e)
		}
	}
	c.mu.Unlock()

	for _, s := range notify {
		s.notify()
	}
	return e, subID
}

func (c *Client) detach(e *entry, subID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(e.observers, subID)
}

func (c *Client) setFetcher(e *entry, fetch Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.fetch = fetch
}

func (c *Client) state(e *entry) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.state
}

func (c *Client) needsFetchLocked(e *entry) bool {
	if e.inflight {
		return false
	}
	switch {
	case e.state.Status == StatusIdle, e.state.Status == StatusError, e.state.Stale:
		return true
	case c.staleTime <= 0:
		return true
	default:
		return time.Since(e.state.FetchedAt) >= c.staleTime
	}
}

// startLocked begins a new fetch generation for e. Any fetch already in
// flight keeps running but its result will be discarded.
func (c *Client) startLocked(e *entry) []subscriber {
	e.gen++
	gen := e.gen
	if !e.inflight {
		e.inflight = true
		e.done = make(chan struct{})
	}
	e.state.Status = StatusLoading

	fetch, ctx, key := e.fetch, c.baseCtx, e.key
	c.log.Debug().Str("key", key.String()).Uint64("gen", gen).Msg("fetch start")
	go func() {
		data, err := fetch(ctx)
		c.settle(e, gen, data, err)
	}()
	return e.subscribers()
}

func (c *Client) settle(e *entry, gen uint64, data any, err error) {
	c.mu.Lock()
	if gen != e.gen {
		c.mu.Unlock()
		c.log.Debug().Str("key", e.key.String()).Uint64("gen", gen).Msg("discarding superseded result")
		return
	}
	e.inflight = false
	if err != nil {
		e.state.Status = StatusError
		e.state.Err = err
	} else {
		e.state = Entry{
			Data:      data,
			Status:    StatusSuccess,
			FetchedAt: time.Now(),
		}
	}
	done := e.done
	e.done = nil
	subs := e.subscribers()
	c.mu.Unlock()

	if err != nil {
		c.log.Debug().Err(err).Str("key", e.key.String()).Msg("fetch failed")
	} else {
		c.log.Debug().Str("key", e.key.String()).Msg("fetch done")
	}
	if done != nil {
		close(done)
	}
	for _, s := range subs {
		s.notify()
	}
}

func (e *entry) hasActive() bool {
	for _, s := range e.observers {
		if s.active() {
			return true
		}
	}
	return false
}

func (e *entry) subscribers() []subscriber {
	out := make([]subscriber, 0, len(e.observers))
	for _, s := range e.observers {
		out = append(out, s)
	}
	return out
}
