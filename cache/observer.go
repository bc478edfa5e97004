package cache

import (
	"context"
	"sync"
	"time"
)

// QueryOptions describes one read: the key it is cached under, how to fetch
// it, and whether it is allowed to fetch at all.
type QueryOptions[T any] struct {
	Key      Key
	Fetch    func(ctx context.Context) (T, error)
	Disabled bool
}

// Result is an observer's view of its entry.
type Result[T any] struct {
	Data      T
	HasData   bool
	Status    Status
	Err       error
	FetchedAt time.Time
	Stale     bool
}

// Observer watches one cache entry. It is the read side of a hook: it fetches
// on first use, refetches when its key is invalidated, and signals on
// Updates whenever its entry changes.
type Observer[T any] struct {
	client  *Client
	updates chan struct{}

	mu     sync.Mutex
	opts   QueryOptions[T]
	entry  *entry
	subID  uint64
	closed bool
}

// binding is the subscription of one observer to one entry
type binding struct {
	signal  chan struct{}
	enabled bool
}

func (b binding) notify() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b binding) active() bool { return b.enabled }

// Observe attaches a new observer to the entry for opts.Key.
func Observe[T any](c *Client, opts QueryOptions[T]) *Observer[T] {
	o := &Observer[T]{
		client:  c,
		updates: make(chan struct{}, 1),
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bindLocked(opts)
	return o
}

func (o *Observer[T]) bindLocked(opts QueryOptions[T]) {
	o.opts = opts
	o.entry, o.subID = o.client.attach(opts.Key, wrapFetch(opts.Fetch), binding{
		signal:  o.updates,
		enabled: !opts.Disabled && opts.Fetch != nil,
	})
}

func wrapFetch[T any](fetch func(ctx context.Context) (T, error)) Fetcher {
	if fetch == nil {
		return nil
	}
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

// SetOptions rebinds the observer, as a component does when its inputs
// change. A different key or a change of enablement moves the observer to
// the new entry and fetches it if needed; otherwise only the fetch function
// is replaced.
func (o *Observer[T]) SetOptions(opts QueryOptions[T]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	if opts.Key.Equal(o.opts.Key) && opts.Disabled == o.opts.Disabled {
		o.opts = opts
		if !opts.Disabled && opts.Fetch != nil {
			o.client.setFetcher(o.entry, wrapFetch(opts.Fetch))
		}
		return
	}
	o.client.detach(o.entry, o.subID)
	o.bindLocked(opts)
	o.signal()
}

// Key returns the key the observer is currently bound to.
func (o *Observer[T]) Key() Key {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opts.Key
}

// Result returns a snapshot of the observed entry. Disabled observers
// always report StatusIdle.
func (o *Observer[T]) Result() Result[T] {
	o.mu.Lock()
	e, disabled := o.entry, o.opts.Disabled || o.opts.Fetch == nil
	o.mu.Unlock()

	if disabled {
		return Result[T]{Status: StatusIdle}
	}
	st := o.client.state(e)
	r := Result[T]{
		Status:    st.Status,
		Err:       st.Err,
		FetchedAt: st.FetchedAt,
		Stale:     st.Stale,
	}
	if v, ok := st.Data.(T); ok && st.HasData() {
		r.Data, r.HasData = v, true
	}
	return r
}

// Updates signals after every change to the observed entry. Signals are
// coalesced; read Result after receiving one.
func (o *Observer[T]) Updates() <-chan struct{} {
	return o.updates
}

// Wait blocks until the observer is no longer loading and returns the
// result. The error is the fetch error, or ctx's error if it ends first.
func (o *Observer[T]) Wait(ctx context.Context) (Result[T], error) {
	for {
		r := o.Result()
		switch r.Status {
		case StatusError:
			return r, r.Err
		case StatusLoading:
		default:
			return r, nil
		}
		select {
		case <-o.updates:
		case <-ctx.Done():
			return r, ctx.Err()
		}
	}
}

// Close detaches the observer. Results arriving later are not delivered.
func (o *Observer[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.client.detach(o.entry, o.subID)
}

func (o *Observer[T]) signal() {
	select {
	case o.updates <- struct{}{}:
	default:
	}
}
