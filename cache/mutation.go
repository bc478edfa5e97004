package cache

import (
	"context"
	"sync"
)

// MutationStatus is the lifecycle state of a mutation.
type MutationStatus string

const (
	MutationIdle    MutationStatus = "idle"
	MutationPending MutationStatus = "pending"
	MutationSuccess MutationStatus = "success"
	MutationError   MutationStatus = "error"
)

// MutationOptions pairs a remote call with the keys it makes stale.
type MutationOptions[In, Out any] struct {
	Name        string
	Do          func(ctx context.Context, in In) (Out, error)
	Invalidates func(in In, out Out) []Key
}

// MutationResult is the state of the most recently started call.
type MutationResult[Out any] struct {
	Status MutationStatus
	Data   Out
	Err    error
}

// Mutation is the write side of a hook.
type Mutation[In, Out any] struct {
	store Invalidator
	opts  MutationOptions[In, Out]

	mu    sync.Mutex
	seq   uint64
	state MutationResult[Out]
}

// NewMutation binds opts to the cache that its invalidations go to.
func NewMutation[In, Out any](store Invalidator, opts MutationOptions[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{
		store: store,
		opts:  opts,
		state: MutationResult[Out]{Status: MutationIdle},
	}
}

// Name returns the action name the mutation was created with.
func (m *Mutation[In, Out]) Name() string { return m.opts.Name }

// Do runs the remote call. On success it invalidates the declared keys and
// returns without waiting for the refetches. On failure nothing is
// invalidated and the remote error is returned as is.
func (m *Mutation[In, Out]) Do(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state = MutationResult[Out]{Status: MutationPending}
	m.mu.Unlock()

	out, err := m.opts.Do(ctx, in)
	if err != nil {
		m.record(seq, MutationResult[Out]{Status: MutationError, Err: err})
		var zero Out
		return zero, err
	}

	if m.opts.Invalidates != nil {
		for _, k := range m.opts.Invalidates(in, out) {
			m.store.Invalidate(k)
		}
	}
	m.record(seq, MutationResult[Out]{Status: MutationSuccess, Data: out})
	return out, nil
}

// State returns the state of the latest call.
func (m *Mutation[In, Out]) State() MutationResult[Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the mutation to idle.
func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state = MutationResult[Out]{Status: MutationIdle}
}

// record stores res unless a newer call has started since seq
func (m *Mutation[In, Out]) record(seq uint64, res MutationResult[Out]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq == m.seq {
		m.state = res
	}
}
