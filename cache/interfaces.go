// Package cache provides an in-process query cache for server state, with
// keyed entries, observers that refetch on invalidation, and mutations that
// declare which keys they invalidate.
package cache

import (
	"context"
	"time"
)

// Status is the lifecycle state of a cached query.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry represents a cached query result with metadata
type Entry struct {
	Data      any
	Status    Status
	Err       error
	FetchedAt time.Time
	Stale     bool
}

// HasData reports whether the entry holds a value from a successful fetch.
func (e Entry) HasData() bool {
	return !e.FetchedAt.IsZero()
}

// Fetcher loads the current value for a key from the server.
type Fetcher func(ctx context.Context) (any, error)

// Reader defines read access to cache entries
type Reader interface {
	// Peek returns the entry for key without triggering a fetch
	Peek(key Key) (Entry, bool)
}

// Invalidator marks entries stale and refetches the ones being observed
type Invalidator interface {
	// Invalidate marks every entry whose key starts with prefix as stale
	Invalidate(prefix Key)
}

// Store combines the cache operations mutations and observers rely on
type Store interface {
	Reader
	Invalidator
}

var _ Store = (*Client)(nil)
