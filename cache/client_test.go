package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	t.Cleanup(cancel)
	return ctx
}

// counter returns a fetch function that counts calls and returns values
// from next.
func counter[T any](next func(call int32) (T, error)) (func(context.Context) (T, error), *atomic.Int32) {
	var calls atomic.Int32
	return func(ctx context.Context) (T, error) {
		return next(calls.Add(1))
	}, &calls
}

func TestObserveFetchesOnce(t *testing.T) {
	c := New()
	fetch, calls := counter(func(int32) ([]string, error) {
		return []string{"friend1", "friend2"}, nil
	})

	o := Observe(c, QueryOptions[[]string]{Key: Key{"friends"}, Fetch: fetch})
	defer o.Close()

	res, err := o.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, []string{"friend1", "friend2"}, res.Data)
	assert.Equal(t, int32(1), calls.Load())
}

func TestObserveSharesStructurallyEqualKeys(t *testing.T) {
	c := New(WithStaleTime(time.Hour))
	fetch, calls := counter(func(int32) (int, error) { return 7, nil })

	a := Observe(c, QueryOptions[int]{Key: Key{"feed", 1, 20}, Fetch: fetch})
	defer a.Close()
	_, err := a.Wait(testContext(t))
	require.NoError(t, err)

	b := Observe(c, QueryOptions[int]{Key: Key{"feed", 1, 20}, Fetch: fetch})
	defer b.Close()
	res, err := b.Wait(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 7, res.Data)
	assert.Equal(t, int32(1), calls.Load(), "fresh entry should be served from cache")

	other := Observe(c, QueryOptions[int]{Key: Key{"feed", 2, 10}, Fetch: fetch})
	defer other.Close()
	_, err = other.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "different params are a different entry")
}

func TestObserveJoinsInflightFetch(t *testing.T) {
	c := New()
	release := make(chan struct{})
	fetch, calls := counter(func(int32) (string, error) {
		<-release
		return "ok", nil
	})

	a := Observe(c, QueryOptions[string]{Key: Key{"streak"}, Fetch: fetch})
	defer a.Close()
	b := Observe(c, QueryOptions[string]{Key: Key{"streak"}, Fetch: fetch})
	defer b.Close()

	require.Equal(t, StatusLoading, b.Result().Status)
	require.False(t, b.Result().HasData)
	close(release)

	_, err := a.Wait(testContext(t))
	require.NoError(t, err)
	_, err = b.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestObserveErrorKeepsStaleData(t *testing.T) {
	c := New()
	netErr := errors.New("network error")
	fetch, _ := counter(func(call int32) (string, error) {
		if call == 1 {
			return "first", nil
		}
		return "", netErr
	})

	o := Observe(c, QueryOptions[string]{Key: Key{"friends"}, Fetch: fetch})
	defer o.Close()
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)

	err = c.Refetch(testContext(t), Key{"friends"})
	require.ErrorIs(t, err, netErr)

	res := o.Result()
	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, netErr)
	assert.True(t, res.HasData)
	assert.Equal(t, "first", res.Data)
}

func TestObserveInitialErrorHasNoData(t *testing.T) {
	c := New()
	o := Observe(c, QueryOptions[[]string]{
		Key:   Key{"friends"},
		Fetch: func(context.Context) ([]string, error) { return nil, errors.New("Network error") },
	})
	defer o.Close()

	res, err := o.Wait(testContext(t))
	require.Error(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.False(t, res.HasData)
}

func TestDisabledObserverIsIdle(t *testing.T) {
	c := New()
	fetch, calls := counter(func(int32) (string, error) { return "x", nil })

	o := Observe(c, QueryOptions[string]{Key: Key{"comments", ""}, Fetch: fetch, Disabled: true})
	defer o.Close()

	res, err := o.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, res.Status)

	c.Invalidate(Key{"comments"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSetOptionsRefetchesOnKeyChange(t *testing.T) {
	c := New()
	var seen []Key
	var mu sync.Mutex
	fetchFor := func(k Key) func(context.Context) (string, error) {
		return func(context.Context) (string, error) {
			mu.Lock()
			seen = append(seen, k)
			mu.Unlock()
			return k.String(), nil
		}
	}

	o := Observe(c, QueryOptions[string]{Key: Key{"feed", 1, 20}, Fetch: fetchFor(Key{"feed", 1, 20})})
	defer o.Close()
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)

	o.SetOptions(QueryOptions[string]{Key: Key{"feed", 1, 20}, Fetch: fetchFor(Key{"feed", 1, 20})})
	o.SetOptions(QueryOptions[string]{Key: Key{"feed", 2, 10}, Fetch: fetchFor(Key{"feed", 2, 10})})
	res, err := o.Wait(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, `["feed",2,10]`, res.Data)
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 2, "rebinding to the same key must not refetch")
}

func TestInvalidateRefetchesObservedEntries(t *testing.T) {
	c := New()
	feedA, callsA := counter(func(int32) (string, error) { return "a", nil })
	feedB, callsB := counter(func(int32) (string, error) { return "b", nil })
	friends, callsF := counter(func(int32) (string, error) { return "f", nil })

	for _, o := range []*Observer[string]{
		Observe(c, QueryOptions[string]{Key: Key{"feed", 1, 20}, Fetch: feedA}),
		Observe(c, QueryOptions[string]{Key: Key{"feed", 2, 10}, Fetch: feedB}),
		Observe(c, QueryOptions[string]{Key: Key{"friends"}, Fetch: friends}),
	} {
		defer o.Close()
		_, err := o.Wait(testContext(t))
		require.NoError(t, err)
	}

	require.NoError(t, c.Refetch(testContext(t), Key{"feed"}))

	assert.Equal(t, int32(2), callsA.Load())
	assert.Equal(t, int32(2), callsB.Load())
	assert.Equal(t, int32(1), callsF.Load(), "friends must not be touched by a feed invalidation")
}

func TestInvalidateWithoutObserversIsNoop(t *testing.T) {
	c := New()
	fetch, calls := counter(func(int32) (string, error) { return "ok", nil })

	o := Observe(c, QueryOptions[string]{Key: Key{"friends"}, Fetch: fetch})
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)
	o.Close()

	require.NoError(t, c.Refetch(testContext(t), Key{"friends"}))
	require.NoError(t, c.Refetch(testContext(t), Key{"never-seen"}))
	assert.Equal(t, int32(1), calls.Load())

	entry, ok := c.Peek(Key{"friends"})
	require.True(t, ok)
	assert.True(t, entry.Stale)

	again := Observe(c, QueryOptions[string]{Key: Key{"friends"}, Fetch: fetch})
	defer again.Close()
	_, err = again.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "next observer should fetch the stale entry")
}

func TestSupersededResultIsDiscarded(t *testing.T) {
	c := New()
	release := make(chan struct{})
	fetch, calls := counter(func(call int32) (string, error) {
		if call == 1 {
			<-release
			return "old", nil
		}
		return "new", nil
	})

	o := Observe(c, QueryOptions[string]{Key: Key{"feed", 1, 20}, Fetch: fetch})
	defer o.Close()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, time.Millisecond)

	require.NoError(t, c.Refetch(testContext(t), Key{"feed"}))
	require.Equal(t, "new", o.Result().Data)

	close(release)
	assert.Never(t, func() bool { return o.Result().Data == "old" }, 100*time.Millisecond, 5*time.Millisecond)
}

func TestClosedObserverStopsReceivingUpdates(t *testing.T) {
	c := New()
	release := make(chan struct{})
	fetch, _ := counter(func(int32) (string, error) {
		<-release
		return "late", nil
	})

	o := Observe(c, QueryOptions[string]{Key: Key{"comments", "w1"}, Fetch: fetch})
	o.Close()
	// drain the loading signal delivered before Close
	select {
	case <-o.Updates():
	default:
	}

	close(release)
	select {
	case <-o.Updates():
		t.Fatal("closed observer received an update")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStaleTimeSkipsRefetchOnAttach(t *testing.T) {
	c := New(WithStaleTime(time.Hour))
	fetch, calls := counter(func(int32) (string, error) { return "dash", nil })

	for i := 0; i < 3; i++ {
		o := Observe(c, QueryOptions[string]{Key: Key{"stats", "dashboard"}, Fetch: fetch})
		_, err := o.Wait(testContext(t))
		require.NoError(t, err)
		o.Close()
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestClearDropsEntries(t *testing.T) {
	c := New(WithStaleTime(time.Hour))
	fetch, calls := counter(func(int32) (string, error) { return "x", nil })

	o := Observe(c, QueryOptions[string]{Key: Key{"achievements"}, Fetch: fetch})
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)
	o.Close()

	c.Clear()
	_, ok := c.Peek(Key{"achievements"})
	assert.False(t, ok)

	o = Observe(c, QueryOptions[string]{Key: Key{"achievements"}, Fetch: fetch})
	defer o.Close()
	_, err = o.Wait(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClearRefetchesMountedObserver(t *testing.T) {
	c := New()
	release := make(chan struct{})
	defer close(release)
	fetch, calls := counter(func(call int32) (int32, error) {
		if call == 1 {
			<-release
		}
		return call, nil
	})

	o := Observe(c, QueryOptions[int32]{Key: Key{"feed", 1, 20}, Fetch: fetch})
	defer o.Close()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, waitFor, time.Millisecond)

	c.Clear()
	res, err := o.Wait(testContext(t))
	require.NoError(t, err, "observer must not stay loading after Clear")
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, int32(2), res.Data)

	entry, ok := c.Peek(Key{"feed", 1, 20})
	require.True(t, ok, "observed entry stays registered")
	assert.Equal(t, StatusSuccess, entry.Status)
}

func TestClearKeepsObserverReachableByInvalidate(t *testing.T) {
	c := New()
	fetch, calls := counter(func(call int32) (int32, error) { return call, nil })

	o := Observe(c, QueryOptions[int32]{Key: Key{"feed", 1, 20}, Fetch: fetch})
	defer o.Close()
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)

	c.Clear()
	_, err = o.Wait(testContext(t))
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())

	require.NoError(t, c.Refetch(testContext(t), Key{"feed"}))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(3), o.Result().Data)
}

func TestClearLeavesDisabledObserverIdle(t *testing.T) {
	c := New()
	fetch, calls := counter(func(int32) (string, error) { return "x", nil })

	o := Observe(c, QueryOptions[string]{Key: Key{"comments", ""}, Fetch: fetch, Disabled: true})
	defer o.Close()

	c.Clear()
	assert.Equal(t, StatusIdle, o.Result().Status)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClearReleasesRefetchWaiters(t *testing.T) {
	c := New()
	release := make(chan struct{})
	defer close(release)
	fetch, calls := counter(func(call int32) (string, error) {
		if call == 2 {
			<-release
		}
		return "ok", nil
	})

	o := Observe(c, QueryOptions[string]{Key: Key{"friends"}, Fetch: fetch})
	defer o.Close()
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)

	ctx := testContext(t)
	errc := make(chan error, 1)
	go func() { errc <- c.Refetch(ctx, Key{"friends"}) }()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, time.Millisecond)

	c.Clear()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Refetch still blocked after Clear")
	}
}

func TestRemoveReleasesRefetchWaiters(t *testing.T) {
	c := New()
	release := make(chan struct{})
	defer close(release)
	fetch, calls := counter(func(call int32) (string, error) {
		if call == 2 {
			<-release
		}
		return "ok", nil
	})

	o := Observe(c, QueryOptions[string]{Key: Key{"friends"}, Fetch: fetch})
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)

	ctx := testContext(t)
	errc := make(chan error, 1)
	go func() { errc <- c.Refetch(ctx, Key{"friends"}) }()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, waitFor, time.Millisecond)

	o.Close()
	require.True(t, c.Remove(Key{"friends"}))
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("Refetch still blocked after Remove")
	}

	_, ok := c.Peek(Key{"friends"})
	assert.False(t, ok)
}

func TestRemoveKeepsObservedEntries(t *testing.T) {
	c := New()
	o := Observe(c, QueryOptions[string]{
		Key:   Key{"friends"},
		Fetch: func(context.Context) (string, error) { return "x", nil },
	})
	_, err := o.Wait(testContext(t))
	require.NoError(t, err)

	assert.False(t, c.Remove(Key{"friends"}))
	o.Close()
	assert.True(t, c.Remove(Key{"friends"}))
	assert.False(t, c.Remove(Key{"friends"}))
}

func TestInvalidationListener(t *testing.T) {
	var got []string
	c := New(WithInvalidationListener(func(k Key) { got = append(got, k.String()) }))

	c.Invalidate(Key{"friends"})
	c.Invalidate(Key{"comments", "w1"})

	assert.Equal(t, []string{`["friends"]`, `["comments","w1"]`}, got)
}
