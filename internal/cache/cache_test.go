package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	n := f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(fmt.Sprintf(`{"key":%q,"call":%d}`, key, n)), nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T, f Fetcher) (*Cache, *fakeClock, map[string]int) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)}
	outcomes := map[string]int{}
	c := New(f, WithClock(clock.Now), WithObserver(func(o string) { outcomes[o]++ }))
	return c, clock, outcomes
}

func TestGet_ServesFreshEntryWithoutFetching(t *testing.T) {
	f := &countingFetcher{}
	c, clock, outcomes := newTestCache(t, f)
	ctx := context.Background()

	first, err := c.Get(ctx, "https://example.test/2023/1/results.json", false)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	clock.Advance(DefaultTTL - time.Second)
	second, err := c.Get(ctx, "https://example.test/2023/1/results.json", false)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("payload changed: %s vs %s", first, second)
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	if outcomes[OutcomeMiss] != 1 || outcomes[OutcomeHit] != 1 {
		t.Fatalf("outcomes = %v", outcomes)
	}
}

func TestGet_RefetchesAfterTTL(t *testing.T) {
	f := &countingFetcher{}
	c, clock, _ := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k", false); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	clock.Advance(DefaultTTL + time.Second)

	payload, err := c.Get(ctx, "k", false)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
	if string(payload) != `{"key":"k","call":2}` {
		t.Fatalf("payload = %s", payload)
	}
	e, ok := c.Peek("k")
	if !ok || !e.FetchedAt.Equal(clock.Now()) {
		t.Fatalf("entry = %+v, want fetchedAt %v", e, clock.Now())
	}
}

func TestGet_ForceRefreshAlwaysFetches(t *testing.T) {
	f := &countingFetcher{}
	c, _, outcomes := newTestCache(t, f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Get(ctx, "k", true); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
	}
	if got := f.calls.Load(); got != 3 {
		t.Fatalf("fetch calls = %d, want 3", got)
	}
	if outcomes[OutcomeRefresh] != 3 {
		t.Fatalf("outcomes = %v", outcomes)
	}

	// the forced payload replaces the previous one for normal lookups
	payload, err := c.Get(ctx, "k", false)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(payload) != `{"key":"k","call":3}` {
		t.Fatalf("payload = %s", payload)
	}
}

func TestGet_DoesNotCacheFailures(t *testing.T) {
	upstream := errors.New("boom")
	f := &countingFetcher{err: upstream}
	c, _, outcomes := newTestCache(t, f)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Get(ctx, "k", false); !errors.Is(err, upstream) {
			t.Fatalf("Get error = %v, want %v", err, upstream)
		}
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
	if outcomes[OutcomeError] != 2 {
		t.Fatalf("outcomes = %v", outcomes)
	}
}

func TestGet_KeysAreExact(t *testing.T) {
	f := &countingFetcher{}
	c, _, _ := newTestCache(t, f)
	ctx := context.Background()

	for _, key := range []string{"a?year=2023", "a?year=2024", "a?year=2023"} {
		if _, err := c.Get(ctx, key, false); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
}

func TestClear(t *testing.T) {
	f := &countingFetcher{}
	c, _, _ := newTestCache(t, f)
	ctx := context.Background()

	if _, err := c.Get(ctx, "k", false); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after Clear", c.Len())
	}
	if _, err := c.Get(ctx, "k", false); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
}

func TestWithTTL(t *testing.T) {
	f := &countingFetcher{}
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := New(f, WithClock(clock.Now), WithTTL(time.Minute))
	ctx := context.Background()

	_, _ = c.Get(ctx, "k", false)
	clock.Advance(time.Minute)
	_, _ = c.Get(ctx, "k", false)

	if got := f.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
}

func TestGet_ConcurrentMissesShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	f := FetcherFunc(func(ctx context.Context, key string) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(`{}`), nil
	})
	c := New(f)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), "k", false); err != nil {
				t.Errorf("Get returned error: %v", err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}

func TestGet_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := FetcherFunc(func(ctx context.Context, key string) ([]byte, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`{"shared":true}`), nil
	})
	c := New(f)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(firstCtx, "k", false)
		firstErr <- err
	}()
	<-started

	type result struct {
		payload []byte
		err     error
	}
	second := make(chan result, 1)
	go func() {
		payload, err := c.Get(context.Background(), "k", false)
		second <- result{payload, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller error = %v, want context.Canceled", err)
	}

	close(release)
	got := <-second
	if got.err != nil {
		t.Fatalf("second caller error = %v", got.err)
	}
	if string(got.payload) != `{"shared":true}` {
		t.Fatalf("second caller payload = %s", got.payload)
	}
	if _, ok := c.Peek("k"); !ok {
		t.Fatal("shared fetch result was not stored")
	}
}
