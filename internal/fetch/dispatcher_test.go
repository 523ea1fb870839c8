package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
)

type fakeCatalog struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (c *fakeCatalog) Recipe(_ context.Context, id int) (domain.Recipe, error) {
	c.calls.Add(1)
	if c.fail.Load() {
		return domain.Recipe{}, domain.ErrFetchFailed
	}
	return domain.Recipe{ID: id, Output: domain.Item{ID: id * 10}}, nil
}

type fakeMarket struct {
	mu     sync.Mutex
	calls  []int
	forced []bool
}

func (m *fakeMarket) Listings(_ context.Context, itemID, worldID int, forceFresh bool) (domain.Listings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, itemID)
	m.forced = append(m.forced, forceFresh)
	return domain.Listings{ItemID: itemID, WorldID: worldID}, nil
}

func (m *fakeMarket) snapshot() ([]int, []bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.calls...), append([]bool(nil), m.forced...)
}

type fakeSink struct {
	mu       sync.Mutex
	recipes  []int
	listings []domain.Listings
	failed   []int
	err      error
}

func (s *fakeSink) RecipeFailed(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, id)
	return s.err
}

func (s *fakeSink) failures() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.failed...)
}

func (s *fakeSink) DiscoverRecipe(_ context.Context, r domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append(s.recipes, r.ID)
	return s.err
}

func (s *fakeSink) DeliverListings(_ context.Context, l domain.Listings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings = append(s.listings, l)
	return s.err
}

func (s *fakeSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes), len(s.listings)
}

func newDispatcher(t *testing.T, window time.Duration) (*Dispatcher, *fakeCatalog, *fakeMarket, *fakeSink) {
	t.Helper()
	cat, mkt, sink := &fakeCatalog{}, &fakeMarket{}, &fakeSink{}
	d := NewDispatcher(cat, mkt, sink, Config{WorldID: 55, DedupeWindow: window, Workers: 2})
	d.Start(context.Background())
	t.Cleanup(d.Stop)
	return d, cat, mkt, sink
}

func TestDispatcher_DeliversRecipesAndListings(t *testing.T) {
	d, _, _, sink := newDispatcher(t, time.Minute)

	d.RequestRecipe(7)
	d.RequestListings(70)

	require.Eventually(t, func() bool {
		r, l := sink.counts()
		return r == 1 && l == 1
	}, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []int{7}, sink.recipes)
	assert.Equal(t, 55, sink.listings[0].WorldID)
}

func TestDispatcher_SuppressesDuplicatesInsideWindow(t *testing.T) {
	d, cat, mkt, _ := newDispatcher(t, time.Minute)

	for i := 0; i < 5; i++ {
		d.RequestRecipe(7)
		d.RequestListings(70)
	}
	d.Stop()

	assert.Equal(t, int32(1), cat.calls.Load())
	calls, _ := mkt.snapshot()
	assert.Equal(t, []int{70}, calls)
}

func TestDispatcher_RequestsAgainAfterWindow(t *testing.T) {
	d, _, mkt, _ := newDispatcher(t, 20*time.Millisecond)

	d.RequestListings(70)
	require.Eventually(t, func() bool {
		calls, _ := mkt.snapshot()
		return len(calls) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	d.RequestListings(70)
	require.Eventually(t, func() bool {
		calls, _ := mkt.snapshot()
		return len(calls) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_FailedFetchCanBeRetried(t *testing.T) {
	d, cat, _, sink := newDispatcher(t, time.Minute)
	cat.fail.Store(true)

	d.RequestRecipe(7)
	require.Eventually(t, func() bool { return cat.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	// The job forgets the key after the fetch returns.
	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return !d.recent.Contains(dedupeKey(KindRecipe, 7))
	}, time.Second, 5*time.Millisecond)

	r, _ := sink.counts()
	assert.Zero(t, r, "failed fetches are never discovered")
	require.Eventually(t, func() bool { return len(sink.failures()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{7}, sink.failures(), "the sink hears about the failure")

	cat.fail.Store(false)
	d.RequestRecipe(7)
	require.Eventually(t, func() bool {
		r, _ := sink.counts()
		return r == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_RefreshBypassesWindow(t *testing.T) {
	d, _, mkt, _ := newDispatcher(t, time.Minute)

	d.RequestListings(70)
	assert.Equal(t, 2, d.RefreshListings([]int{70, 71}, true))
	d.Stop()

	calls, forced := mkt.snapshot()
	assert.ElementsMatch(t, []int{70, 70, 71}, calls)
	assert.Contains(t, forced, true)

	// Refreshed items count as recently requested.
	assert.True(t, d.recent.Contains(dedupeKey(KindListings, 71)))
}

func TestDispatcher_DropsAfterStop(t *testing.T) {
	d, cat, _, _ := newDispatcher(t, time.Minute)
	d.Stop()

	d.RequestRecipe(7)
	assert.Zero(t, cat.calls.Load())
	assert.False(t, d.recent.Contains(dedupeKey(KindRecipe, 7)))
	assert.Zero(t, d.RefreshListings([]int{1}, false))
}

func TestDispatcher_DeliveryErrorIsSwallowed(t *testing.T) {
	d, _, _, sink := newDispatcher(t, time.Minute)
	sink.err = domain.ErrEngineStopped

	d.RequestListings(70)
	d.Stop()

	_, l := sink.counts()
	assert.Equal(t, 1, l)
	assert.True(t, errors.Is(d.deliver(sink.err), errDelivery))
}
