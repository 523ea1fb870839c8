// Package persist holds the two persistent in-memory stores: Memo, a TTL
// memoizing wrapper around a fetch function, and Map, a plain keyed mapping
// with an explicit Save.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/MarketCrafter_Go/internal/concurrency"
	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/metrics"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// FetchFunc computes the value for args. It must be safe to call
// concurrently for different arguments.
type FetchFunc[A comparable, V any] func(ctx context.Context, args A) (V, error)

// Entry is a cached value and the time it was fetched.
type Entry[V any] struct {
	Value     V         `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// EntryInfo describes a cached key without its value.
type EntryInfo struct {
	Key       string    `json:"key"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Memo memoizes fetch by argument value for ttl and persists its entries to
// a snapshot.Store under name.
type Memo[A comparable, V any] struct {
	name  string
	ttl   time.Duration
	fetch FetchFunc[A, V]
	store snapshot.Store
	locks *concurrency.LockManager
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry[V]
}

// MemoOption configures a Memo.
type MemoOption func(*memoOptions)

type memoOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoOption {
	return func(o *memoOptions) { o.now = now }
}

// NewMemo wraps fetch. Call Load before first use to restore the snapshot.
func NewMemo[A comparable, V any](name string, ttl time.Duration, fetch FetchFunc[A, V], store snapshot.Store, opts ...MemoOption) *Memo[A, V] {
	o := memoOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memo[A, V]{
		name:    name,
		ttl:     ttl,
		fetch:   fetch,
		store:   store,
		locks:   concurrency.NewLockManager(),
		now:     o.now,
		entries: make(map[string]Entry[V]),
	}
}

// Name returns the snapshot name.
func (m *Memo[A, V]) Name() string { return m.name }

// TTL returns the default freshness window.
func (m *Memo[A, V]) TTL() time.Duration { return m.ttl }

// Get returns the cached value for args, fetching when absent or older than
// the default TTL.
func (m *Memo[A, V]) Get(ctx context.Context, args A) (V, error) {
	return m.GetWithTTL(ctx, args, 0)
}

// GetWithTTL is Get with a per-call freshness window. A non-positive
// override, or one longer than the default, uses the default.
func (m *Memo[A, V]) GetWithTTL(ctx context.Context, args A, override time.Duration) (V, error) {
	var zero V

	key, err := Key(args)
	if err != nil {
		return zero, err
	}

	ttl := m.ttl
	if override > 0 && override < ttl {
		ttl = override
	}

	unlock := m.locks.Lock(key)
	defer unlock()

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if ok && m.now().Sub(entry.FetchedAt) <= ttl {
		metrics.CacheHits.WithLabelValues(m.name).Inc()
		return entry.Value, nil
	}

	metrics.CacheMisses.WithLabelValues(m.name).Inc()
	value, err := m.fetch(ctx, args)
	if err != nil {
		metrics.CacheFetchErrors.WithLabelValues(m.name).Inc()
		logger.FromContext(ctx).Warn(LogMsgFetchFailed, "cache", m.name, "key", key, "error", err)
		return zero, err
	}

	m.mu.Lock()
	m.entries[key] = Entry[V]{Value: value, FetchedAt: m.now()}
	size := len(m.entries)
	m.mu.Unlock()

	metrics.CacheEntries.WithLabelValues(m.name).Set(float64(size))
	return value, nil
}

// Len returns the number of cached keys.
func (m *Memo[A, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Entries lists the cached keys sorted by key.
func (m *Memo[A, V]) Entries() []EntryInfo {
	m.mu.RLock()
	infos := make([]EntryInfo, 0, len(m.entries))
	for key, entry := range m.entries {
		infos = append(infos, EntryInfo{Key: key, FetchedAt: entry.FetchedAt})
	}
	m.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos
}

// Load replaces the in-memory entries with the stored snapshot. A missing or
// malformed snapshot leaves the cache empty and is only logged; entries
// whose value no longer decodes as V are dropped individually.
func (m *Memo[A, V]) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).With("cache", m.name)

	data, err := m.store.Load(ctx, m.name)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		log.Info(LogMsgSnapshotMissing)
		return nil
	}
	if err != nil {
		log.Warn(LogMsgSnapshotMalformed, "error", err)
		return nil
	}

	var raw map[string]Entry[json.RawMessage]
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn(LogMsgSnapshotMalformed, "error", err)
		return nil
	}

	entries := make(map[string]Entry[V], len(raw))
	for key, rawEntry := range raw {
		var value V
		if err := json.Unmarshal(rawEntry.Value, &value); err != nil {
			log.Warn(LogMsgEntryMalformed, "key", key, "error", err)
			continue
		}
		entries[key] = Entry[V]{Value: value, FetchedAt: rawEntry.FetchedAt}
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()

	metrics.CacheEntries.WithLabelValues(m.name).Set(float64(len(entries)))
	log.Info(LogMsgSnapshotLoaded, "entries", len(entries))
	return nil
}

// Flush writes every entry to the store. Values are encoded through V, so
// the snapshot always holds V's canonical JSON form.
func (m *Memo[A, V]) Flush(ctx context.Context) error {
	m.mu.RLock()
	data, err := json.Marshal(m.entries)
	size := len(m.entries)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgEncodeSnapshot, m.name, err)
	}

	if err := m.store.Save(ctx, m.name, data); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgSaveSnapshot, m.name, err)
	}
	logger.FromContext(ctx).Info(LogMsgSnapshotFlushed, "cache", m.name, "entries", size)
	return nil
}

// Close flushes the cache. The Memo stays usable afterwards.
func (m *Memo[A, V]) Close(ctx context.Context) error {
	return m.Flush(ctx)
}

// InspectSnapshot lists the keys of a raw Memo snapshot without knowing its
// value type.
func InspectSnapshot(data []byte) ([]EntryInfo, error) {
	var raw map[string]Entry[json.RawMessage]
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	infos := make([]EntryInfo, 0, len(raw))
	for key, entry := range raw {
		infos = append(infos, EntryInfo{Key: key, FetchedAt: entry.FetchedAt})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
