package persist

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// Map is a keyed mapping seeded from defaults and overridden by its stored
// snapshot. Nothing is written until Save.
type Map[K cmp.Ordered, V any] struct {
	name  string
	store snapshot.Store
	codec Codec

	mu     sync.RWMutex
	values map[K]V
}

// NewMap returns a Map holding a copy of defaults. Call Load to apply the
// stored snapshot on top.
func NewMap[K cmp.Ordered, V any](name string, store snapshot.Store, codec Codec, defaults map[K]V) *Map[K, V] {
	if codec == nil {
		codec = JSONCodec{}
	}
	values := make(map[K]V, len(defaults))
	for k, v := range defaults {
		values[k] = v
	}
	return &Map[K, V]{name: name, store: store, codec: codec, values: values}
}

// Load merges the stored snapshot over the current values. Stored values win
// for keys present in both. A missing or malformed snapshot keeps the
// defaults.
func (m *Map[K, V]) Load(ctx context.Context) error {
	log := logger.FromContext(ctx).With("mapping", m.name)

	data, err := m.store.Load(ctx, m.name)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		log.Info(LogMsgMappingMissing)
		return nil
	}
	if err != nil {
		log.Warn(LogMsgMappingMalformed, "error", err)
		return nil
	}

	stored := make(map[K]V)
	if err := m.codec.Unmarshal(data, &stored); err != nil {
		log.Warn(LogMsgMappingMalformed, "error", err)
		return nil
	}

	m.mu.Lock()
	for k, v := range stored {
		m.values[k] = v
	}
	size := len(m.values)
	m.mu.Unlock()

	log.Info(LogMsgMappingLoaded, "stored", len(stored), "total", size)
	return nil
}

// Get returns the value for k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[k]
	return v, ok
}

// Set stores v under k.
func (m *Map[K, V]) Set(k K, v V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[k] = v
}

// SetDefault stores v under k only when k is absent and reports whether it did.
func (m *Map[K, V]) SetDefault(k K, v V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[k]; ok {
		return false
	}
	m.values[k] = v
	return true
}

// Update applies fn to the current value of k atomically and stores the
// result. ok is false when k was absent and fn received the zero value.
func (m *Map[K, V]) Update(k K, fn func(current V, ok bool) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.values[k]
	next := fn(current, ok)
	m.values[k] = next
	return next
}

// Keys returns all keys in ascending order.
func (m *Map[K, V]) Keys() []K {
	m.mu.RLock()
	keys := make([]K, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// Values returns all values ordered by key.
func (m *Map[K, V]) Values() []V {
	keys := m.Keys()
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := make([]V, 0, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			values = append(values, v)
		}
	}
	return values
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Save writes the whole mapping to the store.
func (m *Map[K, V]) Save(ctx context.Context) error {
	m.mu.RLock()
	data, err := m.codec.Marshal(m.values)
	size := len(m.values)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgEncodeSnapshot, m.name, err)
	}

	if err := m.store.Save(ctx, m.name, data); err != nil {
		return fmt.Errorf("%s %s: %w", ErrMsgSaveSnapshot, m.name, err)
	}
	logger.FromContext(ctx).Info(LogMsgMappingSaved, "mapping", m.name, "entries", size)
	return nil
}
