// Package fetch turns resolution-engine data requests into provider calls
// and feeds the results back into the engine mailbox.
package fetch

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/metrics"
	"github.com/osse101/MarketCrafter_Go/internal/worker"
)

// Catalog resolves recipe ids.
type Catalog interface {
	Recipe(ctx context.Context, id int) (domain.Recipe, error)
}

// Market resolves listings.
type Market interface {
	Listings(ctx context.Context, itemID, worldID int, forceFresh bool) (domain.Listings, error)
}

// Sink receives fetched data; *resolver.Engine implements it.
type Sink interface {
	DiscoverRecipe(ctx context.Context, recipe domain.Recipe) error
	DeliverListings(ctx context.Context, listings domain.Listings) error
	RecipeFailed(ctx context.Context, recipeID int) error
}

// Config tunes a Dispatcher.
type Config struct {
	WorldID      int
	DedupeWindow time.Duration
	Workers      int
}

// Dispatcher implements resolver.Requester. Requests never block: they are
// queued on per-provider worker pools.
type Dispatcher struct {
	catalog Catalog
	market  Market
	sink    Sink
	worldID int

	catalogPool *worker.Pool
	marketPool  *worker.Pool

	// Contains+Add on the LRU must be atomic as a pair.
	mu     sync.Mutex
	recent *expirable.LRU[string, struct{}]
}

// NewDispatcher builds a dispatcher. Call Start before requesting.
func NewDispatcher(catalog Catalog, market Market, sink Sink, cfg Config) *Dispatcher {
	if cfg.DedupeWindow <= 0 {
		cfg.DedupeWindow = DefaultDedupeWindow
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Dispatcher{
		catalog:     catalog,
		market:      market,
		sink:        sink,
		worldID:     cfg.WorldID,
		catalogPool: worker.NewPool(poolCatalog, cfg.Workers),
		marketPool:  worker.NewPool(poolMarket, cfg.Workers),
		recent:      expirable.NewLRU[string, struct{}](dedupeCapacity, nil, cfg.DedupeWindow),
	}
}

// Start launches the provider pools.
func (d *Dispatcher) Start(ctx context.Context) {
	d.catalogPool.Start(ctx)
	d.marketPool.Start(ctx)
	logger.Info(LogMsgDispatcherReady)
}

// Stop rejects new requests and waits for queued ones to finish.
func (d *Dispatcher) Stop() {
	d.catalogPool.Stop()
	d.marketPool.Stop()
	logger.Info(LogMsgDispatcherClosed)
}

// RequestRecipe queues a catalog lookup unless the same recipe was
// requested within the dedupe window.
func (d *Dispatcher) RequestRecipe(recipeID int) {
	key := dedupeKey(KindRecipe, recipeID)
	if !d.claim(KindRecipe, key) {
		return
	}
	d.enqueue(d.catalogPool, KindRecipe, key, func(ctx context.Context) error {
		recipe, err := d.catalog.Recipe(ctx, recipeID)
		if err != nil {
			if serr := d.sink.RecipeFailed(ctx, recipeID); serr != nil {
				logger.FromContext(ctx).Debug(LogMsgDeliveryFailed, "kind", KindRecipe, "recipe_id", recipeID, "error", serr)
			}
			return err
		}
		return d.deliver(d.sink.DiscoverRecipe(ctx, recipe))
	})
}

// RequestListings queues a marketplace lookup unless the same item was
// requested within the dedupe window.
func (d *Dispatcher) RequestListings(itemID int) {
	key := dedupeKey(KindListings, itemID)
	if !d.claim(KindListings, key) {
		return
	}
	d.enqueueListings(itemID, key, false)
}

// RefreshListings queues listings lookups for items regardless of the
// dedupe window. forceFresh bypasses the long listings TTL.
func (d *Dispatcher) RefreshListings(items []int, forceFresh bool) int {
	queued := 0
	for _, id := range items {
		key := dedupeKey(KindListings, id)
		d.mu.Lock()
		d.recent.Add(key, struct{}{})
		d.mu.Unlock()
		if d.enqueueListings(id, key, forceFresh) {
			queued++
		}
	}
	logger.Debug(LogMsgRefreshQueued, "items", len(items), "queued", queued, "force_fresh", forceFresh)
	return queued
}

// Pending returns queued requests per pool.
func (d *Dispatcher) Pending() map[string]int {
	return map[string]int{
		poolCatalog: d.catalogPool.Pending(),
		poolMarket:  d.marketPool.Pending(),
	}
}

func (d *Dispatcher) enqueueListings(itemID int, key string, forceFresh bool) bool {
	return d.enqueue(d.marketPool, KindListings, key, func(ctx context.Context) error {
		listings, err := d.market.Listings(ctx, itemID, d.worldID, forceFresh)
		if err != nil {
			return err
		}
		return d.deliver(d.sink.DeliverListings(ctx, listings))
	})
}

// claim reports whether key was not requested recently, recording it.
func (d *Dispatcher) claim(kind, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.recent.Contains(key) {
		metrics.RequestsDeduped.WithLabelValues(kind).Inc()
		logger.Debug(LogMsgRequestDeduped, "key", key)
		return false
	}
	d.recent.Add(key, struct{}{})
	return true
}

func (d *Dispatcher) forget(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recent.Remove(key)
}

func (d *Dispatcher) enqueue(pool *worker.Pool, kind, key string, run func(ctx context.Context) error) bool {
	ok := pool.Enqueue(worker.JobFunc(func(ctx context.Context) error {
		err := run(ctx)
		if err == nil {
			return nil
		}
		// A failed fetch may be retried by a later request.
		d.forget(key)
		if errors.Is(err, errDelivery) {
			logger.FromContext(ctx).Debug(LogMsgDeliveryFailed, "kind", kind, "key", key, "error", err)
			return nil
		}
		logger.FromContext(ctx).Warn(LogMsgFetchFailed, "kind", kind, "key", key, "error", err)
		return nil
	}))
	if !ok {
		d.forget(key)
		logger.Debug(LogMsgRequestDropped, "kind", kind, "key", key)
	}
	return ok
}

var errDelivery = errors.New("delivery failed")

func (d *Dispatcher) deliver(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(errDelivery, err)
}

func dedupeKey(kind string, id int) string {
	return kind + ":" + strconv.Itoa(id)
}
