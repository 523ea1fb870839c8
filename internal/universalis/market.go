package universalis

import (
	"context"
	"time"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/persist"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// ListingsArgs keys the listings cache.
type ListingsArgs struct {
	ItemID  int `json:"item_id"`
	WorldID int `json:"world_id"`
}

// Source is the uncached marketplace; *Client implements it.
type Source interface {
	Listings(ctx context.Context, itemID, worldID int) (domain.Listings, error)
}

// Market is the marketplace provider with a short-lived persistent cache.
type Market struct {
	listings *persist.Memo[ListingsArgs, domain.Listings]
	freshTTL time.Duration
}

// NewMarket caches src for ttl; forced-fresh lookups accept at most
// freshTTL-old data.
func NewMarket(src Source, store snapshot.Store, ttl, freshTTL time.Duration, opts ...persist.MemoOption) *Market {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if freshTTL <= 0 {
		freshTTL = DefaultFreshTTL
	}
	fetch := func(ctx context.Context, a ListingsArgs) (domain.Listings, error) {
		return src.Listings(ctx, a.ItemID, a.WorldID)
	}
	return &Market{
		listings: persist.NewMemo(CacheListings, ttl, fetch, store, opts...),
		freshTTL: freshTTL,
	}
}

// Listings returns listings for itemID on worldID.
func (m *Market) Listings(ctx context.Context, itemID, worldID int, forceFresh bool) (domain.Listings, error) {
	args := ListingsArgs{ItemID: itemID, WorldID: worldID}
	if forceFresh {
		return m.listings.GetWithTTL(ctx, args, m.freshTTL)
	}
	return m.listings.Get(ctx, args)
}

// Load restores the listings snapshot.
func (m *Market) Load(ctx context.Context) error { return m.listings.Load(ctx) }

// Close flushes the listings snapshot.
func (m *Market) Close(ctx context.Context) error { return m.listings.Close(ctx) }

// Len returns the number of cached listings.
func (m *Market) Len() int { return m.listings.Len() }
