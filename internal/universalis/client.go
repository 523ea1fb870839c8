// Package universalis is the marketplace listings provider backed by the
// Universalis REST service.
package universalis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/remote"
)

// Client performs uncached listings requests.
type Client struct {
	http *remote.Client
}

// NewClient wraps a remote client configured for Universalis.
func NewClient(http *remote.Client) *Client {
	return &Client{http: http}
}

type listingWire struct {
	PricePerUnit   float64 `json:"pricePerUnit"`
	Quantity       int     `json:"quantity"`
	HQ             bool    `json:"hq"`
	RetainerName   string  `json:"retainerName"`
	SellerID       string  `json:"sellerID"`
	LastReviewTime int64   `json:"lastReviewTime"`
}

type saleWire struct {
	PricePerUnit float64 `json:"pricePerUnit"`
	Quantity     int     `json:"quantity"`
	HQ           bool    `json:"hq"`
	Timestamp    int64   `json:"timestamp"`
}

type listingsWire struct {
	ItemID              int           `json:"itemID"`
	WorldID             int           `json:"worldID"`
	LastUploadTime      int64         `json:"lastUploadTime"`
	Listings            []listingWire `json:"listings"`
	RecentHistory       []saleWire    `json:"recentHistory"`
	RegularSaleVelocity float64       `json:"regularSaleVelocity"`
}

// Listings fetches the current board and recent sales of itemID on world.
func (c *Client) Listings(ctx context.Context, itemID, worldID int) (domain.Listings, error) {
	path := fmt.Sprintf("/api/v2/%d/%d", worldID, itemID)
	data, err := c.http.Get(ctx, path, url.Values{"entries": {historyEntries}})
	if errors.Is(err, remote.ErrNotFound) {
		return domain.Listings{}, fmt.Errorf("%w: %d", domain.ErrItemNotFound, itemID)
	}
	if err != nil {
		return domain.Listings{}, err
	}

	var wire listingsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return domain.Listings{}, fmt.Errorf("%w: decoding listings for %d: %v", domain.ErrFetchFailed, itemID, err)
	}
	return wire.toDomain(itemID, worldID), nil
}

func (w listingsWire) toDomain(itemID, worldID int) domain.Listings {
	l := domain.Listings{
		ItemID:              itemID,
		WorldID:             worldID,
		LastUpload:          time.UnixMilli(w.LastUploadTime).UTC(),
		RegularSaleVelocity: w.RegularSaleVelocity,
		Listings:            make([]domain.Listing, 0, len(w.Listings)),
		History:             make([]domain.Sale, 0, len(w.RecentHistory)),
	}
	for _, lw := range w.Listings {
		l.Listings = append(l.Listings, domain.Listing{
			PricePerUnit: lw.PricePerUnit,
			Quantity:     lw.Quantity,
			HQ:           lw.HQ,
			RetainerName: lw.RetainerName,
			SellerID:     lw.SellerID,
			ReviewedAt:   time.Unix(lw.LastReviewTime, 0).UTC(),
		})
	}
	for _, sw := range w.RecentHistory {
		l.History = append(l.History, domain.Sale{
			PricePerUnit: sw.PricePerUnit,
			Quantity:     sw.Quantity,
			HQ:           sw.HQ,
			SoldAt:       time.Unix(sw.Timestamp, 0).UTC(),
		})
	}
	return l
}
