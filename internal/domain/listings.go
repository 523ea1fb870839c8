package domain

import (
	"math"
	"time"
)

// Listing is a single marketplace sell order.
type Listing struct {
	PricePerUnit float64   `json:"price_per_unit"`
	Quantity     int       `json:"quantity"`
	HQ           bool      `json:"hq"`
	RetainerName string    `json:"retainer_name,omitempty"`
	SellerID     string    `json:"seller_id,omitempty"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// Sale is one entry of the completed-sale history.
type Sale struct {
	PricePerUnit float64   `json:"price_per_unit"`
	Quantity     int       `json:"quantity"`
	HQ           bool      `json:"hq"`
	SoldAt       time.Time `json:"sold_at"`
}

// Listings is a per (item, world) marketplace snapshot.
type Listings struct {
	ItemID              int       `json:"item_id"`
	WorldID             int       `json:"world_id"`
	LastUpload          time.Time `json:"last_upload"`
	Listings            []Listing `json:"listings"`
	History             []Sale    `json:"history"`
	RegularSaleVelocity float64   `json:"regular_sale_velocity"`
}

// MinPrice returns the lowest asking price, or +Inf when nobody is selling.
func (l Listings) MinPrice() float64 {
	return l.MinPriceExcluding("")
}

// MinPriceExcluding returns the lowest asking price among sellers other than
// sellerID, or +Inf when none remain. An empty sellerID excludes nobody.
func (l Listings) MinPriceExcluding(sellerID string) float64 {
	minPrice := math.Inf(1)
	for _, listing := range l.Listings {
		if sellerID != "" && listing.SellerID == sellerID {
			continue
		}
		if listing.PricePerUnit < minPrice {
			minPrice = listing.PricePerUnit
		}
	}
	return minPrice
}

// MeanSalePrice returns the average unit price of the recorded history and
// false when there is none.
func (l Listings) MeanSalePrice() (float64, bool) {
	if len(l.History) == 0 {
		return 0, false
	}
	var sum float64
	for _, sale := range l.History {
		sum += sale.PricePerUnit
	}
	return sum / float64(len(l.History)), true
}
