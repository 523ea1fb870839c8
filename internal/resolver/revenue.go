package resolver

import (
	"math"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
)

// RevenueFunc estimates what one craft of a recipe's output sells for.
type RevenueFunc func(listings domain.Listings) float64

// UnitPriceRevenue is the lowest current ask, falling back to the mean
// recent sale price, or 0 when the item has never traded.
func UnitPriceRevenue(l domain.Listings) float64 {
	if p := l.MinPrice(); !math.IsInf(p, 0) {
		return p
	}
	if mean, ok := l.MeanSalePrice(); ok {
		return mean
	}
	return 0
}

// VelocityRevenue weights the unit price by the regular sale velocity, so
// items that barely sell rank below fast movers.
func VelocityRevenue(l domain.Listings) float64 {
	return UnitPriceRevenue(l) * l.RegularSaleVelocity
}

// RevenueFuncFor maps a configured policy name to its RevenueFunc.
func RevenueFuncFor(policy string) RevenueFunc {
	if policy == RevenuePolicyVelocity {
		return VelocityRevenue
	}
	return UnitPriceRevenue
}
