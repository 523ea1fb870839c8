package universalis

import "time"

// ProviderName labels logs and metrics.
const ProviderName = "universalis"

// DefaultBaseURL is the public marketplace endpoint.
const DefaultBaseURL = "https://universalis.app"

// CacheListings is the snapshot name of the listings cache.
const CacheListings = "listings.json"

// Freshness windows
const (
	DefaultTTL      = 10 * time.Minute
	DefaultFreshTTL = 30 * time.Second
)

// DefaultWorldID is the world queried when none is configured.
const DefaultWorldID = 55

// historyEntries bounds the sale history requested per item.
const historyEntries = "20"
