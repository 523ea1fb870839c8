package fetch

import "time"

// Request kinds, used as dedupe key prefixes and metric labels
const (
	KindRecipe   = "recipe"
	KindListings = "listings"
)

// Defaults
const (
	DefaultDedupeWindow = 30 * time.Second
	DefaultWorkers      = 4
	dedupeCapacity      = 8192
)

// Pool names
const (
	poolCatalog = "catalog"
	poolMarket  = "market"
)

// Log messages
const (
	LogMsgRequestDeduped   = "Request suppressed, identical request is recent"
	LogMsgRequestDropped   = "Request dropped, dispatcher is stopped"
	LogMsgFetchFailed      = "Fetch failed, dropping request"
	LogMsgDeliveryFailed   = "Could not deliver fetch result"
	LogMsgRefreshQueued    = "Listings refresh queued"
	LogMsgDispatcherReady  = "Fetch dispatcher started"
	LogMsgDispatcherClosed = "Fetch dispatcher stopped"
)
