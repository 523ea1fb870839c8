package domain

// Event type constants published on the event bus by the resolution engine
// and consumed by the outbound surfaces (SSE, WebSocket, notifications, metrics).
//
// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeRowNeeded is published the first time a recipe is discovered
	EventTypeRowNeeded = "recipe.row_needed"

	// EventTypeProfitUpdated is published whenever a recipe's profit is recomputed
	EventTypeProfitUpdated = "recipe.profit_updated"

	// EventTypeAcquireChanged is published when a recipe's acquisition decision flips
	EventTypeAcquireChanged = "recipe.acquire_changed"
)
