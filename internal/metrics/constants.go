package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Namespace prefixes every metric exported by the service.
const Namespace = "marketcrafter"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Cache metric names
const (
	MetricNameCacheHits        = "cache_hits_total"
	MetricNameCacheMisses      = "cache_misses_total"
	MetricNameCacheFetchErrors = "cache_fetch_errors_total"
	MetricNameCacheEntries     = "cache_entries"
)

// Remote provider metric names
const (
	MetricNameRemoteFetchDuration = "remote_fetch_duration_seconds"
	MetricNameRequestsDeduped     = "requests_deduplicated_total"
)

// Engine metric names
const (
	MetricNameEngineMessages     = "engine_messages_total"
	MetricNameEngineMailboxDepth = "engine_mailbox_depth"
	MetricNameRecipesKnown       = "recipes_known"
	MetricNameBestProfit         = "best_profit"
	MetricNameAcquireFlips       = "acquire_flips_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Cache metric help text
const (
	HelpTextCacheHits        = "Memoized lookups served from cache"
	HelpTextCacheMisses      = "Memoized lookups that called the wrapped fetch"
	HelpTextCacheFetchErrors = "Wrapped fetch calls that returned an error"
	HelpTextCacheEntries     = "Entries currently held per cache"
)

// Remote provider metric help text
const (
	HelpTextRemoteFetchDuration = "Remote provider request latency in seconds"
	HelpTextRequestsDeduped     = "Fetch requests dropped because an identical one was recent"
)

// Engine metric help text
const (
	HelpTextEngineMessages     = "Messages processed by the resolution engine"
	HelpTextEngineMailboxDepth = "Messages waiting in the resolution engine mailbox"
	HelpTextRecipesKnown       = "Recipes registered with the resolution engine"
	HelpTextBestProfit         = "Highest currently known recipe profit"
	HelpTextAcquireFlips       = "Acquisition decisions that changed kind"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelCache    = "cache"
	LabelProvider = "provider"
	LabelKind     = "kind"
	LabelOutcome  = "outcome"
)

// Label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	PathUnmatched  = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// RemoteLatencyBuckets covers rate-limited remote calls including retries.
var RemoteLatencyBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgMetricsRecorded = "Metrics recorded for event"
)
