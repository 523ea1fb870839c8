package remote

import "time"

// Defaults applied when Config leaves a field zero
const (
	DefaultMaxRetries  = 10
	DefaultMinInterval = 50 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "market-crafter/1.0"
)

// Log messages
const (
	LogMsgRequest       = "Remote request"
	LogMsgRequestFailed = "Remote request failed"
)
