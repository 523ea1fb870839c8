package notify

// Embed styling
const (
	alertTitle  = "Profitable craft"
	alertFooter = "MarketCrafter"
	alertColor  = 0x2ecc71 // Green
)

// Log messages
const (
	LogMsgNotifierDisabled = "Discord webhook not configured, profit alerts disabled"
	LogMsgNotifierEnabled  = "Profit alerts enabled"
	LogMsgAlertSent        = "Profit alert sent"
	LogMsgAlertFailed      = "Failed to send profit alert"
	LogMsgInvalidPayload   = "Profit event payload has unexpected shape"
)
