package wsstream

import "time"

// Connection settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 * 1024
	bufferSize     = 16 * 1024
)

// Log messages
const (
	LogMsgUpgradeFailed      = "WebSocket upgrade failed"
	LogMsgClientConnected    = "WebSocket client connected"
	LogMsgClientDisconnected = "WebSocket client disconnected"
	LogMsgWriteFailed        = "WebSocket write failed"
)
