package logger

// Context Keys
const (
	ContextKeyRequestID = "request_id"
)

// Log levels accepted by Config.Level
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log formats accepted by Config.Format
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Defaults for empty Config fields
const (
	DefaultServiceName = "marketcrafter"
	DefaultVersion     = "dev"
	EnvironmentDev     = "dev"
)

// Log Attribute Keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyWorldID     = "world_id"
)
