package bootstrap

import "time"

// ServiceName tags every log line.
const ServiceName = "marketcrafter"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionLimit triggers cleanup once this many log files exist
	LogFileRetentionLimit = 10

	// LogFileRetentionCount is the number of log files kept after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgStartingApp         = "Starting MarketCrafter"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file %s: %v\n"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStoreOpened        = "Snapshot store opened"
	ErrMsgUnknownBackend     = "unknown snapshot backend"
	ErrMsgFailedOpenStore    = "failed to open snapshot store"
	ErrMsgFailedMigrate      = "failed to migrate database"
	ErrMsgFailedLoadSnapshot = "failed to load snapshot"
)

// =============================================================================
// Event System
// =============================================================================

const (
	LogMsgEventSystemInitialized = "Event system initialized"
	ErrMsgFailedRegisterMetrics  = "failed to register event metrics"
	ErrMsgFailedCreateSession    = "failed to create discord session"
)

// =============================================================================
// Application Lifecycle
// =============================================================================

const (
	// ShutdownTimeout bounds the whole graceful shutdown sequence
	ShutdownTimeout = 30 * time.Second

	// UserAgent identifies the remote clients
	UserAgent = "MarketCrafter/1.0"

	// RemoteTimeout bounds one remote HTTP attempt
	RemoteTimeout = 15 * time.Second
)

const (
	ProviderXIVAPI      = "xivapi"
	ProviderUniversalis = "universalis"

	ReadinessStore  = "store"
	ReadinessEngine = "engine"
)

const (
	LogMsgComponentsStarted        = "Components started"
	LogMsgJobsLoadFailed           = "Failed to load crafting jobs; job levels unavailable until restart"
	LogMsgShutdownSignal           = "Shutdown signal received"
	LogMsgShuttingDownServer       = "Shutting down server..."
	LogMsgServerForcedShutdown     = "Server forced to shutdown"
	LogMsgServerStopped            = "Server stopped"
	LogMsgComponentShutdownFailed  = " shutdown failed"
	LogMsgStoreCloseFailed         = "Snapshot store close failed"
	ErrMsgFailedCreateRemoteClient = "failed to create remote client"
)

// Component names used in shutdown logs
const (
	ComponentRefreshWorker = "refresh worker"
	ComponentEngine        = "engine"
	ComponentPlanner       = "planner"
)
