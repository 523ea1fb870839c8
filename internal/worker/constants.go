package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for pool operations
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgPoolStopped     = "Worker pool stopped"
	LogMsgEnqueueRejected = "Job rejected, pool is stopped"
)

// ============================================================================
// Log Messages - Refresh Worker
// ============================================================================

// Log messages for refresh worker operations
const (
	LogMsgRefreshStarting       = "Listings refresh starting"
	LogMsgRefreshFailed         = "Listings refresh failed"
	LogMsgRefreshToggled        = "Listings auto refresh toggled"
	LogMsgRefreshWorkerStopping = "Shutting down refresh worker"
	LogMsgRefreshWorkerStopped  = "Refresh worker shutdown complete"
	LogMsgRefreshWorkerTimeout  = "Refresh worker shutdown timeout"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestExpectedJobCount = 2
)
