package persist

// ZeroArgKey is the single cache slot used when the argument value is empty.
const ZeroArgKey = "null"

// Log messages
const (
	LogMsgSnapshotMissing   = "No cache snapshot found, starting empty"
	LogMsgSnapshotMalformed = "Cache snapshot is malformed, starting empty"
	LogMsgEntryMalformed    = "Dropping cache entry that does not decode to the cached type"
	LogMsgSnapshotLoaded    = "Cache snapshot loaded"
	LogMsgSnapshotFlushed   = "Cache snapshot written"
	LogMsgFetchFailed       = "Cache fetch failed"
	LogMsgMappingLoaded     = "Mapping loaded"
	LogMsgMappingMissing    = "No mapping snapshot found, using defaults"
	LogMsgMappingMalformed  = "Mapping snapshot is malformed, using defaults"
	LogMsgMappingSaved      = "Mapping saved"
)

// Error messages
const (
	ErrMsgEncodeKey      = "failed to encode cache key"
	ErrMsgEncodeSnapshot = "failed to encode snapshot"
	ErrMsgSaveSnapshot   = "failed to save snapshot"
)
