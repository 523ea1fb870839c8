package snapshot

// File system permissions
const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// CompressedSuffix is appended to file names when compression is enabled.
const CompressedSuffix = ".zst"

// tempPattern is the os.CreateTemp pattern used for atomic writes.
const tempPattern = ".snapshot-*.tmp"

// Log messages
const (
	LogMsgSnapshotSaved   = "Snapshot saved"
	LogMsgSnapshotDeleted = "Snapshot deleted"
)
