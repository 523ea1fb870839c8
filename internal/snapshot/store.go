// Package snapshot stores named, opaque snapshot blobs for the persistent
// caches and mappings. Backends: local files (optionally zstd-compressed),
// SQLite and Postgres (see internal/database).
package snapshot

import (
	"context"
)

// Store is a keyed blob store. Load returns an error wrapping
// domain.ErrSnapshotNotFound when name has never been saved.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Info, error)
	Close() error
}

// Info describes a stored snapshot.
type Info struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	SavedAt int64  `json:"saved_at"`
}
