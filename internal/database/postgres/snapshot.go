// Package postgres stores persistent cache snapshots in a Postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// SnapshotStore implements snapshot.Store on top of a pgx pool.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

// NewSnapshotStore wraps pool. Run database.Migrate first.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

var _ snapshot.Store = (*SnapshotStore)(nil)

func (s *SnapshotStore) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, queryLoadSnapshot, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}
	return data, nil
}

func (s *SnapshotStore) Save(ctx context.Context, name string, data []byte) error {
	if _, err := s.pool.Exec(ctx, queryUpsertSnapshot, name, data); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

func (s *SnapshotStore) Delete(ctx context.Context, name string) error {
	if _, err := s.pool.Exec(ctx, queryDeleteSnapshot, name); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	return nil
}

func (s *SnapshotStore) List(ctx context.Context) ([]snapshot.Info, error) {
	rows, err := s.pool.Query(ctx, queryListSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []snapshot.Info
	for rows.Next() {
		var (
			info    snapshot.Info
			savedAt time.Time
		)
		if err := rows.Scan(&info.Name, &info.Size, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		info.SavedAt = savedAt.Unix()
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Close releases the underlying pool.
func (s *SnapshotStore) Close() error {
	s.pool.Close()
	return nil
}
