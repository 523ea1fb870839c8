// Package sqlite stores persistent cache snapshots in a single-file SQLite
// database using the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    name     TEXT PRIMARY KEY,
    data     BLOB NOT NULL,
    saved_at INTEGER NOT NULL
);`

const (
	queryLoad   = `SELECT data FROM snapshots WHERE name = ?`
	queryUpsert = `INSERT INTO snapshots (name, data, saved_at) VALUES (?, ?, strftime('%s','now'))
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`
	queryDelete = `DELETE FROM snapshots WHERE name = ?`
	queryList   = `SELECT name, length(data), saved_at FROM snapshots ORDER BY name`
)

// Store implements snapshot.Store on a SQLite file.
type Store struct {
	db *sql.DB
}

var _ snapshot.Store = (*Store)(nil)

// Open creates (if needed) and opens the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, snapshot.DirPermission); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	// one writer at a time; sqlite serialises anyway
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA busy_timeout=5000;", schema} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialise sqlite: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, queryLoad, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, queryUpsert, name, data); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, queryDelete, name); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]snapshot.Info, error) {
	rows, err := s.db.QueryContext(ctx, queryList)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []snapshot.Info
	for rows.Next() {
		var info snapshot.Info
		if err := rows.Scan(&info.Name, &info.Size, &info.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
