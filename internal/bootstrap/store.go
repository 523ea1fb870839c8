package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/MarketCrafter_Go/internal/config"
	"github.com/osse101/MarketCrafter_Go/internal/database"
	"github.com/osse101/MarketCrafter_Go/internal/database/postgres"
	"github.com/osse101/MarketCrafter_Go/internal/database/sqlite"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// OpenStore opens the snapshot backend selected by SNAPSHOT_BACKEND. The
// postgres backend is migrated before use.
func OpenStore(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	var (
		store snapshot.Store
		err   error
	)

	switch cfg.SnapshotBackend {
	case config.BackendFile, "":
		store, err = snapshot.NewFileStore(cfg.DataDir, cfg.SnapshotCompress)
	case config.BackendSQLite:
		store, err = sqlite.Open(cfg.SQLitePath)
	case config.BackendPostgres:
		store, err = openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownBackend, cfg.SnapshotBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
	}

	slog.Info(LogMsgStoreOpened, "backend", cfg.SnapshotBackend)
	return store, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	pool, err := database.NewPool(ctx, database.PoolConfig{
		ConnString:      cfg.GetDBConnString(),
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
	}
	return postgres.NewSnapshotStore(pool), nil
}
