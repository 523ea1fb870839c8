package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/config"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// recorder notes the order in which components are stopped.
type recorder struct{ calls []string }

type fakeComponent struct {
	name string
	rec  *recorder
}

func (f fakeComponent) Stop(ctx context.Context) error {
	f.rec.calls = append(f.rec.calls, f.name)
	return nil
}
func (f fakeComponent) Shutdown(ctx context.Context) error {
	f.rec.calls = append(f.rec.calls, f.name)
	return nil
}

type fakeStopper struct {
	name string
	rec  *recorder
}

func (f fakeStopper) Stop()  { f.rec.calls = append(f.rec.calls, f.name) }
func (f fakeStopper) Close() { f.rec.calls = append(f.rec.calls, f.name) }

type fakeStore struct {
	snapshot.Store
	rec *recorder
}

func (f fakeStore) Close() error { f.rec.calls = append(f.rec.calls, "store"); return nil }

func TestGracefulShutdown_Order(t *testing.T) {
	rec := &recorder{}

	GracefulShutdown(context.Background(), ShutdownComponents{
		Server:        fakeComponent{"server", rec},
		RefreshWorker: fakeComponent{"refresh", rec},
		Dispatcher:    fakeStopper{"dispatcher", rec},
		Engine:        fakeComponent{"engine", rec},
		Planner:       fakeComponent{"planner", rec},
		Notifier:      fakeStopper{"notifier", rec},
		Hub:           fakeStopper{"hub", rec},
		Store:         fakeStore{rec: rec},
	})

	assert.Equal(t, []string{
		"server", "refresh", "dispatcher", "engine", "planner", "notifier", "hub", "store",
	}, rec.calls)
}

func TestGracefulShutdown_SkipsMissing(t *testing.T) {
	rec := &recorder{}

	assert.NotPanics(t, func() {
		GracefulShutdown(context.Background(), ShutdownComponents{
			Engine: fakeComponent{"engine", rec},
		})
	})
	assert.Equal(t, []string{"engine"}, rec.calls)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{SnapshotBackend: config.BackendFile, DataDir: t.TempDir()}
		store, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "a.json", []byte("{}")))
		_, err = os.Stat(filepath.Join(cfg.DataDir, "a.json"))
		assert.NoError(t, err)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{
			SnapshotBackend: config.BackendSQLite,
			SQLitePath:      filepath.Join(t.TempDir(), "nested", "snapshots.db"),
		}
		store, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer store.Close()

		require.NoError(t, store.Save(ctx, "a.json", []byte("{}")))
		data, err := store.Load(ctx, "a.json")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := OpenStore(ctx, &config.Config{SnapshotBackend: "redis"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownBackend)
	})
}

func TestCleanupLogs(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf(LogFileNamePattern, fmt.Sprintf("2026-01-%02d_00-00-00", i+1))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0o644))

	cleanupLogs(dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var logs []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == LogFileExtension {
			logs = append(logs, e.Name())
		}
	}
	assert.Len(t, logs, LogFileRetentionCount)
	assert.Equal(t, fmt.Sprintf(LogFileNamePattern, "2026-01-04_00-00-00"), logs[0])
	assert.FileExists(t, filepath.Join(dir, "keep.txt"))
}

func TestSetupLogger(t *testing.T) {
	cfg := &config.Config{
		LogDir:      filepath.Join(t.TempDir(), "logs"),
		LogLevel:    "debug",
		LogFormat:   "json",
		Environment: "test",
	}

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	f, err := SetupLogger(cfg)
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
