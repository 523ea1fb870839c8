package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/persist"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

func setupDataDir(t *testing.T) (string, snapshot.Store) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SNAPSHOT_BACKEND", "file")
	t.Setenv("SNAPSHOT_COMPRESS", "false")
	t.Setenv("DATA_DIR", dir)

	store, err := snapshot.NewFileStore(dir, false)
	require.NoError(t, err)
	return dir, store
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCacheList(t *testing.T) {
	_, store := setupDataDir(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "listings.json", []byte(`{}`)))
	require.NoError(t, store.Save(ctx, "recipes.json", []byte(`{}`)))

	t.Run("text", func(t *testing.T) {
		out, err := execute(t, "cache", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "listings.json")
		assert.Contains(t, out, "recipes.json")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "--format", "json", "cache", "list")
		require.NoError(t, err)
		var infos []snapshot.Info
		require.NoError(t, json.Unmarshal([]byte(out), &infos))
		require.Len(t, infos, 2)
		assert.Equal(t, "listings.json", infos[0].Name)
	})
}

func TestCacheList_Empty(t *testing.T) {
	setupDataDir(t)
	out, err := execute(t, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no snapshots")
}

func TestCacheInspect(t *testing.T) {
	_, store := setupDataDir(t)
	ctx := context.Background()

	fetched := time.Now().Add(-time.Hour).UTC()
	memo := map[string]persist.Entry[json.RawMessage]{
		"[1]": {Value: json.RawMessage(`{"id":1}`), FetchedAt: fetched},
		"[2]": {Value: json.RawMessage(`{"id":2}`), FetchedAt: fetched},
	}
	data, err := json.Marshal(memo)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "recipes.json", data))
	require.NoError(t, store.Save(ctx, "classjob_config.yaml", []byte("jobs:\n  CRP: 90\n")))

	t.Run("memo snapshot lists keys", func(t *testing.T) {
		out, err := execute(t, "--format", "json", "cache", "inspect", "recipes.json")
		require.NoError(t, err)
		var entries []persist.EntryInfo
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 2)
		assert.True(t, entries[0].FetchedAt.Equal(fetched))
	})

	t.Run("text output counts entries", func(t *testing.T) {
		out, err := execute(t, "cache", "inspect", "recipes.json")
		require.NoError(t, err)
		assert.Contains(t, out, "[1]")
		assert.Contains(t, out, "2 entries")
	})

	t.Run("other snapshot printed raw", func(t *testing.T) {
		out, err := execute(t, "cache", "inspect", "classjob_config.yaml")
		require.NoError(t, err)
		assert.Equal(t, "jobs:\n  CRP: 90\n", out)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := execute(t, "cache", "inspect", "missing.json")
		assert.Error(t, err)
	})
}

func TestCachePurge(t *testing.T) {
	dir, store := setupDataDir(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "listings.json", []byte(`{}`)))

	out, err := execute(t, "cache", "purge", "listings.json")
	require.NoError(t, err)
	assert.Contains(t, out, "purged listings.json")

	_, statErr := os.Stat(filepath.Join(dir, "listings.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	setupDataDir(t)
	_, err := execute(t, "--format", "yaml", "cache", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
