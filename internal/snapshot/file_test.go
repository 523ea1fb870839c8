package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		t.Run(map[bool]string{false: "plain", true: "zstd"}[compress], func(t *testing.T) {
			ctx := context.Background()
			store, err := NewFileStore(t.TempDir(), compress)
			require.NoError(t, err)

			payload := []byte(strings.Repeat(`{"null":{"value":[1,2,3]}}`, 64))
			require.NoError(t, store.Save(ctx, "recipes.json", payload))

			got, err := store.Load(ctx, "recipes.json")
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			infos, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, infos, 1)
			assert.Equal(t, "recipes.json", infos[0].Name)
		})
	}
}

func TestFileStore_CompressedOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, true)
	require.NoError(t, err)

	payload := []byte(strings.Repeat("listings ", 1000))
	require.NoError(t, store.Save(ctx, "listings.json", payload))

	raw, err := os.ReadFile(filepath.Join(dir, "listings.json"+CompressedSuffix))
	require.NoError(t, err)
	assert.Less(t, len(raw), len(payload))
}

func TestFileStore_MissingSnapshot(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), false)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "items.json")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestFileStore_OverwriteAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), false)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "a", []byte("one")))
	require.NoError(t, store.Save(ctx, "a", []byte("two")))
	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}
