package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls.Add(1)
	return nil
}

func TestRefreshWorker_RefreshesWhileEnabled(t *testing.T) {
	r := &countingRefresher{}
	w := NewRefreshWorker(r, 5*time.Millisecond, true)
	w.Start(context.Background())

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, w.Shutdown(context.Background()))
}

func TestRefreshWorker_DisabledDoesNothing(t *testing.T) {
	r := &countingRefresher{}
	w := NewRefreshWorker(r, 5*time.Millisecond, false)
	w.Start(context.Background())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), r.calls.Load())
	assert.False(t, w.Enabled())

	w.SetEnabled(true)
	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, time.Second, time.Millisecond)
	require.NoError(t, w.Shutdown(context.Background()))
}

func TestRefreshWorker_ShutdownIsIdempotent(t *testing.T) {
	w := NewRefreshWorker(&countingRefresher{}, time.Hour, true)
	w.Start(context.Background())

	require.NoError(t, w.Shutdown(context.Background()))
	require.NoError(t, w.Shutdown(context.Background()))
}
