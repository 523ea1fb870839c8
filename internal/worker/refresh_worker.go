package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/MarketCrafter_Go/internal/logger"
)

// Refresher re-requests fresh market data for everything being tracked.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker calls Refresh every interval while enabled.
type RefreshWorker struct {
	refresher Refresher
	interval  time.Duration
	enabled   atomic.Bool

	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewRefreshWorker creates a worker; enabled sets the initial toggle.
func NewRefreshWorker(refresher Refresher, interval time.Duration, enabled bool) *RefreshWorker {
	w := &RefreshWorker{
		refresher: refresher,
		interval:  interval,
		shutdown:  make(chan struct{}),
	}
	w.enabled.Store(enabled)
	return w
}

// Start launches the ticker loop.
func (w *RefreshWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.loop(context.WithoutCancel(ctx))
}

func (w *RefreshWorker) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.enabled.Load() {
				continue
			}
			w.refresh(ctx)
		case <-w.shutdown:
			return
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgRefreshStarting)
	if err := w.refresher.Refresh(ctx); err != nil {
		log.Warn(LogMsgRefreshFailed, "error", err)
	}
}

// SetEnabled toggles auto refresh.
func (w *RefreshWorker) SetEnabled(enabled bool) {
	if w.enabled.Swap(enabled) != enabled {
		logger.Info(LogMsgRefreshToggled, "enabled", enabled)
	}
}

// Enabled reports the toggle.
func (w *RefreshWorker) Enabled() bool {
	return w.enabled.Load()
}

// Interval returns the refresh period.
func (w *RefreshWorker) Interval() time.Duration {
	return w.interval
}

// Shutdown stops the loop and waits for an in-flight refresh.
func (w *RefreshWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgRefreshWorkerStopping)
	w.once.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgRefreshWorkerStopped)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgRefreshWorkerTimeout)
		return ctx.Err()
	}
}
