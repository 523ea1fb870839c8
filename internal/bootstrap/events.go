package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/MarketCrafter_Go/internal/config"
	"github.com/osse101/MarketCrafter_Go/internal/event"
	"github.com/osse101/MarketCrafter_Go/internal/metrics"
	"github.com/osse101/MarketCrafter_Go/internal/notify"
	"github.com/osse101/MarketCrafter_Go/internal/sse"
)

// EventSystem is the bus plus everything subscribed to it.
type EventSystem struct {
	Bus *event.MemoryBus
	Hub *sse.Hub
	// Notifier is nil when no Discord webhook is configured.
	Notifier *notify.Notifier
}

// InitializeEventSystem creates the event bus and subscribes the metrics
// collector, the SSE/WebSocket hub and, when configured, Discord alerts.
// The hub is started; stop it with Hub.Stop.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	bus := event.NewMemoryBus()

	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}

	hub := sse.NewHub()
	hub.Start()
	sse.NewSubscriber(hub, bus).Subscribe()

	sys := &EventSystem{Bus: bus, Hub: hub}

	if cfg.AlertsEnabled() {
		session, err := notify.NewSession()
		if err != nil {
			hub.Stop()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateSession, err)
		}
		sys.Notifier = notify.NewNotifier(session, cfg.DiscordWebhookID, cfg.DiscordWebhookToken, cfg.ProfitAlertThreshold)
		sys.Notifier.Register(bus)
	}

	slog.Info(LogMsgEventSystemInitialized, "alerts", sys.Notifier != nil)
	return sys, nil
}
