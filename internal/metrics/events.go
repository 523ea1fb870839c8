package metrics

import (
	"context"

	"github.com/osse101/MarketCrafter_Go/internal/event"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct {
	best map[int]float64
}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{best: make(map[int]float64)}
}

// Register subscribes to all outbound event types. The bus delivers events
// from the engine goroutine only, so best needs no lock.
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.RowNeeded:
		RecipesKnown.Inc()

	case event.AcquireChanged:
		payload, err := event.DecodePayload[event.AcquireChangedPayloadV1](evt.Payload)
		if err != nil {
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return err
		}
		if payload.Previous != "" {
			AcquireFlips.WithLabelValues(payload.Current).Inc()
		}

	case event.ProfitUpdated:
		payload, err := event.DecodePayload[event.ProfitUpdatedPayloadV1](evt.Payload)
		if err != nil {
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return err
		}
		if payload.Profit == nil {
			delete(e.best, payload.RecipeID)
		} else {
			e.best[payload.RecipeID] = *payload.Profit
		}
		BestProfit.Set(e.bestProfit())
	}

	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func (e *EventMetricsCollector) bestProfit() float64 {
	var best float64
	first := true
	for _, p := range e.best {
		if first || p > best {
			best, first = p, false
		}
	}
	return best
}
