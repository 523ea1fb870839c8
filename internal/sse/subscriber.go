package sse

import (
	"context"

	"github.com/osse101/MarketCrafter_Go/internal/event"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
)

// Subscriber bridges the internal event bus to the hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for every outbound engine event
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.RowNeeded, forward[event.RowNeededPayloadV1](s.hub))
	s.bus.Subscribe(event.ProfitUpdated, forward[event.ProfitUpdatedPayloadV1](s.hub))
	s.bus.Subscribe(event.AcquireChanged, forward[event.AcquireChangedPayloadV1](s.hub))

	types := make([]string, 0, len(event.AllTypes))
	for _, t := range event.AllTypes {
		types = append(types, string(t))
	}
	logger.Info(LogMsgSubscribed, "types", types)
}

// forward decodes the payload as T so clients always receive the typed
// shape, then broadcasts it under the bus type name.
func forward[T any](hub *Hub) event.Handler {
	return func(ctx context.Context, evt event.Event) error {
		payload, err := event.DecodePayload[T](evt.Payload)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
			return nil
		}
		hub.Broadcast(string(evt.Type), payload)
		logger.FromContext(ctx).Debug(LogMsgEventBroadcast, "event_type", evt.Type)
		return nil
	}
}
