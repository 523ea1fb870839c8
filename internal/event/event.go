package event

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Outbound event types produced by the resolution engine
const (
	RowNeeded      Type = domain.EventTypeRowNeeded
	ProfitUpdated  Type = domain.EventTypeProfitUpdated
	AcquireChanged Type = domain.EventTypeAcquireChanged
)

// AllTypes lists every outbound event type, in publication order of a
// typical recipe lifecycle.
var AllTypes = []Type{RowNeeded, AcquireChanged, ProfitUpdated}

// Typed event payloads for type safety. Costs and profits are pointers
// because +Inf has no JSON representation; nil means "no finite value".

// RowNeededPayloadV1 announces a recipe the shell has not displayed yet.
type RowNeededPayloadV1 struct {
	RecipeID  int         `json:"recipe_id"`
	Output    domain.Item `json:"output"`
	JobAbbrev string      `json:"job,omitempty"`
	Level     int         `json:"level"`
	Timestamp int64       `json:"timestamp"`
}

// ProfitUpdatedPayloadV1 carries a freshly recomputed profit.
type ProfitUpdatedPayloadV1 struct {
	RecipeID  int      `json:"recipe_id"`
	ItemName  string   `json:"item_name"`
	Revenue   float64  `json:"revenue"`
	Action    string   `json:"action"`
	Cost      *float64 `json:"cost"`
	Profit    *float64 `json:"profit"`
	Timestamp int64    `json:"timestamp"`
}

// AcquireChangedPayloadV1 reports a Buy/Craft flip.
type AcquireChangedPayloadV1 struct {
	RecipeID  int      `json:"recipe_id"`
	Previous  string   `json:"previous,omitempty"`
	Current   string   `json:"current"`
	Cost      *float64 `json:"cost"`
	Timestamp int64    `json:"timestamp"`
}

// Finite returns a pointer to v, or nil when v is infinite or NaN.
func Finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// NewRowNeededEvent creates a row needed event for recipe
func NewRowNeededEvent(recipe domain.Recipe) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RowNeeded,
		Payload: RowNeededPayloadV1{
			RecipeID:  recipe.ID,
			Output:    recipe.Output,
			JobAbbrev: recipe.Job.Abbreviation,
			Level:     recipe.Level,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewProfitUpdatedEvent creates a profit updated event
func NewProfitUpdatedEvent(recipeID int, itemName string, revenue float64, action domain.AcquireAction, profit float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProfitUpdated,
		Payload: ProfitUpdatedPayloadV1{
			RecipeID:  recipeID,
			ItemName:  itemName,
			Revenue:   revenue,
			Action:    action.Kind.String(),
			Cost:      Finite(action.Cost),
			Profit:    Finite(profit),
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewAcquireChangedEvent creates an acquire changed event. previous may be nil
// on the first decision for a recipe.
func NewAcquireChangedEvent(recipeID int, previous *domain.AcquireAction, current domain.AcquireAction) Event {
	payload := AcquireChangedPayloadV1{
		RecipeID:  recipeID,
		Current:   current.Kind.String(),
		Cost:      Finite(current.Cost),
		Timestamp: time.Now().Unix(),
	}
	if previous != nil {
		payload.Previous = previous.Kind.String()
	}
	return Event{Version: EventSchemaVersion, Type: AcquireChanged, Payload: payload}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber for event.Type synchronously on the caller's
// goroutine. Subscribers doing I/O must hand off to their own goroutine.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to every outbound event type.
func (b *MemoryBus) SubscribeAll(handler Handler) {
	for _, t := range AllTypes {
		b.Subscribe(t, handler)
	}
}
