package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/event"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*discordgo.WebhookParams
	ids  []string
	fail bool
}

func (f *fakeSender) WebhookExecute(webhookID, _ string, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, webhookID)
	if f.fail {
		return nil, errors.New("discord down")
	}
	f.sent = append(f.sent, data)
	return nil, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids)
}

func profitEvent(recipeID int, revenue, cost, profit float64) event.Event {
	return event.NewProfitUpdatedEvent(recipeID, "Bronze Ingot", revenue,
		domain.AcquireAction{Kind: domain.AcquireCraft, Cost: cost}, profit)
}

func TestNotifier_AlertsOnCrossing(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "hook", "secret", 1000)
	bus := event.NewMemoryBus()
	n.Register(bus)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, profitEvent(7, 1500, 1000, 500)))
	require.NoError(t, bus.Publish(ctx, profitEvent(7, 13000, 1000, 12000)))
	require.NoError(t, bus.Publish(ctx, profitEvent(7, 14000, 1000, 13000)))
	n.Close()

	require.Equal(t, 1, sender.count(), "stays quiet while above threshold")
	embed := sender.sent[0].Embeds[0]
	assert.Contains(t, embed.Description, "12,000")
	assert.Equal(t, "13,000", embed.Fields[0].Value)
	assert.Equal(t, "craft @ 1,000", embed.Fields[1].Value)
	assert.Equal(t, "hook", sender.ids[0])

	// Drop below and rise again.
	require.NoError(t, bus.Publish(ctx, profitEvent(7, 1200, 1000, 200)))
	require.NoError(t, bus.Publish(ctx, profitEvent(7, 5000, 1000, 4000)))
	n.Close()
	assert.Equal(t, 2, sender.count())
}

func TestNotifier_IgnoresUnknownProfit(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, "hook", "secret", 0)
	inf := profitEvent(1, 0, 0, 0)
	p := inf.Payload.(event.ProfitUpdatedPayloadV1)
	p.Profit = nil
	inf.Payload = p

	require.NoError(t, n.HandleEvent(context.Background(), inf))
	n.Close()
	assert.Zero(t, sender.count())
}

func TestNotifier_SendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{fail: true}
	n := NewNotifier(sender, "hook", "secret", 10)

	require.NoError(t, n.HandleEvent(context.Background(), profitEvent(1, 100, 10, 90)))
	n.Close()
	assert.Equal(t, 1, sender.count())
}

func TestNotifier_RejectsForeignPayload(t *testing.T) {
	n := NewNotifier(&fakeSender{}, "hook", "secret", 10)
	err := n.HandleEvent(context.Background(), event.Event{Type: event.ProfitUpdated, Payload: "nope"})
	assert.NoError(t, err)
}
