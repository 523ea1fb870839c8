// Package notify posts Discord webhook alerts when a recipe's profit
// crosses a configured threshold.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"github.com/osse101/MarketCrafter_Go/internal/event"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
)

// WebhookSender is the subset of *discordgo.Session used for alerts.
type WebhookSender interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier alerts once each time a recipe's profit rises to the threshold
// or above. A recipe must drop below the threshold before it alerts again.
type Notifier struct {
	sender    WebhookSender
	webhookID string
	token     string
	threshold float64

	mu      sync.Mutex
	alerted map[int]bool

	wg sync.WaitGroup
}

// NewNotifier creates a notifier. Use NewSession for a real sender.
func NewNotifier(sender WebhookSender, webhookID, token string, threshold float64) *Notifier {
	return &Notifier{
		sender:    sender,
		webhookID: webhookID,
		token:     token,
		threshold: threshold,
		alerted:   make(map[int]bool),
	}
}

// NewSession returns a token-less discordgo session; webhook calls carry
// their own credentials.
func NewSession() (*discordgo.Session, error) {
	return discordgo.New("")
}

// Register subscribes the notifier to profit updates.
func (n *Notifier) Register(bus event.Bus) {
	bus.Subscribe(event.ProfitUpdated, n.HandleEvent)
	logger.Info(LogMsgNotifierEnabled, "threshold", n.threshold)
}

// HandleEvent decides synchronously and sends asynchronously, so the
// publishing goroutine never waits on Discord.
func (n *Notifier) HandleEvent(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.ProfitUpdatedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgInvalidPayload, "error", err)
		return nil
	}
	if !n.crossed(payload) {
		return nil
	}

	params := n.params(payload)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if _, err := n.sender.WebhookExecute(n.webhookID, n.token, false, params); err != nil {
			logger.Warn(LogMsgAlertFailed, "recipe_id", payload.RecipeID, "error", err)
			return
		}
		logger.Debug(LogMsgAlertSent, "recipe_id", payload.RecipeID)
	}()
	return nil
}

func (n *Notifier) crossed(p event.ProfitUpdatedPayloadV1) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	above := p.Profit != nil && *p.Profit >= n.threshold
	was := n.alerted[p.RecipeID]
	n.alerted[p.RecipeID] = above
	return above && !was
}

func (n *Notifier) params(p event.ProfitUpdatedPayloadV1) *discordgo.WebhookParams {
	cost := "unknown"
	if p.Cost != nil {
		cost = humanize.Commaf(*p.Cost)
	}
	embed := &discordgo.MessageEmbed{
		Title:       alertTitle,
		Description: fmt.Sprintf("**%s** (recipe %d) clears %s gil profit", p.ItemName, p.RecipeID, humanize.Commaf(*p.Profit)),
		Color:       alertColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Revenue", Value: humanize.Commaf(p.Revenue), Inline: true},
			{Name: "Acquire", Value: p.Action + " @ " + cost, Inline: true},
		},
		Timestamp: time.Unix(p.Timestamp, 0).UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: alertFooter},
	}
	return &discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}
}

// Close waits for in-flight alerts.
func (n *Notifier) Close() {
	n.wg.Wait()
}
