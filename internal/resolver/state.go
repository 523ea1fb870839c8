package resolver

import (
	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/event"
)

// State is the resolution state of one recipe. A nil field has not been
// computed yet. Values may be +Inf (no sellers, nothing to craft from).
type State struct {
	Recipe       domain.Recipe
	Revenue      *float64
	MarketCost   *float64
	CraftingCost *float64
	Acquire      *domain.AcquireAction
	Profit       *float64
}

// Resolved reports whether a profit has been computed.
func (s State) Resolved() bool { return s.Profit != nil }

// Row is State flattened for JSON. Infinite values encode as null; Pending
// lists what is still missing before a profit can be computed.
type Row struct {
	RecipeID     int         `json:"recipe_id"`
	Item         domain.Item `json:"item"`
	Job          string      `json:"job,omitempty"`
	Level        int         `json:"level"`
	Revenue      *float64    `json:"revenue"`
	MarketCost   *float64    `json:"market_cost"`
	CraftingCost *float64    `json:"crafting_cost"`
	Action       string      `json:"action,omitempty"`
	Cost         *float64    `json:"cost"`
	Profit       *float64    `json:"profit"`
	Pending      []string    `json:"pending,omitempty"`
}

// Row converts the state for display.
func (s State) Row() Row {
	row := Row{
		RecipeID:     s.Recipe.ID,
		Item:         s.Recipe.Output,
		Job:          s.Recipe.Job.Abbreviation,
		Level:        s.Recipe.Level,
		Revenue:      finite(s.Revenue),
		MarketCost:   finite(s.MarketCost),
		CraftingCost: finite(s.CraftingCost),
		Profit:       finite(s.Profit),
	}
	if s.Acquire != nil {
		row.Action = s.Acquire.Kind.String()
		if s.Acquire.Resolved() {
			cost := s.Acquire.Cost
			row.Cost = &cost
		}
	}
	if s.Resolved() {
		return row
	}
	if s.Revenue == nil {
		row.Pending = append(row.Pending, "revenue")
	}
	if s.MarketCost == nil {
		row.Pending = append(row.Pending, "market_cost")
	}
	if s.CraftingCost == nil {
		row.Pending = append(row.Pending, "crafting_cost")
	}
	return row
}

func finite(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return event.Finite(*p)
}

func ptr(v float64) *float64 { return &v }
