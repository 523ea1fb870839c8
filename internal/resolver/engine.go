// Package resolver computes, for every discovered recipe, whether buying or
// crafting its output is cheaper and what profit that leaves. All state is
// owned by one goroutine fed through a FIFO mailbox.
package resolver

import (
	"context"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/osse101/MarketCrafter_Go/internal/depindex"
	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/event"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/metrics"
)

// Requester asks the remote providers for data. Implementations must not
// block: results come back later through DiscoverRecipe and
// DeliverListings.
type Requester interface {
	RequestListings(itemID int)
	RequestRecipe(recipeID int)
}

// Engine is the resolution actor. Create with New, then Start.
type Engine struct {
	requester Requester
	bus       event.Bus
	revenue   RevenueFunc
	sellerID  string

	mailbox chan message
	quit    chan struct{}
	done    chan struct{}
	start   sync.Once
	stop    sync.Once

	// owned by the run goroutine
	index     *depindex.Index
	states    map[int]*State
	listings  map[int]domain.Listings
	requested map[int]struct{}
	parents   map[int][]int // sub-recipe id -> recipes with a slot listing it
}

type message interface {
	kind() string
}

type recipeDiscovered struct{ recipe domain.Recipe }

type listingsReceived struct{ listings domain.Listings }

type recipeFailed struct{ recipeID int }

type query struct {
	fn   func()
	done chan struct{}
}

func (recipeDiscovered) kind() string { return KindRecipeDiscovered }
func (listingsReceived) kind() string { return KindListingsReceived }
func (recipeFailed) kind() string     { return KindRecipeFailed }
func (query) kind() string            { return KindQuery }

// Option configures an Engine.
type Option func(*Engine)

// WithRevenueFunc replaces UnitPriceRevenue.
func WithRevenueFunc(fn RevenueFunc) Option {
	return func(e *Engine) { e.revenue = fn }
}

// WithSellerID excludes the player's own listings from market cost.
func WithSellerID(id string) Option {
	return func(e *Engine) { e.sellerID = id }
}

// WithMailboxSize overrides DefaultMailboxSize.
func WithMailboxSize(n int) Option {
	return func(e *Engine) { e.mailbox = make(chan message, n) }
}

// New creates an engine. requester may be set later with SetRequester, but
// before Start.
func New(requester Requester, bus event.Bus, opts ...Option) *Engine {
	e := &Engine{
		requester: requester,
		bus:       bus,
		revenue:   UnitPriceRevenue,
		mailbox:   make(chan message, DefaultMailboxSize),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		index:     depindex.New(),
		states:    make(map[int]*State),
		listings:  make(map[int]domain.Listings),
		requested: make(map[int]struct{}),
		parents:   make(map[int][]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetRequester wires the requester when it needs the engine to exist first.
func (e *Engine) SetRequester(r Requester) {
	e.requester = r
}

// Start launches the actor goroutine. Calling it twice has no effect.
func (e *Engine) Start(ctx context.Context) {
	e.start.Do(func() {
		logger.FromContext(ctx).Info(LogMsgEngineStarted)
		go e.run(context.WithoutCancel(ctx))
	})
}

// Shutdown stops accepting messages, processes what is already queued and
// waits for the actor to exit or ctx to end.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stop.Do(func() { close(e.quit) })
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DiscoverRecipe delivers a recipe-discovery event.
func (e *Engine) DiscoverRecipe(ctx context.Context, recipe domain.Recipe) error {
	return e.send(ctx, recipeDiscovered{recipe: recipe})
}

// DeliverListings delivers a listings-received event.
func (e *Engine) DeliverListings(ctx context.Context, listings domain.Listings) error {
	return e.send(ctx, listingsReceived{listings: listings})
}

// RecipeFailed reports that a requested sub-recipe could not be fetched, so
// RequestMissing may ask for it again.
func (e *Engine) RecipeFailed(ctx context.Context, recipeID int) error {
	return e.send(ctx, recipeFailed{recipeID: recipeID})
}

func (e *Engine) send(ctx context.Context, msg message) error {
	select {
	case <-e.quit:
		return domain.ErrEngineStopped
	default:
	}
	select {
	case e.mailbox <- msg:
		metrics.EngineMailboxDepth.Set(float64(len(e.mailbox)))
		return nil
	case <-e.quit:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ask runs fn on the actor goroutine and waits for it.
func (e *Engine) ask(ctx context.Context, fn func()) error {
	q := query{fn: fn, done: make(chan struct{})}
	if err := e.send(ctx, q); err != nil {
		return err
	}
	select {
	case <-q.done:
		return nil
	case <-e.done:
		return domain.ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)
	for {
		select {
		case msg := <-e.mailbox:
			e.handle(ctx, msg)
		case <-e.quit:
			for {
				select {
				case msg := <-e.mailbox:
					e.handle(ctx, msg)
				default:
					logger.FromContext(ctx).Info(LogMsgEngineStopped, "recipes", len(e.states))
					return
				}
			}
		}
	}
}

func (e *Engine) handle(ctx context.Context, msg message) {
	metrics.EngineMessages.WithLabelValues(msg.kind()).Inc()
	metrics.EngineMailboxDepth.Set(float64(len(e.mailbox)))

	switch m := msg.(type) {
	case recipeDiscovered:
		e.onRecipeDiscovered(ctx, m.recipe)
	case listingsReceived:
		e.onListingsReceived(ctx, m.listings)
	case recipeFailed:
		delete(e.requested, m.recipeID)
		logger.FromContext(ctx).Debug(LogMsgRecipeFetchFailed, "recipe_id", m.recipeID)
	case query:
		m.fn()
		close(m.done)
	}
}

func (e *Engine) onRecipeDiscovered(ctx context.Context, recipe domain.Recipe) {
	log := logger.FromContext(ctx)

	if !e.index.Register(recipe) {
		log.Debug(LogMsgDuplicateRecipe, "recipe_id", recipe.ID)
		return
	}
	st := &State{Recipe: recipe}
	e.states[recipe.ID] = st
	delete(e.requested, recipe.ID)
	metrics.RecipesKnown.Set(float64(e.index.Recipes()))

	log.Debug(LogMsgRecipeDiscovered, "recipe_id", recipe.ID, "item", recipe.Output.Name)
	e.publish(ctx, event.NewRowNeededEvent(recipe))

	e.requester.RequestListings(recipe.Output.ID)
	for _, itemID := range recipe.IngredientItemIDs() {
		if itemID != recipe.Output.ID {
			e.requester.RequestListings(itemID)
		}
	}
	for _, subID := range recipe.SubRecipeIDs() {
		if !slices.Contains(e.parents[subID], recipe.ID) {
			e.parents[subID] = append(e.parents[subID], recipe.ID)
		}
		e.requestRecipe(subID)
	}

	// listings for the output may already be here from another recipe
	if l, ok := e.listings[recipe.Output.ID]; ok {
		e.applyOutputListings(st, l)
	}
	e.settle(ctx, recipe.ID)
}

// requestRecipe asks for a sub-recipe that is neither known nor in flight
// and reports whether it did.
func (e *Engine) requestRecipe(recipeID int) bool {
	if e.index.Contains(recipeID) {
		return false
	}
	if _, pending := e.requested[recipeID]; pending {
		return false
	}
	e.requested[recipeID] = struct{}{}
	e.requester.RequestRecipe(recipeID)
	return true
}

func (e *Engine) onListingsReceived(ctx context.Context, l domain.Listings) {
	e.listings[l.ItemID] = l

	roles := e.index.Lookup(l.ItemID)
	if len(roles) == 0 {
		logger.FromContext(ctx).Debug(LogMsgUnknownItem, "item_id", l.ItemID)
		return
	}

	var affected []int
	for _, role := range roles {
		st := e.states[role.RecipeID]
		if role.IsOutput() {
			e.applyOutputListings(st, l)
		}
		if !slices.Contains(affected, role.RecipeID) {
			affected = append(affected, role.RecipeID)
		}
	}
	logger.FromContext(ctx).Debug(LogMsgListingsApplied, "item_id", l.ItemID, "recipes", len(affected))
	e.settle(ctx, affected...)
}

func (e *Engine) applyOutputListings(st *State, l domain.Listings) {
	st.Revenue = ptr(e.revenue(l))
	st.MarketCost = ptr(l.MinPriceExcluding(e.sellerID))
}

// settle re-evaluates the given recipes and, breadth first, every recipe
// whose crafting cost depends on one whose acquisition changed.
func (e *Engine) settle(ctx context.Context, ids ...int) {
	queue := slices.Clone(ids)
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxSettleSteps {
			logger.FromContext(ctx).Warn(LogMsgSettleLimitReached, "pending", len(queue))
			return
		}
		id := queue[0]
		queue = queue[1:]

		st := e.states[id]
		e.computeCraftingCost(st)
		changed := e.resolveAcquire(ctx, st)
		e.updateProfit(ctx, st)
		if changed {
			for _, parent := range e.parents[id] {
				if !slices.Contains(queue, parent) {
					queue = append(queue, parent)
				}
			}
		}
	}
}

// computeCraftingCost sums, over every slot that has sub-recipes, the
// cheapest of its sub-recipes. Every alternative of every such slot must
// have an acquisition first; until then the previous value is left
// untouched. Recipes without craftable slots cost +Inf to craft.
func (e *Engine) computeCraftingCost(st *State) {
	total := 0.0
	craftable := false
	for _, slot := range st.Recipe.Slots {
		if !slot.Craftable() {
			continue
		}
		craftable = true

		best := math.Inf(1)
		for _, subID := range slot.SubRecipeIDs {
			sub, ok := e.states[subID]
			if !ok || sub.Acquire == nil {
				return
			}
			best = math.Min(best, sub.Acquire.Cost)
		}
		total += best
	}
	if !craftable {
		total = math.Inf(1)
	}
	st.CraftingCost = ptr(total)
}

// resolveAcquire reports whether the recipe's acquisition kind or cost changed.
func (e *Engine) resolveAcquire(ctx context.Context, st *State) bool {
	if st.CraftingCost == nil || st.MarketCost == nil {
		return false
	}
	next := domain.ChooseAcquireAction(*st.CraftingCost, *st.MarketCost)
	prev := st.Acquire
	if prev != nil && *prev == next {
		return false
	}
	st.Acquire = &next
	if prev == nil || prev.Kind != next.Kind {
		e.publish(ctx, event.NewAcquireChangedEvent(st.Recipe.ID, prev, next))
	}
	return true
}

func (e *Engine) updateProfit(ctx context.Context, st *State) {
	if st.Revenue == nil || st.Acquire == nil {
		return
	}
	profit := *st.Revenue - st.Acquire.Cost
	st.Profit = &profit
	e.publish(ctx, event.NewProfitUpdatedEvent(st.Recipe.ID, st.Recipe.Output.Name, *st.Revenue, *st.Acquire, profit))
}

func (e *Engine) publish(ctx context.Context, evt event.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// State returns a copy of the state of recipeID.
func (e *Engine) State(ctx context.Context, recipeID int) (State, error) {
	var (
		out State
		ok  bool
	)
	err := e.ask(ctx, func() {
		var st *State
		if st, ok = e.states[recipeID]; ok {
			out = *st
		}
	})
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, domain.ErrRecipeNotFound
	}
	return out, nil
}

// Rows returns every known recipe as a display row, ordered by recipe id.
func (e *Engine) Rows(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := e.ask(ctx, func() {
		rows = make([]Row, 0, len(e.states))
		for _, st := range e.states {
			rows = append(rows, st.Row())
		}
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].RecipeID < rows[j].RecipeID })
	return rows, err
}

// KnownItems returns every item id that appears in a known recipe.
func (e *Engine) KnownItems(ctx context.Context) ([]int, error) {
	var items []int
	err := e.ask(ctx, func() { items = e.index.Items() })
	return items, err
}

// RequestMissing asks again for every sub-recipe that some known recipe
// lists but that is neither known nor in flight, typically after a failed
// fetch. It returns how many were requested.
func (e *Engine) RequestMissing(ctx context.Context) (int, error) {
	var n int
	err := e.ask(ctx, func() {
		ids := make([]int, 0, len(e.parents))
		for subID := range e.parents {
			ids = append(ids, subID)
		}
		sort.Ints(ids)
		for _, subID := range ids {
			if e.requestRecipe(subID) {
				n++
			}
		}
	})
	return n, err
}

// CyclicRecipes returns the ids of known recipes that are, through their
// sub-recipes, their own ingredient. Such recipes never get a crafting cost
// along the cyclic branch.
func (e *Engine) CyclicRecipes(ctx context.Context) ([]int, error) {
	var ids []int
	err := e.ask(ctx, func() { ids = findCycles(e.states) })
	return ids, err
}
