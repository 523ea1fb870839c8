package xivapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/persist"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// RecipesForArgs keys the per job/level recipe cache.
type RecipesForArgs struct {
	Job   int `json:"job"`
	Level int `json:"level"`
}

// Source is the uncached catalog; *Client implements it.
type Source interface {
	Recipe(ctx context.Context, id int) (domain.Recipe, error)
	Item(ctx context.Context, id int) (domain.Item, error)
	CraftingJobs(ctx context.Context) ([]domain.ClassJob, error)
	RecipeIDsFor(ctx context.Context, job, level int) ([]int, error)
	SearchRecipeIDs(ctx context.Context, text string) ([]int, error)
}

// Catalog is the recipe catalog provider. Every lookup goes through a
// persistent memo so restarts do not refetch recipe metadata.
type Catalog struct {
	items      *persist.Memo[int, domain.Item]
	jobs       *persist.Memo[struct{}, []domain.ClassJob]
	recipes    *persist.Memo[int, domain.Recipe]
	recipesFor *persist.Memo[RecipesForArgs, []int]
	search     *persist.Memo[string, []int]
}

// NewCatalog wires the caches around src. ttl <= 0 uses DefaultTTL.
func NewCatalog(src Source, store snapshot.Store, ttl time.Duration, opts ...persist.MemoOption) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{
		items: persist.NewMemo(CacheItems, ttl, src.Item, store, opts...),
		jobs: persist.NewMemo(CacheCraftingJobs, ttl, func(ctx context.Context, _ struct{}) ([]domain.ClassJob, error) {
			return src.CraftingJobs(ctx)
		}, store, opts...),
		recipes: persist.NewMemo(CacheRecipes, ttl, src.Recipe, store, opts...),
		recipesFor: persist.NewMemo(CacheRecipeCollection, ttl, func(ctx context.Context, a RecipesForArgs) ([]int, error) {
			return src.RecipeIDsFor(ctx, a.Job, a.Level)
		}, store, opts...),
		search: persist.NewMemo(CacheRecipeSearch, ttl, src.SearchRecipeIDs, store, opts...),
	}
}

// Load restores every cache snapshot.
func (c *Catalog) Load(ctx context.Context) error {
	return errors.Join(
		c.items.Load(ctx),
		c.jobs.Load(ctx),
		c.recipes.Load(ctx),
		c.recipesFor.Load(ctx),
		c.search.Load(ctx),
	)
}

// Close flushes every cache snapshot.
func (c *Catalog) Close(ctx context.Context) error {
	return errors.Join(
		c.items.Close(ctx),
		c.jobs.Close(ctx),
		c.recipes.Close(ctx),
		c.recipesFor.Close(ctx),
		c.search.Close(ctx),
	)
}

// Recipe returns one recipe.
func (c *Catalog) Recipe(ctx context.Context, id int) (domain.Recipe, error) {
	return c.recipes.Get(ctx, id)
}

// Item returns one item.
func (c *Catalog) Item(ctx context.Context, id int) (domain.Item, error) {
	return c.items.Get(ctx, id)
}

// CraftingJobs returns the crafting jobs. The list has no arguments and
// occupies a single cache slot.
func (c *Catalog) CraftingJobs(ctx context.Context) ([]domain.ClassJob, error) {
	return c.jobs.Get(ctx, struct{}{})
}

// RecipesFor returns the recipes of job at exactly level.
func (c *Catalog) RecipesFor(ctx context.Context, job, level int) ([]domain.Recipe, error) {
	if job <= 0 || level <= 0 {
		return nil, fmt.Errorf("%w: job %d level %d", domain.ErrInvalidInput, job, level)
	}
	ids, err := c.recipesFor.Get(ctx, RecipesForArgs{Job: job, Level: level})
	if err != nil {
		return nil, err
	}
	return c.resolve(ctx, ids)
}

// RecipesUpToLevel returns the recipes of job for every level 1..maxLevel.
func (c *Catalog) RecipesUpToLevel(ctx context.Context, job, maxLevel int) ([]domain.Recipe, error) {
	var all []domain.Recipe
	for level := 1; level <= maxLevel; level++ {
		logger.FromContext(ctx).Debug(LogMsgSearchingLevel, "job", job, "level", level)
		recipes, err := c.RecipesFor(ctx, job, level)
		if err != nil {
			return all, err
		}
		all = append(all, recipes...)
	}
	return all, nil
}

// SearchRecipes returns recipes whose name matches text. Case and
// surrounding space do not affect caching.
func (c *Catalog) SearchRecipes(ctx context.Context, text string) ([]domain.Recipe, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty search", domain.ErrInvalidInput)
	}
	// a Caser holds state, so one per call
	ids, err := c.search.Get(ctx, cases.Fold().String(text))
	if err != nil {
		return nil, err
	}
	return c.resolve(ctx, ids)
}

// resolve fetches recipes by id in parallel, keeping order. Ids the catalog
// no longer knows are dropped.
func (c *Catalog) resolve(ctx context.Context, ids []int) ([]domain.Recipe, error) {
	recipes := make([]domain.Recipe, len(ids))
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			r, err := c.recipes.Get(gctx, id)
			if errors.Is(err, domain.ErrRecipeNotFound) {
				logger.FromContext(gctx).Warn(LogMsgSkippingNotFound, "recipe_id", id)
				return nil
			}
			if err != nil {
				return err
			}
			recipes[i], found[i] = r, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := recipes[:0]
	for i, r := range recipes {
		if found[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// Stats describes each cache for diagnostics.
func (c *Catalog) Stats() map[string]int {
	return map[string]int{
		CacheItems:            c.items.Len(),
		CacheCraftingJobs:     c.jobs.Len(),
		CacheRecipes:          c.recipes.Len(),
		CacheRecipeCollection: c.recipesFor.Len(),
		CacheRecipeSearch:     c.search.Len(),
	}
}
