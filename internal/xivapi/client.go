// Package xivapi is the recipe catalog provider backed by the XIVAPI REST
// service.
package xivapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/remote"
)

// Client performs uncached catalog requests.
type Client struct {
	http *remote.Client
}

// NewClient wraps a remote client configured for XIVAPI.
func NewClient(http *remote.Client) *Client {
	return &Client{http: http}
}

// Recipe fetches one recipe by id.
func (c *Client) Recipe(ctx context.Context, id int) (domain.Recipe, error) {
	data, err := c.http.Get(ctx, "/Recipe/"+strconv.Itoa(id), nil)
	if errors.Is(err, remote.ErrNotFound) {
		return domain.Recipe{}, fmt.Errorf("%w: %d", domain.ErrRecipeNotFound, id)
	}
	if err != nil {
		return domain.Recipe{}, err
	}
	return parseRecipe(data)
}

// Item fetches one item by id.
func (c *Client) Item(ctx context.Context, id int) (domain.Item, error) {
	data, err := c.http.Get(ctx, "/Item/"+strconv.Itoa(id), nil)
	if errors.Is(err, remote.ErrNotFound) {
		return domain.Item{}, fmt.Errorf("%w: %d", domain.ErrItemNotFound, id)
	}
	if err != nil {
		return domain.Item{}, err
	}
	return parseItem(data)
}

// CraftingJobs lists every class job whose category is Disciple of the Hand.
func (c *Client) CraftingJobs(ctx context.Context) ([]domain.ClassJob, error) {
	results, err := c.pages(ctx, "/ClassJob", nil)
	if err != nil {
		return nil, err
	}

	jobs := make([]domain.ClassJob, len(results))
	keep := make([]bool, len(results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageConcurrency)
	for i, r := range results {
		g.Go(func() error {
			data, err := c.http.Get(gctx, r.URL, nil)
			if err != nil {
				return err
			}
			job, err := parseClassJob(data)
			if err != nil {
				return err
			}
			jobs[i], keep[i] = job, job.Category == CraftingCategory
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var crafting []domain.ClassJob
	for i, job := range jobs {
		if keep[i] {
			crafting = append(crafting, job)
		}
	}
	return crafting, nil
}

// RecipeIDsFor returns the ids of every recipe of job at exactly level.
func (c *Client) RecipeIDsFor(ctx context.Context, job, level int) ([]int, error) {
	filters := fmt.Sprintf("RecipeLevelTable.ClassJobLevel=%d,ClassJob.ID=%d", level, job)
	results, err := c.pages(ctx, "/search", url.Values{"indexes": {URLTypeRecipe}, "filters": {filters}})
	if err != nil {
		return nil, err
	}
	return recipeIDs(results), nil
}

// SearchRecipeIDs returns the ids of recipes whose name matches text.
func (c *Client) SearchRecipeIDs(ctx context.Context, text string) ([]int, error) {
	results, err := c.pages(ctx, "/search", url.Values{"string": {text}})
	if err != nil {
		return nil, err
	}
	return recipeIDs(results), nil
}

func recipeIDs(results []pageResult) []int {
	var ids []int
	for _, r := range results {
		if r.URLType == URLTypeRecipe || r.URLType == "" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// pages fetches the first page, then the remaining ones in parallel, and
// returns every result in page order.
func (c *Client) pages(ctx context.Context, path string, query url.Values) ([]pageResult, error) {
	first, err := c.page(ctx, path, query, 1)
	if err != nil {
		return nil, err
	}
	if first.PageTotal <= 1 {
		return first.Results, nil
	}
	logger.FromContext(ctx).Debug(LogMsgFetchingPages, "path", path, "pages", first.PageTotal)

	rest := make([][]pageResult, first.PageTotal-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageConcurrency)
	for n := 2; n <= first.PageTotal; n++ {
		g.Go(func() error {
			p, err := c.page(gctx, path, query, n)
			if err != nil {
				return err
			}
			rest[n-2] = p.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := first.Results
	for _, r := range rest {
		results = append(results, r...)
	}
	return results, nil
}

func (c *Client) page(ctx context.Context, path string, query url.Values, n int) (page, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	if n > 1 {
		q.Set("page", strconv.Itoa(n))
	}
	data, err := c.http.Get(ctx, path, q)
	if err != nil {
		return page{}, err
	}
	return parsePage(data)
}
