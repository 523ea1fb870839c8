// Package planner coordinates the catalog, the fetch dispatcher and the
// resolution engine behind the operations the HTTP layer exposes.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/persist"
	"github.com/osse101/MarketCrafter_Go/internal/resolver"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// Catalog is the subset of xivapi.Catalog the planner drives.
type Catalog interface {
	CraftingJobs(ctx context.Context) ([]domain.ClassJob, error)
	RecipesUpToLevel(ctx context.Context, job, maxLevel int) ([]domain.Recipe, error)
	SearchRecipes(ctx context.Context, text string) ([]domain.Recipe, error)
}

// Engine is the subset of resolver.Engine the planner drives.
type Engine interface {
	DiscoverRecipe(ctx context.Context, recipe domain.Recipe) error
	State(ctx context.Context, recipeID int) (resolver.State, error)
	Rows(ctx context.Context) ([]resolver.Row, error)
	KnownItems(ctx context.Context) ([]int, error)
	RequestMissing(ctx context.Context) (int, error)
}

// ListingsRefresher re-requests listings; fetch.Dispatcher implements it.
type ListingsRefresher interface {
	RefreshListings(items []int, forceFresh bool) int
}

// Closer flushes a cache on shutdown.
type Closer interface {
	Close(ctx context.Context) error
}

// Service defines the planner operations
type Service interface {
	// Jobs
	LoadJobs(ctx context.Context) error
	Jobs(ctx context.Context) []domain.JobConfig
	SetJobLevel(ctx context.Context, jobID, level int) (int, error)

	// Recipes
	Search(ctx context.Context, text string) ([]domain.Recipe, error)
	Rows(ctx context.Context) ([]resolver.Row, error)
	Recipe(ctx context.Context, id int) (resolver.Row, error)

	// Listings
	Refresh(ctx context.Context) error

	Shutdown(ctx context.Context) error
}

type service struct {
	catalog   Catalog
	engine    Engine
	refresher ListingsRefresher
	caches    []Closer
	validate  *validator.Validate

	// jobs holds the saved levels from the start; catalog defaults are
	// merged in whenever the catalog first answers.
	jobs     *persist.Map[int, domain.JobConfig]
	loadOnce sync.Once

	mu           sync.Mutex
	loaded       bool
	seeded       bool
	undiscovered map[int]struct{} // jobs whose recipe discovery failed
}

// NewService creates the planner. caches are flushed by Shutdown in order.
func NewService(catalog Catalog, engine Engine, refresher ListingsRefresher, store snapshot.Store, caches ...Closer) Service {
	return &service{
		catalog:      catalog,
		engine:       engine,
		refresher:    refresher,
		caches:       caches,
		validate:     validator.New(),
		jobs:         persist.NewMap[int, domain.JobConfig](ConfigJobs, store, persist.YAMLCodec{}, nil),
		undiscovered: make(map[int]struct{}),
	}
}

// LoadJobs applies the saved job levels, adds the catalog's crafting jobs
// at level 0 and discovers recipes for every job above level 0. A catalog
// failure does not stop the saved jobs from being discovered; every failure
// is returned joined and retried by later calls.
func (s *service) LoadJobs(ctx context.Context) error {
	var errs []error
	if err := s.ensureJobs(ctx); err != nil {
		errs = append(errs, err)
	}
	logger.FromContext(ctx).Info(LogMsgJobsLoaded, "jobs", s.jobs.Len())

	for _, cfg := range s.jobs.Values() {
		if cfg.Level <= 0 {
			continue
		}
		if _, err := s.discoverUpTo(ctx, cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ensureJobs loads the snapshot once and, until it succeeds, merges the
// catalog's crafting jobs in as defaults.
func (s *service) ensureJobs(ctx context.Context) error {
	s.loadOnce.Do(func() {
		_ = s.jobs.Load(ctx)
		s.mu.Lock()
		s.loaded = true
		s.mu.Unlock()
	})

	s.mu.Lock()
	seeded := s.seeded
	s.mu.Unlock()
	if seeded {
		return nil
	}

	classJobs, err := s.catalog.CraftingJobs(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgJobDefaultsUnavailable, "error", err)
		return fmt.Errorf("%s: %w", ErrMsgLoadCraftingJobs, err)
	}
	added := 0
	for _, cj := range classJobs {
		if s.jobs.SetDefault(cj.ID, domain.NewJobConfig(cj)) {
			added++
		}
	}
	s.mu.Lock()
	s.seeded = true
	s.mu.Unlock()
	logger.FromContext(ctx).Debug(LogMsgJobDefaultsMerged, "added", added)
	return nil
}

// retryDiscovery rediscovers the jobs whose discovery failed earlier.
func (s *service) retryDiscovery(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]int, 0, len(s.undiscovered))
	for id := range s.undiscovered {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Ints(ids)

	var errs []error
	for _, id := range ids {
		cfg, ok := s.jobs.Get(id)
		if !ok || cfg.Level <= 0 {
			s.markDiscovered(id)
			continue
		}
		if _, err := s.discoverUpTo(ctx, cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *service) markDiscovered(jobID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.undiscovered, jobID)
}

func (s *service) markUndiscovered(jobID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undiscovered[jobID] = struct{}{}
}

// Jobs returns the job table ordered by id. Saved jobs are returned even
// while the catalog is unreachable.
func (s *service) Jobs(ctx context.Context) []domain.JobConfig {
	_ = s.ensureJobs(ctx)
	return s.jobs.Values()
}

// SetJobLevel stores the new level and discovers every recipe of that job
// up to it. It returns the number of recipes handed to the engine.
func (s *service) SetJobLevel(ctx context.Context, jobID, level int) (int, error) {
	seedErr := s.ensureJobs(ctx)
	if _, ok := s.jobs.Get(jobID); !ok {
		if seedErr != nil {
			return 0, seedErr
		}
		return 0, fmt.Errorf("%w: %d", domain.ErrJobNotFound, jobID)
	}

	var validationErr error
	cfg := s.jobs.Update(jobID, func(cur domain.JobConfig, _ bool) domain.JobConfig {
		next := cur
		next.Level = level
		if err := s.validate.Struct(next); err != nil {
			validationErr = err
			return cur
		}
		return next
	})
	if validationErr != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, validationErr)
	}

	logger.FromContext(ctx).Info(LogMsgJobLevelChanged, "job", cfg.Abbreviation, "level", cfg.Level)
	if cfg.Level == 0 {
		s.markDiscovered(jobID)
		return 0, nil
	}
	return s.discoverUpTo(ctx, cfg)
}

// discoverUpTo hands every recipe of cfg's job up to its level to the
// engine. On failure the job is remembered and retried by Refresh.
func (s *service) discoverUpTo(ctx context.Context, cfg domain.JobConfig) (int, error) {
	recipes, err := s.catalog.RecipesUpToLevel(ctx, cfg.ID, cfg.Level)
	if err == nil {
		err = s.discover(ctx, recipes)
	}
	if err != nil {
		s.markUndiscovered(cfg.ID)
		return 0, fmt.Errorf("discovering %s recipes: %w", cfg.Abbreviation, err)
	}
	s.markDiscovered(cfg.ID)
	logger.FromContext(ctx).Info(LogMsgRecipesDiscovered, "job", cfg.Abbreviation, "level", cfg.Level, "recipes", len(recipes))
	return len(recipes), nil
}

func (s *service) discover(ctx context.Context, recipes []domain.Recipe) error {
	for _, r := range recipes {
		if err := s.engine.DiscoverRecipe(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// Search finds recipes whose output name matches text and discovers them.
func (s *service) Search(ctx context.Context, text string) ([]domain.Recipe, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptySearch)
	}
	recipes, err := s.catalog.SearchRecipes(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := s.discover(ctx, recipes); err != nil {
		return nil, err
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

// Rows returns the current resolution table.
func (s *service) Rows(ctx context.Context) ([]resolver.Row, error) {
	return s.engine.Rows(ctx)
}

// Recipe returns the row of one known recipe.
func (s *service) Recipe(ctx context.Context, id int) (resolver.Row, error) {
	st, err := s.engine.State(ctx, id)
	if err != nil {
		return resolver.Row{}, err
	}
	return st.Row(), nil
}

// Refresh retries whatever failed to load earlier (crafting jobs, job
// discovery, sub-recipes) and re-requests fresh listings for every item the
// engine knows.
func (s *service) Refresh(ctx context.Context) error {
	log := logger.FromContext(ctx)

	_ = s.ensureJobs(ctx)
	if err := s.retryDiscovery(ctx); err != nil {
		log.Warn(LogMsgRetryFailed, "error", err)
	}
	requested, err := s.engine.RequestMissing(ctx)
	if err != nil {
		return err
	}
	if requested > 0 {
		log.Info(LogMsgSubRecipesRequested, "recipes", requested)
	}

	items, err := s.engine.KnownItems(ctx)
	if err != nil {
		return err
	}
	queued := s.refresher.RefreshListings(items, true)
	log.Info(LogMsgRefreshRequested, "items", len(items), "queued", queued)
	return nil
}

// Shutdown saves the job table, then flushes every cache. A job table that
// was never loaded is not saved, so it cannot overwrite the stored levels.
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)

	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	var errs []error
	if loaded {
		errs = append(errs, s.jobs.Save(ctx))
	}
	for _, c := range s.caches {
		errs = append(errs, c.Close(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Info(LogMsgShutdownComplete)
	return nil
}
