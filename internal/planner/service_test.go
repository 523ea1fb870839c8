package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/resolver"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

// MockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) CraftingJobs(ctx context.Context) ([]domain.ClassJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassJob), args.Error(1)
}

func (m *MockCatalog) RecipesUpToLevel(ctx context.Context, job, maxLevel int) ([]domain.Recipe, error) {
	args := m.Called(ctx, job, maxLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

func (m *MockCatalog) SearchRecipes(ctx context.Context, text string) ([]domain.Recipe, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

// MockEngine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) DiscoverRecipe(ctx context.Context, recipe domain.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockEngine) State(ctx context.Context, recipeID int) (resolver.State, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(resolver.State), args.Error(1)
}

func (m *MockEngine) Rows(ctx context.Context) ([]resolver.Row, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]resolver.Row), args.Error(1)
}

func (m *MockEngine) KnownItems(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockEngine) RequestMissing(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockRefresher
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) RefreshListings(items []int, forceFresh bool) int {
	args := m.Called(items, forceFresh)
	return args.Int(0)
}

// MockCloser
type MockCloser struct {
	mock.Mock
}

func (m *MockCloser) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	carpenter = domain.ClassJob{ID: 8, Abbreviation: "CRP", Name: "carpenter"}
	smith     = domain.ClassJob{ID: 9, Abbreviation: "BSM", Name: "blacksmith"}
)

func newTestStore(t *testing.T) snapshot.Store {
	t.Helper()
	store, err := snapshot.NewFileStore(t.TempDir(), false)
	require.NoError(t, err)
	return store
}

func recipe(id int) domain.Recipe {
	return domain.Recipe{ID: id, Job: carpenter, Output: domain.Item{ID: id * 100}}
}

func TestLoadJobs_DefaultsAtLevelZero(t *testing.T) {
	ctx := context.Background()
	cat, eng, ref := &MockCatalog{}, &MockEngine{}, &MockRefresher{}
	cat.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{smith, carpenter}, nil)

	svc := NewService(cat, eng, ref, newTestStore(t))
	require.NoError(t, svc.LoadJobs(ctx))

	jobs := svc.Jobs(ctx)
	require.Len(t, jobs, 2)
	assert.Equal(t, domain.JobConfig{ID: 8, Abbreviation: "CRP"}, jobs[0])
	assert.Equal(t, 0, jobs[1].Level)
	eng.AssertNotCalled(t, "DiscoverRecipe", mock.Anything, mock.Anything)
}

func TestSetJobLevel_DiscoversAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	cat, eng, ref := &MockCatalog{}, &MockEngine{}, &MockRefresher{}
	cat.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter}, nil)
	cat.On("RecipesUpToLevel", mock.Anything, 8, 5).Return([]domain.Recipe{recipe(1), recipe(2)}, nil)
	eng.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(cat, eng, ref, store)
	require.NoError(t, svc.LoadJobs(ctx))

	n, err := svc.SetJobLevel(ctx, 8, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	eng.AssertNumberOfCalls(t, "DiscoverRecipe", 2)
	require.NoError(t, svc.Shutdown(ctx))

	// A fresh planner sees the saved level and rediscovers on load.
	eng2 := &MockEngine{}
	eng2.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)
	svc2 := NewService(cat, eng2, ref, store)
	require.NoError(t, svc2.LoadJobs(ctx))
	assert.Equal(t, 5, svc2.Jobs(ctx)[0].Level)
	eng2.AssertNumberOfCalls(t, "DiscoverRecipe", 2)
}

func TestSetJobLevel_Errors(t *testing.T) {
	ctx := context.Background()
	cat, eng, ref := &MockCatalog{}, &MockEngine{}, &MockRefresher{}
	cat.On("CraftingJobs", mock.Anything).Return(nil, domain.ErrFetchFailed).Once()
	svc := NewService(cat, eng, ref, newTestStore(t))

	_, err := svc.SetJobLevel(ctx, 8, 5)
	assert.ErrorIs(t, err, domain.ErrFetchFailed, "unknown job while the catalog is down")

	cat.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter}, nil)
	require.NoError(t, svc.LoadJobs(ctx))

	_, err = svc.SetJobLevel(ctx, 99, 5)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	_, err = svc.SetJobLevel(ctx, 8, 101)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, svc.Jobs(ctx)[0].Level, "rejected level is not stored")

	n, err := svc.SetJobLevel(ctx, 8, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
	cat.AssertNotCalled(t, "RecipesUpToLevel", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	cat, eng, ref := &MockCatalog{}, &MockEngine{}, &MockRefresher{}
	cat.On("SearchRecipes", mock.Anything, "bronze").Return([]domain.Recipe{recipe(3), recipe(1)}, nil)
	eng.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(cat, eng, ref, newTestStore(t))
	got, err := svc.Search(ctx, "  bronze ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	eng.AssertNumberOfCalls(t, "DiscoverRecipe", 2)

	_, err = svc.Search(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRefresh_ForcesFreshListingsForKnownItems(t *testing.T) {
	ctx := context.Background()
	cat, eng, ref := &MockCatalog{}, &MockEngine{}, &MockRefresher{}
	cat.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter}, nil)
	eng.On("RequestMissing", mock.Anything).Return(0, nil)
	eng.On("KnownItems", mock.Anything).Return([]int{100, 200}, nil)
	ref.On("RefreshListings", []int{100, 200}, true).Return(2)

	svc := NewService(cat, eng, ref, newTestStore(t))
	require.NoError(t, svc.Refresh(ctx))
	ref.AssertExpectations(t)
	eng.AssertExpectations(t)
}

func TestLoadJobs_SavedLevelsSurviveCatalogOutage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ref := &MockRefresher{}

	cat := &MockCatalog{}
	cat.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter}, nil)
	cat.On("RecipesUpToLevel", mock.Anything, 8, 5).Return([]domain.Recipe{recipe(1), recipe(2)}, nil)
	eng := &MockEngine{}
	eng.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(cat, eng, ref, store)
	require.NoError(t, svc.LoadJobs(ctx))
	_, err := svc.SetJobLevel(ctx, 8, 5)
	require.NoError(t, err)
	require.NoError(t, svc.Shutdown(ctx))

	// The job list is down for the next two calls, recipes are not.
	cat2 := &MockCatalog{}
	cat2.On("CraftingJobs", mock.Anything).Return(nil, domain.ErrFetchFailed).Twice()
	cat2.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter, smith}, nil)
	cat2.On("RecipesUpToLevel", mock.Anything, 8, 5).Return([]domain.Recipe{recipe(1), recipe(2)}, nil)
	cat2.On("RecipesUpToLevel", mock.Anything, 9, 10).Return([]domain.Recipe{recipe(3)}, nil)
	eng2 := &MockEngine{}
	eng2.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)
	svc2 := NewService(cat2, eng2, ref, store)

	err = svc2.LoadJobs(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	eng2.AssertNumberOfCalls(t, "DiscoverRecipe", 2)

	jobs := svc2.Jobs(ctx)
	require.Len(t, jobs, 1, "only the saved job while the catalog is down")
	assert.Equal(t, 5, jobs[0].Level)

	// Catalog is back: defaults are merged without touching saved levels.
	n, err := svc2.SetJobLevel(ctx, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	jobs = svc2.Jobs(ctx)
	require.Len(t, jobs, 2)
	assert.Equal(t, 5, jobs[0].Level)
	assert.Equal(t, 10, jobs[1].Level)
	cat2.AssertNumberOfCalls(t, "CraftingJobs", 3)
}

func TestLoadJobs_FailedDiscoveryRetriedOnRefresh(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ref := &MockRefresher{}

	cat := &MockCatalog{}
	cat.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter, smith}, nil)
	cat.On("RecipesUpToLevel", mock.Anything, 8, 5).Return([]domain.Recipe{recipe(1)}, nil)
	cat.On("RecipesUpToLevel", mock.Anything, 9, 5).Return([]domain.Recipe{recipe(2)}, nil)
	eng := &MockEngine{}
	eng.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(cat, eng, ref, store)
	require.NoError(t, svc.LoadJobs(ctx))
	_, err := svc.SetJobLevel(ctx, 8, 5)
	require.NoError(t, err)
	_, err = svc.SetJobLevel(ctx, 9, 5)
	require.NoError(t, err)
	require.NoError(t, svc.Shutdown(ctx))

	// Carpenter recipes fail once; blacksmith is still discovered.
	cat2 := &MockCatalog{}
	cat2.On("CraftingJobs", mock.Anything).Return([]domain.ClassJob{carpenter, smith}, nil)
	cat2.On("RecipesUpToLevel", mock.Anything, 8, 5).Return(nil, domain.ErrFetchFailed).Once()
	cat2.On("RecipesUpToLevel", mock.Anything, 8, 5).Return([]domain.Recipe{recipe(1)}, nil)
	cat2.On("RecipesUpToLevel", mock.Anything, 9, 5).Return([]domain.Recipe{recipe(2)}, nil)
	eng2 := &MockEngine{}
	eng2.On("DiscoverRecipe", mock.Anything, mock.Anything).Return(nil)
	eng2.On("RequestMissing", mock.Anything).Return(0, nil)
	eng2.On("KnownItems", mock.Anything).Return([]int{100, 200}, nil)
	ref.On("RefreshListings", []int{100, 200}, true).Return(2)
	svc2 := NewService(cat2, eng2, ref, store)

	err = svc2.LoadJobs(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	eng2.AssertCalled(t, "DiscoverRecipe", mock.Anything, recipe(2))
	eng2.AssertNotCalled(t, "DiscoverRecipe", mock.Anything, recipe(1))

	require.NoError(t, svc2.Refresh(ctx))
	eng2.AssertCalled(t, "DiscoverRecipe", mock.Anything, recipe(1))
	cat2.AssertNumberOfCalls(t, "RecipesUpToLevel", 3)

	// Nothing left to retry.
	require.NoError(t, svc2.Refresh(ctx))
	cat2.AssertNumberOfCalls(t, "RecipesUpToLevel", 3)
}

func TestShutdown_UnloadedJobsDoNotOverwriteSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Save(ctx, ConfigJobs, []byte("8:\n  id: 8\n  abbreviation: CRP\n  level: 40\n")))

	svc := NewService(&MockCatalog{}, &MockEngine{}, &MockRefresher{}, store)
	require.NoError(t, svc.Shutdown(ctx))

	data, err := store.Load(ctx, ConfigJobs)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: 40")
}

func TestRecipe_ReturnsRowOrNotFound(t *testing.T) {
	ctx := context.Background()
	cat, eng, ref := &MockCatalog{}, &MockEngine{}, &MockRefresher{}
	eng.On("State", mock.Anything, 1).Return(resolver.State{Recipe: recipe(1)}, nil)
	eng.On("State", mock.Anything, 2).Return(resolver.State{}, domain.ErrRecipeNotFound)

	svc := NewService(cat, eng, ref, newTestStore(t))
	row, err := svc.Recipe(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, row.RecipeID)
	assert.Contains(t, row.Pending, "revenue")

	_, err = svc.Recipe(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestShutdown_FlushesCaches(t *testing.T) {
	ctx := context.Background()
	c1, c2 := &MockCloser{}, &MockCloser{}
	c1.On("Close", mock.Anything).Return(nil)
	c2.On("Close", mock.Anything).Return(nil)

	svc := NewService(&MockCatalog{}, &MockEngine{}, &MockRefresher{}, newTestStore(t), c1, c2)
	require.NoError(t, svc.Shutdown(ctx))
	c1.AssertExpectations(t)
	c2.AssertExpectations(t)
}
