package xivapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
	"github.com/osse101/MarketCrafter_Go/internal/remote"
	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

const bronzeRivetsJSON = `{
	"ID": 33,
	"ClassJob": {"ID": 10, "Abbreviation": "ARM", "Name": "armorer"},
	"RecipeLevelTable": {"ClassJobLevel": 5},
	"ItemResult": {"ID": 5080, "Name": "Bronze Rivets"},
	"AmountResult": 3,
	"ItemIngredient0": {"ID": 5056, "Name": "Bronze Ingot"},
	"AmountIngredient0": 1,
	"ItemIngredientRecipe0": [{"ID": 100}, {"ID": 101}],
	"ItemIngredient1": null,
	"AmountIngredient1": 0,
	"ItemIngredientRecipe1": null,
	"ItemIngredient8": {"ID": 2, "Name": "Fire Shard"},
	"AmountIngredient8": 1,
	"ItemIngredientRecipe8": null
}`

const bronzeIngotJSON = `{
	"ID": 100,
	"ClassJob": {"ID": 9, "Abbreviation": "BSM"},
	"RecipeLevelTable": {"ClassJobLevel": 4},
	"ItemResult": {"ID": 5056, "Name": "Bronze Ingot"},
	"AmountResult": 1,
	"ItemIngredient0": {"ID": 5106, "Name": "Copper Ore"},
	"AmountIngredient0": 2,
	"ItemIngredient1": {"ID": 5107, "Name": "Tin Ore"},
	"AmountIngredient1": 1
}`

func TestParseRecipe(t *testing.T) {
	recipe, err := parseRecipe([]byte(bronzeRivetsJSON))
	require.NoError(t, err)

	assert.Equal(t, 33, recipe.ID)
	assert.Equal(t, "ARM", recipe.Job.Abbreviation)
	assert.Equal(t, 5, recipe.Level)
	assert.Equal(t, domain.Item{ID: 5080, Name: "Bronze Rivets"}, recipe.Output)
	assert.Equal(t, 3, recipe.OutputAmount)
	require.Len(t, recipe.Slots, 2, "empty ingredient columns are skipped")
	assert.Equal(t, []int{100, 101}, recipe.Slots[0].SubRecipeIDs)
	assert.Equal(t, "Fire Shard", recipe.Slots[1].Item.Name)
	assert.False(t, recipe.Slots[1].Craftable())
}

func TestParseRecipe_Rejects(t *testing.T) {
	_, err := parseRecipe([]byte(`not json`))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	_, err = parseRecipe([]byte(`{"ID": 1}`))
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

// fakeXIVAPI serves a tiny catalog and counts requests per path.
type fakeXIVAPI struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeXIVAPI) hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeXIVAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	f.mu.Unlock()

	q := r.URL.Query()
	switch r.URL.Path {
	case "/Recipe/33":
		fmt.Fprint(w, bronzeRivetsJSON)
	case "/Recipe/100":
		fmt.Fprint(w, bronzeIngotJSON)
	case "/Item/5056":
		fmt.Fprint(w, `{"ID": 5056, "Name": "Bronze Ingot"}`)
	case "/ClassJob":
		fmt.Fprint(w, `{"Pagination": {"PageTotal": 1}, "Results": [
			{"ID": 9, "Url": "/ClassJob/9"}, {"ID": 19, "Url": "/ClassJob/19"}]}`)
	case "/ClassJob/9":
		fmt.Fprint(w, `{"ID": 9, "Abbreviation": "BSM", "ClassJobCategory": {"Name": "Disciple of the Hand"}}`)
	case "/ClassJob/19":
		fmt.Fprint(w, `{"ID": 19, "Abbreviation": "PLD", "ClassJobCategory": {"Name": "Disciple of War"}}`)
	case "/search":
		switch {
		case q.Get("string") == "bronze" && q.Get("page") == "":
			fmt.Fprint(w, `{"Pagination": {"PageTotal": 2}, "Results": [
				{"ID": 33, "UrlType": "Recipe", "Url": "/Recipe/33"},
				{"ID": 5056, "UrlType": "Item", "Url": "/Item/5056"}]}`)
		case q.Get("string") == "bronze" && q.Get("page") == "2":
			fmt.Fprint(w, `{"Pagination": {"PageTotal": 2}, "Results": [
				{"ID": 100, "UrlType": "Recipe", "Url": "/Recipe/100"},
				{"ID": 999, "UrlType": "Recipe", "Url": "/Recipe/999"}]}`)
		case q.Get("filters") == "RecipeLevelTable.ClassJobLevel=4,ClassJob.ID=9":
			fmt.Fprint(w, `{"Pagination": {"PageTotal": 1}, "Results": [{"ID": 100, "UrlType": "Recipe"}]}`)
		default:
			fmt.Fprint(w, `{"Pagination": {"PageTotal": 1}, "Results": []}`)
		}
	default:
		http.NotFound(w, r)
	}
}

func newTestCatalog(t *testing.T) (*Catalog, *fakeXIVAPI, snapshot.Store) {
	t.Helper()
	fake := &fakeXIVAPI{calls: make(map[string]int)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	rc, err := remote.New(ProviderName, remote.Config{BaseURL: srv.URL, MinInterval: time.Millisecond, MaxRetries: 1})
	require.NoError(t, err)

	store, err := snapshot.NewFileStore(t.TempDir(), false)
	require.NoError(t, err)

	return NewCatalog(NewClient(rc), store, 0), fake, store
}

func TestCatalog_RecipeIsCached(t *testing.T) {
	catalog, fake, _ := newTestCatalog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		recipe, err := catalog.Recipe(ctx, 33)
		require.NoError(t, err)
		assert.Equal(t, "Bronze Rivets", recipe.Output.Name)
	}
	assert.Equal(t, 1, fake.hits("/Recipe/33"))
}

func TestCatalog_RecipeNotFound(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)
	_, err := catalog.Recipe(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestCatalog_CraftingJobsFiltersCategory(t *testing.T) {
	catalog, fake, _ := newTestCatalog(t)
	ctx := context.Background()

	jobs, err := catalog.CraftingJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "BSM", jobs[0].Abbreviation)

	_, err = catalog.CraftingJobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.hits("/ClassJob"))
}

func TestCatalog_SearchAcrossPages(t *testing.T) {
	catalog, fake, _ := newTestCatalog(t)
	ctx := context.Background()

	recipes, err := catalog.SearchRecipes(ctx, "  Bronze ")
	require.NoError(t, err)
	require.Len(t, recipes, 2, "item results and vanished recipes are dropped")
	assert.Equal(t, 33, recipes[0].ID)
	assert.Equal(t, 100, recipes[1].ID)

	_, err = catalog.SearchRecipes(ctx, "BRONZE")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.hits("/search"), "folded text shares one cache slot")

	_, err = catalog.SearchRecipes(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalog_RecipesUpToLevel(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	recipes, err := catalog.RecipesUpToLevel(context.Background(), 9, 5)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, 100, recipes[0].ID)
	assert.Equal(t, 5, catalog.Stats()[CacheRecipeCollection])
}

func TestCatalog_SurvivesRestart(t *testing.T) {
	catalog, fake, store := newTestCatalog(t)
	ctx := context.Background()

	_, err := catalog.Recipe(ctx, 100)
	require.NoError(t, err)
	_, err = catalog.Item(ctx, 5056)
	require.NoError(t, err)
	require.NoError(t, catalog.Close(ctx))

	// same store, new process
	restarted := NewCatalog(NewClient(nil), store, 0)
	require.NoError(t, restarted.Load(ctx))

	recipe, err := restarted.Recipe(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Bronze Ingot", recipe.Output.Name)
	item, err := restarted.Item(ctx, 5056)
	require.NoError(t, err)
	assert.Equal(t, "Bronze Ingot", item.Name)
	assert.Equal(t, 1, fake.hits("/Recipe/100"))
}
