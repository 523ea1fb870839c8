package xivapi

import "time"

// ProviderName labels logs and metrics.
const ProviderName = "xivapi"

// DefaultBaseURL is the public catalog endpoint.
const DefaultBaseURL = "https://xivapi.com"

// DefaultTTL is the freshness window for every catalog cache.
const DefaultTTL = 30 * 24 * time.Hour

// Snapshot names of the catalog caches
const (
	CacheItems            = "items.json"
	CacheCraftingJobs     = "classjob_doh.json"
	CacheRecipes          = "recipes.json"
	CacheRecipeCollection = "recipe_collection.json"
	CacheRecipeSearch     = "recipe_search.json"
)

// CacheNames lists every catalog snapshot.
var CacheNames = []string{CacheItems, CacheCraftingJobs, CacheRecipes, CacheRecipeCollection, CacheRecipeSearch}

// CraftingCategory is the ClassJobCategory name of crafting jobs.
const CraftingCategory = "Disciple of the Hand"

// URL types in search results
const (
	URLTypeRecipe = "Recipe"
)

// maxIngredientSlots is how many ItemIngredientN columns a recipe row has.
const maxIngredientSlots = 10

// pageConcurrency bounds parallel page and recipe fetches. The client's
// rate limiter still spaces the requests.
const pageConcurrency = 4

// Log messages
const (
	LogMsgFetchingPages    = "Fetching catalog pages"
	LogMsgSearchingLevel   = "Searching recipes for job level"
	LogMsgSkippingNotFound = "Catalog entry vanished, skipping"
)
