package handler

// Generic HTTP error messages for client responses.
// Both handlers and tests should reference these constants.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidID             = "Invalid %s id"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"

	ErrMsgListRecipesFailed = "Failed to retrieve recipes"
	ErrMsgSearchFailed      = "Failed to perform search"
	ErrMsgRefreshFailed     = "Failed to refresh listings"
)

// Log messages
const (
	LogMsgRecipesListed     = "Recipes listed"
	LogMsgRecipeRetrieved   = "Recipe retrieved"
	LogMsgSearchCompleted   = "Recipe search completed"
	LogMsgRefreshRequested  = "Listing refresh requested"
	LogMsgAutoRefreshToggle = "Auto refresh toggled"
	LogMsgJobsListed        = "Jobs listed"
	LogMsgJobLevelSet       = "Job level set"
	LogMsgReadinessFailed   = "Readiness check failed"
)

// Query and path parameters
const (
	ParamID      = "id"
	QueryJob     = "job"
	QuerySort    = "sort"
	QueryPending = "pending"

	SortProfit = "profit"
	SortID     = "id"
)
