package planner

// ConfigJobs is the snapshot name of the user-editable job levels.
const ConfigJobs = "classjob_config.yaml"

// Log messages
const (
	LogMsgJobsLoaded        = "Crafting jobs loaded"
	LogMsgJobLevelChanged   = "Job level changed"
	LogMsgRecipesDiscovered = "Recipes handed to the resolution engine"
	LogMsgRefreshRequested  = "Listings refresh requested"
	LogMsgShuttingDown      = "Planner shutting down"
	LogMsgShutdownComplete  = "Planner shutdown complete"

	LogMsgJobDefaultsUnavailable = "Crafting jobs unavailable, using saved jobs only"
	LogMsgJobDefaultsMerged      = "Crafting job defaults merged"
	LogMsgRetryFailed            = "Retrying job discovery failed"
	LogMsgSubRecipesRequested    = "Missing sub-recipes requested again"
)

// Error messages
const (
	ErrMsgLoadCraftingJobs = "loading crafting jobs"
	ErrMsgEmptySearch      = "search text is empty"
)
