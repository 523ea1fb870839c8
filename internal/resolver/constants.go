package resolver

// DefaultMailboxSize bounds the engine mailbox. Producers block (honouring
// their context) once it is full.
const DefaultMailboxSize = 1024

// maxSettleSteps caps re-evaluations triggered by a single message.
const maxSettleSteps = 100_000

// Message kinds, used as metric labels
const (
	KindRecipeDiscovered = "recipe_discovered"
	KindListingsReceived = "listings_received"
	KindRecipeFailed     = "recipe_failed"
	KindQuery            = "query"
)

// Revenue policies
const (
	RevenuePolicyUnitPrice = "unit"
	RevenuePolicyVelocity  = "velocity"
)

// Log messages
const (
	LogMsgEngineStarted      = "Resolution engine started"
	LogMsgEngineStopped      = "Resolution engine stopped"
	LogMsgRecipeDiscovered   = "Recipe discovered"
	LogMsgDuplicateRecipe    = "Recipe already known, ignoring"
	LogMsgListingsApplied    = "Listings applied"
	LogMsgUnknownItem        = "Listings for an item no recipe uses"
	LogMsgSettleLimitReached = "Stopped propagating updates, recipe graph did not settle"
	LogMsgPublishFailed      = "Failed to publish engine event"
	LogMsgRecipeFetchFailed  = "Sub-recipe fetch failed, may be requested again"
)
