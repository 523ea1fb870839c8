// Package depindex maps each item to every recipe role it plays: the output
// of a recipe, or an ingredient in one of its slots.
package depindex

import (
	"sort"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
)

// OutputSlot marks the role "item is the recipe's output".
const OutputSlot = -1

// Role is one (recipe, slot) pair an item participates in.
type Role struct {
	RecipeID int `json:"recipe_id"`
	Slot     int `json:"slot"`
}

// IsOutput reports whether the role is the recipe's output.
func (r Role) IsOutput() bool { return r.Slot == OutputSlot }

// Index is not safe for concurrent use; the resolver owns it from a single
// goroutine.
type Index struct {
	roles   map[int]map[Role]struct{}
	recipes map[int]struct{}
}

// New returns an empty index.
func New() *Index {
	return &Index{
		roles:   make(map[int]map[Role]struct{}),
		recipes: make(map[int]struct{}),
	}
}

// Register records the output and every ingredient slot of recipe. It
// reports whether the recipe was new; registering a known recipe id again
// changes nothing.
func (x *Index) Register(recipe domain.Recipe) bool {
	if _, ok := x.recipes[recipe.ID]; ok {
		return false
	}
	x.recipes[recipe.ID] = struct{}{}

	x.add(recipe.Output.ID, Role{RecipeID: recipe.ID, Slot: OutputSlot})
	for i, slot := range recipe.Slots {
		x.add(slot.Item.ID, Role{RecipeID: recipe.ID, Slot: i})
	}
	return true
}

func (x *Index) add(itemID int, role Role) {
	set, ok := x.roles[itemID]
	if !ok {
		set = make(map[Role]struct{})
		x.roles[itemID] = set
	}
	set[role] = struct{}{}
}

// Lookup returns every role registered for itemID ordered by recipe then
// slot, or an empty slice when the item is unknown.
func (x *Index) Lookup(itemID int) []Role {
	set := x.roles[itemID]
	roles := make([]Role, 0, len(set))
	for role := range set {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		if roles[i].RecipeID != roles[j].RecipeID {
			return roles[i].RecipeID < roles[j].RecipeID
		}
		return roles[i].Slot < roles[j].Slot
	})
	return roles
}

// Size returns the number of roles registered for itemID.
func (x *Index) Size(itemID int) int {
	return len(x.roles[itemID])
}

// Contains reports whether recipeID has been registered.
func (x *Index) Contains(recipeID int) bool {
	_, ok := x.recipes[recipeID]
	return ok
}

// Items returns every item id with at least one role, ascending.
func (x *Index) Items() []int {
	items := make([]int, 0, len(x.roles))
	for id := range x.roles {
		items = append(items, id)
	}
	sort.Ints(items)
	return items
}

// Recipes returns the number of registered recipes.
func (x *Index) Recipes() int {
	return len(x.recipes)
}
