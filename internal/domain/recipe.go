package domain

// IngredientSlot is one ordered input of a recipe. SubRecipeIDs lists the
// alternative recipes that can produce Item; it is empty for ingredients
// that can only be bought or gathered.
type IngredientSlot struct {
	Item         Item  `json:"item"`
	Amount       int   `json:"amount"`
	SubRecipeIDs []int `json:"sub_recipe_ids,omitempty"`
}

// Craftable reports whether the slot can be produced by another recipe.
func (s IngredientSlot) Craftable() bool {
	return len(s.SubRecipeIDs) > 0
}

// Recipe is a craftable transformation from ingredient items to one output item.
type Recipe struct {
	ID           int              `json:"id"`
	Job          ClassJob         `json:"job"`
	Level        int              `json:"level"`
	Output       Item             `json:"output"`
	OutputAmount int              `json:"output_amount"`
	Slots        []IngredientSlot `json:"slots"`
}

// IngredientItemIDs returns the distinct ingredient item IDs in slot order.
func (r Recipe) IngredientItemIDs() []int {
	seen := make(map[int]struct{}, len(r.Slots))
	ids := make([]int, 0, len(r.Slots))
	for _, slot := range r.Slots {
		if _, ok := seen[slot.Item.ID]; ok {
			continue
		}
		seen[slot.Item.ID] = struct{}{}
		ids = append(ids, slot.Item.ID)
	}
	return ids
}

// SubRecipeIDs returns every distinct sub-recipe ID across all slots.
func (r Recipe) SubRecipeIDs() []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, slot := range r.Slots {
		for _, id := range slot.SubRecipeIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
