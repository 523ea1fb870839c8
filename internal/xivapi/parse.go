package xivapi

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/osse101/MarketCrafter_Go/internal/domain"
)

// pageResult is one entry of a paginated listing or search response.
type pageResult struct {
	ID      int
	Name    string
	URL     string
	URLType string
}

type page struct {
	PageTotal int
	Results   []pageResult
}

func parsePage(data []byte) (page, error) {
	if !gjson.ValidBytes(data) {
		return page{}, fmt.Errorf("%w: invalid page json", domain.ErrFetchFailed)
	}
	doc := gjson.ParseBytes(data)

	p := page{PageTotal: int(doc.Get("Pagination.PageTotal").Int())}
	doc.Get("Results").ForEach(func(_, r gjson.Result) bool {
		p.Results = append(p.Results, pageResult{
			ID:      int(r.Get("ID").Int()),
			Name:    r.Get("Name").String(),
			URL:     r.Get("Url").String(),
			URLType: r.Get("UrlType").String(),
		})
		return true
	})
	return p, nil
}

func parseItem(data []byte) (domain.Item, error) {
	if !gjson.ValidBytes(data) {
		return domain.Item{}, fmt.Errorf("%w: invalid item json", domain.ErrFetchFailed)
	}
	doc := gjson.ParseBytes(data)
	return domain.Item{ID: int(doc.Get("ID").Int()), Name: doc.Get("Name").String()}, nil
}

func parseClassJob(data []byte) (domain.ClassJob, error) {
	if !gjson.ValidBytes(data) {
		return domain.ClassJob{}, fmt.Errorf("%w: invalid classjob json", domain.ErrFetchFailed)
	}
	doc := gjson.ParseBytes(data)
	return domain.ClassJob{
		ID:           int(doc.Get("ID").Int()),
		Abbreviation: doc.Get("Abbreviation").String(),
		Name:         doc.Get("Name").String(),
		Category:     doc.Get("ClassJobCategory.Name").String(),
	}, nil
}

// parseRecipe turns the numbered ItemIngredientN / AmountIngredientN /
// ItemIngredientRecipeN columns into ordered slots. Empty columns are
// skipped.
func parseRecipe(data []byte) (domain.Recipe, error) {
	if !gjson.ValidBytes(data) {
		return domain.Recipe{}, fmt.Errorf("%w: invalid recipe json", domain.ErrFetchFailed)
	}
	doc := gjson.ParseBytes(data)

	recipe := domain.Recipe{
		ID: int(doc.Get("ID").Int()),
		Job: domain.ClassJob{
			ID:           int(doc.Get("ClassJob.ID").Int()),
			Abbreviation: doc.Get("ClassJob.Abbreviation").String(),
			Name:         doc.Get("ClassJob.Name").String(),
		},
		Level: int(doc.Get("RecipeLevelTable.ClassJobLevel").Int()),
		Output: domain.Item{
			ID:   int(doc.Get("ItemResult.ID").Int()),
			Name: doc.Get("ItemResult.Name").String(),
		},
		OutputAmount: int(doc.Get("AmountResult").Int()),
	}
	if recipe.ID == 0 || recipe.Output.ID == 0 {
		return domain.Recipe{}, fmt.Errorf("%w: recipe without id or result", domain.ErrFetchFailed)
	}

	for i := 0; i < maxIngredientSlots; i++ {
		n := strconv.Itoa(i)
		item := doc.Get("ItemIngredient" + n)
		amount := int(doc.Get("AmountIngredient" + n).Int())
		if !item.IsObject() || item.Get("ID").Int() == 0 || amount == 0 {
			continue
		}

		slot := domain.IngredientSlot{
			Item:   domain.Item{ID: int(item.Get("ID").Int()), Name: item.Get("Name").String()},
			Amount: amount,
		}
		doc.Get("ItemIngredientRecipe" + n).ForEach(func(_, sub gjson.Result) bool {
			if id := int(sub.Get("ID").Int()); id != 0 {
				slot.SubRecipeIDs = append(slot.SubRecipeIDs, id)
			}
			return true
		})
		recipe.Slots = append(recipe.Slots, slot)
	}
	return recipe, nil
}
