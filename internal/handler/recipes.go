package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/MarketCrafter_Go/internal/logger"
	"github.com/osse101/MarketCrafter_Go/internal/planner"
	"github.com/osse101/MarketCrafter_Go/internal/resolver"
)

// HandleListRecipes returns the resolution table.
//
// Query parameters: job filters by job abbreviation, pending=false drops rows
// still waiting on data, sort=profit orders by descending profit with
// unresolved rows last. The default order is by recipe id.
func HandleListRecipes(svc planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		includePending, err := strconv.ParseBool(GetOptionalQueryParam(r, QueryPending, "true"))
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, QueryPending))
			return
		}
		sortBy := GetOptionalQueryParam(r, QuerySort, SortID)
		if sortBy != SortID && sortBy != SortProfit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, QuerySort))
			return
		}

		rows, err := svc.Rows(r.Context())
		if err != nil {
			log.Error(ErrMsgListRecipesFailed, "error", err)
			respondServiceError(w, err)
			return
		}

		rows = filterRows(rows, GetOptionalQueryParam(r, QueryJob, ""), includePending)
		if sortBy == SortProfit {
			sortByProfit(rows)
		}

		log.Debug(LogMsgRecipesListed, "count", len(rows))
		respondJSON(w, http.StatusOK, rows)
	}
}

// HandleGetRecipe returns one row of the resolution table.
func HandleGetRecipe(svc planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id, ok := parseIDParam(w, r, "recipe")
		if !ok {
			return
		}

		row, err := svc.Recipe(r.Context(), id)
		if err != nil {
			log.Warn("Failed to get recipe", "recipe_id", id, "error", err)
			respondServiceError(w, err)
			return
		}

		log.Debug(LogMsgRecipeRetrieved, "recipe_id", id)
		respondJSON(w, http.StatusOK, row)
	}
}

// HandleSearchRecipes searches the catalog and submits every match for
// resolution. The response lists the matching recipes.
func HandleSearchRecipes(svc planner.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SearchRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Search recipes"); err != nil {
			return
		}

		recipes, err := svc.Search(r.Context(), req.Text)
		if err != nil {
			log.Error(ErrMsgSearchFailed, "text", req.Text, "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info(LogMsgSearchCompleted, "text", req.Text, "count", len(recipes))
		respondJSON(w, http.StatusOK, recipes)
	}
}

func filterRows(rows []resolver.Row, job string, includePending bool) []resolver.Row {
	if job == "" && includePending {
		return rows
	}
	out := rows[:0]
	for _, row := range rows {
		if job != "" && !strings.EqualFold(row.Job, job) {
			continue
		}
		if !includePending && len(row.Pending) > 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

func sortByProfit(rows []resolver.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Profit, rows[j].Profit
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// parseIDParam reads the {id} path parameter. On failure it has already
// written the response.
func parseIDParam(w http.ResponseWriter, r *http.Request, label string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, ParamID))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidID, label))
		return 0, false
	}
	return id, true
}
