package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// maxNutritionNames bounds one lookup request.
const maxNutritionNames = 20

// normalizeFoodNames trims the requested names, drops blanks and collapses
// case-insensitive duplicates, keeping the first spelling and request order.
func normalizeFoodNames(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			name := strings.TrimSpace(part)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, name)
		}
	}
	return names
}

// missingFoodNames returns the requested names that have no matching row.
func missingFoodNames(names []string, found []foodNutrition) []string {
	have := make(map[string]bool, len(found))
	for _, f := range found {
		have[strings.ToLower(f.FoodName)] = true
	}
	missing := []string{}
	for _, n := range names {
		if !have[strings.ToLower(n)] {
			missing = append(missing, n)
		}
	}
	return missing
}

// lookupFoodNutrition returns reference nutrition for the named foods, matched
// case-insensitively. Names come as repeated or comma-separated params.
// GET /api/foods/nutrition?name=Rice&name=Egg
func (h *Handler) lookupFoodNutrition(c *gin.Context) {
	names := normalizeFoodNames(c.QueryArray("name"))
	if len(names) == 0 {
		apiError(c, http.StatusBadRequest, "at least one name is required")
		return
	}
	if len(names) > maxNutritionNames {
		apiError(c, http.StatusBadRequest, "at most 20 names per request")
		return
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = strings.ToLower(n)
	}
	foods, err := queryMany[foodNutrition](h.db, c,
		`SELECT * FROM food_nutrition
		 WHERE lower(food_name) = ANY(@names)
		 ORDER BY food_name`,
		pgx.NamedArgs{"names": keys})
	if err != nil {
		log.Printf("[lookupFoodNutrition] query failed: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to fetch nutrition data")
		return
	}
	if foods == nil {
		foods = []foodNutrition{}
	}

	c.JSON(http.StatusOK, nutritionLookup{Foods: foods, Missing: missingFoodNames(names, foods)})
}
