package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validMealTypes is the set of allowed values for meals.meal_type.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// groupFoodsByMeal attaches each food log to its meal, preserving meal order.
// Meals with no logged foods get an empty (non-nil) slice.
func groupFoodsByMeal(meals []meal, foods []foodLog) []mealWithFoods {
	byMeal := make(map[int][]foodLog, len(meals))
	for _, f := range foods {
		byMeal[f.MealID] = append(byMeal[f.MealID], f)
	}

	result := make([]mealWithFoods, 0, len(meals))
	for _, m := range meals {
		fs := byMeal[m.ID]
		if fs == nil {
			fs = []foodLog{}
		}
		result = append(result, mealWithFoods{meal: m, Foods: fs})
	}
	return result
}

// sumMeals totals the stored meal figures for a day.
func sumMeals(meals []mealWithFoods) dayTotals {
	var t dayTotals
	for _, m := range meals {
		t.Calories += m.TotalCalories
		t.Protein += m.TotalProtein
		t.Carbs += m.TotalCarbs
		t.Fat += m.TotalFat
	}
	return t
}

// validateFoods checks a batch of foods from a request body.
func validateFoods(foods []foodLogRequest) string {
	if len(foods) == 0 {
		return "at least one food is required"
	}
	for _, f := range foods {
		if strings.TrimSpace(f.FoodName) == "" {
			return "food_name is required"
		}
		if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 || f.ServingSizeGrams < 0 {
			return "nutrition values must not be negative"
		}
	}
	return ""
}

// getMealsByDate returns the day's meals with their food logs, day totals, and
// the user's daily targets when a profile exists.
// GET /api/meals?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getMealsByDate(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	meals, err := h.loadMealsForDate(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	resp := dailyMeals{Date: date, Meals: meals, Totals: sumMeals(meals)}
	if p, err := h.loadProfile(c, userID); err == nil {
		t := p.targets()
		resp.Targets = &t
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[getMealsByDate] profile lookup failed for user %d: %v", userID, err)
	}

	c.JSON(http.StatusOK, resp)
}

// loadMealsForDate fetches a user's meals on date and their food logs, grouped.
// Shared by the meal list and the recommendation prompt.
func (h *Handler) loadMealsForDate(c *gin.Context, userID int, date string) ([]mealWithFoods, error) {
	meals, err := queryMany[meal](h.db, c,
		`SELECT * FROM meals
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return []mealWithFoods{}, nil
	}

	ids := make([]int, len(meals))
	for i, m := range meals {
		ids[i] = m.ID
	}
	foods, err := queryMany[foodLog](h.db, c,
		`SELECT * FROM food_logs
		 WHERE user_id = @userID AND meal_id = ANY(@mealIDs)
		 ORDER BY id`,
		pgx.NamedArgs{"userID": userID, "mealIDs": ids})
	if err != nil {
		return nil, err
	}

	return groupFoodsByMeal(meals, foods), nil
}

// createMeal inserts a meal and its foods in one transaction. The meal totals
// are the sums of the submitted foods.
// POST /api/meals. Defaults date to today if omitted.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	body.MealType = strings.ToLower(strings.TrimSpace(body.MealType))
	if !validMealTypes[body.MealType] {
		apiError(c, http.StatusBadRequest, "meal_type must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if msg := validateFoods(body.Foods); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}
	defer tx.Rollback(c)

	m, err := queryOne[meal](tx, c,
		`INSERT INTO meals (user_id, date, meal_type)
		 VALUES (@userID, @date, @mealType)
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": body.Date, "mealType": body.MealType})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	foods, err := insertFoods(c, tx, userID, m.ID, body.Foods)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log foods")
		return
	}
	m, err = recomputeMealTotals(c, tx, m.ID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	if err := tx.Commit(c); err != nil {
		log.Printf("[createMeal] commit failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, mealWithFoods{meal: m, Foods: foods})
}

// addFoodsToMeal logs more foods against an existing meal and re-sums its totals.
// POST /api/meals/:id/foods.
func (h *Handler) addFoodsToMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	mealID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid meal id")
		return
	}

	var body struct {
		Foods []foodLogRequest `json:"foods"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateFoods(body.Foods); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	tx, err := h.db.Begin(c)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log foods")
		return
	}
	defer tx.Rollback(c)

	// Ownership check; FOR UPDATE serialises concurrent total recomputation.
	var exists bool
	err = tx.QueryRow(c,
		"SELECT true FROM meals WHERE id = $1 AND user_id = $2 FOR UPDATE", mealID, userID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "meal not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to log foods")
		}
		return
	}

	if _, err := insertFoods(c, tx, userID, mealID, body.Foods); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log foods")
		return
	}
	if _, err := recomputeMealTotals(c, tx, mealID); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log foods")
		return
	}
	if err := tx.Commit(c); err != nil {
		apiError(c, http.StatusInternalServerError, "failed to log foods")
		return
	}

	foods, err := queryMany[foodLog](h.db, c,
		"SELECT * FROM food_logs WHERE meal_id = @mealID ORDER BY id",
		pgx.NamedArgs{"mealID": mealID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch foods")
		return
	}
	m, err := queryOne[meal](h.db, c,
		"SELECT * FROM meals WHERE id = @mealID",
		pgx.NamedArgs{"mealID": mealID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal")
		return
	}

	c.JSON(http.StatusOK, mealWithFoods{meal: m, Foods: foods})
}

// deleteMeal removes a meal; its food logs go with it (ON DELETE CASCADE).
// DELETE /api/meals/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}

/* ─── Transaction helpers ────────────────────────────────────────────── */

func insertFoods(c *gin.Context, tx pgx.Tx, userID, mealID int, foods []foodLogRequest) ([]foodLog, error) {
	logged := make([]foodLog, 0, len(foods))
	for _, f := range foods {
		row, err := queryOne[foodLog](tx, c,
			`INSERT INTO food_logs (user_id, meal_id, food_name, serving_size_grams, quantity, calories, protein, carbs, fat)
			 VALUES (@userID, @mealID, @foodName, @serving, @quantity, @calories, @protein, @carbs, @fat)
			 RETURNING *`,
			pgx.NamedArgs{
				"userID": userID, "mealID": mealID, "foodName": strings.TrimSpace(f.FoodName),
				"serving": f.ServingSizeGrams, "quantity": f.Quantity,
				"calories": f.Calories, "protein": f.Protein, "carbs": f.Carbs, "fat": f.Fat,
			})
		if err != nil {
			return nil, err
		}
		logged = append(logged, row)
	}
	return logged, nil
}

// recomputeMealTotals re-sums a meal's totals from its food logs.
func recomputeMealTotals(c *gin.Context, tx pgx.Tx, mealID int) (meal, error) {
	return queryOne[meal](tx, c,
		`UPDATE meals SET
			total_calories = s.calories,
			total_protein  = s.protein,
			total_carbs    = s.carbs,
			total_fat      = s.fat
		 FROM (
			SELECT COALESCE(SUM(calories), 0) AS calories,
			       COALESCE(SUM(protein),  0) AS protein,
			       COALESCE(SUM(carbs),    0) AS carbs,
			       COALESCE(SUM(fat),      0) AS fat
			FROM food_logs WHERE meal_id = @mealID
		 ) s
		 WHERE meals.id = @mealID
		 RETURNING meals.*`,
		pgx.NamedArgs{"mealID": mealID})
}
