package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGroupFoodsByMeal(t *testing.T) {
	meals := []meal{
		{ID: 10, MealType: "breakfast"},
		{ID: 11, MealType: "lunch"},
		{ID: 12, MealType: "snack"},
	}
	foods := []foodLog{
		{ID: 1, MealID: 11, FoodName: "Rice"},
		{ID: 2, MealID: 10, FoodName: "Oats"},
		{ID: 3, MealID: 11, FoodName: "Chicken"},
		{ID: 4, MealID: 99, FoodName: "Orphan"},
	}

	got := groupFoodsByMeal(meals, foods)

	if len(got) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(got))
	}
	for i, m := range meals {
		if got[i].ID != m.ID {
			t.Errorf("meal %d: id = %d, want %d (order must be preserved)", i, got[i].ID, m.ID)
		}
	}
	if len(got[0].Foods) != 1 || got[0].Foods[0].FoodName != "Oats" {
		t.Errorf("breakfast foods = %+v", got[0].Foods)
	}
	if len(got[1].Foods) != 2 || got[1].Foods[0].FoodName != "Rice" || got[1].Foods[1].FoodName != "Chicken" {
		t.Errorf("lunch foods = %+v", got[1].Foods)
	}
	if got[2].Foods == nil || len(got[2].Foods) != 0 {
		t.Errorf("snack foods should be an empty non-nil slice, got %#v", got[2].Foods)
	}
}

func TestSumMeals(t *testing.T) {
	meals := []mealWithFoods{
		{meal: meal{TotalCalories: 400, TotalProtein: 20, TotalCarbs: 50, TotalFat: 10}},
		{meal: meal{TotalCalories: 650.5, TotalProtein: 40, TotalCarbs: 70, TotalFat: 22.5}},
	}
	got := sumMeals(meals)
	want := dayTotals{Calories: 1050.5, Protein: 60, Carbs: 120, Fat: 32.5}
	if got != want {
		t.Errorf("sumMeals = %+v, want %+v", got, want)
	}
	if (sumMeals(nil) != dayTotals{}) {
		t.Error("expected zero totals for no meals")
	}
}

func TestValidateFoods(t *testing.T) {
	cases := []struct {
		name  string
		foods []foodLogRequest
		ok    bool
	}{
		{"empty", nil, false},
		{"blank name", []foodLogRequest{{FoodName: "  ", Calories: 100}}, false},
		{"negative calories", []foodLogRequest{{FoodName: "Apple", Calories: -1}}, false},
		{"valid", []foodLogRequest{{FoodName: "Apple", ServingSizeGrams: 150, Calories: 78, Carbs: 21}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validateFoods(tc.foods)
			if (msg == "") != tc.ok {
				t.Errorf("validateFoods() = %q, want ok=%v", msg, tc.ok)
			}
		})
	}
}

// TestCreateMeal_Validation exercises the request checks that run before any
// database access.
func TestCreateMeal_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.POST("/api/meals", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.createMeal)

	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"unknown meal type", `{"meal_type":"brunch","foods":[{"food_name":"Eggs","calories":150}]}`},
		{"no foods", `{"meal_type":"lunch","foods":[]}`},
		{"bad date", `{"date":"03/04/2025","meal_type":"lunch","foods":[{"food_name":"Eggs","calories":150}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/meals", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetMealsByDate_InvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.GET("/api/meals", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.getMealsByDate)

	for _, date := range []string{"2025-02-30", "03/04/2025", "today"} {
		req := httptest.NewRequest("GET", "/api/meals?date="+date, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("date %q: expected 400, got %d: %s", date, w.Code, w.Body.String())
		}
	}
}
