package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/athlete-macro-api/formula"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles. One row per user: the biometric/activity
// inputs plus the rounded daily targets derived from them.
type userProfile struct {
	UserID         int     `json:"user_id"         db:"user_id"`
	WeightKG       float64 `json:"weight"          db:"weight_kg"`
	HeightCM       float64 `json:"height"          db:"height_cm"`
	Age            int     `json:"age"             db:"age"`
	Sex            string  `json:"sex"             db:"sex"`
	SportsCategory string  `json:"sports_category" db:"sports_category"`
	Goal           string  `json:"goal"            db:"goal"`
	IsPro          bool    `json:"is_pro"          db:"is_pro"`

	Calories int `json:"calories" db:"calories"`
	CarbsG   int `json:"carbs"    db:"carbs_g"`
	ProteinG int `json:"protein"  db:"protein_g"`
	FatG     int `json:"fat"      db:"fat_g"`

	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// formulaProfile converts the stored row back into pipeline input.
func (p userProfile) formulaProfile() formula.Profile {
	return formula.Profile{
		WeightKG:       p.WeightKG,
		HeightCM:       p.HeightCM,
		Age:            p.Age,
		Sex:            formula.Sex(p.Sex),
		SportsCategory: formula.SportsCategory(p.SportsCategory),
		IsProfessional: p.IsPro,
		Goal:           formula.Goal(p.Goal),
	}
}

// targets returns the stored daily targets.
func (p userProfile) targets() formula.Targets {
	return formula.Targets{Calories: p.Calories, CarbsG: p.CarbsG, ProteinG: p.ProteinG, FatG: p.FatG}
}

// meal maps to the meals table. Totals are the sums of the meal's food logs.
type meal struct {
	ID            int        `json:"id"             db:"id"`
	UserID        int        `json:"user_id"        db:"user_id"`
	Date          DateOnly   `json:"date"           db:"date"`
	MealType      string     `json:"meal_type"      db:"meal_type"`
	TotalCalories float64    `json:"total_calories" db:"total_calories"`
	TotalProtein  float64    `json:"total_protein"  db:"total_protein"`
	TotalCarbs    float64    `json:"total_carbs"    db:"total_carbs"`
	TotalFat      float64    `json:"total_fat"      db:"total_fat"`
	CreatedAt     *time.Time `json:"created_at"     db:"created_at"`
}

// foodLog maps to food_logs: one eaten food inside a meal.
type foodLog struct {
	ID               int        `json:"id"                 db:"id"`
	UserID           int        `json:"user_id"            db:"user_id"`
	MealID           int        `json:"meal_id"            db:"meal_id"`
	FoodName         string     `json:"food_name"          db:"food_name"`
	ServingSizeGrams float64    `json:"serving_size_grams" db:"serving_size_grams"`
	Quantity         *float64   `json:"quantity"           db:"quantity"`
	Calories         float64    `json:"calories"           db:"calories"`
	Protein          float64    `json:"protein"            db:"protein"`
	Carbs            float64    `json:"carbs"              db:"carbs"`
	Fat              float64    `json:"fat"                db:"fat"`
	CreatedAt        *time.Time `json:"created_at"         db:"created_at"`
}

// mealWithFoods is one entry of the GET /api/meals response.
type mealWithFoods struct {
	meal
	Foods []foodLog `json:"foods"`
}

// dayTotals sums calories and macros across a day's meals.
type dayTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// dailyMeals is the response shape for GET /api/meals.
// Targets is nil when the user has not submitted a profile yet.
type dailyMeals struct {
	Date    string           `json:"date"`
	Meals   []mealWithFoods  `json:"meals"`
	Totals  dayTotals        `json:"totals"`
	Targets *formula.Targets `json:"targets"`
}

// weightEntry maps to weight_log. Weight is kept in kilograms, the unit the
// estimation pipeline works in.
type weightEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	WeightKG  float64    `json:"weight_kg"  db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// foodNutrition maps to food_nutrition: reference figures for one food.
// Nutrient values are nil when not known yet.
type foodNutrition struct {
	ID                 int        `json:"id"                   db:"id"`
	FoodName           string     `json:"food_name"            db:"food_name"`
	Calories           *float64   `json:"calories"             db:"calories"`
	Protein            *float64   `json:"protein"              db:"protein"`
	Carbs              *float64   `json:"carbs"                db:"carbs"`
	Fat                *float64   `json:"fat"                  db:"fat"`
	ServingWeightGrams *float64   `json:"serving_weight_grams" db:"serving_weight_grams"`
	UpdatedAt          *time.Time `json:"updated_at"           db:"updated_at"`
}

// nutritionLookup is the response shape for GET /api/foods/nutrition.
// Missing lists the requested names with no reference row.
type nutritionLookup struct {
	Foods   []foodNutrition `json:"foods"`
	Missing []string        `json:"missing"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// profileRequest is the request body for POST /api/profile and
// POST /api/profile/preview. IsPro is a pointer so an unselected value can be
// told apart from false.
type profileRequest struct {
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	Age            *int     `json:"age"`
	Sex            string   `json:"sex"`
	SportsCategory string   `json:"sports_category"`
	Goal           string   `json:"goal"`
	IsPro          *bool    `json:"is_pro"`
}

// foodLogRequest is one food in a create-meal or add-foods body.
type foodLogRequest struct {
	FoodName         string   `json:"food_name"`
	ServingSizeGrams float64  `json:"serving_size_grams"`
	Quantity         *float64 `json:"quantity"`
	Calories         float64  `json:"calories"`
	Protein          float64  `json:"protein"`
	Carbs            float64  `json:"carbs"`
	Fat              float64  `json:"fat"`
}

// createMealRequest is the request body for POST /api/meals.
type createMealRequest struct {
	Date     string           `json:"date"`
	MealType string           `json:"meal_type"`
	Foods    []foodLogRequest `json:"foods"`
}

// recommendationRequest is the request body for POST /api/recommendation.
type recommendationRequest struct {
	Date string `json:"date"`
}

// recommendationResponse is returned by POST /api/recommendation.
type recommendationResponse struct {
	UserID         int    `json:"user_id"`
	Date           string `json:"date"`
	Recommendation string `json:"recommendation"`
}
