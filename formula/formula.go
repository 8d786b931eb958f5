// Package formula estimates daily energy needs and macronutrient targets for an
// athlete from body metrics, sports category and goal.
//
// The pipeline is BMR (Mifflin-St Jeor) → TDEE (category PAL, elite boost) →
// goal offset → macro split. Every function is pure; unknown enum values take a
// default branch instead of failing.
package formula

import "strings"

// Sex selects the Mifflin-St Jeor constant. Values other than SexMale use the
// female constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is one of the named sexes.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// SportsCategory drives the physical activity level multiplier.
type SportsCategory string

const (
	CategoryEndurance SportsCategory = "endurance"
	CategoryStrength  SportsCategory = "strength"
	CategoryTeam      SportsCategory = "team"
	CategorySkill     SportsCategory = "skill"
	CategoryCombat    SportsCategory = "combat"
	// CategoryOther is the explicit "none of the above" choice. It has no
	// table entry and always resolves to DefaultPAL.
	CategoryOther SportsCategory = "other"
)

// Valid reports whether c is a member of the enum, including CategoryOther.
func (c SportsCategory) Valid() bool {
	if c == CategoryOther {
		return true
	}
	_, ok := categoryPAL[c]
	return ok
}

// Goal shifts the calorie target by a flat offset.
type Goal string

const (
	GoalMaintain   Goal = "maintain"
	GoalWeightLoss Goal = "weight_loss"
	GoalMuscleGain Goal = "muscle_gain"
)

// Valid reports whether g is one of the named goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalMaintain, GoalWeightLoss, GoalMuscleGain:
		return true
	}
	return false
}

// ParseSex, ParseSportsCategory and ParseGoal normalise user input (trim and
// lowercase). They never fail; check Valid on the result.
func ParseSex(s string) Sex { return Sex(normalize(s)) }

func ParseSportsCategory(s string) SportsCategory { return SportsCategory(normalize(s)) }

func ParseGoal(s string) Goal { return Goal(normalize(s)) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

/* ─── Constants ──────────────────────────────────────────────────────── */

const (
	// DefaultPAL applies to CategoryOther and any category missing from the table.
	DefaultPAL = 1.5
	// EliteMultiplier scales the PAL (not BMR, not TDEE) for professional athletes.
	EliteMultiplier = 1.15

	// GoalOffsetKcal is a flat daily deficit/surplus, not a percentage.
	GoalOffsetKcal = 300.0

	CarbsGramsPerKG   = 5.0
	ProteinGramsPerKG = 1.8
	FatCalorieShare   = 0.25
	KcalPerGramFat    = 9.0
)

// categoryPAL maps each sports category to its physical activity level. It is
// never written after package initialisation; read it through PAL.
var categoryPAL = map[SportsCategory]float64{
	CategoryEndurance: 1.9,
	CategoryStrength:  1.7,
	CategoryTeam:      1.8,
	CategorySkill:     1.6,
	CategoryCombat:    1.8,
}

// PAL returns the activity multiplier for c. defaulted is true when c has no
// table entry and DefaultPAL was returned.
func PAL(c SportsCategory) (pal float64, defaulted bool) {
	if v, ok := categoryPAL[c]; ok {
		return v, false
	}
	return DefaultPAL, true
}

// SportsCategories lists every enum member in display order, CategoryOther last.
func SportsCategories() []SportsCategory {
	return []SportsCategory{
		CategoryEndurance,
		CategoryStrength,
		CategoryTeam,
		CategorySkill,
		CategoryCombat,
		CategoryOther,
	}
}

/* ─── Pipeline stages ────────────────────────────────────────────────── */

// EstimateBMR computes basal metabolic rate (kcal/day) with Mifflin-St Jeor.
// Inputs are not range-checked.
func EstimateBMR(weightKG, heightCM float64, age int, sex Sex) float64 {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if sex == SexMale {
		return bmr + 5
	}
	return bmr - 161
}

// EstimateTDEE scales bmr by the category PAL, boosted by EliteMultiplier for
// professionals.
//
// age is part of the signature so age-adjusted activity factors can be added
// without breaking callers. It does not affect the result today.
func EstimateTDEE(bmr float64, category SportsCategory, age int, isProfessional bool) float64 {
	pal, _ := PAL(category)
	if isProfessional {
		pal *= EliteMultiplier
	}
	return bmr * pal
}

// AdjustForGoal applies the goal offset to tdee. Unknown goals are treated as
// GoalMaintain.
func AdjustForGoal(tdee float64, goal Goal) float64 {
	switch goal {
	case GoalWeightLoss:
		return tdee - GoalOffsetKcal
	case GoalMuscleGain:
		return tdee + GoalOffsetKcal
	}
	return tdee
}

// Macros holds daily macronutrient targets in grams.
type Macros struct {
	CarbsGrams   float64 `json:"carbs_g"`
	ProteinGrams float64 `json:"protein_g"`
	FatGrams     float64 `json:"fat_g"`
}

// AllocateMacros derives gram targets. Carbs and protein are anchored to body
// weight; fat is 25% of calories. The three are not reconciled against
// calories, so their energy sum can differ from it.
func AllocateMacros(weightKG, calories float64) Macros {
	return Macros{
		CarbsGrams:   weightKG * CarbsGramsPerKG,
		ProteinGrams: weightKG * ProteinGramsPerKG,
		FatGrams:     calories * FatCalorieShare / KcalPerGramFat,
	}
}
