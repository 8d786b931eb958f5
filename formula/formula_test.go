package formula

import (
	"math"
	"testing"
)

// approxEqual compares floats with a tolerance; PAL products such as 1.9*1.15
// are not exactly representable.
func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

/* ─── BMR ────────────────────────────────────────────────────────────── */

func TestEstimateBMR(t *testing.T) {
	cases := []struct {
		name   string
		weight float64
		height float64
		age    int
		sex    Sex
		want   float64
	}{
		{"male", 70, 175, 25, SexMale, 1673.75},
		{"female", 60, 160, 30, SexFemale, 1289},
		// Unrecognised values silently take the female constant.
		{"unknown sex uses female constant", 70, 175, 25, Sex("x"), 1507.75},
		{"capitalised male is not male", 70, 175, 25, Sex("Male"), 1507.75},
		{"empty sex", 70, 175, 25, Sex(""), 1507.75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateBMR(tc.weight, tc.height, tc.age, tc.sex)
			if !approxEqual(got, tc.want, 1e-9) {
				t.Errorf("EstimateBMR(%v, %v, %d, %q) = %v, want %v", tc.weight, tc.height, tc.age, tc.sex, got, tc.want)
			}
		})
	}
}

// TestEstimateBMR_MaleFemaleGap verifies the constants differ by exactly 166
// for any body metrics.
func TestEstimateBMR_MaleFemaleGap(t *testing.T) {
	for _, w := range []float64{45, 82.5, 130} {
		male := EstimateBMR(w, 180, 40, SexMale)
		female := EstimateBMR(w, 180, 40, SexFemale)
		if !approxEqual(male-female, 166, 1e-9) {
			t.Errorf("weight %v: male-female = %v, want 166", w, male-female)
		}
	}
}

func TestEstimateBMR_NoClamping(t *testing.T) {
	got := EstimateBMR(0, 0, 0, SexFemale)
	if got != -161 {
		t.Errorf("EstimateBMR(0,0,0,female) = %v, want -161", got)
	}
	if !math.IsNaN(EstimateBMR(math.NaN(), 170, 30, SexMale)) {
		t.Error("expected NaN weight to propagate")
	}
}

/* ─── TDEE ───────────────────────────────────────────────────────────── */

func TestEstimateTDEE_CategoryTable(t *testing.T) {
	const bmr = 1500.0
	cases := []struct {
		category SportsCategory
		pal      float64
	}{
		{CategoryEndurance, 1.9},
		{CategoryStrength, 1.7},
		{CategoryTeam, 1.8},
		{CategorySkill, 1.6},
		{CategoryCombat, 1.8},
		{CategoryOther, 1.5},
		{SportsCategory("unknown_category"), 1.5},
		{SportsCategory(""), 1.5},
	}

	for _, tc := range cases {
		t.Run(string(tc.category), func(t *testing.T) {
			got := EstimateTDEE(bmr, tc.category, 30, false)
			if !approxEqual(got, bmr*tc.pal, 1e-9) {
				t.Errorf("EstimateTDEE(%v, %q) = %v, want %v", bmr, tc.category, got, bmr*tc.pal)
			}
		})
	}
}

func TestEstimateTDEE_Professional(t *testing.T) {
	const bmr = 1289.0
	got := EstimateTDEE(bmr, CategoryEndurance, 30, true)
	want := bmr * 1.9 * 1.15
	if !approxEqual(got, want, 1e-9) {
		t.Errorf("pro endurance TDEE = %v, want %v", got, want)
	}

	// The elite boost also applies on top of the default PAL.
	got = EstimateTDEE(bmr, SportsCategory("curling"), 30, true)
	want = bmr * 1.5 * 1.15
	if !approxEqual(got, want, 1e-9) {
		t.Errorf("pro unknown-category TDEE = %v, want %v", got, want)
	}
}

// TestEstimateTDEE_AgeInert verifies age does not change the result.
func TestEstimateTDEE_AgeInert(t *testing.T) {
	base := EstimateTDEE(1700, CategoryTeam, 18, false)
	for _, age := range []int{0, 25, 60, 99} {
		if got := EstimateTDEE(1700, CategoryTeam, age, false); got != base {
			t.Errorf("age %d: TDEE = %v, want %v", age, got, base)
		}
	}
}

func TestPAL(t *testing.T) {
	pal, defaulted := PAL(CategorySkill)
	if pal != 1.6 || defaulted {
		t.Errorf("PAL(skill) = %v, %v; want 1.6, false", pal, defaulted)
	}
	pal, defaulted = PAL(CategoryOther)
	if pal != DefaultPAL || !defaulted {
		t.Errorf("PAL(other) = %v, %v; want %v, true", pal, defaulted, DefaultPAL)
	}
}

/* ─── Goal ───────────────────────────────────────────────────────────── */

// TestAdjustForGoal pins the flat 300 kcal offset.
func TestAdjustForGoal(t *testing.T) {
	const tdee = 2500.0
	cases := []struct {
		goal Goal
		want float64
	}{
		{GoalWeightLoss, 2200},
		{GoalMuscleGain, 2800},
		{GoalMaintain, 2500},
		{Goal("anything_else"), 2500},
		{Goal(""), 2500},
	}

	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			if got := AdjustForGoal(tdee, tc.goal); got != tc.want {
				t.Errorf("AdjustForGoal(%v, %q) = %v, want %v", tdee, tc.goal, got, tc.want)
			}
		})
	}
}

/* ─── Macros ─────────────────────────────────────────────────────────── */

func TestAllocateMacros(t *testing.T) {
	cases := []struct {
		weight, calories    float64
		carbs, protein, fat float64
	}{
		{70, 3145.375, 350, 126, 3145.375 * 0.25 / 9},
		{60, 2000, 300, 108, 2000 * 0.25 / 9},
		{0, 0, 0, 0, 0},
	}

	for _, tc := range cases {
		got := AllocateMacros(tc.weight, tc.calories)
		if !approxEqual(got.CarbsGrams, tc.carbs, 1e-9) ||
			!approxEqual(got.ProteinGrams, tc.protein, 1e-9) ||
			!approxEqual(got.FatGrams, tc.fat, 1e-9) {
			t.Errorf("AllocateMacros(%v, %v) = %+v, want carbs %v protein %v fat %v",
				tc.weight, tc.calories, got, tc.carbs, tc.protein, tc.fat)
		}
	}
}

// TestAllocateMacros_IndependentAnchors verifies carbs and protein ignore the
// calorie figure while fat ignores body weight.
func TestAllocateMacros_IndependentAnchors(t *testing.T) {
	low := AllocateMacros(80, 1500)
	high := AllocateMacros(80, 4000)
	if low.CarbsGrams != high.CarbsGrams || low.ProteinGrams != high.ProteinGrams {
		t.Errorf("carbs/protein moved with calories: %+v vs %+v", low, high)
	}

	light := AllocateMacros(50, 2500)
	heavy := AllocateMacros(110, 2500)
	if light.FatGrams != heavy.FatGrams {
		t.Errorf("fat moved with weight: %v vs %v", light.FatGrams, heavy.FatGrams)
	}
}

// TestAllocateMacros_NotReconciled documents that the macro energy sum is not
// forced to equal the calorie target.
func TestAllocateMacros_NotReconciled(t *testing.T) {
	m := AllocateMacros(70, 2000)
	kcal := m.CarbsGrams*4 + m.ProteinGrams*4 + m.FatGrams*9
	if approxEqual(kcal, 2000, 1) {
		t.Errorf("macro energy %v unexpectedly matches the 2000 kcal target", kcal)
	}
}

/* ─── Enums ──────────────────────────────────────────────────────────── */

func TestParse(t *testing.T) {
	if got := ParseSex("  Male "); got != SexMale {
		t.Errorf("ParseSex = %q, want male", got)
	}
	if got := ParseSportsCategory("ENDURANCE"); got != CategoryEndurance {
		t.Errorf("ParseSportsCategory = %q, want endurance", got)
	}
	if got := ParseGoal("Weight_Loss"); got != GoalWeightLoss {
		t.Errorf("ParseGoal = %q, want weight_loss", got)
	}
	if ParseGoal("bulk").Valid() {
		t.Error("expected unknown goal to be invalid")
	}
}

func TestSportsCategories(t *testing.T) {
	cats := SportsCategories()
	if len(cats) != 6 || cats[len(cats)-1] != CategoryOther {
		t.Fatalf("SportsCategories() = %v", cats)
	}
	for _, c := range cats {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
}
