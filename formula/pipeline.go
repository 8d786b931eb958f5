package formula

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProfile is wrapped by every error returned from Profile.Validate.
var ErrInvalidProfile = errors.New("invalid profile")

// Upper bounds accepted by Profile.Validate. They keep every figure Compute
// derives finite and well inside the int range used by Targets.
const (
	MaxWeightKG = 500.0
	MaxHeightCM = 300.0
	MaxAge      = 150
)

// Profile is everything the pipeline needs about one athlete.
type Profile struct {
	WeightKG       float64        `json:"weight" yaml:"weight"`
	HeightCM       float64        `json:"height" yaml:"height"`
	Age            int            `json:"age" yaml:"age"`
	Sex            Sex            `json:"sex" yaml:"sex"`
	SportsCategory SportsCategory `json:"sports_category" yaml:"sports_category"`
	IsProfessional bool           `json:"is_pro" yaml:"is_pro"`
	Goal           Goal           `json:"goal" yaml:"goal"`
}

// Validate rejects profiles a caller should never hand to Compute: missing,
// non-finite or out-of-range body metrics and enum values outside their sets. Compute itself
// does not call it.
func (p Profile) Validate() error {
	if math.IsNaN(p.WeightKG) || p.WeightKG <= 0 || p.WeightKG > MaxWeightKG {
		return fmt.Errorf("%w: weight must be between 0 and %g kg", ErrInvalidProfile, MaxWeightKG)
	}
	if math.IsNaN(p.HeightCM) || p.HeightCM <= 0 || p.HeightCM > MaxHeightCM {
		return fmt.Errorf("%w: height must be between 0 and %g cm", ErrInvalidProfile, MaxHeightCM)
	}
	if p.Age <= 0 || p.Age > MaxAge {
		return fmt.Errorf("%w: age must be between 1 and %d", ErrInvalidProfile, MaxAge)
	}
	if !p.Sex.Valid() {
		return fmt.Errorf("%w: sex must be one of: male, female", ErrInvalidProfile)
	}
	if !p.SportsCategory.Valid() {
		return fmt.Errorf("%w: sports_category must be one of: endurance, strength, team, skill, combat, other", ErrInvalidProfile)
	}
	if !p.Goal.Valid() {
		return fmt.Errorf("%w: goal must be one of: maintain, weight_loss, muscle_gain", ErrInvalidProfile)
	}
	return nil
}

// Energy is the energy side of an estimate, in kcal/day.
type Energy struct {
	BMR              float64 `json:"bmr"`
	TDEE             float64 `json:"tdee"`
	AdjustedCalories float64 `json:"adjusted_calories"`
}

// Fallbacks records which inputs took a default branch during Compute.
type Fallbacks struct {
	Sex            bool `json:"sex"`
	SportsCategory bool `json:"sports_category"`
	Goal           bool `json:"goal"`
}

// Any reports whether at least one default branch was taken.
func (f Fallbacks) Any() bool {
	return f.Sex || f.SportsCategory || f.Goal
}

// Estimate is the full pipeline output for one profile.
type Estimate struct {
	Profile   Profile   `json:"profile"`
	Energy    Energy    `json:"energy"`
	Macros    Macros    `json:"macros"`
	Fallbacks Fallbacks `json:"fallbacks"`
}

// Compute runs BMR → TDEE → goal adjustment → macros for p.
func Compute(p Profile) Estimate {
	bmr := EstimateBMR(p.WeightKG, p.HeightCM, p.Age, p.Sex)
	tdee := EstimateTDEE(bmr, p.SportsCategory, p.Age, p.IsProfessional)
	calories := AdjustForGoal(tdee, p.Goal)
	macros := AllocateMacros(p.WeightKG, calories)

	_, palDefaulted := PAL(p.SportsCategory)
	return Estimate{
		Profile: p,
		Energy: Energy{
			BMR:              bmr,
			TDEE:             tdee,
			AdjustedCalories: calories,
		},
		Macros: macros,
		Fallbacks: Fallbacks{
			Sex:            !p.Sex.Valid(),
			SportsCategory: palDefaulted,
			Goal:           !p.Goal.Valid(),
		},
	}
}

// Targets are the whole-number daily figures stored with a profile.
type Targets struct {
	Calories int `json:"calories"`
	CarbsG   int `json:"carbs"`
	ProteinG int `json:"protein"`
	FatG     int `json:"fat"`
}

// Targets rounds the estimate to the nearest integer.
func (e Estimate) Targets() Targets {
	return Targets{
		Calories: int(math.Round(e.Energy.AdjustedCalories)),
		CarbsG:   int(math.Round(e.Macros.CarbsGrams)),
		ProteinG: int(math.Round(e.Macros.ProteinGrams)),
		FatG:     int(math.Round(e.Macros.FatGrams)),
	}
}
