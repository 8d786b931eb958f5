package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lg/athlete-macro-api/formula"
)

type estimateOptions struct {
	profilePath string
	weight      float64
	height      float64
	age         int
	sex         string
	category    string
	goal        string
	pro         bool
	asJSON      bool
}

func newEstimateCmd() *cobra.Command {
	var opts estimateOptions

	cmd := &cobra.Command{
		Use:     "estimate",
		Aliases: []string{"e"},
		Short:   "Compute BMR, TDEE, calorie target and macros",
		Long: `Compute daily energy and macro targets for one athlete.

Values come from --profile (a YAML file) and/or flags; flags win.
Sex is male or female; category is one of endurance, strength, team, skill,
combat, other; goal is one of maintain, weight_loss, muscle_gain.

Example profile file:
  weight: 60
  height: 160
  age: 30
  sex: female
  sports_category: endurance
  is_pro: true
  goal: weight_loss`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProfile(cmd, opts)
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}

			e := formula.Compute(p)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			printEstimate(cmd.OutOrStdout(), e)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.profilePath, "profile", "f", "", "YAML profile file")
	f.Float64VarP(&opts.weight, "weight", "w", 0, "body weight in kg")
	f.Float64Var(&opts.height, "height", 0, "height in cm")
	f.IntVarP(&opts.age, "age", "a", 0, "age in years")
	f.StringVarP(&opts.sex, "sex", "s", "", "male or female")
	f.StringVarP(&opts.category, "category", "c", "", "sports category")
	f.StringVarP(&opts.goal, "goal", "g", string(formula.GoalMaintain), "maintain, weight_loss or muscle_gain")
	f.BoolVar(&opts.pro, "pro", false, "professional / elite athlete")
	f.BoolVar(&opts.asJSON, "json", false, "print the estimate as JSON")

	return cmd
}

// resolveProfile layers explicitly set flags over the optional profile file.
// Enum values are normalised so "Male" and "ENDURANCE" are accepted.
func resolveProfile(cmd *cobra.Command, opts estimateOptions) (formula.Profile, error) {
	var p formula.Profile
	if opts.profilePath != "" {
		loaded, err := loadProfileFile(opts.profilePath)
		if err != nil {
			return formula.Profile{}, err
		}
		p = loaded
	} else {
		p.Goal = formula.Goal(opts.goal)
	}

	flags := cmd.Flags()
	if flags.Changed("weight") {
		p.WeightKG = opts.weight
	}
	if flags.Changed("height") {
		p.HeightCM = opts.height
	}
	if flags.Changed("age") {
		p.Age = opts.age
	}
	if flags.Changed("sex") {
		p.Sex = formula.Sex(opts.sex)
	}
	if flags.Changed("category") {
		p.SportsCategory = formula.SportsCategory(opts.category)
	}
	if flags.Changed("goal") {
		p.Goal = formula.Goal(opts.goal)
	}
	if flags.Changed("pro") {
		p.IsProfessional = opts.pro
	}

	p.Sex = formula.ParseSex(string(p.Sex))
	p.SportsCategory = formula.ParseSportsCategory(string(p.SportsCategory))
	p.Goal = formula.ParseGoal(string(p.Goal))
	return p, nil
}

// loadProfileFile reads a YAML profile. A missing goal means maintain.
func loadProfileFile(path string) (formula.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return formula.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var p formula.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return formula.Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.Goal == "" {
		p.Goal = formula.GoalMaintain
	}
	return p, nil
}

func writeJSON(w io.Writer, e formula.Estimate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		formula.Estimate
		Targets formula.Targets `json:"targets"`
	}{e, e.Targets()})
}

func printEstimate(w io.Writer, e formula.Estimate) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	warn := color.New(color.FgYellow)

	p := e.Profile
	pal, _ := formula.PAL(p.SportsCategory)
	if p.IsProfessional {
		pal *= formula.EliteMultiplier
	}

	bold.Fprintln(w, "Energy")
	fmt.Fprintf(w, "  BMR       %8.2f kcal\n", e.Energy.BMR)
	fmt.Fprintf(w, "  TDEE      %8.2f kcal  %s\n", e.Energy.TDEE, faint.Sprintf("(PAL %.3f)", pal))
	fmt.Fprintf(w, "  Target    %8.2f kcal  %s\n", e.Energy.AdjustedCalories, faint.Sprintf("(%s)", p.Goal))

	bold.Fprintln(w, "Macros")
	fmt.Fprintf(w, "  Carbs     %8.2f g\n", e.Macros.CarbsGrams)
	fmt.Fprintf(w, "  Protein   %8.2f g\n", e.Macros.ProteinGrams)
	fmt.Fprintf(w, "  Fat       %8.2f g\n", e.Macros.FatGrams)

	t := e.Targets()
	color.New(color.FgGreen).Fprintf(w, "✓ Daily targets: %d kcal, %dg carbs, %dg protein, %dg fat\n",
		t.Calories, t.CarbsG, t.ProteinG, t.FatG)

	if e.Fallbacks.SportsCategory {
		warn.Fprintf(w, "! category %q has no activity level, used default PAL %.1f\n", p.SportsCategory, formula.DefaultPAL)
	}
	if e.Fallbacks.Sex {
		warn.Fprintf(w, "! sex %q not recognised, used female constant\n", p.Sex)
	}
	if e.Fallbacks.Goal {
		warn.Fprintf(w, "! goal %q not recognised, no calorie adjustment\n", p.Goal)
	}
}
