package main

import "github.com/spf13/cobra"

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "macro-calc",
		Short: "Daily calorie and macro targets for athletes",
		Long: `macro-calc estimates basal metabolic rate (Mifflin-St Jeor), total daily
energy expenditure from a sports-category activity level, a goal-adjusted
calorie target, and carbohydrate/protein/fat grams.

Examples:
  macro-calc estimate --weight 70 --height 175 --age 25 --sex male --category strength --goal muscle_gain
  macro-calc estimate --profile athlete.yaml --pro
  macro-calc categories`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEstimateCmd(), newCategoriesCmd())
	return root
}
