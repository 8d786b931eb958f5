package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lg/athlete-macro-api/formula"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List sports categories and their activity levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			faint := color.New(color.Faint)

			color.New(color.Bold).Fprintf(w, "%-12s %s\n", "CATEGORY", "PAL")
			for _, c := range formula.SportsCategories() {
				pal, defaulted := formula.PAL(c)
				note := ""
				if defaulted {
					note = faint.Sprint("  (default)")
				}
				fmt.Fprintf(w, "%-12s %.2f%s\n", c, pal, note)
			}
			fmt.Fprintf(w, "\nProfessional athletes: PAL × %.2f\n", formula.EliteMultiplier)
			return nil
		},
	}
}
