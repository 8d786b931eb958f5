// CLI tool to compute daily calorie and macro targets for an athlete.
// Usage: go run ./cmd/macro-calc estimate --weight 70 --height 175 --age 25 --sex male --category strength --goal muscle_gain
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
