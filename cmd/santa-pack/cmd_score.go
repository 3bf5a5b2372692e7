package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zdanovic/kaggle.santa-2025/internal/analysis"
	"github.com/zdanovic/kaggle.santa-2025/internal/submission"
)

var scoreWorst int

var scoreCmd = &cobra.Command{
	Use:   "score <submission.csv>",
	Short: "Validate a submission and print its score breakdown",
	Long: `Loads a submission, checks every group for overlapping trees and
prints the aggregate score statistics. Exits non-zero when any group
contains an overlap, so it doubles as a pre-upload gate.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().IntVarP(&scoreWorst, "worst", "w", 10,
		"number of worst-scoring groups to list")
}

func runScore(cmd *cobra.Command, args []string) error {
	solutions, err := submission.Load(args[0])
	if err != nil {
		return err
	}

	overlapping := 0
	for n, l := range solutions {
		if l.AnyOverlap() {
			fmt.Fprintf(os.Stderr, "group %d contains overlapping trees\n", n)
			overlapping++
		}
	}

	s := analysis.Summarize(solutions)
	fmt.Printf("groups:   %d\n", len(s.Groups))
	fmt.Printf("total:    %.9f\n", s.Total)
	fmt.Printf("mean:     %.9f\n", s.Mean)
	fmt.Printf("stddev:   %.9f\n", s.StdDev)
	fmt.Printf("median:   %.9f\n", s.Median)
	fmt.Printf("worst:    n=%d score=%.9f\n", s.Worst.N, s.Worst.Score)

	if scoreWorst > 0 {
		fmt.Printf("\nworst %d groups:\n", scoreWorst)
		for _, g := range analysis.WorstGroups(solutions, scoreWorst) {
			fmt.Printf("  n=%-4d side=%.9f score=%.9f\n", g.N, g.Side, g.Score)
		}
	}

	if overlapping > 0 {
		return fmt.Errorf("%d group(s) contain overlaps", overlapping)
	}
	return nil
}
