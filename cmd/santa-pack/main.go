// santa-pack optimizes tree packings for group sizes 1..200 and reads
// and writes them in the competition submission format.
//
// Build:
//
//	go build -o santa-pack ./cmd/santa-pack
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "santa-pack",
	Short: "Packing optimizer for the tree arrangement puzzle",
	Long: `santa-pack packs 1..200 concave tree polygons into the smallest
possible axis-aligned square bounding box per group, using simulated
annealing with restarts followed by coordinate-descent refinement.

Layouts are exchanged as submission CSV files (id,x,y,deg with
s-prefixed values).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
