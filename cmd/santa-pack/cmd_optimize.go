package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zdanovic/kaggle.santa-2025/internal/config"
	"github.com/zdanovic/kaggle.santa-2025/internal/engine"
	"github.com/zdanovic/kaggle.santa-2025/internal/export"
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
	"github.com/zdanovic/kaggle.santa-2025/internal/submission"
)

var (
	optimizeInput       string
	optimizeOutput      string
	optimizeConfig      string
	optimizeCheckpoints string

	optimizeIterations  int
	optimizeRestarts    int
	optimizeGenerations int
	optimizeMinN        int
	optimizeMaxN        int
	optimizeSeed        int64
	optimizeWorkers     int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Improve a submission with annealing restarts and refinement",
	Long: `Loads a baseline submission, runs the generational optimizer over
the selected group sizes and writes the improved submission.

Parameters come from the built-in defaults, overridden by --config,
overridden by explicit flags. With --checkpoint-dir set, every new
global best is written out immediately, so an interrupted run still
leaves its best result on disk.

Examples:
  santa-pack optimize -i baseline.csv -o improved.csv
  santa-pack optimize -i baseline.csv -o out.csv --min-n 1 --max-n 20
  santa-pack optimize -i baseline.csv -o out.csv --config run.yaml`,
	RunE: runOptimize,
}

func init() {
	f := optimizeCmd.Flags()
	f.StringVarP(&optimizeInput, "input", "i", "", "baseline submission CSV (required)")
	f.StringVarP(&optimizeOutput, "output", "o", "", "output submission CSV (required)")
	f.StringVarP(&optimizeConfig, "config", "c", "", "YAML run configuration")
	f.StringVar(&optimizeCheckpoints, "checkpoint-dir", "", "directory for best-so-far snapshots")
	f.IntVar(&optimizeIterations, "iterations", 0, "annealing iterations per restart")
	f.IntVar(&optimizeRestarts, "restarts", 0, "annealing restarts per group")
	f.IntVar(&optimizeGenerations, "generations", 0, "generational passes over all groups")
	f.IntVar(&optimizeMinN, "min-n", 0, "smallest group size to optimize")
	f.IntVar(&optimizeMaxN, "max-n", 0, "largest group size to optimize")
	f.Int64Var(&optimizeSeed, "seed", 0, "seed base for deterministic runs")
	f.IntVar(&optimizeWorkers, "workers", 0, "parallel group workers (0 = all CPUs)")

	optimizeCmd.MarkFlagRequired("input")
	optimizeCmd.MarkFlagRequired("output")
}

// loadRunConfig layers explicit flags over the config file over the
// defaults. A flag left at its zero value does not override.
func loadRunConfig(cmd *cobra.Command) (config.Run, error) {
	cfg := config.Default()
	if optimizeConfig != "" {
		var err error
		cfg, err = config.LoadFile(optimizeConfig)
		if err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = optimizeIterations
	}
	if cmd.Flags().Changed("restarts") {
		cfg.Restarts = optimizeRestarts
	}
	if cmd.Flags().Changed("generations") {
		cfg.Generations = optimizeGenerations
	}
	if cmd.Flags().Changed("min-n") {
		cfg.MinN = optimizeMinN
	}
	if cmd.Flags().Changed("max-n") {
		cfg.MaxN = optimizeMaxN
	}
	if cmd.Flags().Changed("seed") {
		cfg.SeedBase = optimizeSeed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = optimizeWorkers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	solutions, err := submission.Load(optimizeInput)
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	info := export.NewRunInfo(cfg.SeedBase)
	slog.Info("baseline loaded",
		slog.String("run_id", info.ID),
		slog.String("path", optimizeInput),
		slog.Int("groups", len(solutions)),
		slog.Float64("total_score", engine.TotalScore(solutions)))

	// Ctrl-C cancels the run; the checkpoint file keeps the best found.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := engine.Scheduler{
		Params: cfg.SchedulerParams(),
		Logger: slog.Default(),
	}
	if optimizeCheckpoints != "" {
		if err := os.MkdirAll(optimizeCheckpoints, 0o755); err != nil {
			return fmt.Errorf("checkpoint dir: %w", err)
		}
		sched.Checkpoint = func(solutions map[int]*model.Layout, total float64) error {
			path := filepath.Join(optimizeCheckpoints,
				fmt.Sprintf("submission_%s_%.6f.csv", info.ID, total))
			return submission.Save(path, solutions)
		}
	}

	solutions, runErr := sched.Run(ctx, solutions)
	if runErr != nil {
		slog.Warn("run stopped early", slog.String("reason", runErr.Error()))
	}

	if err := submission.Save(optimizeOutput, solutions); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	slog.Info("submission written",
		slog.String("path", optimizeOutput),
		slog.Float64("total_score", engine.TotalScore(solutions)))
	return runErr
}
