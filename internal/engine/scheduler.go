package engine

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// Tolerances for accepting improvements; anything closer than these is
// treated as numeric noise burning churn for nothing.
const (
	groupAcceptEps  = 1e-9
	globalAcceptEps = 1e-8
)

// SchedulerParams holds the generational loop configuration.
type SchedulerParams struct {
	MinN, MaxN  int
	Generations int
	MaxStall    int // generations without global improvement before stopping
	Workers     int // parallel group workers; <=0 means GOMAXPROCS
	SeedBase    int64
	Group       GroupParams
	FinalPolish int // sweeps of fractional polish applied to each candidate
}

// DefaultSchedulerParams returns the production generational loop.
func DefaultSchedulerParams() SchedulerParams {
	return SchedulerParams{
		MinN:        1,
		MaxN:        model.MaxTrees,
		Generations: 3,
		MaxStall:    10,
		Workers:     0,
		SeedBase:    0,
		Group:       DefaultGroupParams(),
		FinalPolish: 120,
	}
}

// CheckpointFunc is called with the accepted solution set and its total
// score whenever a generation produces a new global best.
type CheckpointFunc func(solutions map[int]*model.Layout, total float64) error

// Scheduler runs the generational loop over all groups.
type Scheduler struct {
	Params     SchedulerParams
	Logger     *slog.Logger
	Checkpoint CheckpointFunc
}

// TotalScore sums the score of every group in the set.
func TotalScore(solutions map[int]*model.Layout) float64 {
	var total float64
	for _, l := range solutions {
		total += l.Score()
	}
	return total
}

// tunedGroupParams scales the per-group budget by group size: small
// groups are cheap per iteration and reward deeper search, the largest
// groups get trimmed to keep the generation wall-clock balanced.
func (s *Scheduler) tunedGroupParams(n int) GroupParams {
	p := s.Params.Group
	switch {
	case n <= 20:
		if p.Restarts < 6 {
			p.Restarts = 6
		}
		p.Anneal.Iterations = p.Anneal.Iterations * 3 / 2
	case n <= 50:
		if p.Restarts < 5 {
			p.Restarts = 5
		}
		p.Anneal.Iterations = p.Anneal.Iterations * 13 / 10
	case n > 150:
		if p.Restarts < 4 {
			p.Restarts = 4
		}
		p.Anneal.Iterations = p.Anneal.Iterations * 8 / 10
	}
	return p
}

// Run executes up to Generations rounds. Each round runs the restart
// driver for every active group in parallel, with no shared mutable
// state across groups; candidates are collected into a preallocated
// table and merged after the errgroup barrier. A candidate replaces the
// accepted solution for its group only on strict score improvement and
// only when it re-validates overlap-free; the running total gates
// checkpointing and stall tracking. The input map is mutated to hold
// the accepted solutions and is also returned.
func (s *Scheduler) Run(ctx context.Context, solutions map[int]*model.Layout) (map[int]*model.Layout, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	globalBest := TotalScore(solutions)
	logger.Info("scheduler starting",
		slog.Float64("total_score", globalBest),
		slog.Int("min_n", s.Params.MinN),
		slog.Int("max_n", s.Params.MaxN),
		slog.Int("generations", s.Params.Generations))

	stall := 0
	for gen := 1; gen <= s.Params.Generations; gen++ {
		candidates := make([]*model.Layout, model.MaxTrees+1)

		g, _ := errgroup.WithContext(ctx)
		if s.Params.Workers > 0 {
			g.SetLimit(s.Params.Workers)
		}
		for n := s.Params.MinN; n <= s.Params.MaxN; n++ {
			base, ok := solutions[n]
			if !ok {
				continue
			}
			n := n
			base = base.Clone()
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				p := s.tunedGroupParams(n)
				cand := RunGroup(base, p, s.Params.SeedBase, logger)
				PolishFractional(cand, s.Params.FinalPolish)
				candidates[n] = cand
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return solutions, err
		}

		improvedGroups := 0
		for n := s.Params.MinN; n <= s.Params.MaxN; n++ {
			cand := candidates[n]
			if cand == nil {
				continue
			}
			old := solutions[n]
			if cand.Score() >= old.Score()-groupAcceptEps {
				continue
			}
			if cand.AnyOverlap() {
				// Last-resort safety net on top of the per-move checks.
				logger.Warn("rejecting candidate with residual overlap",
					slog.Int("n", n), slog.Float64("score", cand.Score()))
				continue
			}
			logger.Info("group improved",
				slog.Int("n", n),
				slog.Float64("old_score", old.Score()),
				slog.Float64("new_score", cand.Score()))
			solutions[n] = cand
			improvedGroups++
		}

		total := TotalScore(solutions)
		if total < globalBest-globalAcceptEps {
			globalBest = total
			stall = 0
			logger.Info("new global best",
				slog.Int("generation", gen),
				slog.Int("groups_improved", improvedGroups),
				slog.Float64("total_score", total))
			if s.Checkpoint != nil {
				if err := s.Checkpoint(solutions, total); err != nil {
					return solutions, err
				}
			}
		} else {
			stall++
			logger.Info("generation finished without global improvement",
				slog.Int("generation", gen),
				slog.Float64("total_score", total),
				slog.Int("stall", stall))
			if stall > s.Params.MaxStall {
				break
			}
		}
	}
	return solutions, nil
}
