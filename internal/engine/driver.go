package engine

import (
	"log/slog"
	"sort"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// elitePoolSize bounds the number of configurations retained across
// restarts for a group.
const elitePoolSize = 3

// GroupParams bundles every knob for one group's restart loop.
type GroupParams struct {
	Restarts int
	Anneal   AnnealParams
	RandInit RandomInitParams
	Compress CompressParams

	RefineSweeps int
	PolishSweeps int
}

// DefaultGroupParams returns the production restart configuration.
func DefaultGroupParams() GroupParams {
	return GroupParams{
		Restarts:     80,
		Anneal:       DefaultAnnealParams(),
		RandInit:     DefaultRandomInitParams(),
		Compress:     DefaultCompressParams(),
		RefineSweeps: 300,
		PolishSweeps: 150,
	}
}

// eliteEntry is one retained configuration keyed by its side length.
type eliteEntry struct {
	side   float64
	layout *model.Layout
}

// RunGroup drives the restart loop for one group. Round 0 starts from
// the base layout; later rounds reuse an elite pool member or perturb
// the pool best, and the first RandInit.Inits rounds of small groups
// swap in a fresh random placement when one can be generated. Each
// start is optionally compressed, then annealed, refined, and polished,
// and the result enters the score-sorted elite pool. The returned
// layout is never worse than the base by side, because the base seeds
// both the pool and the running best.
func RunGroup(base *model.Layout, p GroupParams, seedBase int64, logger *slog.Logger) *model.Layout {
	if logger == nil {
		logger = slog.Default()
	}
	n := int64(base.N())

	best := base.Clone()
	bestSide := best.Side()
	pool := []eliteEntry{{side: bestSide, layout: base.Clone()}}

	for r := 0; r < p.Restarts; r++ {
		round := int64(r)
		var start *model.Layout
		useRandom := p.RandInit.Inits > 0 && base.N() <= p.RandInit.MaxN && r < p.RandInit.Inits
		switch {
		case useRandom:
			baseSide := base.Side()
			if baseSide < 0.1 {
				baseSide = 0.1
			}
			if cand, ok := RandomInit(base.N(), baseSide, p.RandInit, seedBase+777+round*1337+n); ok {
				start = cand
			} else {
				logger.Debug("random init exhausted, falling back to base",
					slog.Int("n", base.N()), slog.Int("round", r))
				start = base.Clone()
			}
		case r == 0:
			start = base.Clone()
		case r < len(pool):
			start = pool[r%len(pool)].layout.Clone()
		default:
			strength := 0.1 + 0.05*float64(r%3)
			start = Perturb(pool[0].layout, strength, seedBase+42+round*1000+n)
		}

		if p.Compress.Steps > 0 && p.Compress.Factor < 1.0 {
			start = Compress(start, p.Compress, seedBase+9999+round*17+n)
		}

		out, _ := Anneal(start, p.Anneal, seedBase+42+round*1000+n)
		Refine(out, p.RefineSweeps)
		PolishFractional(out, p.PolishSweeps)

		side := out.Side()
		pool = append(pool, eliteEntry{side: side, layout: out})
		sort.SliceStable(pool, func(a, b int) bool { return pool[a].side < pool[b].side })
		if len(pool) > elitePoolSize {
			pool = pool[:elitePoolSize]
		}
		if side < bestSide {
			bestSide = side
			best = out
		}
	}
	return best
}
