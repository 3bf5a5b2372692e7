// Package engine implements the stochastic search pipeline for one
// group: simulated annealing over tree poses, deterministic
// coordinate-descent refinement, start-state generators (perturbation,
// random placement, compression), the restart driver with its elite
// pool, and the generational scheduler that runs groups in parallel.
package engine

import (
	"math"
	"math/rand"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// AnnealParams holds the annealing schedule and move magnitudes.
type AnnealParams struct {
	Iterations int
	StartTemp  float64
	MinTemp    float64
	MoveScale  float64 // max translation per move at full temperature
	RotScale   float64 // max rotation per move at full temperature, degrees
}

// DefaultAnnealParams returns the schedule used for production runs.
func DefaultAnnealParams() AnnealParams {
	return AnnealParams{
		Iterations: 20000,
		StartTemp:  1.0,
		MinTemp:    0.000005,
		MoveScale:  0.25,
		RotScale:   70.0,
	}
}

// cornerEps is the tolerance for classifying a tree as touching the
// global bounding box.
const cornerEps = 0.01

// reheatThreshold is the no-improvement tick count that triggers a
// temperature reheat.
const reheatThreshold = 600

// Anneal runs simulated annealing on a copy of the layout and returns
// the best layout observed together with its side length. Within a run
// the tree count is fixed, so side rather than the full score is the
// objective. Eight move kinds are drawn uniformly; move magnitudes
// scale with the current temperature fraction. Moves that produce an
// overlap are reverted before acceptance is ever computed, and a
// Metropolis rejection resets the working state to the best layout so
// far rather than the previous state. That reset narrows exploration
// around the incumbent; it is intentional and results depend on it.
func Anneal(l *model.Layout, p AnnealParams, seed int64) (*model.Layout, float64) {
	rng := rand.New(rand.NewSource(seed))
	best := l.Clone()
	cur := l.Clone()
	bestSide := best.Side()
	curSide := bestSide
	n := cur.N()

	temp := p.StartTemp
	alpha := math.Pow(p.MinTemp/p.StartTemp, 1.0/float64(p.Iterations))

	noImp := 0
	cool := func() {
		noImp++
		temp *= alpha
		if temp < p.MinTemp {
			temp = p.MinTemp
		}
	}

	for it := 0; it < p.Iterations; it++ {
		kind := rng.Intn(8)
		sc := temp / p.StartTemp

		switch {
		case kind < 4:
			i := rng.Intn(n)
			old := cur.Poses[i]
			cx, cy := cur.Centroid()
			switch kind {
			case 0:
				cur.Poses[i].X += (rng.Float64() - 0.5) * 2 * p.MoveScale * sc
				cur.Poses[i].Y += (rng.Float64() - 0.5) * 2 * p.MoveScale * sc
			case 1:
				dx, dy := cx-cur.Poses[i].X, cy-cur.Poses[i].Y
				if d := math.Hypot(dx, dy); d > 1e-6 {
					st := rng.Float64() * p.MoveScale * sc
					cur.Poses[i].X += dx / d * st
					cur.Poses[i].Y += dy / d * st
				}
			case 2:
				cur.Poses[i].Deg = model.NormalizeDeg(cur.Poses[i].Deg + (rng.Float64()-0.5)*2*p.RotScale*sc)
			default:
				cur.Poses[i].X += (rng.Float64() - 0.5) * p.MoveScale * sc
				cur.Poses[i].Y += (rng.Float64() - 0.5) * p.MoveScale * sc
				cur.Poses[i].Deg = model.NormalizeDeg(cur.Poses[i].Deg + (rng.Float64()-0.5)*p.RotScale*sc)
			}
			cur.Update(i)
			if cur.HasOverlap(i) {
				cur.Poses[i] = old
				cur.Update(i)
				cool()
				continue
			}

		case kind == 4 && n > 1:
			i := rng.Intn(n)
			j := rng.Intn(n)
			for j == i {
				j = rng.Intn(n)
			}
			oi, oj := cur.Poses[i], cur.Poses[j]
			cur.Poses[i].X, cur.Poses[i].Y = oj.X, oj.Y
			cur.Poses[j].X, cur.Poses[j].Y = oi.X, oi.Y
			cur.Update(i)
			cur.Update(j)
			if cur.HasOverlapPair(i, j) {
				cur.Poses[i], cur.Poses[j] = oi, oj
				cur.Update(i)
				cur.Update(j)
				cool()
				continue
			}

		case kind == 5:
			i := rng.Intn(n)
			old := cur.Poses[i]
			gx0, gy0, gx1, gy1 := cur.BBox()
			dx := (gx0+gx1)/2 - cur.Poses[i].X
			dy := (gy0+gy1)/2 - cur.Poses[i].Y
			if d := math.Hypot(dx, dy); d > 1e-6 {
				st := rng.Float64() * p.MoveScale * sc * 0.5
				cur.Poses[i].X += dx / d * st
				cur.Poses[i].Y += dy / d * st
			}
			cur.Update(i)
			if cur.HasOverlap(i) {
				cur.Poses[i] = old
				cur.Update(i)
				cool()
				continue
			}

		case kind == 6:
			corners := cur.CornerTrees(cornerEps)
			if len(corners) == 0 {
				cool()
				continue
			}
			i := corners[rng.Intn(len(corners))]
			old := cur.Poses[i]
			gx0, gy0, gx1, gy1 := cur.BBox()
			dx := (gx0+gx1)/2 - cur.Poses[i].X
			dy := (gy0+gy1)/2 - cur.Poses[i].Y
			if d := math.Hypot(dx, dy); d > 1e-6 {
				st := rng.Float64() * p.MoveScale * sc * 0.3
				cur.Poses[i].X += dx / d * st
				cur.Poses[i].Y += dy / d * st
				cur.Poses[i].Deg = model.NormalizeDeg(cur.Poses[i].Deg + (rng.Float64()-0.5)*p.RotScale*sc*0.5)
			}
			cur.Update(i)
			if cur.HasOverlap(i) {
				cur.Poses[i] = old
				cur.Update(i)
				cool()
				continue
			}

		default:
			i := rng.Intn(n)
			j := (i + 1) % n
			oi, oj := cur.Poses[i], cur.Poses[j]
			dx := (rng.Float64() - 0.5) * p.MoveScale * sc * 0.5
			dy := (rng.Float64() - 0.5) * p.MoveScale * sc * 0.5
			cur.Poses[i].X += dx
			cur.Poses[i].Y += dy
			cur.Poses[j].X += dx
			cur.Poses[j].Y += dy
			cur.Update(i)
			cur.Update(j)
			if cur.HasOverlapPair(i, j) {
				cur.Poses[i], cur.Poses[j] = oi, oj
				cur.Update(i)
				cur.Update(j)
				cool()
				continue
			}
		}

		newSide := cur.Side()
		delta := newSide - curSide
		if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
			curSide = newSide
			if newSide < bestSide {
				bestSide = newSide
				best.CopyFrom(cur)
				noImp = 0
			} else {
				noImp++
			}
		} else {
			cur.CopyFrom(best)
			curSide = bestSide
			noImp++
		}

		if noImp > reheatThreshold {
			temp = math.Min(temp*3.0, p.StartTemp*0.7)
			noImp = 0
		}
		temp *= alpha
		if temp < p.MinTemp {
			temp = p.MinTemp
		}
	}
	return best, bestSide
}
