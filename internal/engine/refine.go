package engine

import (
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// Descending step ladders for the coordinate-descent refiner.
var (
	refineSteps   = []float64{0.02, 0.01, 0.005, 0.002, 0.001, 0.0005, 0.0002}
	refineRots    = []float64{15.0, 10.0, 5.0, 2.0, 1.0, 0.5, 0.25}
	fractionSteps = []float64{0.001, 0.0005, 0.0002, 0.0001, 0.00005, 0.00002, 0.00001}

	compassX = []float64{1, -1, 0, 0, 1, 1, -1, -1}
	compassY = []float64{0, 0, 1, -1, 1, -1, 1, -1}
)

// refineEps is the minimum side improvement the refiner accepts.
const refineEps = 1e-10

// polishEps is the minimum side improvement the fractional polish
// accepts. It is tighter because the polish works at step sizes near
// the double-precision noise floor of the side computation.
const polishEps = 1e-12

// tryShift moves tree i by (dx, dy), keeping the move only when it is
// overlap-free and shrinks the side below bestSide by more than eps.
// Returns the new best side and whether the move was kept.
func tryShift(l *model.Layout, i int, dx, dy, bestSide, eps float64) (float64, bool) {
	old := l.Poses[i]
	l.Poses[i].X += dx
	l.Poses[i].Y += dy
	l.Update(i)
	if !l.HasOverlap(i) {
		if ns := l.Side(); ns < bestSide-eps {
			return ns, true
		}
	}
	l.Poses[i] = old
	l.Update(i)
	return bestSide, false
}

// tryRotate is tryShift for a rotation by da degrees.
func tryRotate(l *model.Layout, i int, da, bestSide, eps float64) (float64, bool) {
	old := l.Poses[i].Deg
	l.Poses[i].Deg = model.NormalizeDeg(l.Poses[i].Deg + da)
	l.Update(i)
	if !l.HasOverlap(i) {
		if ns := l.Side(); ns < bestSide-eps {
			return ns, true
		}
	}
	l.Poses[i].Deg = old
	l.Update(i)
	return bestSide, false
}

// refineTree runs the full translation and rotation ladders on tree i.
func refineTree(l *model.Layout, i int, bestSide float64) (float64, bool) {
	improved := false
	for _, st := range refineSteps {
		for d := 0; d < 8; d++ {
			var ok bool
			bestSide, ok = tryShift(l, i, compassX[d]*st, compassY[d]*st, bestSide, refineEps)
			improved = improved || ok
		}
	}
	for _, st := range refineRots {
		for _, da := range []float64{st, -st} {
			var ok bool
			bestSide, ok = tryRotate(l, i, da, bestSide, refineEps)
			improved = improved || ok
		}
	}
	return bestSide, improved
}

// Refine runs the deterministic multi-scale hill climb in place:
// corner trees first, then the rest, each tree tried at every ladder
// step in all eight compass directions and both rotation signs. A full
// sweep with no improvement terminates early. Returns the layout for
// chaining.
func Refine(l *model.Layout, maxSweeps int) *model.Layout {
	bestSide := l.Side()
	for it := 0; it < maxSweeps; it++ {
		improved := false
		corners := l.CornerTrees(cornerEps)
		inCorners := make(map[int]bool, len(corners))
		for _, ci := range corners {
			inCorners[ci] = true
			var ok bool
			bestSide, ok = refineTree(l, ci, bestSide)
			improved = improved || ok
		}
		for i := 0; i < l.N(); i++ {
			if inCorners[i] {
				continue
			}
			var ok bool
			bestSide, ok = refineTree(l, i, bestSide)
			improved = improved || ok
		}
		if !improved {
			break
		}
	}
	return l
}

// PolishFractional is the low-resolution final polish: the same
// accept/revert sweep as Refine restricted to translations, at step
// sizes small enough to only shave residual slack.
func PolishFractional(l *model.Layout, maxSweeps int) *model.Layout {
	bestSide := l.Side()
	for it := 0; it < maxSweeps; it++ {
		improved := false
		for i := 0; i < l.N(); i++ {
			for _, st := range fractionSteps {
				for d := 0; d < 8; d++ {
					var ok bool
					bestSide, ok = tryShift(l, i, compassX[d]*st, compassY[d]*st, bestSide, polishEps)
					improved = improved || ok
				}
			}
		}
		if !improved {
			break
		}
	}
	return l
}
