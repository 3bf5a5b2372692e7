package engine

import (
	"math"
	"math/rand"

	"github.com/zdanovic/kaggle.santa-2025/internal/geom"
	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// Perturb jitters roughly 15% of the trees in a copy of the layout and
// then relaxes any overlaps it caused by nudging offending trees away
// from the centroid, regenerating their angle each sweep. The relaxation
// is bounded; a layout that still overlaps after the cap is returned
// as-is and the caller's downstream overlap checks deal with it.
func Perturb(l *model.Layout, strength float64, seed int64) *model.Layout {
	rng := rand.New(rand.NewSource(seed))
	c := l.Clone()
	n := c.N()

	numPerturb := n * 15 / 100
	if numPerturb < 1 {
		numPerturb = 1
	}
	for k := 0; k < numPerturb; k++ {
		i := rng.Intn(n)
		c.Poses[i].X += (rng.Float64() - 0.5) * strength
		c.Poses[i].Y += (rng.Float64() - 0.5) * strength
		c.Poses[i].Deg = model.NormalizeDeg(c.Poses[i].Deg + (rng.Float64()-0.5)*60)
	}
	c.UpdateAll()

	for iter := 0; iter < 100; iter++ {
		fixed := true
		for i := 0; i < n; i++ {
			if !c.HasOverlap(i) {
				continue
			}
			fixed = false
			cx, cy := c.Centroid()
			dx, dy := cx-c.Poses[i].X, cy-c.Poses[i].Y
			if d := math.Hypot(dx, dy); d > 1e-6 {
				c.Poses[i].X -= dx / d * 0.02
				c.Poses[i].Y -= dy / d * 0.02
			}
			c.Poses[i].Deg = model.NormalizeDeg(c.Poses[i].Deg + rng.Float64()*20 - 10)
			c.Update(i)
		}
		if fixed {
			break
		}
	}
	return c
}

// RandomInitParams controls fresh random placement generation.
type RandomInitParams struct {
	Inits       int     // rounds that start from a random placement
	MaxN        int     // random init only for groups up to this size
	SideScale   float64 // initial sampling region scale relative to the base side
	Tries       int     // whole-placement retries, region grows each time
	MaxAttempts int     // per-tree rejection-sampling bound
}

// DefaultRandomInitParams returns random init disabled, matching the
// production default where restarts work from the loaded baseline.
func DefaultRandomInitParams() RandomInitParams {
	return RandomInitParams{
		Inits:       0,
		MaxN:        12,
		SideScale:   1.2,
		Tries:       4,
		MaxAttempts: 2000,
	}
}

// RandomInit samples a fresh overlap-free placement of n trees inside a
// square region scaled from baseSide. Each tree is rejection-sampled
// against the trees already placed; if any tree exhausts its attempts
// the whole placement is retried with the region grown by 8%. Returns
// false when every try fails, which the caller treats as a fallback to
// its previous start, not an error.
func RandomInit(n int, baseSide float64, p RandomInitParams, seed int64) (*model.Layout, bool) {
	rng := rand.New(rand.NewSource(seed))
	scale := math.Max(1.01, p.SideScale)
	tries := p.Tries
	if tries < 1 {
		tries = 1
	}
	for attempt := 0; attempt < tries; attempt++ {
		half := baseSide * scale * 0.5
		c := model.NewLayout(make([]model.Pose, n))
		ok := true
		for i := 0; i < n && ok; i++ {
			placed := false
			for t := 0; t < p.MaxAttempts; t++ {
				c.Poses[i] = model.Pose{
					X:   (rng.Float64()*2 - 1) * half,
					Y:   (rng.Float64()*2 - 1) * half,
					Deg: rng.Float64() * 360,
				}
				c.Update(i)
				conflict := false
				for j := 0; j < i; j++ {
					if geom.Overlap(c.Polys[i], c.Polys[j]) {
						conflict = true
						break
					}
				}
				if !conflict {
					placed = true
					break
				}
			}
			ok = placed
		}
		if ok {
			return c, true
		}
		scale *= 1.08
	}
	return nil, false
}

// CompressParams controls the pre-optimizer compression stage.
type CompressParams struct {
	Steps     int
	Factor    float64
	RelaxIter int
	RelaxStep float64
}

// DefaultCompressParams returns compression disabled.
func DefaultCompressParams() CompressParams {
	return CompressParams{
		Steps:     0,
		Factor:    0.99,
		RelaxIter: 60,
		RelaxStep: 0.02,
	}
}

// Compress repeatedly scales all tree positions toward the origin and
// relaxes the resulting overlaps. A step whose relaxation fails to
// reach an overlap-free state stops the loop and the last valid state
// is kept. Steps <= 0 or factor >= 1 return the input unchanged.
func Compress(l *model.Layout, p CompressParams, seed int64) *model.Layout {
	if p.Steps <= 0 || p.Factor >= 1.0 {
		return l
	}
	best := l.Clone()
	for s := 0; s < p.Steps; s++ {
		cand := best.Clone()
		for i := range cand.Poses {
			cand.Poses[i].X *= p.Factor
			cand.Poses[i].Y *= p.Factor
			cand.Update(i)
		}
		if !relaxOverlaps(cand, p.RelaxIter, p.RelaxStep, seed+int64(s)*1337) {
			break
		}
		best = cand
	}
	return best
}

// relaxOverlaps pushes every overlapping pair apart along their
// separation vector by a fixed step, one sweep at a time, until the
// layout is overlap-free or the iteration cap is hit. Coincident
// centers separate along a random direction.
func relaxOverlaps(l *model.Layout, maxIter int, step float64, seed int64) bool {
	rng := rand.New(rand.NewSource(seed))
	n := l.N()
	for iter := 0; iter < maxIter; iter++ {
		any := false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !geom.Overlap(l.Polys[i], l.Polys[j]) {
					continue
				}
				any = true
				dx := l.Poses[i].X - l.Poses[j].X
				dy := l.Poses[i].Y - l.Poses[j].Y
				d := math.Hypot(dx, dy)
				if d < 1e-6 {
					ang := rng.Float64() * 2 * math.Pi
					dx, dy, d = math.Cos(ang), math.Sin(ang), 1.0
				}
				ux, uy := dx/d, dy/d
				l.Poses[i].X += ux * step
				l.Poses[i].Y += uy * step
				l.Poses[j].X -= ux * step
				l.Poses[j].Y -= uy * step
				l.Update(i)
				l.Update(j)
			}
		}
		if !any {
			return true
		}
	}
	return !l.AnyOverlap()
}
