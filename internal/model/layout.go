// Package model holds the mutable packing state for a single group: the
// tree poses and their cached world-space polygons, together with the
// score and overlap queries the search loops run against.
package model

import (
	"math"

	"github.com/zdanovic/kaggle.santa-2025/internal/geom"
)

// Layout is the placement of n trees. Each slot owns the polygon cached
// from its pose; callers that change a pose must call Update for that
// slot before running any overlap or score query.
type Layout struct {
	Poses []Pose
	Polys []geom.Polygon
}

// NewLayout builds a layout from poses and caches all polygons.
func NewLayout(poses []Pose) *Layout {
	l := &Layout{
		Poses: append([]Pose(nil), poses...),
		Polys: make([]geom.Polygon, len(poses)),
	}
	l.UpdateAll()
	return l
}

// N returns the tree count.
func (l *Layout) N() int { return len(l.Poses) }

// Update recomputes the cached polygon for slot i from its pose.
func (l *Layout) Update(i int) {
	l.Polys[i] = geom.NewPolygon(l.Poses[i].X, l.Poses[i].Y, l.Poses[i].Deg)
}

// UpdateAll recomputes every cached polygon.
func (l *Layout) UpdateAll() {
	for i := range l.Poses {
		l.Update(i)
	}
}

// HasOverlap reports whether tree i overlaps any other tree.
func (l *Layout) HasOverlap(i int) bool {
	for j := range l.Polys {
		if j != i && geom.Overlap(l.Polys[i], l.Polys[j]) {
			return true
		}
	}
	return false
}

// HasOverlapPair reports whether either of the two moved trees i and j
// overlaps the other or any remaining tree.
func (l *Layout) HasOverlapPair(i, j int) bool {
	if geom.Overlap(l.Polys[i], l.Polys[j]) {
		return true
	}
	for k := range l.Polys {
		if k == i || k == j {
			continue
		}
		if geom.Overlap(l.Polys[i], l.Polys[k]) || geom.Overlap(l.Polys[j], l.Polys[k]) {
			return true
		}
	}
	return false
}

// AnyOverlap runs the full pairwise sweep. It is the validation path,
// not part of the hot move loop.
func (l *Layout) AnyOverlap() bool {
	for i := 0; i < len(l.Polys); i++ {
		for j := i + 1; j < len(l.Polys); j++ {
			if geom.Overlap(l.Polys[i], l.Polys[j]) {
				return true
			}
		}
	}
	return false
}

// Side returns the larger dimension of the bounding box enclosing every
// tree, recomputed from the full polygon set.
func (l *Layout) Side() float64 {
	if len(l.Polys) == 0 {
		return 0
	}
	x0, y0, x1, y1 := l.BBox()
	return math.Max(x1-x0, y1-y0)
}

// Score returns side squared divided by the tree count.
func (l *Layout) Score() float64 {
	s := l.Side()
	return s * s / float64(l.N())
}

// Centroid returns the mean of the tree positions.
func (l *Layout) Centroid() (float64, float64) {
	var sx, sy float64
	for _, p := range l.Poses {
		sx += p.X
		sy += p.Y
	}
	n := float64(l.N())
	return sx / n, sy / n
}

// BBox returns the bounding box (x0, y0, x1, y1) over all trees.
func (l *Layout) BBox() (float64, float64, float64, float64) {
	x0, x1 := l.Polys[0].MinX, l.Polys[0].MaxX
	y0, y1 := l.Polys[0].MinY, l.Polys[0].MaxY
	for _, p := range l.Polys[1:] {
		x0 = math.Min(x0, p.MinX)
		x1 = math.Max(x1, p.MaxX)
		y0 = math.Min(y0, p.MinY)
		y1 = math.Max(y1, p.MaxY)
	}
	return x0, y0, x1, y1
}

// CornerTrees returns the indices of trees whose bounding box touches
// the global bounding box boundary within eps. These are the trees most
// likely limiting the side, so the search biases toward them.
func (l *Layout) CornerTrees(eps float64) []int {
	gx0, gy0, gx1, gy1 := l.BBox()
	var corners []int
	for i, p := range l.Polys {
		if math.Abs(p.MinX-gx0) < eps || math.Abs(p.MaxX-gx1) < eps ||
			math.Abs(p.MinY-gy0) < eps || math.Abs(p.MaxY-gy1) < eps {
			corners = append(corners, i)
		}
	}
	return corners
}

// Clone returns a deep copy sharing no state with the receiver.
func (l *Layout) Clone() *Layout {
	return &Layout{
		Poses: append([]Pose(nil), l.Poses...),
		Polys: append([]geom.Polygon(nil), l.Polys...),
	}
}

// CopyFrom overwrites the receiver with src, reusing the receiver's
// buffers. Both layouts must have the same tree count.
func (l *Layout) CopyFrom(src *Layout) {
	copy(l.Poses, src.Poses)
	copy(l.Polys, src.Polys)
}
