package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPolygon_UprightBBox(t *testing.T) {
	p := NewPolygon(0, 0, 0)

	assert.InDelta(t, -0.35, p.MinX, 1e-12)
	assert.InDelta(t, 0.35, p.MaxX, 1e-12)
	assert.InDelta(t, -0.2, p.MinY, 1e-12)
	assert.InDelta(t, 0.8, p.MaxY, 1e-12)
	assert.InDelta(t, 0.7, p.Width(), 1e-12)
	assert.InDelta(t, 1.0, p.Height(), 1e-12)
	assert.InDelta(t, 1.0, p.BBoxSide(), 1e-12)
}

func TestNewPolygon_TranslationShiftsBBox(t *testing.T) {
	base := NewPolygon(0, 0, 37)
	moved := NewPolygon(5, -3, 37)

	assert.InDelta(t, base.MinX+5, moved.MinX, 1e-12)
	assert.InDelta(t, base.MaxY-3, moved.MaxY, 1e-12)
	assert.InDelta(t, base.BBoxSide(), moved.BBoxSide(), 1e-12)
}

func TestNewPolygon_Rotation90SwapsExtents(t *testing.T) {
	p := NewPolygon(0, 0, 90)

	assert.InDelta(t, 0.7, p.Height(), 1e-12)
	assert.InDelta(t, 1.0, p.Width(), 1e-12)
}

func TestContains(t *testing.T) {
	p := NewPolygon(0, 0, 0)

	// Trunk center is inside, apex region well above is outside.
	assert.True(t, p.Contains(0, -0.1))
	assert.True(t, p.Contains(0, 0.4))
	assert.False(t, p.Contains(0, 0.9))
	assert.False(t, p.Contains(0.6, 0))
	// Concave notch between the lowest branch tier and the trunk.
	assert.False(t, p.Contains(0.3, -0.15))
}

func TestSegmentsCross(t *testing.T) {
	a := Point{-1, 0}
	b := Point{1, 0}

	assert.True(t, SegmentsCross(a, b, Point{0, -1}, Point{0, 1}))
	// Parallel, disjoint.
	assert.False(t, SegmentsCross(a, b, Point{-1, 1}, Point{1, 1}))
	// Shared endpoint only.
	assert.False(t, SegmentsCross(a, b, Point{1, 0}, Point{2, 1}))
	// Collinear overlap does not count as a proper crossing.
	assert.False(t, SegmentsCross(a, b, Point{0, 0}, Point{2, 0}))
}

func TestOverlap_IdenticalPose(t *testing.T) {
	p := NewPolygon(1.5, -2, 45)
	q := NewPolygon(1.5, -2, 45)

	assert.True(t, Overlap(p, q))
}

func TestOverlap_FarApart(t *testing.T) {
	p := NewPolygon(0, 0, 0)
	q := NewPolygon(10, 10, 120)

	assert.False(t, Overlap(p, q))
}

func TestOverlap_Symmetric(t *testing.T) {
	poses := [][3]float64{
		{0, 0, 0},
		{0.3, 0.1, 15},
		{0.9, 0.2, 200},
		{2, 2, 90},
	}
	for _, pa := range poses {
		for _, pb := range poses {
			p := NewPolygon(pa[0], pa[1], pa[2])
			q := NewPolygon(pb[0], pb[1], pb[2])
			assert.Equal(t, Overlap(p, q), Overlap(q, p),
				"overlap must be symmetric for poses %v and %v", pa, pb)
		}
	}
}

func TestOverlap_BoundaryTouchAllowed(t *testing.T) {
	// Two upright trees side by side, bboxes exactly touching at x=0.35.
	p := NewPolygon(0, 0, 0)
	q := NewPolygon(0.7, 0, 0)

	require.InDelta(t, p.MaxX, q.MinX, 1e-12)
	assert.False(t, Overlap(p, q))
}

func TestOverlap_OneInsideOther(t *testing.T) {
	// A tiny synthetic polygon fully inside the tree trunk would need a
	// different shape; instead verify the containment arm by nesting two
	// trees at the same center with different angles, which must overlap
	// even when no bbox edge separates them.
	p := NewPolygon(0, 0, 0)
	q := NewPolygon(0, 0.01, 180)

	assert.True(t, Overlap(p, q))
}

func TestOverlap_JustBeyondDiagonal(t *testing.T) {
	p := NewPolygon(0, 0, 30)
	diag := math.Hypot(p.Width(), p.Height())
	q := NewPolygon(diag+0.01, 0, 30)

	assert.False(t, Overlap(p, q))
}
