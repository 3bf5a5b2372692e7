// Package geom implements the exact planar geometry used by the packing
// engine: instancing the fixed tree silhouette at a pose, bounding boxes,
// point containment, and the polygon overlap predicate.
package geom

import "math"

// NumVertices is the vertex count of the tree silhouette.
const NumVertices = 15

// treeX and treeY are the local-frame vertices of the tree silhouette,
// wound from the apex down the right side and back up the left.
var treeX = [NumVertices]float64{0, 0.125, 0.0625, 0.2, 0.1, 0.35, 0.075, 0.075, -0.075, -0.075, -0.35, -0.1, -0.2, -0.0625, -0.125}
var treeY = [NumVertices]float64{0.8, 0.5, 0.5, 0.25, 0.25, 0, 0, -0.2, -0.2, 0, 0, 0.25, 0.25, 0.5, 0.5}

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Polygon is a tree silhouette placed in world space, with its
// axis-aligned bounding box cached from the same pass that produced
// the vertices.
type Polygon struct {
	V                      [NumVertices]Point
	MinX, MinY, MaxX, MaxY float64
}

// NewPolygon instantiates the tree shape at position (cx, cy) rotated by
// deg degrees. Rotation is applied in the local frame before translation.
func NewPolygon(cx, cy, deg float64) Polygon {
	var p Polygon
	r := deg * math.Pi / 180.0
	c := math.Cos(r)
	s := math.Sin(r)
	for i := 0; i < NumVertices; i++ {
		p.V[i].X = treeX[i]*c - treeY[i]*s + cx
		p.V[i].Y = treeX[i]*s + treeY[i]*c + cy
	}
	p.MinX, p.MaxX = p.V[0].X, p.V[0].X
	p.MinY, p.MaxY = p.V[0].Y, p.V[0].Y
	for i := 1; i < NumVertices; i++ {
		p.MinX = math.Min(p.MinX, p.V[i].X)
		p.MaxX = math.Max(p.MaxX, p.V[i].X)
		p.MinY = math.Min(p.MinY, p.V[i].Y)
		p.MaxY = math.Max(p.MaxY, p.V[i].Y)
	}
	return p
}

// Width returns the horizontal extent of the polygon's bounding box.
func (p Polygon) Width() float64 { return p.MaxX - p.MinX }

// Height returns the vertical extent of the polygon's bounding box.
func (p Polygon) Height() float64 { return p.MaxY - p.MinY }

// BBoxSide returns the larger dimension of the polygon's bounding box.
func (p Polygon) BBoxSide() float64 { return math.Max(p.Width(), p.Height()) }

// Contains reports whether the point (px, py) lies inside the polygon,
// using the standard even-odd ray cast over the polygon's edges.
func (p Polygon) Contains(px, py float64) bool {
	in := false
	j := NumVertices - 1
	for i := 0; i < NumVertices; i++ {
		if (p.V[i].Y > py) != (p.V[j].Y > py) &&
			px < (p.V[j].X-p.V[i].X)*(py-p.V[i].Y)/(p.V[j].Y-p.V[i].Y)+p.V[i].X {
			in = !in
		}
		j = i
	}
	return in
}

// ccw reports whether the triangle (p, q, r) has strictly positive
// orientation. Using strict inequality keeps shared endpoints and
// collinear touches from counting as crossings.
func ccw(p, q, r Point) bool {
	return (r.Y-p.Y)*(q.X-p.X) > (q.Y-p.Y)*(r.X-p.X)
}

// SegmentsCross reports whether segments ab and cd properly cross.
// Touching at an endpoint or overlapping collinearly is not a crossing.
func SegmentsCross(a, b, c, d Point) bool {
	return ccw(a, c, d) != ccw(b, c, d) && ccw(a, b, c) != ccw(a, b, d)
}

// Overlap reports whether the interiors of two polygons intersect.
// Boundary contact alone does not count. The bounding-box reject runs
// first; the vertex containment checks catch full containment of one
// polygon inside the other, and the edge-pair sweep catches partial
// crossings. Returns on the first positive check.
func Overlap(a, b Polygon) bool {
	if a.MaxX < b.MinX || b.MaxX < a.MinX || a.MaxY < b.MinY || b.MaxY < a.MinY {
		return false
	}
	for i := 0; i < NumVertices; i++ {
		if b.Contains(a.V[i].X, a.V[i].Y) {
			return true
		}
		if a.Contains(b.V[i].X, b.V[i].Y) {
			return true
		}
	}
	for i := 0; i < NumVertices; i++ {
		a1 := a.V[i]
		a2 := a.V[(i+1)%NumVertices]
		for j := 0; j < NumVertices; j++ {
			if SegmentsCross(a1, a2, b.V[j], b.V[(j+1)%NumVertices]) {
				return true
			}
		}
	}
	return false
}
