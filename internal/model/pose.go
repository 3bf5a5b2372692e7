package model

import "math"

// MaxTrees is the largest group size in the problem.
const MaxTrees = 200

// Pose is the rigid placement of one tree: a translation and a rotation
// angle in degrees. The angle is kept in [0, 360).
type Pose struct {
	X, Y float64
	Deg  float64
}

// NormalizeDeg maps an angle in degrees into [0, 360).
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
