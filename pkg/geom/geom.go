// Package geom provides the small set of plane-geometry helpers shared by
// the label associator and the connectivity graph builder: coordinate
// rounding to the 0.01mm comparison tolerance spec.md's data model
// mandates, and point-to-segment distance.
package geom

import "math"

// Tolerance is the comparison tolerance spec.md's data model assigns to
// every coordinate: two positions are "the same" iff they agree to this
// many millimeters.
const Tolerance = 0.01

// roundedScale converts a millimeter coordinate to integer
// centimillimeters (hundredths of a millimeter) so that repeated
// construction of spatial-index keys never accumulates floating-point
// rounding error, per spec.md §9's design note.
const roundedScale = 100

// Key is a fixed-point coordinate used as a map key for coincidence
// lookups: two positions produce the same Key when each of their
// coordinates rounds to the same multiple of Tolerance. Positions closer
// than Tolerance that round to different multiples get different Keys.
type Key struct {
	X int64
	Y int64
}

// Round converts an (x, y) millimeter pair to its fixed-point Key.
func Round(x, y float64) Key {
	return Key{X: int64(math.Round(x * roundedScale)), Y: int64(math.Round(y * roundedScale))}
}

// SamePoint reports whether two coordinate pairs are equal after rounding
// each coordinate to Tolerance, i.e. whether they share a Key.
func SamePoint(x1, y1, x2, y2 float64) bool {
	return Round(x1, y1) == Round(x2, y2)
}

// PointSegmentDistance returns the perpendicular distance from (px, py) to
// the segment (x1,y1)-(x2,y2): the perpendicular foot when it falls within
// the segment, otherwise the distance to the nearer endpoint.
func PointSegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return math.Hypot(px-x1, py-y1)
	}

	t := ((px-x1)*dx + (py-y1)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	footX := x1 + t*dx
	footY := y1 + t*dy
	return math.Hypot(px-footX, py-footY)
}
