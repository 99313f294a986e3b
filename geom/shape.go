package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Circle reports whether p lies within radius of center, boundary inclusive.
func Circle(center cp.Vector, radius float64, p cp.Vector) bool {
	return center.Distance(p) <= radius
}

// Donut reports whether p lies in the ring inner <= d <= outer.
func Donut(center cp.Vector, inner, outer float64, p cp.Vector) bool {
	d := center.Distance(p)
	return d >= inner && d <= outer
}

// SectorDonut restricts Donut to the wedge of halfAngle around facing.
func SectorDonut(center cp.Vector, facing, halfAngle, inner, outer float64, p cp.Vector) bool {
	if !Donut(center, inner, outer, p) {
		return false
	}
	return withinAngle(center, facing, halfAngle, p)
}

// Rectangle reports whether p lies in the rectangle centred on center whose
// long axis follows rotation.
func Rectangle(center cp.Vector, rotation, halfWidth, halfLength float64, p cp.Vector) bool {
	forward, right := localFrame(center, rotation, p)
	return math.Abs(right) <= halfWidth && math.Abs(forward) <= halfLength
}

// ForwardRectangle is a line AoE whose back edge passes through origin and
// which extends length units along rotation.
func ForwardRectangle(origin cp.Vector, rotation, halfWidth, length float64, p cp.Vector) bool {
	forward, right := localFrame(origin, rotation, p)
	return forward >= 0 && forward <= length && math.Abs(right) <= halfWidth
}

// Fan reports whether p is within radius of origin and within halfAngle of
// the facing direction. A halfAngle of π or more accepts every point in range
// and a point coincident with origin is inside.
func Fan(origin cp.Vector, facing, halfAngle, radius float64, p cp.Vector) bool {
	if origin.Distance(p) > radius {
		return false
	}
	return withinAngle(origin, facing, halfAngle, p)
}

// Star is the union of eight forward-only blades spaced 45° apart starting at
// rotation. A length of zero leaves the blades unbounded.
func Star(origin cp.Vector, rotation, width, length float64, p cp.Vector) bool {
	for i := 0; i < 8; i++ {
		forward, right := localFrame(origin, rotation+float64(i)*math.Pi/4, p)
		if forward < 0 || math.Abs(right) > width/2 {
			continue
		}
		if length > 0 && forward > length {
			continue
		}
		return true
	}
	return false
}

func withinAngle(origin cp.Vector, facing, halfAngle float64, p cp.Vector) bool {
	if halfAngle >= math.Pi {
		return true
	}
	angle, ok := AngleBetween(p.Sub(origin), RotationToUnitVector(facing))
	if !ok {
		return true
	}
	return angle <= halfAngle
}

// localFrame projects p-origin onto the forward axis of rotation and onto its
// right-hand axis (rotation - π/2).
func localFrame(origin cp.Vector, rotation float64, p cp.Vector) (forward, right float64) {
	d := p.Sub(origin)
	forward = RotationToUnitVector(rotation).Dot(d)
	right = RotationToUnitVector(rotation - math.Pi/2).Dot(d)
	return forward, right
}
