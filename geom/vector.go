// Package geom holds ground-plane math and the hit-test predicates used by
// omens. The ground plane is the world X/Z plane mapped onto cp.Vector{X, Z};
// the vertical Y axis is ignored unless a caller reads it explicitly.
package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vec3 is a world-space position. Y is height.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// FromGround lifts a ground-plane point to world space at height y.
func FromGround(v cp.Vector, y float64) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Y}
}

// Ground drops the height component.
func (v Vec3) Ground() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Mult(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// GroundDistance is the distance between v and o on the ground plane.
func (v Vec3) GroundDistance(o Vec3) float64 {
	return v.Ground().Distance(o.Ground())
}

// Distance is the full 3D distance.
func (v Vec3) Distance(o Vec3) float64 {
	d := v.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// RotationToUnitVector converts a facing angle to its ground-plane unit
// vector. Rotation 0 faces +Z.
func RotationToUnitVector(rotation float64) cp.Vector {
	return cp.Vector{X: math.Sin(rotation), Y: math.Cos(rotation)}
}

// VectorToRotation is the inverse of RotationToUnitVector.
func VectorToRotation(v cp.Vector) float64 {
	return math.Atan2(v.X, v.Y)
}

// ClampRadians wraps an angle into [-π, π].
func ClampRadians(r float64) float64 {
	r = math.Mod(r, 2*math.Pi)
	if math.Abs(r) > math.Pi {
		if r > 0 {
			return r - 2*math.Pi
		}
		return r + 2*math.Pi
	}
	return r
}

// Rotate turns v counter-clockwise by radians in the X/Z plane.
func Rotate(v cp.Vector, radians float64) cp.Vector {
	c, s := math.Cos(radians), math.Sin(radians)
	return cp.Vector{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}

// RoundedCos rounds a cosine to four decimals so collinear vectors do not
// produce acos inputs just outside [-1, 1].
func RoundedCos(c float64) float64 {
	return math.Round(c*10000) / 10000
}

// AngleBetween returns the unsigned angle between two vectors. The second
// result is false when either vector has zero length.
func AngleBetween(a, b cp.Vector) (float64, bool) {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0, false
	}
	return math.Acos(RoundedCos(a.Dot(b) / (la * lb))), true
}

// AngleBetweenLines is the angle between segments a1→a2 and b1→b2.
func AngleBetweenLines(a1, a2, b1, b2 cp.Vector) (float64, bool) {
	return AngleBetween(a2.Sub(a1), b2.Sub(b1))
}

// AbsoluteAngle returns the signed angle from +Z (north) to the direction
// source→target, negative when the target lies on the -X side. Coincident
// points give 0.
func AbsoluteAngle(source, target cp.Vector) float64 {
	angle, ok := AngleBetween(cp.Vector{X: 0, Y: 1}, target.Sub(source))
	if !ok {
		return 0
	}
	if target.X < source.X {
		return -angle
	}
	return angle
}

// PointOnCircle returns the ground point at distance radius from center in
// the facing direction angle.
func PointOnCircle(center cp.Vector, radius, angle float64) cp.Vector {
	return center.Add(RotationToUnitVector(angle).Mult(radius))
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
