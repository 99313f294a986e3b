package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// ShapeKind names a telegraph geometry.
type ShapeKind string

const (
	ShapeCircle    ShapeKind = "circle"
	ShapeDonut     ShapeKind = "donut"
	ShapeRectangle ShapeKind = "rectangle"
	ShapeFan       ShapeKind = "fan"
	ShapeStar      ShapeKind = "star"
)

// Shape is an immutable hit-test region anchored in world space. Values are
// copied into omen components so the region cannot change after creation.
type Shape interface {
	Kind() ShapeKind
	Contains(p cp.Vector) bool
	Origin() cp.Vector
}

type CircleShape struct {
	Center cp.Vector
	Radius float64
}

func (s CircleShape) Kind() ShapeKind { return ShapeCircle }
func (s CircleShape) Origin() cp.Vector { return s.Center }
func (s CircleShape) Contains(p cp.Vector) bool { return Circle(s.Center, s.Radius, p) }

// DonutShape is a ring; a HalfAngle of zero or ≥π means the full ring.
type DonutShape struct {
	Center    cp.Vector
	Inner     float64
	Outer     float64
	Facing    float64
	HalfAngle float64
}

func (s DonutShape) Kind() ShapeKind { return ShapeDonut }
func (s DonutShape) Origin() cp.Vector { return s.Center }
func (s DonutShape) Contains(p cp.Vector) bool {
	if s.HalfAngle <= 0 || s.HalfAngle >= math.Pi {
		return Donut(s.Center, s.Inner, s.Outer, p)
	}
	return SectorDonut(s.Center, s.Facing, s.HalfAngle, s.Inner, s.Outer, p)
}

// RectShape is centred on Center unless FromBack is set, in which case Center
// is the middle of the back edge and the rectangle extends Length forward.
type RectShape struct {
	Center    cp.Vector
	Rotation  float64
	HalfWidth float64
	Length    float64
	FromBack  bool
}

func (s RectShape) Kind() ShapeKind { return ShapeRectangle }
func (s RectShape) Origin() cp.Vector { return s.Center }
func (s RectShape) Contains(p cp.Vector) bool {
	if s.FromBack {
		return ForwardRectangle(s.Center, s.Rotation, s.HalfWidth, s.Length, p)
	}
	return Rectangle(s.Center, s.Rotation, s.HalfWidth, s.Length/2, p)
}

// Corners returns the four ground corners, back-left first, clockwise.
func (s RectShape) Corners() [4]cp.Vector {
	fwd := RotationToUnitVector(s.Rotation)
	right := RotationToUnitVector(s.Rotation - math.Pi/2).Mult(s.HalfWidth)
	back := s.Center
	if !s.FromBack {
		back = s.Center.Sub(fwd.Mult(s.Length / 2))
	}
	front := back.Add(fwd.Mult(s.Length))
	return [4]cp.Vector{back.Sub(right), front.Sub(right), front.Add(right), back.Add(right)}
}

type FanShape struct {
	Apex      cp.Vector
	Facing    float64
	HalfAngle float64
	Radius    float64
}

func (s FanShape) Kind() ShapeKind { return ShapeFan }
func (s FanShape) Origin() cp.Vector { return s.Apex }
func (s FanShape) Contains(p cp.Vector) bool {
	return Fan(s.Apex, s.Facing, s.HalfAngle, s.Radius, p)
}

type StarShape struct {
	Center   cp.Vector
	Rotation float64
	Width    float64
	Length   float64
}

func (s StarShape) Kind() ShapeKind { return ShapeStar }
func (s StarShape) Origin() cp.Vector { return s.Center }
func (s StarShape) Contains(p cp.Vector) bool {
	return Star(s.Center, s.Rotation, s.Width, s.Length, p)
}
