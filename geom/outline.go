package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Outline returns closed polylines tracing the border of s, sampling curved
// edges with the given number of segments per full turn.
func Outline(s Shape, segments int) [][]cp.Vector {
	if segments < 8 {
		segments = 8
	}
	switch v := s.(type) {
	case CircleShape:
		return [][]cp.Vector{arc(v.Center, v.Radius, 0, 2*math.Pi, segments)}
	case DonutShape:
		if v.HalfAngle <= 0 || v.HalfAngle >= math.Pi {
			return [][]cp.Vector{
				arc(v.Center, v.Outer, 0, 2*math.Pi, segments),
				arc(v.Center, v.Inner, 0, 2*math.Pi, segments),
			}
		}
		outer := arc(v.Center, v.Outer, v.Facing-v.HalfAngle, v.Facing+v.HalfAngle, segments)
		inner := arc(v.Center, v.Inner, v.Facing+v.HalfAngle, v.Facing-v.HalfAngle, segments)
		return [][]cp.Vector{append(outer, append(inner, outer[0])...)}
	case RectShape:
		c := v.Corners()
		return [][]cp.Vector{{c[0], c[1], c[2], c[3], c[0]}}
	case FanShape:
		if v.HalfAngle >= math.Pi {
			return [][]cp.Vector{arc(v.Apex, v.Radius, 0, 2*math.Pi, segments)}
		}
		edge := arc(v.Apex, v.Radius, v.Facing-v.HalfAngle, v.Facing+v.HalfAngle, segments)
		poly := append([]cp.Vector{v.Apex}, edge...)
		return [][]cp.Vector{append(poly, v.Apex)}
	case StarShape:
		length := v.Length
		if length <= 0 {
			length = 100
		}
		out := make([][]cp.Vector, 0, 8)
		for i := 0; i < 8; i++ {
			blade := RectShape{Center: v.Center, Rotation: v.Rotation + float64(i)*math.Pi/4, HalfWidth: v.Width / 2, Length: length, FromBack: true}
			c := blade.Corners()
			out = append(out, []cp.Vector{c[0], c[1], c[2], c[3], c[0]})
		}
		return out
	}
	return nil
}

// arc samples a circle between two rotations, inclusive.
func arc(center cp.Vector, radius, from, to float64, segments int) []cp.Vector {
	span := math.Abs(to - from)
	n := int(math.Ceil(span / (2 * math.Pi) * float64(segments)))
	if n < 1 {
		n = 1
	}
	out := make([]cp.Vector, 0, n+1)
	for i := 0; i <= n; i++ {
		r := from + (to-from)*float64(i)/float64(n)
		out = append(out, PointOnCircle(center, radius, r))
	}
	return out
}
