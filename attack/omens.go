package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
)

// Omen shapes are derived from a transform the same way the ground decals are
// scaled: X is the radius or half width, Z the length.

func circleShape(t component.Transform) geom.Shape {
	return geom.CircleShape{Center: t.Ground(), Radius: t.Scale.X}
}

func fanShape(t component.Transform, degrees float64) geom.Shape {
	return geom.FanShape{
		Apex:      t.Ground(),
		Facing:    t.Rotation,
		HalfAngle: geom.DegToRad(degrees / 2),
		Radius:    t.Scale.Z,
	}
}

func rectangleShape(t component.Transform) geom.Shape {
	return geom.RectShape{
		Center:    t.Ground(),
		Rotation:  t.Rotation,
		HalfWidth: t.Scale.X,
		Length:    t.Scale.Z,
		FromBack:  true,
	}
}

func longStarShape(t component.Transform) geom.Shape {
	return geom.StarShape{Center: t.Ground(), Rotation: t.Rotation, Width: 2 * t.Scale.X / 5}
}

func oneThirdDonutShape(t component.Transform) geom.Shape {
	return geom.DonutShape{Center: t.Ground(), Inner: 0.3 * t.Scale.X, Outer: t.Scale.X}
}

// exaflareShape covers the first blast of an exaflare line.
func exaflareShape(t component.Transform) geom.Shape {
	return geom.CircleShape{Center: t.Ground(), Radius: t.Scale.X}
}

// createOmen builds a bare telegraph for mechanics that only want the
// warning decal. It stays until its parent or a mechanic removes it.
func createOmen(w *ecs.World, s Spawn, defaultScale geom.Vec3, vfx string, shape func(component.Transform) geom.Shape) ecs.Entity {
	t := component.Transform{Position: s.Position, Rotation: s.Rotation, Scale: scaleOr(s.Scale, defaultScale)}
	return spawnOmen(w, s.Parent, shape(t), vfx, t, 0, false)
}

// CircleOmenKind is a circular telegraph.
type CircleOmenKind struct{}

func (CircleOmenKind) Name() string { return KindCircleOmen }

func (CircleOmenKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return createOmen(w, s, uniform(5), CircleOmenVfx, circleShape)
}

func (CircleOmenKind) Systems(Deps) []ecs.System { return nil }

// FanOmenKind is a 90° cone telegraph.
type FanOmenKind struct{}

func (FanOmenKind) Name() string { return KindFanOmen }

func (FanOmenKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return createOmen(w, s, uniform(10), FanOmenVfx, func(t component.Transform) geom.Shape {
		return fanShape(t, 90)
	})
}

func (FanOmenKind) Systems(Deps) []ecs.System { return nil }

// RectangleOmenKind is a line telegraph extending forward from its origin.
type RectangleOmenKind struct{}

func (RectangleOmenKind) Name() string { return KindRectangleOmen }

func (RectangleOmenKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return createOmen(w, s, geom.V3(2, 1, 20), RectangleOmenVfx, rectangleShape)
}

func (RectangleOmenKind) Systems(Deps) []ecs.System { return nil }

// OmenContains reports whether the omen entity e covers p. Entities without
// an omen never contain anything.
func OmenContains(w *ecs.World, e ecs.Entity, p geom.Vec3) bool {
	o, ok := ecs.Get(w, e, component.OmenComponent.Kind())
	if !ok || o.Shape == nil {
		return false
	}
	return o.Shape.Contains(p.Ground())
}
