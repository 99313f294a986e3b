package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/status"
)

// HitFunc runs when an attack connects with the local player.
type HitFunc func(w *ecs.World, target host.Actor)

// Circle resolves on its first tick: a player strictly inside Scale.Z is hit
// and the attack is destroyed either way.
type Circle struct {
	OnHit HitFunc
}

var CircleComponent = component.NewComponent[Circle]()

type CircleKind struct{}

func (CircleKind) Name() string { return KindCircle }

func (CircleKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(5))
	_ = ecs.Add(w, e, CircleComponent.Kind(), &Circle{})
	return e
}

func (CircleKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&circleSystem{d: d}}
}

type circleSystem struct {
	d Deps
}

func (s *circleSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, CircleComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *Circle, t *component.Transform) {
		if target, ok := localTarget(s.d.Game); ok && c.OnHit != nil {
			if t.Ground().Distance(target.Position.Ground()) < t.Scale.Z {
				c.OnHit(w, target)
			}
		}
		ecs.DestroyEntity(w, e)
	})
}

const (
	fanDegrees   = 90
	fanBoundTime = 10.0
)

// Fan is an instant 90° cone that binds the player in place.
type Fan struct{}

var FanComponent = component.NewComponent[Fan]()

type FanKind struct{}

func (FanKind) Name() string { return KindFan }

func (FanKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(10))
	_ = ecs.Add(w, e, FanComponent.Kind(), &Fan{})
	return e
}

func (FanKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&fanSystem{d: d}}
}

type fanSystem struct {
	d Deps
}

func (s *fanSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, FanComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *Fan, t *component.Transform) {
		if target, ok := localTarget(s.d.Game); ok && fanHit(*t, target.Position) {
			punish(w, s.d, ecs.Nil, target, 0, status.NewBound(fanBoundTime))
		}
		ecs.DestroyEntity(w, e)
	})
}

// fanHit is strict on the radius, like every instant attack.
func fanHit(t component.Transform, p geom.Vec3) bool {
	if t.Ground().Distance(p.Ground()) >= t.Scale.Z {
		return false
	}
	return geom.Fan(t.Ground(), t.Rotation, geom.DegToRad(fanDegrees/2), t.Scale.Z, p.Ground())
}
