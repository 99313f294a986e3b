package attack

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/phase"
	"github.com/milk9111/raidsim/status"
)

type OctetDonutPhase int

const (
	OctetOmen OctetDonutPhase = iota
	OctetSnapshot
	OctetSpawnObstacles
	OctetDestruct
)

const (
	octetOmenScale    = 40.0
	octetAoeVfx       = "vfx/monster/gimmick4/eff/z5r2_b1_g01c0g.avfx"
	octetAoeLifetime  = 4.0
	octetStun         = 30.0
	octetOuterTornado = 20.25
	octetInnerTornado = 14.25
	octetTornadoSpeed = 5.4
)

var octetTimeline = phase.NewTimeline(
	phase.At(OctetOmen, 0),
	phase.At(OctetSnapshot, 4.5),
	phase.At(OctetSpawnObstacles, 5),
	phase.At(OctetDestruct, 60),
)

// OctetDonut drops a third-donut under the boss, then fills the arena with
// two orbiting tornadoes and a twister obstacle course. Rand seeds the
// layout so every client sees the same arena; nil uses the shared
// generator.
type OctetDonut struct {
	State phase.State[OctetDonutPhase]
	Rand  *rand.Rand
}

var OctetDonutComponent = component.NewComponent[OctetDonut]()

type OctetDonutKind struct{}

func (OctetDonutKind) Name() string { return KindOctetDonut }

func (OctetDonutKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, OctetDonutComponent.Kind(), &OctetDonut{State: octetTimeline.Start()})
	return e
}

func (OctetDonutKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&octetDonutSystem{d: d}}
}

// tornadoStart places a tornado dist yalms from center at angle degrees.
func tornadoStart(center cp.Vector, dist, degrees float64) cp.Vector {
	a := geom.DegToRad(degrees)
	return center.Add(cp.Vector{X: dist * math.Cos(a), Y: dist * math.Sin(a)})
}

type octetDonutSystem struct {
	d Deps
}

func (s *octetDonutSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, OctetDonutComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, o *OctetDonut, t *component.Transform) {
		var fired []OctetDonutPhase
		o.State, fired = octetTimeline.Tick(o.State, dt)
		for _, p := range fired {
			switch p {
			case OctetOmen:
				ot := component.Transform{Position: t.Position, Rotation: t.Rotation, Scale: uniform(octetOmenScale)}
				spawnOmen(w, e, oneThirdDonutShape(ot), OneThirdDonutVfx, ot, 0, false)
			case OctetSnapshot:
				a := spawnFakeActor(w, e, "octet aoe", -1, *t)
				_ = ecs.Add(w, a, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: octetAoeVfx})
				_ = ecs.Add(w, a, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: octetAoeLifetime})
				target, ok := localTarget(s.d.Game)
				if snapshot(w, e, target.Position.Ground(), ok) {
					punish(w, s.d, e, target, 0, status.NewStun(octetStun))
				}
			case OctetSpawnObstacles:
				s.spawnObstacles(w, e, *t, o.Rand)
			case OctetDestruct:
				ecs.DestroyEntity(w, e)
				return
			}
		}
	})
}

func (s *octetDonutSystem) spawnObstacles(w *ecs.World, e ecs.Entity, t component.Transform, r *rand.Rand) {
	if r == nil {
		r = s.d.Rand
	}
	clockwise := r.Intn(2) == 0
	center := t.Ground()
	for _, tornado := range []struct {
		dist      float64
		clockwise bool
	}{
		{octetOuterTornado, clockwise},
		{octetInnerTornado, !clockwise},
	} {
		p := tornadoStart(center, tornado.dist, float64(r.Intn(359)))
		tn := TornadoKind{}.Create(w, Spawn{Position: geom.FromGround(p, t.Position.Y), Parent: e})
		_ = ecs.Add(w, tn, OrbitComponent.Kind(), &Orbit{Clockwise: tornado.clockwise, Speed: octetTornadoSpeed})
	}
	course := TwisterObstacleCourseKind{}.Create(w, Spawn{Position: t.Position, Parent: e})
	if c, ok := ecs.Get(w, course, TwisterObstacleCourseComponent.Kind()); ok {
		c.Rand = r
	}
}
