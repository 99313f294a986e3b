package attack

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

// knockbackAway returns the ground direction from source to p. Standing
// exactly on source picks a random direction.
func knockbackAway(source, p cp.Vector, r *rand.Rand) cp.Vector {
	d := p.Sub(source)
	if d.LengthSq() == 0 {
		a := r.Float64() * 2 * math.Pi
		return cp.Vector{X: math.Cos(a), Y: math.Sin(a)}
	}
	return d
}

const (
	tornadoActiveAfter = 2.0
	tornadoRadius      = 3.0
	tornadoCooldown    = 3.0
	tornadoKnockback   = 10.0
	tornadoModel       = 2199
)

// Tornado knocks back anyone within three yalms per unit of scale, at most
// once every three seconds, after a short wind-up.
type Tornado struct {
	Elapsed       float64
	CooldownUntil float64
}

var TornadoComponent = component.NewComponent[Tornado]()

// step advances the tornado; hit is true when a player at distance should be
// knocked back this tick.
func (t Tornado) step(dt, distance, scale float64, haveTarget bool) (Tornado, bool) {
	t.Elapsed += dt
	if t.Elapsed < tornadoActiveAfter || t.Elapsed < t.CooldownUntil || !haveTarget {
		return t, false
	}
	if distance >= scale*tornadoRadius {
		return t, false
	}
	t.CooldownUntil = t.Elapsed + tornadoCooldown
	return t, true
}

// Orbit moves an entity around its parent's position at Speed yalms per
// second.
type Orbit struct {
	Clockwise bool
	Speed     float64
}

var OrbitComponent = component.NewComponent[Orbit]()

type TornadoKind struct{}

func (TornadoKind) Name() string { return KindTornado }

func (TornadoKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, component.FakeActorComponent.Kind(), &component.FakeActor{Name: KindTornado, ModelID: tornadoModel, HitRadius: tornadoRadius})
	_ = ecs.Add(w, e, TornadoComponent.Kind(), &Tornado{})
	return e
}

func (TornadoKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&orbitSystem{}, &tornadoSystem{d: d}}
}

type tornadoSystem struct {
	d Deps
}

func (s *tornadoSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	target, ok := localTarget(s.d.Game)
	ecs.ForEach2(w, TornadoComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tn *Tornado, t *component.Transform) {
		var hit bool
		*tn, hit = tn.step(dt, t.Ground().Distance(target.Position.Ground()), t.Scale.X, ok)
		if !hit {
			return
		}
		dir := knockbackAway(t.Ground(), target.Position.Ground(), s.d.Rand)
		punish(w, s.d, ecs.Nil, target, 0, status.NewKnockback(dir, tornadoKnockback, false))
	})
}

// orbitStep moves pos one tick around center.
func orbitStep(center, pos cp.Vector, o Orbit, dt float64) cp.Vector {
	sign := -1.0
	if o.Clockwise {
		sign = 1
	}
	angle := geom.ClampRadians(geom.AbsoluteAngle(center, pos) + sign*math.Pi/2)
	return pos.Add(geom.RotationToUnitVector(angle).Mult(o.Speed * dt))
}

type orbitSystem struct{}

func (s *orbitSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, OrbitComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, o *Orbit, t *component.Transform) {
		parent, ok := ecs.Parent(w, e)
		if !ok {
			return
		}
		center := transformOf(w, parent).Ground()
		t.Position = geom.FromGround(orbitStep(center, t.Ground(), *o, dt), t.Position.Y)
	})
}

const (
	twisterRadius    = 0.9
	twisterCooldown  = 3.0
	twisterKnockback = 2.0
	twisterVfx       = "bgcommon/world/common/vfx_for_btl/b0222/eff/b0222_twis_y.avfx"
)

// TwisterLaunchVfx play on a player launched by a twister.
var TwisterLaunchVfx = []string{
	"vfx/monster/gimmick/eff/bahamut_wyvn_uchiage_c0m.avfx",
	"vfx/monster/gimmick/eff/bahamut_wyvn_uchiage_c1m.avfx",
	"vfx/monster/gimmick/eff/bahamut_wyvn_uchiage_c2m.avfx",
}

// Twister is a small permanent whirlwind that launches anyone touching it.
type Twister struct {
	Cooldown float64
}

var TwisterComponent = component.NewComponent[Twister]()

func (t Twister) step(dt, distance float64, haveTarget bool) (Twister, bool) {
	t.Cooldown = math.Max(t.Cooldown-dt, 0)
	if t.Cooldown > 0 || !haveTarget || distance >= twisterRadius {
		return t, false
	}
	t.Cooldown = twisterCooldown
	return t, true
}

type TwisterKind struct{}

func (TwisterKind) Name() string { return KindTwister }

func (TwisterKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, component.StaticVfxComponent.Kind(), &component.StaticVfx{Path: twisterVfx})
	_ = ecs.Add(w, e, TwisterComponent.Kind(), &Twister{})
	return e
}

func (TwisterKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&twisterSystem{d: d}}
}

type twisterSystem struct {
	d Deps
}

func (s *twisterSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	target, ok := localTarget(s.d.Game)
	ecs.ForEach2(w, TwisterComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tw *Twister, t *component.Transform) {
		var hit bool
		*tw, hit = tw.step(dt, t.Ground().Distance(target.Position.Ground()), ok)
		if !hit {
			return
		}
		s.d.Log.Debug("twister launch", zap.Stringer("twister", e))
		for _, v := range TwisterLaunchVfx {
			system.SpawnActorVfx(w, v, target.ID, twisterCooldown, ecs.Nil)
		}
		dir := knockbackAway(t.Ground(), target.Position.Ground(), s.d.Rand)
		punish(w, s.d, ecs.Nil, target, 0, status.NewKnockback(dir, twisterKnockback, false))
	})
}

const (
	obstacleOuterRadius = 22.0
	obstacleSpacing     = 1.8
	obstacleSlots       = 5
	obstacleSets        = 10
)

// TwisterObstacleCourse fills a ring with alternating rows of twisters,
// leaving gaps to weave through. The layout is drawn from Rand, or from the
// shared generator when Rand is nil, on the first tick.
type TwisterObstacleCourse struct {
	Sets        int
	OuterRadius float64
	Rand        *rand.Rand
	spawned     bool
}

var TwisterObstacleCourseComponent = component.NewComponent[TwisterObstacleCourse]()

type TwisterObstacleCourseKind struct{}

func (TwisterObstacleCourseKind) Name() string { return KindTwisterObstacleCourse }

func (TwisterObstacleCourseKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, TwisterObstacleCourseComponent.Kind(), &TwisterObstacleCourse{Sets: obstacleSets, OuterRadius: obstacleOuterRadius})
	return e
}

func (TwisterObstacleCourseKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&obstacleCourseSystem{d: d}}
}

// obstacleLayout returns twister positions around center for a course
// rotated by offset radians.
func obstacleLayout(center cp.Vector, sets int, outer, offset float64) []cp.Vector {
	var out []cp.Vector
	for k := 0; k < sets*2; k++ {
		angle := geom.ClampRadians(float64(k)*math.Pi/float64(sets) + offset)
		evenRow := k%2 == 0
		for i := 0; i < obstacleSlots; i++ {
			if (i%2 == 0) == evenRow {
				continue
			}
			d := outer - twisterRadius - obstacleSpacing*float64(i)
			out = append(out, center.Add(cp.Vector{X: d * math.Cos(angle), Y: d * math.Sin(angle)}))
		}
	}
	return out
}

type obstacleCourseSystem struct {
	d Deps
}

func (s *obstacleCourseSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, TwisterObstacleCourseComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *TwisterObstacleCourse, t *component.Transform) {
		if c.spawned {
			return
		}
		c.spawned = true
		r := c.Rand
		if r == nil {
			r = s.d.Rand
		}
		offset := geom.DegToRad(float64(r.Intn(360)))
		for _, p := range obstacleLayout(t.Ground(), c.Sets, c.OuterRadius, offset) {
			TwisterKind{}.Create(w, Spawn{Position: geom.FromGround(p, t.Position.Y), Parent: e})
		}
	})
}
