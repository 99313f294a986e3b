package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

const (
	dreadknightModel        = 379
	dreadknightWalk         = 41
	dreadknightAttack       = 1515
	dreadknightEnrageAnim   = 1516
	dreadknightHitbox       = 2.5
	dreadknightSpeed        = 2.5
	dreadknightStun         = 8.0
	dreadknightStunID       = 0xDEAD
	dreadknightStunDelay    = 0.4
	dreadknightRefresh      = 3.0
	dreadknightInitialDelay = 2.0
	dreadknightRetarget     = 10.0
	dreadknightCastTime     = 5.0
	dreadknightEnrageStun   = 60.0
	dreadknightEnrageDelay  = 0.5
	dreadknightIdleFrom     = 295.0
	dreadknightExpire       = 300.0

	dreadknightTetherVfx = "vfx/channeling/eff/chn_tergetfix1f.avfx"
	dreadknightSleepVfx  = "vfx/common/eff/dk10ht_slp0h.avfx"
	dreadknightHeavyVfx  = "vfx/common/eff/dk10ht_grv0h.avfx"
	dreadknightEnrageVfx = "vfx/monster/m0150/eff/m150sp003c1m.avfx"
	// DreadknightEnrageText is shown when the Dreadknight enrages.
	DreadknightEnrageText = "Enraged without the sight of resistance, the Dreadknight lets out a deafening shrill!"
)

// dreadAction is what the Dreadknight does on one tick.
type dreadAction int

const (
	dreadWait dreadAction = iota
	dreadStand
	dreadHit
	dreadFollow
	dreadTargetLost
	dreadCastEnrage
	dreadEnrage
	dreadIdle
	dreadImpaired
)

// Dreadknight chases its tethered target and stuns it on contact. Without a
// target it winds up an enrage that stuns the local player for a minute.
// StartEnrage and Enrage are elapsed times; -1 marks a step already taken.
//
// Stunned, Asleep, Rooted and Slowed are remaining crowd control times. A
// stunned or sleeping knight does nothing, a rooted one turns but does not
// walk and a slowed one walks at SlowFactor of its speed.
type Dreadknight struct {
	Elapsed     float64
	NextRefresh float64
	StartEnrage float64
	Enrage      float64
	TargetID    uint64

	Stunned    float64
	Asleep     float64
	Rooted     float64
	Slowed     float64
	SlowFactor float64
	SpeedBonus float64
}

var DreadknightComponent = component.NewComponent[Dreadknight]()

func (d Dreadknight) speed() float64 {
	v := dreadknightSpeed + d.SpeedBonus
	if d.Slowed > 0 && d.SlowFactor > 0 {
		v *= d.SlowFactor
	}
	return v
}

// step decides the tick's action. targetAlive is only read while TargetID is
// set.
func (d Dreadknight) step(dt, distSq float64, targetAlive bool) (Dreadknight, dreadAction) {
	d.Elapsed += dt
	d.Stunned = max(0, d.Stunned-dt)
	d.Asleep = max(0, d.Asleep-dt)
	d.Rooted = max(0, d.Rooted-dt)
	d.Slowed = max(0, d.Slowed-dt)
	if d.Elapsed < dreadknightInitialDelay {
		return d, dreadWait
	}

	if d.TargetID != 0 {
		if !targetAlive {
			d.TargetID = 0
			d.StartEnrage = d.Elapsed + dreadknightRetarget
			return d, dreadTargetLost
		}
		if d.Stunned > 0 || d.Asleep > 0 {
			return d, dreadImpaired
		}
		if d.Elapsed < d.NextRefresh {
			return d, dreadStand
		}
		if distSq < dreadknightHitbox {
			d.NextRefresh = d.Elapsed + dreadknightRefresh
			return d, dreadHit
		}
		if d.Rooted > 0 {
			return d, dreadStand
		}
		return d, dreadFollow
	}

	if d.Elapsed < d.StartEnrage {
		return d, dreadWait
	}
	if d.Elapsed < d.Enrage {
		if d.StartEnrage <= -1 {
			return d, dreadWait
		}
		d.StartEnrage = -1
		d.Enrage = d.Elapsed + dreadknightCastTime
		return d, dreadCastEnrage
	}
	if d.Enrage <= -1 {
		if d.Elapsed < dreadknightIdleFrom {
			d.Elapsed = dreadknightIdleFrom
		}
		return d, dreadIdle
	}
	d.Enrage = -1
	return d, dreadEnrage
}

type DreadknightKind struct{}

func (DreadknightKind) Name() string { return KindDreadknight }

func (DreadknightKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, component.FakeActorComponent.Kind(), &component.FakeActor{
		Name:      KindDreadknight,
		ModelID:   dreadknightModel,
		HitRadius: dreadknightHitbox,
	})
	_ = ecs.Add(w, e, DreadknightComponent.Kind(), &Dreadknight{StartEnrage: 7, Enrage: 12})
	return e
}

func (DreadknightKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&dreadknightSystem{d: d}}
}

// ApplyTether points the Dreadknight at target. The tether shows after a
// short delay so the previous effect has stopped.
func ApplyTether(w *ecs.World, e ecs.Entity, target uint64) {
	if !ecs.Has(w, e, DreadknightComponent.Kind()) {
		return
	}
	ecs.Remove(w, e, component.ActorVfxComponent.Kind())
	system.ScheduleAction(w, 0.5, func() {
		if dk, ok := ecs.Get(w, e, DreadknightComponent.Kind()); ok {
			dk.TargetID = target
		}
		setActorVfx(w, e, dreadknightTetherVfx)
		if v, ok := ecs.Get(w, e, component.ActorVfxComponent.Kind()); ok {
			v.ActorID = target
		}
	}, e)
}

// ImpairDreadknight applies crowd control of kind for duration seconds.
// effectiveness is the share of speed a Heavy removes. Other kinds are
// ignored.
func ImpairDreadknight(w *ecs.World, e ecs.Entity, kind status.Kind, duration, effectiveness float64) bool {
	dk, ok := ecs.Get(w, e, DreadknightComponent.Kind())
	if !ok || duration <= 0 {
		return false
	}
	switch kind {
	case status.Stun:
		dk.Stunned = max(dk.Stunned, duration)
	case status.Sleep:
		dk.Asleep = max(dk.Asleep, duration)
		replaceKnightVfx(w, e, dreadknightSleepVfx, duration)
	case status.Bind:
		dk.Rooted = max(dk.Rooted, duration)
	case status.Heavy:
		dk.Slowed = max(dk.Slowed, duration)
		dk.SlowFactor = 1 - effectiveness
		replaceKnightVfx(w, e, dreadknightHeavyVfx, duration)
	default:
		return false
	}
	return true
}

// WakeDreadknight ends sleep and bind, the crowd control that damage breaks.
func WakeDreadknight(w *ecs.World, e ecs.Entity) bool {
	dk, ok := ecs.Get(w, e, DreadknightComponent.Kind())
	if !ok {
		return false
	}
	dk.Asleep = 0
	dk.Rooted = 0
	for _, c := range ecs.Children(w, e) {
		if v, ok := ecs.Get(w, c, component.ActorVfxComponent.Kind()); ok && v.Path == dreadknightSleepVfx {
			ecs.DestroyEntity(w, c)
		}
	}
	return true
}

// IncrementDreadknightSpeed makes the knight permanently faster.
func IncrementDreadknightSpeed(w *ecs.World, e ecs.Entity, inc float64) bool {
	dk, ok := ecs.Get(w, e, DreadknightComponent.Kind())
	if !ok {
		return false
	}
	dk.SpeedBonus += inc
	return true
}

func DreadknightHasTarget(w *ecs.World, e ecs.Entity) bool {
	dk, ok := ecs.Get(w, e, DreadknightComponent.Kind())
	return ok && dk.TargetID != 0
}

// ChangeDreadknightTetherVfx redraws the current tether with path.
func ChangeDreadknightTetherVfx(w *ecs.World, e ecs.Entity, path string) bool {
	v, ok := ecs.Get(w, e, component.ActorVfxComponent.Kind())
	if !ok {
		return false
	}
	v.Path = path
	return true
}

// replaceKnightVfx shows a crowd control effect on the knight, replacing any
// earlier one with the same path.
func replaceKnightVfx(w *ecs.World, e ecs.Entity, path string, lifetime float64) {
	for _, c := range ecs.Children(w, e) {
		if v, ok := ecs.Get(w, c, component.ActorVfxComponent.Kind()); ok && v.Path == path {
			ecs.DestroyEntity(w, c)
		}
	}
	system.SpawnActorVfx(w, path, 0, lifetime, e)
}

type dreadknightSystem struct {
	d Deps
}

func (s *dreadknightSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, DreadknightComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, dk *Dreadknight, t *component.Transform) {
		var target host.Actor
		alive := false
		if dk.TargetID != 0 && s.d.Game != nil {
			target, alive = s.d.Game.Actor(dk.TargetID)
			alive = alive && target.Alive
		}
		targetPos := target.Position.Ground()
		var action dreadAction
		*dk, action = dk.step(dt, t.Ground().DistanceSq(targetPos), alive)

		switch action {
		case dreadStand, dreadHit, dreadFollow:
			t.Rotation = geom.AbsoluteAngle(t.Ground(), targetPos)
		}

		switch action {
		case dreadStand, dreadIdle:
			setAnimation(w, e, 0)
		case dreadHit:
			setAnimation(w, e, dreadknightAttack)
			s.stunLocal(w, e, dreadknightStun, dreadknightStunDelay)
		case dreadFollow:
			setAnimation(w, e, dreadknightWalk)
			p := t.Ground().Add(t.Facing().Mult(dk.speed() * dt))
			t.Position = geom.FromGround(p, t.Position.Y)
		case dreadTargetLost:
			ecs.Remove(w, e, component.ActorVfxComponent.Kind())
		case dreadCastEnrage:
			system.ScheduleAction(w, dreadknightEnrageDelay, func() { setActorVfx(w, e, CastingVfx) }, e)
		case dreadEnrage:
			ecs.Remove(w, e, component.ActorVfxComponent.Kind())
			if s.d.Game != nil {
				s.d.Game.Toast(DreadknightEnrageText)
			}
			s.d.Log.Info("dreadknight enraged", zap.Stringer("entity", e))
			setAnimation(w, e, dreadknightEnrageAnim)
			system.ScheduleAction(w, dreadknightEnrageDelay, func() { setActorVfx(w, e, dreadknightEnrageVfx) }, e)
			s.stunLocal(w, e, dreadknightEnrageStun, dreadknightEnrageDelay)
		}

		if dk.Elapsed > dreadknightExpire {
			ecs.DestroyEntity(w, e)
		}
	})
}

func (s *dreadknightSystem) stunLocal(w *ecs.World, e ecs.Entity, duration, delay float64) {
	target, ok := localTarget(s.d.Game)
	if !ok {
		return
	}
	punish(w, s.d, e, target, delay, status.NewStun(duration).WithID(dreadknightStunID))
}
