package attack

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/status"
)

// Ground decals for each omen shape.
const (
	CircleOmenVfx      = "vfx/omen/eff/general_1bf.avfx"
	FanOmenVfx         = "vfx/omen/eff/gl_fan090_1bf.avfx"
	Fan120OmenVfx      = "vfx/omen/eff/gl_fan120_1bf.avfx"
	RectangleOmenVfx   = "vfx/omen/eff/general02f.avfx"
	LongStarOmenVfx    = "vfx/omen/eff/m0935mist_omen_o0p.avfx"
	OneThirdDonutVfx   = "vfx/omen/eff/z5r2_b1_dnt_o0g.avfx"
	ExaflareOmenVfx    = "vfx/omen/eff/yazirushi1o0c.avfx"
	InvulnerabilityVfx = "vfx/common/eff/dk01gd_inv0h.avfx"
	CastingVfx         = "vfx/common/eff/mon_eisyo03t.avfx"
)

const idleAnimation uint16 = 34

// uniform returns a scale of s on every axis.
func uniform(s float64) geom.Vec3 {
	return geom.V3(s, s, s)
}

// scaleOr returns s unless it is zero.
func scaleOr(s, def geom.Vec3) geom.Vec3 {
	if s == (geom.Vec3{}) {
		return def
	}
	return s
}

// newAttack creates the root entity every kind starts from.
func newAttack(w *ecs.World, s Spawn, defaultScale geom.Vec3) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.AttackTagComponent.Kind(), &component.AttackTag{})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: s.Position,
		Rotation: s.Rotation,
		Scale:    scaleOr(s.Scale, defaultScale),
	})
	if s.Parent != ecs.Nil && w.IsAlive(s.Parent) {
		_ = ecs.SetParent(w, e, s.Parent)
	}
	return e
}

func transformOf(w *ecs.World, e ecs.Entity) component.Transform {
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return *t
	}
	return component.Transform{}
}

// spawnOmen creates a telegraph child of parent. With autoDestruct the omen
// removes itself after duration; otherwise it waits for its owner to consume
// it and duration only drives the fade.
func spawnOmen(w *ecs.World, parent ecs.Entity, shape geom.Shape, vfx string, t component.Transform, duration float64, autoDestruct bool) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.AttackTagComponent.Kind(), &component.AttackTag{})
	_ = ecs.Add(w, e, component.OmenTagComponent.Kind(), &component.OmenTag{})
	_ = ecs.Add(w, e, component.OmenComponent.Kind(), &component.Omen{Shape: shape, Vfx: vfx})
	_ = ecs.Add(w, e, component.OmenDurationComponent.Kind(), &component.OmenDuration{Duration: duration, AutoDestruct: autoDestruct && duration > 0})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &t)
	if vfx != "" {
		_ = ecs.Add(w, e, component.StaticVfxComponent.Kind(), &component.StaticVfx{Path: vfx})
	}
	if parent != ecs.Nil {
		_ = ecs.SetParent(w, e, parent)
	}
	return e
}

// omenChildren returns the omens directly under e.
func omenChildren(w *ecs.World, e ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	for _, c := range ecs.Children(w, e) {
		if ecs.Has(w, c, component.OmenComponent.Kind()) {
			out = append(out, c)
		}
	}
	return out
}

// snapshot hit-tests p against every omen under e and destroys them. When
// the target is missing the omens are still consumed.
func snapshot(w *ecs.World, e ecs.Entity, p cp.Vector, haveTarget bool) bool {
	hit := false
	for _, c := range omenChildren(w, e) {
		if haveTarget && !hit {
			if o, ok := ecs.Get(w, c, component.OmenComponent.Kind()); ok && o.Shape != nil {
				hit = o.Shape.Contains(p)
			}
		}
		ecs.DestroyEntity(w, c)
	}
	return hit
}

// spawnFakeActor creates a simulated model under parent.
func spawnFakeActor(w *ecs.World, parent ecs.Entity, name string, model int, t component.Transform) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.AttackTagComponent.Kind(), &component.AttackTag{})
	_ = ecs.Add(w, e, component.FakeActorComponent.Kind(), &component.FakeActor{Name: name, ModelID: model})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &t)
	if parent != ecs.Nil {
		_ = ecs.SetParent(w, e, parent)
	}
	return e
}

// addActorVfx attaches an effect child to e. Children of fake actors play at
// the actor.
func addActorVfx(w *ecs.World, e ecs.Entity, path string) ecs.Entity {
	return system.SpawnActorVfx(w, path, 0, 0, e)
}

func setAnimation(w *ecs.World, e ecs.Entity, anim uint16) {
	if a, ok := ecs.Get(w, e, component.FakeActorComponent.Kind()); ok {
		a.Animation = anim
	}
}

// localTarget returns the local player when present and alive.
func localTarget(g host.Avatar) (host.Actor, bool) {
	if g == nil {
		return host.Actor{}, false
	}
	a, ok := g.LocalPlayer()
	if !ok || !a.Alive {
		return host.Actor{}, false
	}
	return a, true
}

// punish applies effects to target after delay, parented to owner so the hit
// is cancelled with the attack.
func punish(w *ecs.World, d Deps, owner ecs.Entity, target host.Actor, delay float64, effects ...status.Effect) {
	punishWith(w, d, owner, target, delay, func() {
		if d.Status == nil {
			return
		}
		for _, e := range effects {
			d.Status.Apply(target.ID, e)
		}
	})
}

// punishWith runs hit after delay. Transcendent players only get the
// invulnerability flash.
func punishWith(w *ecs.World, d Deps, owner ecs.Entity, target host.Actor, delay float64, hit func()) {
	if target.HasStatus(host.StatusTranscendent) {
		hit = func() {
			if d.Game != nil {
				d.Game.PlayOnActor(InvulnerabilityVfx, target.ID)
			}
		}
	}
	if delay <= 0 {
		hit()
		return
	}
	system.ScheduleAction(w, delay, hit, owner)
}

// localPlayerHasCondition reports whether the mirrored local player holds a
// condition of kind.
func localPlayerHasCondition(w *ecs.World, kind status.Kind) bool {
	e, _, ok := system.LocalPlayer(w)
	if !ok {
		return false
	}
	return system.HasCondition(w, e, kind)
}
