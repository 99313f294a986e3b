package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/phase"
)

type VoidGatePhase int

const (
	VoidGateSpawn VoidGatePhase = iota
	VoidGateExpel
	VoidGateReset
)

const (
	voidGateAbsorbVfx = "vfx/monster/c0101/eff/c0101wpinc0c.avfx"
	voidGateExpelVfx  = "vfx/monster/c0101/eff/c0101wpouc0c.avfx"
	voidGateActorVfx  = "chara/monster/m0273/obj/body/b0001/vfx/eff/vm0001.avfx"
	voidGateVfxDelay  = 0.5
)

const (
	voidGateSpawnAt  = 5.5
	voidGateExpelAt  = 16.0
	voidGateResetGap = 4.0
)

func voidGateTimeline(spawn, expel float64) phase.Timeline[VoidGatePhase] {
	return phase.NewTimeline(
		phase.At(VoidGateSpawn, spawn),
		phase.At(VoidGateExpel, expel),
		phase.At(VoidGateReset, expel+voidGateResetGap),
	)
}

// VoidGate is a purely visual portal: it opens, stays a while and expels.
// SpawnAt and ExpelAt default to 5.5 and 16 seconds.
type VoidGate struct {
	State     phase.State[VoidGatePhase]
	SpawnAt   float64
	ExpelAt   float64
	Animation ecs.Entity
	Gate      ecs.Entity
}

func (g VoidGate) timeline() phase.Timeline[VoidGatePhase] {
	spawn, expel := g.SpawnAt, g.ExpelAt
	if spawn <= 0 {
		spawn = voidGateSpawnAt
	}
	if expel <= spawn {
		expel = max(voidGateExpelAt, spawn)
	}
	return voidGateTimeline(spawn, expel)
}

var VoidGateComponent = component.NewComponent[VoidGate]()

type VoidGateKind struct{}

func (VoidGateKind) Name() string { return KindVoidGate }

func (VoidGateKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	t := transformOf(w, e)
	g := VoidGate{
		Animation: spawnFakeActor(w, e, "void gate caster", -1, t),
		Gate:      spawnFakeActor(w, e, "void gate", -1, t),
	}
	g.State = g.timeline().Start()
	_ = ecs.Add(w, e, VoidGateComponent.Kind(), &g)
	return e
}

func (VoidGateKind) Systems(Deps) []ecs.System {
	return []ecs.System{ecs.SystemFunc(updateVoidGates)}
}

// SetVoidGateTimings moves when the gate opens and expels. It has no effect
// once the gate has opened.
func SetVoidGateTimings(w *ecs.World, e ecs.Entity, spawnAt, expelAt float64) bool {
	g, ok := ecs.Get(w, e, VoidGateComponent.Kind())
	if !ok || g.State.Phase != VoidGateSpawn {
		return false
	}
	g.SpawnAt, g.ExpelAt = spawnAt, expelAt
	return true
}

// MarkVoidGate plays path over the gate until it is destroyed.
func MarkVoidGate(w *ecs.World, e ecs.Entity, path string) bool {
	g, ok := ecs.Get(w, e, VoidGateComponent.Kind())
	if !ok || !w.IsAlive(g.Animation) {
		return false
	}
	addActorVfx(w, g.Animation, path)
	return true
}

func updateVoidGates(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, VoidGateComponent.Kind(), func(e ecs.Entity, g *VoidGate) {
		var fired []VoidGatePhase
		g.State, fired = g.timeline().Tick(g.State, dt)
		for _, p := range fired {
			switch p {
			case VoidGateSpawn:
				setActorVfx(w, g.Animation, voidGateAbsorbVfx)
				gate := g.Gate
				system.ScheduleAction(w, voidGateVfxDelay, func() { setActorVfx(w, gate, voidGateActorVfx) }, e)
			case VoidGateExpel:
				setActorVfx(w, g.Animation, voidGateExpelVfx)
				gate := g.Gate
				system.ScheduleAction(w, voidGateVfxDelay, func() { ecs.DestroyEntity(w, gate) }, e)
			case VoidGateReset:
				ecs.DestroyEntity(w, e)
				return
			}
		}
	})
}

// setActorVfx replaces the effect playing on a fake actor. Stale handles are
// ignored.
func setActorVfx(w *ecs.World, e ecs.Entity, path string) {
	if !w.IsAlive(e) {
		return
	}
	if v, ok := ecs.Get(w, e, component.ActorVfxComponent.Kind()); ok {
		v.Path = path
		return
	}
	_ = ecs.Add(w, e, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: path})
}
