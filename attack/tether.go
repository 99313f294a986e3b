package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
)

// TetherVfx selects the line drawn between the two ends of a tether.
type TetherVfx int

const (
	TetherActivatedClose TetherVfx = iota
	TetherActivatedFar
	TetherDelayedClose
	TetherDelayedFar
)

var tetherVfxPaths = map[TetherVfx]string{
	TetherActivatedClose: "vfx/channeling/eff/chn_alpha0h.avfx",
	TetherActivatedFar:   "vfx/channeling/eff/chn_beta0h.avfx",
	TetherDelayedClose:   "vfx/channeling/eff/chn_m0771_alpha0c.avfx",
	TetherDelayedFar:     "vfx/channeling/eff/chn_m0771_beta0c.avfx",
}

func (v TetherVfx) Path() string {
	return tetherVfxPaths[v]
}

// DistanceTetherKind creates a continuously judged tether. Callers fill in
// the ends and bounds with ConfigureTether, then ActivateTether.
type DistanceTetherKind struct{}

func (DistanceTetherKind) Name() string { return KindDistanceTether }

func (DistanceTetherKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, component.TetherComponent.Kind(), &component.Tether{RunOnce: true})
	return e
}

func (DistanceTetherKind) Systems(d Deps) []ecs.System {
	return []ecs.System{system.NewTetherSystem(d.Game, d.Status, d.Log, false)}
}

// DistanceSnapshotTetherKind creates a tether judged once on activation.
type DistanceSnapshotTetherKind struct{}

func (DistanceSnapshotTetherKind) Name() string { return KindDistanceSnapshotTether }

func (DistanceSnapshotTetherKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, component.TetherComponent.Kind(), &component.Tether{Snapshot: true})
	return e
}

func (DistanceSnapshotTetherKind) Systems(d Deps) []ecs.System {
	return []ecs.System{system.NewTetherSystem(d.Game, d.Status, d.Log, true)}
}

// ConfigureTether edits the tether on e in place. It reports false when e
// is not a tether.
func ConfigureTether(w *ecs.World, e ecs.Entity, fn func(*component.Tether)) bool {
	t, ok := ecs.Get(w, e, component.TetherComponent.Kind())
	if !ok {
		return false
	}
	snapshot := t.Snapshot
	fn(t)
	t.Snapshot = snapshot
	return true
}

// ActivateTether starts judging the tether on e.
func ActivateTether(w *ecs.World, e ecs.Entity) bool {
	return ConfigureTether(w, e, func(t *component.Tether) { t.Activated = true })
}

// SetTetherVfx draws v from the tether's source. The line is applied on the
// next tick so an existing line is stopped first.
func SetTetherVfx(w *ecs.World, e ecs.Entity, v TetherVfx) {
	t, ok := ecs.Get(w, e, component.TetherComponent.Kind())
	if !ok {
		return
	}
	source := t.SourceID
	RemoveTetherVfx(w, e)
	system.ScheduleAction(w, 0, func() {
		_ = ecs.Add(w, e, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: v.Path(), ActorID: source})
	}, e)
}

func RemoveTetherVfx(w *ecs.World, e ecs.Entity) {
	ecs.Remove(w, e, component.ActorVfxComponent.Kind())
}
