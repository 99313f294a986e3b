package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
)

type playedVfx struct {
	handle host.VfxHandle
	path   string
}

// VfxSystem forwards StaticVfx and ActorVfx components to the host. Each
// component plays once; the effect is stopped when its entity is destroyed or
// the component is removed or replaced.
type VfxSystem struct {
	sink    host.VfxSink
	playing map[ecs.Entity]playedVfx
}

func NewVfxSystem(sink host.VfxSink) *VfxSystem {
	return &VfxSystem{sink: sink, playing: make(map[ecs.Entity]playedVfx)}
}

func (s *VfxSystem) Update(w *ecs.World) {
	if w == nil || s.sink == nil {
		return
	}

	for e, p := range s.playing {
		if current, ok := vfxPath(w, e); ok && current == p.path {
			continue
		}
		s.sink.Stop(p.handle)
		delete(s.playing, e)
	}

	ecs.ForEach2(w, component.StaticVfxComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, v *component.StaticVfx, t *component.Transform) {
		if _, ok := s.playing[e]; ok || v.Path == "" {
			return
		}
		h := s.sink.PlayStatic(v.Path, t.Position, t.Rotation, t.Scale)
		s.playing[e] = playedVfx{handle: h, path: v.Path}
	})

	ecs.ForEach(w, component.ActorVfxComponent.Kind(), func(e ecs.Entity, v *component.ActorVfx) {
		if _, ok := s.playing[e]; ok || v.Path == "" {
			return
		}
		target := v.ActorID
		if target == 0 {
			if t, ok := owningFakeActor(w, e); ok {
				h := s.sink.PlayStatic(v.Path, t.Position, t.Rotation, t.Scale)
				s.playing[e] = playedVfx{handle: h, path: v.Path}
				return
			}
			_, p, ok := owningPlayer(w, e)
			if !ok {
				return
			}
			target = p.ActorID
		}
		h := s.sink.PlayOnActor(v.Path, target)
		s.playing[e] = playedVfx{handle: h, path: v.Path}
	})
}

// owningFakeActor finds the transform of the nearest FakeActor at or above
// e. Fake actors only exist in the simulation, so their effects are played
// in place.
func owningFakeActor(w *ecs.World, e ecs.Entity) (*component.Transform, bool) {
	for cur, ok := e, true; ok; cur, ok = ecs.Parent(w, cur) {
		if !ecs.Has(w, cur, component.FakeActorComponent.Kind()) {
			continue
		}
		t, has := ecs.Get(w, cur, component.TransformComponent.Kind())
		return t, has
	}
	return nil, false
}

// StopAll stops every effect started by this system.
func (s *VfxSystem) StopAll() {
	for e, p := range s.playing {
		s.sink.Stop(p.handle)
		delete(s.playing, e)
	}
}

// Playing returns how many effects are live.
func (s *VfxSystem) Playing() int {
	return len(s.playing)
}

func vfxPath(w *ecs.World, e ecs.Entity) (string, bool) {
	if !w.IsAlive(e) {
		return "", false
	}
	if v, ok := ecs.Get(w, e, component.StaticVfxComponent.Kind()); ok {
		return v.Path, true
	}
	if v, ok := ecs.Get(w, e, component.ActorVfxComponent.Kind()); ok {
		return v.Path, true
	}
	return "", false
}

// SpawnStaticVfx creates a one-shot effect entity at pos that lives for
// lifetime seconds. A non-Nil parent owns it.
func SpawnStaticVfx(w *ecs.World, path string, pos geom.Vec3, rotation float64, scale geom.Vec3, lifetime float64, parent ecs.Entity) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.StaticVfxComponent.Kind(), &component.StaticVfx{Path: path})
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: rotation, Scale: scale})
	if lifetime > 0 {
		_ = ecs.Add(w, e, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: lifetime})
	}
	if parent != ecs.Nil {
		_ = ecs.SetParent(w, e, parent)
	}
	return e
}

// SpawnActorVfx creates an effect on actorID (or on the owning player when
// actorID is zero) that lives for lifetime seconds, or as long as parent when
// lifetime is zero.
func SpawnActorVfx(w *ecs.World, path string, actorID uint64, lifetime float64, parent ecs.Entity) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: path, ActorID: actorID})
	if lifetime > 0 {
		_ = ecs.Add(w, e, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: lifetime})
	}
	if parent != ecs.Nil {
		_ = ecs.SetParent(w, e, parent)
	}
	return e
}
