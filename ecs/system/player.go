package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/host"
)

// PlayerSyncSystem mirrors the host's local player into the world so
// conditions have an entity to hang off. The entity survives the avatar
// disappearing; it is only marked dead.
type PlayerSyncSystem struct {
	avatar host.Avatar
}

func NewPlayerSyncSystem(avatar host.Avatar) *PlayerSyncSystem {
	return &PlayerSyncSystem{avatar: avatar}
}

func (s *PlayerSyncSystem) Update(w *ecs.World) {
	if w == nil || s.avatar == nil {
		return
	}
	actor, ok := s.avatar.LocalPlayer()
	e, p, found := LocalPlayer(w)
	if !ok {
		if found {
			p.Alive = false
		}
		return
	}
	if !found {
		e = w.CreateEntity()
		p = &component.Player{}
		_ = ecs.Add(w, e, component.PlayerComponent.Kind(), p)
		_ = ecs.Add(w, e, component.LocalPlayerTagComponent.Kind(), &component.LocalPlayerTag{})
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
	}
	p.ActorID = actor.ID
	p.Alive = actor.Alive
	p.Statuses = append(p.Statuses[:0], actor.Statuses...)
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Position = actor.Position
		t.Rotation = actor.Rotation
	}
}

// LocalPlayer returns the local player entity.
func LocalPlayer(w *ecs.World) (ecs.Entity, *component.Player, bool) {
	e, ok := ecs.First(w, component.LocalPlayerTagComponent.Kind())
	if !ok {
		return ecs.Nil, nil, false
	}
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return ecs.Nil, nil, false
	}
	return e, p, true
}

// PlayerByActor returns the player entity mirroring actorID.
func PlayerByActor(w *ecs.World, actorID uint64) (ecs.Entity, *component.Player, bool) {
	found := ecs.Nil
	var player *component.Player
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(e ecs.Entity, p *component.Player) {
		if found == ecs.Nil && p.ActorID == actorID {
			found, player = e, p
		}
	})
	return found, player, found != ecs.Nil
}

// owningPlayer walks up from e to the nearest Player ancestor.
func owningPlayer(w *ecs.World, e ecs.Entity) (ecs.Entity, *component.Player, bool) {
	for cur, ok := e, true; ok; cur, ok = ecs.Parent(w, cur) {
		if p, has := ecs.Get(w, cur, component.PlayerComponent.Kind()); has {
			return cur, p, true
		}
	}
	return ecs.Nil, nil, false
}
