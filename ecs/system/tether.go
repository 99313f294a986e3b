package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/host"
	"go.uber.org/zap"
)

const tetherResolveVfxLifetime = 5.0

// TetherGame is the part of the host a tether needs: both ends are looked up
// by id and the penalty lands on the local player.
type TetherGame interface {
	host.Avatar
	host.Actors
}

// TetherSystem judges activated tethers. Snapshot selects which tethers this
// instance owns so continuous and one-shot tethers can be installed
// independently.
type TetherSystem struct {
	game     TetherGame
	sink     host.StatusSink
	log      *zap.Logger
	snapshot bool
}

func NewTetherSystem(game TetherGame, sink host.StatusSink, log *zap.Logger, snapshot bool) *TetherSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &TetherSystem{game: game, sink: sink, log: log, snapshot: snapshot}
}

func (s *TetherSystem) Update(w *ecs.World) {
	if w == nil || s.game == nil {
		return
	}
	ecs.ForEach(w, component.TetherComponent.Kind(), func(e ecs.Entity, t *component.Tether) {
		if t.Snapshot != s.snapshot || !t.Activated {
			return
		}
		if t.RunOnce && t.Broken {
			return
		}

		source, okSource := s.game.Actor(t.SourceID)
		target, okTarget := s.game.Actor(t.TargetID)
		valid := okSource && okTarget && source.Alive && target.Alive
		if !valid {
			if t.Snapshot {
				ecs.DestroyEntity(w, e)
			}
			return
		}

		distance := source.Position.Ground().Distance(target.Position.Ground())
		failed := t.Failed(distance)
		if failed {
			s.penalize(t)
		}

		if t.Snapshot {
			paths := t.SuccessVfx
			if failed {
				paths = t.FailVfx
			}
			playTetherVfx(w, ecs.Nil, *t, paths)
			ecs.DestroyEntity(w, e)
			return
		}

		if !failed {
			return
		}
		if t.RunOnce {
			playTetherVfx(w, e, *t, t.FailVfx)
		}
		t.Broken = true
		s.log.Debug("tether broken",
			zap.Stringer("tether", e),
			zap.Float64("distance", distance))
	})
}

func (s *TetherSystem) penalize(t *component.Tether) {
	if s.sink == nil || len(t.Penalty) == 0 {
		return
	}
	player, ok := s.game.LocalPlayer()
	if !ok || !player.Alive {
		return
	}
	for _, effect := range t.Penalty {
		s.sink.Apply(player.ID, effect)
	}
}

// playTetherVfx plays each path on the ends selected by the tether. A Nil
// parent gives the effects their own lifetime.
func playTetherVfx(w *ecs.World, parent ecs.Entity, t component.Tether, paths []string) {
	var ends []uint64
	if t.VfxTarget != component.TetherOnlyTarget {
		ends = append(ends, t.SourceID)
	}
	if t.VfxTarget != component.TetherOnlySource {
		ends = append(ends, t.TargetID)
	}
	lifetime := 0.0
	if parent == ecs.Nil {
		lifetime = tetherResolveVfxLifetime
	}
	for _, id := range ends {
		for _, p := range paths {
			SpawnActorVfx(w, p, id, lifetime, parent)
		}
	}
}

// TetherBroken reports whether the tether on e has failed.
func TetherBroken(w *ecs.World, e ecs.Entity) bool {
	t, ok := ecs.Get(w, e, component.TetherComponent.Kind())
	return ok && t.Broken
}
