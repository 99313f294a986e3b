package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
)

// LifetimeSystem counts down Lifetime components and destroys entities whose
// lifetime has run out.
type LifetimeSystem struct{}

func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{}
}

func (s *LifetimeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.LifetimeComponent.Kind(), func(e ecs.Entity, life *component.Lifetime) {
		life.Remaining -= dt
		if life.Remaining > 0 {
			return
		}
		ecs.DestroyEntity(w, e)
	})
}
