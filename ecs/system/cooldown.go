package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
)

// CooldownSystem counts down Cooldown components and removes them once they
// expire.
type CooldownSystem struct{}

func NewCooldownSystem() *CooldownSystem {
	return &CooldownSystem{}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.CooldownComponent.Kind(), func(e ecs.Entity, cd *component.Cooldown) {
		cd.Remaining -= dt
		if cd.Remaining > 0 {
			return
		}
		_ = ecs.Remove(w, e, component.CooldownComponent.Kind())
	})
}
