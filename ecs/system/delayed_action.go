package system

import (
	"fmt"

	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"go.uber.org/zap"
)

// ScheduleAction runs fn once delay seconds of simulation have passed. When
// parent is not Nil the action is owned by it and never runs if the parent is
// destroyed first. Returns Nil if parent is already gone.
func ScheduleAction(w *ecs.World, delay float64, fn func(), parent ecs.Entity) ecs.Entity {
	return schedule(w, &component.DelayedAction{Remaining: delay, Action: fn}, parent)
}

// ScheduleEvery runs fn after delay and then every period seconds until the
// returned entity or its parent is destroyed.
func ScheduleEvery(w *ecs.World, delay, period float64, fn func(), parent ecs.Entity) ecs.Entity {
	return schedule(w, &component.DelayedAction{Remaining: delay, Every: period, Action: fn}, parent)
}

func schedule(w *ecs.World, action *component.DelayedAction, parent ecs.Entity) ecs.Entity {
	if w == nil || action.Action == nil {
		return ecs.Nil
	}
	if parent != ecs.Nil && !w.IsAlive(parent) {
		return ecs.Nil
	}
	if action.Remaining < 0 {
		action.Remaining = 0
	}
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.DelayedActionComponent.Kind(), action)
	if parent != ecs.Nil {
		_ = ecs.SetParent(w, e, parent)
	}
	return e
}

// DelayedActionSystem fires due DelayedActions. A callback that panics is
// logged and still consumed.
type DelayedActionSystem struct {
	log *zap.Logger
}

func NewDelayedActionSystem(log *zap.Logger) *DelayedActionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &DelayedActionSystem{log: log}
}

func (s *DelayedActionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.DelayedActionComponent.Kind(), func(e ecs.Entity, a *component.DelayedAction) {
		a.Remaining -= dt
		if a.Remaining > 0 {
			return
		}
		a.Remaining = 0

		s.run(e, a)
		a.Runs++

		if a.Every > 0 && w.IsAlive(e) {
			a.Remaining += a.Every
			return
		}
		ecs.DestroyEntity(w, e)
	})
}

func (s *DelayedActionSystem) run(e ecs.Entity, a *component.DelayedAction) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("delayed action panicked",
				zap.Stringer("entity", e),
				zap.String("label", a.Label),
				zap.Error(fmt.Errorf("%v", r)),
			)
		}
	}()
	a.Action()
}
