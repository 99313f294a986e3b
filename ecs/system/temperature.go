package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/status"
)

const (
	OverheatVfx   = "vfx/common/eff/dk10ht_hea0s.avfx"
	DeepfreezeVfx = "vfx/common/eff/hyouketu0f.avfx"
)

// EnsureTemperature gives player a temperature gauge if it has none and
// returns it.
func EnsureTemperature(w *ecs.World, player ecs.Entity) ecs.Entity {
	if g, ok := temperatureGauge(w, player); ok {
		return g
	}
	g := w.CreateEntity()
	_ = ecs.Add(w, g, component.TemperatureComponent.Kind(), &component.Temperature{})
	_ = ecs.SetParent(w, g, player)
	return g
}

// Temperature returns the player's current gauge reading.
func Temperature(w *ecs.World, player ecs.Entity) (*component.Temperature, bool) {
	g, ok := temperatureGauge(w, player)
	if !ok {
		return nil, false
	}
	return ecs.Get(w, g, component.TemperatureComponent.Kind())
}

// SetTemperature overwrites the player's gauge and drops every pending or
// cooling delta.
func SetTemperature(w *ecs.World, player ecs.Entity, value float64) {
	g := EnsureTemperature(w, player)
	t, ok := ecs.Get(w, g, component.TemperatureComponent.Kind())
	if !ok {
		return
	}
	t.Current = status.ClampTemperature(value)
	for _, child := range ecs.Children(w, g) {
		if ecs.Has(w, child, component.TemperatureDeltaComponent.Kind()) {
			ecs.DestroyEntity(w, child)
		}
	}
}

func temperatureGauge(w *ecs.World, player ecs.Entity) (ecs.Entity, bool) {
	for _, child := range ecs.Children(w, player) {
		if ecs.Has(w, child, component.TemperatureComponent.Kind()) {
			return child, true
		}
	}
	return ecs.Nil, false
}

// TemperatureSystem applies pending heat deltas, drops deltas whose
// reapplication cooldown has run out and keeps the overheat and deepfreeze
// effects in step with the gauge. Death resets the gauge to zero.
type TemperatureSystem struct{}

func NewTemperatureSystem() *TemperatureSystem {
	return &TemperatureSystem{}
}

func (s *TemperatureSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TemperatureDeltaComponent.Kind(), func(e ecs.Entity, d *component.TemperatureDelta) {
		gauge, ok := ecs.Parent(w, e)
		if !ok {
			ecs.DestroyEntity(w, e)
			return
		}
		t, ok := ecs.Get(w, gauge, component.TemperatureComponent.Kind())
		if !ok {
			ecs.DestroyEntity(w, e)
			return
		}
		if !d.Applied {
			d.Applied = true
			t.Current = status.ClampTemperature(t.Current + d.Value)
		}
		if !ecs.Has(w, e, component.CooldownComponent.Kind()) {
			ecs.DestroyEntity(w, e)
		}
	})

	ecs.ForEach(w, component.TemperatureComponent.Kind(), func(e ecs.Entity, t *component.Temperature) {
		if _, p, ok := owningPlayer(w, e); ok && !p.Alive {
			t.Current = 0
		}
		band := status.Classify(t.Current)
		if band == t.Band {
			return
		}
		t.Band = band
		_ = ecs.Remove(w, e, component.ActorVfxComponent.Kind())
		switch band {
		case status.Overheated:
			_ = ecs.Add(w, e, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: OverheatVfx})
		case status.Deepfrozen:
			_ = ecs.Add(w, e, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: DeepfreezeVfx})
		}
	})
}
