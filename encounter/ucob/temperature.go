package ucob

import (
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/status"
)

// TemperatureControl heats or chills the local player when the fight's fire
// and ice attacks land on them.
type TemperatureControl struct {
	mechanic.Base
	spec prefabs.UCoBSpec

	// stacks is how many stacking hits have landed this pull.
	stacks int
}

func NewTemperatureControl(d mechanic.Deps, spec prefabs.UCoBSpec) *TemperatureControl {
	return &TemperatureControl{Base: mechanic.NewBase("TemperatureControl", d), spec: spec}
}

// Reset drops pending heat and returns the gauge to neutral.
func (m *TemperatureControl) Reset() {
	m.Base.Reset()
	m.stacks = 0
	if e, _, ok := system.LocalPlayer(m.World()); ok {
		system.SetTemperature(m.World(), e, 0)
	}
}

func (m *TemperatureControl) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *TemperatureControl) OnActionEffect(a host.ActionEffect) {
	if a.SourceID == 0 {
		return
	}
	heat, ok := m.spec.HeatFor(a.ActionID)
	if !ok {
		return
	}
	local, ok := m.LocalPlayer()
	if !ok {
		return
	}
	m.After(heat.Delay, func() {
		if !a.TargetsActor(local.ID) {
			return
		}
		delta := heat.Value
		if heat.Stacking {
			m.stacks++
			delta *= float64(m.stacks)
		}
		if e, _, ok := system.LocalPlayer(m.World()); ok {
			system.EnsureTemperature(m.World(), e)
		}
		if sink := m.Deps().Status; sink != nil {
			sink.Apply(local.ID, status.NewHeatChange(delta, 0, int(heat.Action)))
		}
	})
}
