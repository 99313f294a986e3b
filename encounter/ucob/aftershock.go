package ucob

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
)

const (
	aftershockScale     = 30.0
	aftershockOmenTime  = 0.6
	aftershockHitTime   = 1.2
	aftershockClearTime = 1.8
	aftershockVfx       = "vfx/omen/eff/general_1bf.avfx"
)

// TankbusterAftershock follows every tankbuster with a wide cleave in the
// direction the boss is facing.
type TankbusterAftershock struct {
	mechanic.Base
	actions prefabs.ActionSet
}

func NewTankbusterAftershock(d mechanic.Deps, actions []uint32) *TankbusterAftershock {
	return &TankbusterAftershock{
		Base:    mechanic.NewBase("TankbusterAftershock", d),
		actions: prefabs.NewActionSet(actions...),
	}
}

// OnDirectorUpdate only clears on a wipe; a cleave in flight survives a
// recommence.
func (m *TankbusterAftershock) OnDirectorUpdate(c host.DirectorCategory) {
	if c == host.DirectorWipe {
		m.Reset()
	}
}

func (m *TankbusterAftershock) OnActionEffect(a host.ActionEffect) {
	if a.SourceID == 0 || !m.actions.Has(a.ActionID) {
		return
	}
	pos, rot := a.SourcePosition, a.SourceRotation
	scale := geom.V3(aftershockScale, aftershockScale, aftershockScale)
	w := m.World()

	omen, _ := m.Spawn(attack.KindFanOmen, attack.Spawn{Position: pos, Rotation: rot, Scale: scale})
	var fan ecs.Entity
	m.After(aftershockOmenTime, func() {
		fan, _ = m.Spawn(attack.KindFan, attack.Spawn{Position: pos, Rotation: rot, Scale: scale})
		if omen != ecs.Nil {
			ecs.DestroyEntity(w, omen)
		}
	})
	m.After(aftershockHitTime, func() {
		m.Track(system.SpawnStaticVfx(w, aftershockVfx, pos, rot, geom.V3(1, 1, 1), aftershockClearTime-aftershockHitTime, ecs.Nil))
	})
	m.After(aftershockClearTime, func() {
		if fan != ecs.Nil {
			ecs.DestroyEntity(w, fan)
		}
	})
}
