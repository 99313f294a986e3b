package ucob

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
)

// OctetObstacleCourse drops a donut of tornadoes under Bahamut as Grand
// Octet starts casting.
type OctetObstacleCourse struct {
	mechanic.Base
	courses int
}

func NewOctetObstacleCourse(d mechanic.Deps) *OctetObstacleCourse {
	return &OctetObstacleCourse{Base: mechanic.NewBase("OctetObstacleCourse", d)}
}

func (m *OctetObstacleCourse) Reset() {
	m.Base.Reset()
	m.courses = 0
}

func (m *OctetObstacleCourse) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *OctetObstacleCourse) OnCombatEnd() { m.Reset() }

func (m *OctetObstacleCourse) OnCastStart(c host.CastStart) {
	if c.ActionID != actionGrandOctet {
		return
	}
	e, ok := m.Spawn(attack.KindOctetDonut, attack.Spawn{Position: c.Position, Rotation: c.Rotation})
	if !ok {
		return
	}
	if d, ok := ecs.Get(m.World(), e, attack.OctetDonutComponent.Kind()); ok {
		d.Rand = m.Rand(int64(actionGrandOctet) + int64(m.courses))
	}
	m.courses++
}
