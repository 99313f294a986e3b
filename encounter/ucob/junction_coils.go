package ucob

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/rng"
	"go.uber.org/zap"
)

const (
	actionGrandOctet uint32 = 9959
	actionTeraflare  uint32 = 9961
)

const (
	octetMessage   = "Bahamut draws from your memories..."
	phoenixMessage = "You are granted a unique vision..."

	octetDelay       = 40.0
	telegraphDelay   = 8.0
	teraflareDelay   = 8.0
	gateMarkerDelay  = teraflareDelay + 10
	portalMarkDelay  = teraflareDelay + 25
	resolutionDelay  = teraflareDelay + 35
	junctionEndDelay = resolutionDelay + 5

	gateOpenDelay  = 4.0
	gateExpelDelay = 24.2
)

// JunctionCoils replays a memory of the junction adds after Grand Octet, and
// after Teraflare gives every player a different vision of them. Only one
// vision is real; the void gates show which.
type JunctionCoils struct {
	mechanic.Base
	junction junction
}

func NewJunctionCoils(d mechanic.Deps, table []prefabs.JunctionSpec, radius float64) *JunctionCoils {
	m := &JunctionCoils{Base: mechanic.NewBase("JunctionCoils", d)}
	m.junction = junction{Base: &m.Base, table: table, center: arenaCenter, radius: radius}
	return m
}

func (m *JunctionCoils) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *JunctionCoils) OnCombatEnd() { m.Reset() }

func (m *JunctionCoils) OnActionEffect(a host.ActionEffect) {
	if len(a.Targets) == 0 {
		return
	}
	switch a.ActionID {
	case actionGrandOctet:
		telegraph := m.Rand(int64(actionGrandOctet)).Intn(len(m.junction.table) - 1)
		m.After(octetDelay, func() {
			m.Toast(octetMessage)
			m.junction.showAdds(telegraph, telegraphDelay)
		})
	case actionTeraflare:
		m.teraflare()
	}
}

func (m *JunctionCoils) teraflare() {
	local, ok := m.LocalPlayer()
	if !ok {
		return
	}
	r := m.Rand(int64(actionTeraflare))
	idx := partyIndex(m.Game(), local, func(party []host.Actor) {
		rng.Shuffle(r, len(party), func(i, j int) { party[i], party[j] = party[j], party[i] })
	})
	telegraphs := permutation(r, junctionSlots)
	symbols := permutation(r, junctionSlots)
	resolution := r.Intn(junctionSlots - 1)
	if idx < 0 || idx >= junctionSlots {
		m.Log().Debug("local player outside the junction party", zap.Int("index", idx))
		return
	}

	m.After(teraflareDelay, func() {
		m.Toast(phoenixMessage)
		m.junction.showAdds(telegraphs[idx], telegraphDelay)
	})

	var gates []ecs.Entity
	m.After(gateMarkerDelay, func() {
		gates = m.junction.spawnGates()
		for _, g := range gates {
			attack.SetVoidGateTimings(m.World(), g, gateOpenDelay, gateExpelDelay)
		}
		m.Track(system.SpawnActorVfx(m.World(), symbolVfx(symbols[idx]), local.ID, 0, ecs.Nil))
	})
	m.After(portalMarkDelay, func() {
		m.junction.markGates(gates, symbolVfx(symbols[resolution]))
	})
	m.After(resolutionDelay, func() {
		m.junction.showAdds(telegraphs[resolution], 0)
	})
	m.After(junctionEndDelay, m.Reset)
}
