package ucob

import (
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

const (
	actionTransitionOctet   uint32 = 41
	actionTransitionPhoenix uint32 = 16462
)

const (
	limitCutDelay        = 5.5
	limitCutDuration     = 10.0
	gateLimitCutDelay    = 10.0
	transitionResolution = 16.0
)

var transitionCenter = geom.V3(100, 0, 100)

// Transition is the junction memory game squeezed into the phase
// transition: the octet shows the real telegraph first, the phoenix shows
// each player their own.
type Transition struct {
	mechanic.Base
	junction junction

	telegraphs []int
	symbols    []int
	resolution int
	primed     bool
}

func NewTransition(d mechanic.Deps, table []prefabs.JunctionSpec, radius float64) *Transition {
	m := &Transition{Base: mechanic.NewBase("Transition", d)}
	m.junction = junction{Base: &m.Base, table: table, center: transitionCenter, radius: radius}
	return m
}

func (m *Transition) Reset() {
	m.Base.Reset()
	m.telegraphs, m.symbols = nil, nil
	m.resolution = 0
	m.primed = false
}

func (m *Transition) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *Transition) OnCombatEnd() { m.Reset() }

func (m *Transition) OnActionEffect(a host.ActionEffect) {
	if len(a.Targets) == 0 {
		return
	}
	switch a.ActionID {
	case actionTransitionOctet:
		r := m.Rand(int64(actionTransitionOctet))
		m.telegraphs = permutation(r, junctionSlots)
		m.symbols = permutation(r, junctionSlots)
		m.resolution = r.Intn(junctionSlots - 1)
		m.primed = true
		m.junction.showAdds(m.telegraphs[0], 0)
		m.Log().Debug("transition rolled",
			zap.Int("resolution", m.resolution),
			zap.Int("telegraph", m.telegraphs[m.resolution]),
			zap.Int("symbol", m.symbols[m.resolution]))
	case actionTransitionPhoenix:
		if m.primed {
			m.phoenix()
		}
	}
}

func (m *Transition) phoenix() {
	local, ok := m.LocalPlayer()
	if !ok {
		return
	}
	idx := partyIndex(m.Game(), local, nil)
	if idx < 0 || idx >= junctionSlots {
		m.Log().Debug("local player outside the transition party", zap.Int("index", idx))
		return
	}
	telegraphs, symbols, resolution := m.telegraphs, m.symbols, m.resolution

	m.junction.showAdds(telegraphs[idx], 0)
	gates := m.junction.spawnGates()

	m.After(limitCutDelay, func() {
		if sink := m.Deps().Status; sink != nil {
			sink.Apply(local.ID, status.NewLimitCut(limitCutDuration, symbols[idx]+1))
		}
	})
	m.After(gateLimitCutDelay, func() {
		m.junction.markGates(gates, symbolVfx(symbols[resolution]))
	})
	m.After(transitionResolution, func() {
		m.junction.showAdds(telegraphs[resolution], 0)
	})
}
