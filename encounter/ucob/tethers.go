package ucob

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/rng"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

const (
	castHeavensfallTrio uint32 = 9957
	actionTwistingDive  uint32 = 9906
	actionHeavensfall   uint32 = 9911
)

const (
	tetherActivateDelay   = 0.5
	closeTetherBreakpoint = 10.0
	farTetherBreakpoint   = 30.0
	tetherStun            = 15.0
	partySize             = 8
)

var (
	tetherFailVfx    = []string{"vfx/lockon/eff/m0489trg_b0c.avfx", "vfx/monster/m0005/eff/m0005sp_15t0t.avfx"}
	tetherSuccessVfx = []string{"vfx/lockon/eff/m0489trg_a0c.avfx"}
)

// Tethers pairs the party up during Heavensfall Trio. The first two pairs
// must stay close, the last two far apart; Twisting Dive judges them.
type Tethers struct {
	mechanic.Base
	tethers []ecs.Entity
}

func NewTethers(d mechanic.Deps) *Tethers {
	return &Tethers{Base: mechanic.NewBase("Tethers", d)}
}

func (m *Tethers) Reset() {
	m.Base.Reset()
	m.tethers = nil
}

func (m *Tethers) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *Tethers) OnCastStart(c host.CastStart) {
	if c.ActionID != castHeavensfallTrio || m.Game() == nil {
		return
	}
	party := m.Game().PartyMembers()
	if len(party) != partySize {
		m.Log().Debug("unexpected party size", zap.Int("players", len(party)))
		return
	}
	rng.Shuffle(m.Rand(int64(castHeavensfallTrio)), len(party), func(i, j int) {
		party[i], party[j] = party[j], party[i]
	})

	local, _ := m.LocalPlayer()
	for i := 0; i < len(party); i += 2 {
		src, dst := party[i], party[i+1]
		e, ok := m.Spawn(attack.KindDistanceSnapshotTether, attack.Spawn{})
		if !ok {
			continue
		}
		near := i < len(party)/2
		attack.ConfigureTether(m.World(), e, func(t *component.Tether) {
			t.SourceID, t.TargetID = src.ID, dst.ID
			if near {
				t.FailFurtherThan = closeTetherBreakpoint
			} else {
				t.FailCloserThan = farTetherBreakpoint
			}
			if local.ID != 0 && (src.ID == local.ID || dst.ID == local.ID) {
				t.Penalty = []status.Effect{status.NewStun(tetherStun)}
			}
			t.FailVfx = tetherFailVfx
			t.SuccessVfx = tetherSuccessVfx
		})
		if near {
			attack.SetTetherVfx(m.World(), e, attack.TetherActivatedClose)
		} else {
			attack.SetTetherVfx(m.World(), e, attack.TetherActivatedFar)
		}
		m.tethers = append(m.tethers, e)
	}
}

func (m *Tethers) OnActionEffect(a host.ActionEffect) {
	switch a.ActionID {
	case actionTwistingDive:
		m.After(tetherActivateDelay, func() {
			for _, e := range m.tethers {
				if m.World().IsAlive(e) {
					attack.ActivateTether(m.World(), e)
				}
			}
		})
	case actionHeavensfall:
		m.Reset()
	}
}

const (
	actionChainLightning        uint32 = 9927
	actionChainLightningResolve uint32 = 9928
)

const (
	// The two resolves land within a frame or two of each other.
	corridorResolveWindow     = 0.5
	// The debuff lasts about five seconds; allow for latency.
	corridorApplicationWindow = 7.0
)

// LightningCorridor draws a corridor between the two chain lightning
// targets when their debuffs resolve together.
type LightningCorridor struct {
	mechanic.Base

	targets     [2]uint64
	appliedAt   float64
	resolvedAt  float64
	haveTargets bool
	haveResolve bool
}

func NewLightningCorridor(d mechanic.Deps) *LightningCorridor {
	return &LightningCorridor{Base: mechanic.NewBase("LightningCorridor", d)}
}

func (m *LightningCorridor) Reset() {
	m.Base.Reset()
	m.targets = [2]uint64{}
	m.appliedAt, m.resolvedAt = 0, 0
	m.haveTargets, m.haveResolve = false, false
}

func (m *LightningCorridor) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *LightningCorridor) OnCombatEnd() { m.Reset() }

func (m *LightningCorridor) OnActionEffect(a host.ActionEffect) {
	switch a.ActionID {
	case actionChainLightning:
		if len(a.Targets) < 2 {
			return
		}
		m.targets = [2]uint64{a.Targets[0], a.Targets[1]}
		m.appliedAt = m.Now()
		m.haveTargets = true
	case actionChainLightningResolve:
		now := m.Now()
		if m.haveResolve && m.haveTargets &&
			now-m.resolvedAt < corridorResolveWindow &&
			now-m.appliedAt < corridorApplicationWindow {
			m.spawnCorridor()
			m.haveTargets = false
		}
		m.resolvedAt = now
		m.haveResolve = true
	}
}

func (m *LightningCorridor) spawnCorridor() {
	p1, ok1 := actorPosition(m.Game(), m.targets[0])
	p2, ok2 := actorPosition(m.Game(), m.targets[1])
	if !ok1 || !ok2 {
		return
	}
	mid := p1.Add(p2).Mult(0.5)
	m.Spawn(attack.KindLightningCorridor, attack.Spawn{
		Position: mid,
		Rotation: geom.VectorToRotation(p2.Ground().Sub(p1.Ground())),
	})
}
