package ucob

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/status"
)

const (
	actionGenerate uint32 = 9902
	actionHatch    uint32 = 9903
	weatherAdds    uint8  = 31
)

const (
	addsKnightDelay          = 10.0
	hatchSpeedIncrement      = 0.5
	swapLockout              = 60.0
	swappableTetherVfx       = "vfx/channeling/eff/chn_light01f.avfx"
	knightDismissVfx         = "vfx/channeling/eff/chn_kosoku1f.avfx"
	knightStartMessage       = "Twintania channels energy to the Dreadknight..."
	neurolinksBeforeRetreat  = 2
	neurolinksForDoubleSpeed = 3
)

// Dreadknight summons a knight that chases whoever last pulled Twintania's
// attention with a bait action. Crowd control on Twintania lands on the
// knight at reduced strength, and every hatched oviform makes it faster.
type Dreadknight struct {
	mechanic.Base
	cc     prefabs.CrowdControlSpec
	breaks prefabs.ActionSet
	baits  prefabs.ActionSet

	knight       ecs.Entity
	neurolinks   int
	oviforms     int
	lastSwap     float64
	swapped      bool
	tetherMarked bool
	ccBreakable  bool
}

func NewDreadknight(d mechanic.Deps, cc prefabs.CrowdControlSpec, actions prefabs.ActionsSpec) *Dreadknight {
	breaks := actions.Damage()
	for _, id := range actions.AutoAttacks {
		breaks[id] = struct{}{}
	}
	m := &Dreadknight{
		Base:   mechanic.NewBase("DreadknightInUCoB", d),
		cc:     cc,
		breaks: breaks,
		baits:  prefabs.NewActionSet(cc.BaitActions...),
	}
	m.softReset()
	return m
}

func (m *Dreadknight) Reset() {
	m.softReset()
	m.neurolinks = 0
	m.Base.Reset()
}

// softReset dismisses the knight but remembers how far the fight has gone.
func (m *Dreadknight) softReset() {
	if m.knight != ecs.Nil {
		w, knight := m.World(), m.knight
		w.Deferred(func() { ecs.DestroyEntity(w, knight) })
		m.knight = ecs.Nil
	}
	m.oviforms = 0
	m.swapped = false
	m.tetherMarked = true
	m.ccBreakable = false
}

func (m *Dreadknight) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *Dreadknight) OnCombatEnd() { m.Reset() }

func (m *Dreadknight) OnCombatStart() { m.summon() }

func (m *Dreadknight) OnWeatherChanged(weather uint8) {
	if weather == weatherAdds {
		m.After(addsKnightDelay, m.summon)
	}
}

func (m *Dreadknight) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != neurolinkObject {
		return
	}
	m.neurolinks++
	if m.neurolinks > neurolinksBeforeRetreat {
		m.softReset()
	}
}

func (m *Dreadknight) OnVfxSpawned(v host.VfxSpawned) {
	if v.Path == knightDismissVfx {
		m.Reset()
	}
}

func (m *Dreadknight) alive() bool {
	return m.knight != ecs.Nil && m.World().IsAlive(m.knight)
}

// summon replaces any knight with a fresh one in the middle of the arena.
func (m *Dreadknight) summon() {
	if m.alive() {
		w := m.World()
		old := m.knight
		w.Deferred(func() { ecs.DestroyEntity(w, old) })
	}
	m.knight = ecs.Nil
	e, ok := m.Spawn(attack.KindDreadknight, attack.Spawn{Position: arenaCenter})
	if !ok {
		return
	}
	m.knight = e
	m.Toast(knightStartMessage)
}

func (m *Dreadknight) onTwintania(a host.ActionEffect) bool {
	if len(a.Targets) == 0 || m.Game() == nil {
		return false
	}
	t, ok := m.Game().Actor(a.Targets[0])
	return ok && t.DataID == m.cc.Twintania
}

func (m *Dreadknight) OnActionEffect(a host.ActionEffect) {
	if !m.alive() {
		return
	}
	w := m.World()
	twin := m.onTwintania(a)

	if m.ccBreakable && twin && m.breaks.Has(a.ActionID) {
		attack.WakeDreadknight(w, m.knight)
		m.ccBreakable = false
	}

	switch {
	case a.ActionID == actionGenerate:
		m.oviforms = m.neurolinks
		return
	case a.ActionID == actionHatch:
		m.oviforms--
		if m.oviforms <= 0 {
			inc := hatchSpeedIncrement
			if m.neurolinks >= neurolinksForDoubleSpeed {
				inc *= 2
			}
			attack.IncrementDreadknightSpeed(w, m.knight, inc)
		}
		return
	case twin && m.baits.Has(a.ActionID):
		locked := m.swapped && m.Now()-m.lastSwap < swapLockout && attack.DreadknightHasTarget(w, m.knight)
		if !locked && a.SourceID != 0 {
			attack.ApplyTether(w, m.knight, a.SourceID)
			m.lastSwap = m.Now()
			m.swapped = true
			m.tetherMarked = false
		}
	}

	if !twin {
		return
	}
	if cc, ok := m.cc.Effect(a.ActionID); ok {
		m.impair(cc)
	}
}

func (m *Dreadknight) impair(cc prefabs.CrowdControlEffectSpec) {
	duration := cc.Duration * m.cc.DurationMultiplier
	attack.ImpairDreadknight(m.World(), m.knight, cc.Kind, duration, cc.Effectiveness*m.cc.EffectivenessMultiplier)
	if cc.Kind == status.Sleep || cc.Kind == status.Bind {
		m.ccBreakable = true
	}
}

// OnFrameworkUpdate marks the tether as swappable once the lockout is over.
func (m *Dreadknight) OnFrameworkUpdate() {
	if !m.alive() || m.tetherMarked || m.Now()-m.lastSwap <= swapLockout {
		return
	}
	attack.ChangeDreadknightTetherVfx(m.World(), m.knight, swappableTetherVfx)
	m.tetherMarked = true
}
