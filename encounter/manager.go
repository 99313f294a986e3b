package encounter

import (
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"go.uber.org/zap"
)

// Settings is what the manager reads from the configuration on top of the
// per-mechanic settings.
type Settings interface {
	mechanic.Settings
	EverythingDisabled() bool
	RngSeed() string
}

// blacklistedPlayerVfx are common hit effects on player characters that no
// mechanic reacts to.
var blacklistedPlayerVfx = map[string]struct{}{
	"vfx/common/eff/dk02ht_zan0m.avfx": {},
	"vfx/common/eff/dk03ht_bct0m.avfx": {},
	"vfx/common/eff/dk03ht_mct0s.avfx": {},
	"vfx/common/eff/dk04ht_cur0h.avfx": {},
	"vfx/common/eff/dk04ht_ear0h.avfx": {},
	"vfx/common/eff/dk04ht_ele0h.avfx": {},
	"vfx/common/eff/dk04ht_hpt0h.avfx": {},
	"vfx/common/eff/dk04ht_win0h.avfx": {},
	"vfx/common/eff/cmat_aoz0f.avfx":   {},
}

// Manager owns the active encounter and forwards host events to its
// mechanics. Every method must be called from the simulation goroutine.
type Manager struct {
	reg      *Registry
	deps     mechanic.Deps
	settings Settings
	log      *zap.Logger

	active     *Encounter
	configSeed string
	inCombat   bool
}

func NewManager(reg *Registry, d mechanic.Deps, settings Settings) *Manager {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.World == nil && d.Attacks != nil {
		d.World = d.Attacks.World()
	}
	d.Settings = settings
	return &Manager{
		reg:      reg,
		deps:     d,
		settings: settings,
		log:      d.Log,
	}
}

// Active returns the running encounter, if any.
func (m *Manager) Active() (*Encounter, bool) {
	return m.active, m.active != nil
}

// OnTerritoryChanged unloads the running encounter, clears every attack and
// activates the encounter registered for territory.
func (m *Manager) OnTerritoryChanged(territory uint16) {
	m.Unload()

	desc, ok := m.reg.Lookup(territory)
	if !ok {
		m.log.Debug("no encounter for territory", zap.Uint16("territory", territory))
		return
	}
	m.active = New(desc, m.deps)
	m.configSeed = m.settings.RngSeed()
	m.active.SetSeedString(m.configSeed)
	m.active.RefreshMechanics()
	m.log.Info("active encounter set",
		zap.String("encounter", desc.Name),
		zap.Uint16("territory", territory),
		zap.Int("mechanics", len(m.active.mechanics)))
}

// Unload resets the active encounter and clears every attack.
func (m *Manager) Unload() {
	if m.active != nil {
		m.active.Unload()
		m.active = nil
	}
	if m.deps.Attacks != nil {
		m.deps.Attacks.ClearAll()
	}
}

// RefreshMechanics rebuilds the active encounter after a configuration
// change. A changed seed string replaces the running one.
func (m *Manager) RefreshMechanics() {
	if m.active == nil {
		return
	}
	if s := m.settings.RngSeed(); s != m.configSeed {
		m.configSeed = s
		m.active.SetSeedString(s)
	}
	m.active.RefreshMechanics()
}

// SetSeedString overrides the active seed, as sent by a coordinating
// viewer.
func (m *Manager) SetSeedString(s string) {
	if m.active == nil {
		return
	}
	m.active.SetSeedString(s)
	m.log.Info("rng seed set", zap.String("seed", s))
}

// Seed returns the active encounter's seed string.
func (m *Manager) Seed() (string, bool) {
	if m.active == nil {
		return "", false
	}
	return m.active.SeedString(), true
}

// OnFrameworkUpdate samples the combat flag for start and end edges and then
// runs every mechanic's per-frame hook.
func (m *Manager) OnFrameworkUpdate() {
	if m.deps.Game != nil {
		combat := m.deps.Game.InCombat()
		if combat != m.inCombat {
			m.inCombat = combat
			if combat {
				m.log.Debug("combat started")
				m.dispatch("combat_start", func(mc mechanic.Mechanic) { mc.OnCombatStart() })
			} else {
				m.log.Debug("combat ended")
				m.dispatch("combat_end", func(mc mechanic.Mechanic) { mc.OnCombatEnd() })
			}
		}
	}
	m.dispatch("framework_update", func(mc mechanic.Mechanic) { mc.OnFrameworkUpdate() })
}

// OnDirectorUpdate advances the seed on every pull start before the
// mechanics see the event.
func (m *Manager) OnDirectorUpdate(c host.DirectorCategory) {
	m.log.Debug("director update", zap.Stringer("category", c))
	if m.disabled() {
		return
	}
	if c == host.DirectorCommence || c == host.DirectorRecommence {
		m.active.IncrementRngSeed()
	}
	m.dispatch("director_update", func(mc mechanic.Mechanic) { mc.OnDirectorUpdate(c) })
}

func (m *Manager) OnObjectCreated(o host.ObjectCreated) {
	m.log.Debug("object created", zap.Uint64("object", o.ObjectID), zap.Uint32("data_id", o.DataID))
	m.dispatch("object_created", func(mc mechanic.Mechanic) { mc.OnObjectCreated(o) })
}

// OnActionEffect drops abilities used by other players.
func (m *Manager) OnActionEffect(a host.ActionEffect) {
	if a.SourceIsPlayer && !m.isLocalPlayer(a.SourceID) {
		return
	}
	m.log.Debug("action effect", zap.Uint32("action", a.ActionID), zap.Uint64("source", a.SourceID), zap.Int("targets", len(a.Targets)))
	m.dispatch("action_effect", func(mc mechanic.Mechanic) { mc.OnActionEffect(a) })
}

// OnVfxSpawned drops common hit effects on player characters.
func (m *Manager) OnVfxSpawned(v host.VfxSpawned) {
	if _, ok := blacklistedPlayerVfx[v.Path]; ok && m.isPlayer(v.TargetID) {
		return
	}
	m.log.Debug("vfx spawned", zap.String("path", v.Path), zap.Uint64("target", v.TargetID))
	m.dispatch("vfx_spawned", func(mc mechanic.Mechanic) { mc.OnVfxSpawned(v) })
}

// OnCastStart drops casts by player characters.
func (m *Manager) OnCastStart(c host.CastStart) {
	if m.isPlayer(c.SourceID) {
		return
	}
	m.log.Debug("cast start", zap.Uint32("action", c.ActionID), zap.Uint64("source", c.SourceID))
	m.dispatch("cast_start", func(mc mechanic.Mechanic) { mc.OnCastStart(c) })
}

func (m *Manager) OnWeatherChanged(weather uint8) {
	m.log.Debug("weather changed", zap.Uint8("weather", weather))
	m.dispatch("weather_changed", func(mc mechanic.Mechanic) { mc.OnWeatherChanged(weather) })
}

func (m *Manager) disabled() bool {
	return m.active == nil || m.settings.EverythingDisabled()
}

// dispatch runs fn for each mechanic in one deferred world scope. A
// panicking mechanic is logged and skipped.
func (m *Manager) dispatch(hook string, fn func(mechanic.Mechanic)) {
	if m.disabled() {
		return
	}
	mechs := m.active.mechanics
	run := func() {
		for _, mc := range mechs {
			mechanic.Safe(m.log, mc, hook, func() { fn(mc) })
		}
	}
	if m.deps.World == nil {
		run()
		return
	}
	m.deps.World.Deferred(run)
}

func (m *Manager) isLocalPlayer(id uint64) bool {
	if m.deps.Game == nil {
		return false
	}
	p, ok := m.deps.Game.LocalPlayer()
	return ok && p.ID == id
}

func (m *Manager) isPlayer(id uint64) bool {
	if m.deps.Game == nil || id == 0 {
		return false
	}
	if m.isLocalPlayer(id) {
		return true
	}
	a, ok := m.deps.Game.Actor(id)
	return ok && a.IsPlayer
}
