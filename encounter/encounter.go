// Package encounter maps game territories to the mechanics that run in them
// and routes host events to the active set.
package encounter

import (
	"strings"

	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/rng"
	"go.uber.org/zap"
)

// Entry is one mechanic of an encounter. Key names the setting that enables
// it; Default applies when the setting is missing.
type Entry struct {
	Key     string
	Default bool
	Factory mechanic.Factory
}

// Descriptor is the static description of an encounter.
type Descriptor struct {
	Name      string
	Territory uint16
	Entries   []Entry
}

// SettingKey builds the conventional "<encounter>.<mechanic>" setting key.
func SettingKey(encounter, mechanic string) string {
	return strings.ToLower(encounter + "." + mechanic)
}

// Encounter is an activated descriptor owning its mechanics.
type Encounter struct {
	desc      Descriptor
	deps      mechanic.Deps
	log       *zap.Logger
	mechanics []mechanic.Mechanic

	seedString string
	seed       int32
}

func New(desc Descriptor, d mechanic.Deps) *Encounter {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Settings == nil {
		d.Settings = mechanic.Defaults{}
	}
	return &Encounter{
		desc: desc,
		deps: d,
		log:  d.Log.With(zap.String("encounter", desc.Name)),
	}
}

func (e *Encounter) Name() string { return e.desc.Name }

func (e *Encounter) Territory() uint16 { return e.desc.Territory }

// Entries lists every mechanic the encounter can run, enabled or not.
func (e *Encounter) Entries() []Entry {
	out := make([]Entry, len(e.desc.Entries))
	copy(out, e.desc.Entries)
	return out
}

// Mechanics returns the running mechanics in descriptor order.
func (e *Encounter) Mechanics() []mechanic.Mechanic {
	out := make([]mechanic.Mechanic, len(e.mechanics))
	copy(out, e.mechanics)
	return out
}

// RefreshMechanics resets the running mechanics and rebuilds the enabled
// ones from the settings.
func (e *Encounter) RefreshMechanics() {
	e.Unload()
	for _, entry := range e.desc.Entries {
		if entry.Factory == nil {
			continue
		}
		if entry.Key != "" && !e.deps.Settings.EncounterBool(entry.Key, entry.Default) {
			continue
		}
		m := entry.Factory(e.deps)
		if m == nil {
			continue
		}
		m.SetSeed(e.seed)
		e.mechanics = append(e.mechanics, m)
	}
	e.log.Debug("mechanics refreshed", zap.Int("count", len(e.mechanics)))
}

// Unload resets every mechanic and drops them.
func (e *Encounter) Unload() {
	for _, m := range e.mechanics {
		mechanic.Safe(e.log, m, "reset", m.Reset)
		mechanic.Safe(e.log, m, "close", m.Close)
	}
	e.mechanics = nil
}

// SetSeedString hashes s into the shared seed and hands it to every
// mechanic.
func (e *Encounter) SetSeedString(s string) {
	e.seedString = s
	e.seed = rng.HashToRngSeed(s)
	for _, m := range e.mechanics {
		m.SetSeed(e.seed)
	}
}

// IncrementRngSeed advances the seed string so each pull rolls differently
// while every viewer stays in step.
func (e *Encounter) IncrementRngSeed() string {
	e.SetSeedString(rng.IncrementRngSeed(e.seedString))
	e.log.Debug("rng seed incremented", zap.String("seed", e.seedString))
	return e.seedString
}

func (e *Encounter) Seed() int32 { return e.seed }

func (e *Encounter) SeedString() string { return e.seedString }
