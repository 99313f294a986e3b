package encounter

import (
	"testing"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/rng"
	"github.com/milk9111/raidsim/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type settings struct {
	mechanic.Defaults
	disabled bool
	immune   bool
	seed     string
	enabled  map[string]bool
}

func (s *settings) EncounterBool(key string, def bool) bool {
	if v, ok := s.enabled[key]; ok {
		return v
	}
	return def
}

func (s *settings) EverythingDisabled() bool { return s.disabled }
func (s *settings) PunishmentImmunity() bool { return s.immune }
func (s *settings) RngSeed() string          { return s.seed }

// recorder notes every hook it receives and spawns an omen on casts.
type recorder struct {
	mechanic.Base
	events []string
	resets int
	closed int
	fail   bool
}

func newRecorder(name string, all *[]*recorder) mechanic.Factory {
	return func(d mechanic.Deps) mechanic.Mechanic {
		r := &recorder{Base: mechanic.NewBase(name, d)}
		*all = append(*all, r)
		return r
	}
}

func (r *recorder) Reset() {
	r.Base.Reset()
	r.resets++
}

func (r *recorder) Close() {
	r.Base.Close()
	r.closed++
}

func (r *recorder) note(ev string) {
	if r.fail {
		panic("boom")
	}
	r.events = append(r.events, ev)
}

func (r *recorder) OnDirectorUpdate(c host.DirectorCategory) { r.note("director:" + c.String()) }

func (r *recorder) OnObjectCreated(host.ObjectCreated) { r.note("object") }

func (r *recorder) OnActionEffect(host.ActionEffect) { r.note("action") }

func (r *recorder) OnVfxSpawned(host.VfxSpawned) { r.note("vfx") }

func (r *recorder) OnCastStart(c host.CastStart) {
	r.note("cast")
	r.Spawn(attack.KindCircleOmen, attack.Spawn{Position: c.Position})
}

func (r *recorder) OnCombatStart() { r.note("combat_start") }

func (r *recorder) OnCombatEnd() { r.note("combat_end") }

func (r *recorder) OnWeatherChanged(uint8) { r.note("weather") }

type fixture struct {
	rt       *Runtime
	game     *hosttest.Game
	settings *settings
	made     []*recorder
}

const testTerritory = 777

func newFixture(t *testing.T, log *zap.Logger) *fixture {
	t.Helper()
	f := &fixture{
		game:     hosttest.NewGame(),
		settings: &settings{seed: "party", enabled: map[string]bool{}},
	}
	reg, err := NewRegistry(Descriptor{
		Name:      "Test",
		Territory: testTerritory,
		Entries: []Entry{
			{Key: "test.first", Default: true, Factory: newRecorder("first", &f.made)},
			{Key: "test.second", Default: true, Factory: newRecorder("second", &f.made)},
			{Key: "test.optional", Default: false, Factory: newRecorder("optional", &f.made)},
		},
	})
	require.NoError(t, err)
	f.rt = NewRuntime(f.game, nil, reg, f.settings, log)
	f.rt.Tick(0)
	return f
}

func (f *fixture) active(t *testing.T) []*recorder {
	t.Helper()
	e, ok := f.rt.Encounters.Active()
	require.True(t, ok)
	out := make([]*recorder, 0)
	for _, m := range e.Mechanics() {
		out = append(out, m.(*recorder))
	}
	return out
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry(
		Descriptor{Name: "B", Territory: 853},
		Descriptor{Name: "A", Territory: 733},
	)
	require.NoError(t, err)
	assert.Equal(t, []uint16{733, 853}, reg.Territories())
	assert.Equal(t, "A", reg.Descriptors()[0].Name)

	d, ok := reg.Lookup(853)
	require.True(t, ok)
	assert.Equal(t, "B", d.Name)
	_, ok = reg.Lookup(1)
	assert.False(t, ok)

	assert.ErrorIs(t, reg.Register(Descriptor{Name: "C", Territory: 733}), ErrDuplicateTerritory)
	assert.ErrorIs(t, reg.Register(Descriptor{Territory: 9}), ErrInvalidDescriptor)
	_, err = NewRegistry(Descriptor{Name: "x", Territory: 1}, Descriptor{Name: "y", Territory: 1})
	assert.ErrorIs(t, err, ErrDuplicateTerritory)
}

func TestSettingKey(t *testing.T) {
	assert.Equal(t, "ucob.tethers", SettingKey("UCoB", "Tethers"))
}

func TestTerritoryChangeActivatesEnabledMechanics(t *testing.T) {
	f := newFixture(t, zaptest.NewLogger(t))

	f.rt.Encounters.OnTerritoryChanged(1)
	_, ok := f.rt.Encounters.Active()
	assert.False(t, ok)

	f.rt.Encounters.OnTerritoryChanged(testTerritory)
	mechs := f.active(t)
	require.Len(t, mechs, 2)
	assert.Equal(t, "first", mechs[0].Name())
	assert.Equal(t, "second", mechs[1].Name())
	assert.Equal(t, rng.HashToRngSeed("party"), mechs[0].Seed())

	f.settings.enabled["test.second"] = false
	f.settings.enabled["test.optional"] = true
	f.rt.Encounters.RefreshMechanics()
	mechs = f.active(t)
	require.Len(t, mechs, 2)
	assert.Equal(t, "first", mechs[0].Name())
	assert.Equal(t, "optional", mechs[1].Name())
	assert.Equal(t, 1, f.made[0].resets, "refresh resets the old set")
	assert.Equal(t, 1, f.made[0].closed, "refresh closes the old set")
	assert.Zero(t, f.made[2].closed, "the new set stays open")
}

func TestTerritoryChangeClearsAttacks(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	f.rt.Encounters.OnTerritoryChanged(testTerritory)

	f.rt.Encounters.OnCastStart(host.CastStart{ActionID: 1, SourceID: 50})
	f.rt.Tick(0.1)
	require.Positive(t, ecs.Count(f.rt.World, component.AttackTagComponent.Kind()))

	f.rt.Encounters.OnTerritoryChanged(2)
	assert.Zero(t, ecs.Count(f.rt.World, component.AttackTagComponent.Kind()))
	assert.Zero(t, ecs.Count(f.rt.World, component.OmenComponent.Kind()))
	for _, r := range f.made {
		assert.Equal(t, 1, r.resets)
		assert.Equal(t, 1, r.closed)
	}
}

func TestEventRouting(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	f.game.AddActor(host.Actor{ID: 2, IsPlayer: true, Alive: true, ContentID: 2})
	f.game.AddActor(host.Actor{ID: 50, Alive: true, DataID: 8159})
	f.rt.Encounters.OnTerritoryChanged(testTerritory)
	em := f.rt.Encounters

	em.OnCastStart(host.CastStart{ActionID: 1, SourceID: 2})
	em.OnCastStart(host.CastStart{ActionID: 1, SourceID: 50})
	em.OnActionEffect(host.ActionEffect{ActionID: 1, SourceID: 2, SourceIsPlayer: true})
	em.OnActionEffect(host.ActionEffect{ActionID: 1, SourceID: 1, SourceIsPlayer: true})
	em.OnActionEffect(host.ActionEffect{ActionID: 1, SourceID: 50})
	em.OnVfxSpawned(host.VfxSpawned{TargetID: 1, Path: "vfx/common/eff/dk02ht_zan0m.avfx"})
	em.OnVfxSpawned(host.VfxSpawned{TargetID: 50, Path: "vfx/common/eff/dk02ht_zan0m.avfx"})
	em.OnObjectCreated(host.ObjectCreated{DataID: 0x1E8910})
	em.OnWeatherChanged(31)

	want := []string{"cast", "action", "action", "vfx", "object", "weather"}
	for _, r := range f.active(t) {
		assert.Equal(t, want, r.events, r.Name())
	}
}

func TestCombatEdges(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	f.rt.Encounters.OnTerritoryChanged(testTerritory)

	f.rt.Tick(0.1)
	f.game.Combat = true
	f.rt.Tick(0.1)
	f.rt.Tick(0.1)
	f.game.Combat = false
	f.rt.Tick(0.1)

	for _, r := range f.active(t) {
		assert.Equal(t, []string{"combat_start", "combat_end"}, r.events)
	}
}

func TestDirectorIncrementsSeedOnPullStart(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	f.rt.Encounters.OnTerritoryChanged(testTerritory)
	em := f.rt.Encounters

	tests := []struct {
		category host.DirectorCategory
		seed     string
	}{
		{host.DirectorCommence, "party1"},
		{host.DirectorWipe, "party1"},
		{host.DirectorRecommence, "party2"},
		{host.DirectorComplete, "party2"},
	}
	for _, tt := range tests {
		em.OnDirectorUpdate(tt.category)
		got, ok := em.Seed()
		require.True(t, ok)
		assert.Equal(t, tt.seed, got, tt.category.String())
		for _, r := range f.active(t) {
			assert.Equal(t, rng.HashToRngSeed(tt.seed), r.Seed())
		}
	}
	assert.Equal(t, []string{"director:commence", "director:wipe", "director:recommence", "director:complete"}, f.active(t)[0].events)

	em.SetSeedString("shared")
	got, _ := em.Seed()
	assert.Equal(t, "shared", got)

	f.settings.seed = "party9"
	em.RefreshMechanics()
	got, _ = em.Seed()
	assert.Equal(t, "party9", got)
	assert.Equal(t, rng.HashToRngSeed("party9"), f.active(t)[0].Seed())
}

func TestEverythingDisabled(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	f.rt.Encounters.OnTerritoryChanged(testTerritory)
	f.settings.disabled = true

	f.rt.Encounters.OnCastStart(host.CastStart{ActionID: 1, SourceID: 50})
	f.rt.Encounters.OnDirectorUpdate(host.DirectorCommence)
	f.game.Combat = true
	f.rt.Tick(0.1)

	for _, r := range f.active(t) {
		assert.Empty(t, r.events)
	}
	seed, _ := f.rt.Encounters.Seed()
	assert.Equal(t, "party", seed)
}

func TestPanickingMechanicIsIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, zap.New(core))
	f.rt.Encounters.OnTerritoryChanged(testTerritory)
	mechs := f.active(t)
	mechs[0].fail = true

	assert.NotPanics(t, func() { f.rt.Encounters.OnWeatherChanged(1) })
	assert.Equal(t, []string{"weather"}, mechs[1].events)
	assert.Equal(t, 1, logs.FilterMessage("mechanic handler panicked").Len())
}

func TestPunishmentImmunity(t *testing.T) {
	tests := []struct {
		name   string
		immune bool
		want   bool
	}{
		{"applies", false, true},
		{"immune", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, zap.NewNop())
			f.settings.immune = tt.immune

			f.rt.Status.Apply(1, status.NewStun(5))
			f.rt.Tick(0.1)

			player, _, ok := system.LocalPlayer(f.rt.World)
			require.True(t, ok)
			assert.Equal(t, tt.want, system.HasCondition(f.rt.World, player, status.Stun))
		})
	}
}

func TestRuntimeDrivesVfxAndClose(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	f.rt.Encounters.OnTerritoryChanged(testTerritory)
	f.rt.Encounters.OnCastStart(host.CastStart{ActionID: 1, SourceID: 50, Position: geom.V3(3, 0, 4)})
	require.Equal(t, 2, ecs.Count(f.rt.World, component.OmenComponent.Kind()))

	f.rt.Tick(0.1)
	assert.Contains(t, f.game.VfxPaths(), attack.CircleOmenVfx)

	f.rt.Close()
	_, ok := f.rt.Encounters.Active()
	assert.False(t, ok)
	assert.Zero(t, ecs.Count(f.rt.World, component.AttackTagComponent.Kind()))
}
