package mechanic

import (
	"errors"
	"testing"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newDeps(t *testing.T) Deps {
	t.Helper()
	game := hosttest.NewGame()
	w := ecs.NewWorld()
	w.AddSystem(system.NewPlayerSyncSystem(game))
	w.AddSystem(system.NewDelayedActionSystem(zap.NewNop()))
	w.AddSystem(system.NewLifetimeSystem())
	w.AddSystem(system.NewOmenSystem())
	m := attack.NewManager(w, attack.DefaultRegistry(), zap.NewNop())
	m.Install(attack.Deps{Game: game, Status: &hosttest.StatusRecorder{}})
	w.AddSystem(system.NewVfxSystem(game))
	return Deps{World: w, Attacks: m, Game: game, Log: zap.NewNop()}
}

// counter spawns a gate and a delayed follow-up on every cast it sees.
type counter struct {
	Base
	casts int
	fired int
}

func (c *counter) Reset() {
	c.Base.Reset()
	c.casts = 0
	c.fired = 0
}

func (c *counter) OnCastStart(host.CastStart) {
	c.casts++
	c.Spawn(attack.KindVoidGate, attack.Spawn{})
	c.After(3, func() {
		c.fired++
		c.Spawn(attack.KindCircleOmen, attack.Spawn{Position: geom.V3(1, 0, 1)})
	})
}

func (c *counter) OnDirectorUpdate(cat host.DirectorCategory) {
	if ResetsOn(cat) {
		c.Reset()
	}
}

func TestResetLeavesNothingBehind(t *testing.T) {
	d := newDeps(t)
	c := &counter{Base: NewBase("counter", d)}

	for i := 0; i < 3; i++ {
		c.OnCastStart(host.CastStart{})
		d.World.Update(1.5)
	}
	d.World.Update(1.5)
	require.Equal(t, 3, c.casts)
	require.Positive(t, c.fired)
	require.Positive(t, ecs.Count(d.World, component.AttackTagComponent.Kind()))
	session := c.Session()

	c.OnDirectorUpdate(host.DirectorWipe)
	assert.Zero(t, c.casts)
	assert.Zero(t, c.fired)
	assert.Zero(t, ecs.Count(d.World, component.AttackTagComponent.Kind()))
	assert.Zero(t, ecs.Count(d.World, component.OmenComponent.Kind()))
	assert.Zero(t, ecs.Count(d.World, component.DelayedActionComponent.Kind()))
	assert.NotEqual(t, session, c.Session())

	live := d.World.Len()
	c.Reset()
	assert.Equal(t, live, d.World.Len())
	assert.Empty(t, c.Tracked())

	d.World.Update(5)
	assert.Zero(t, c.fired, "pending follow-ups died with the reset")
}

func TestResetsOn(t *testing.T) {
	assert.True(t, ResetsOn(host.DirectorWipe))
	assert.True(t, ResetsOn(host.DirectorRecommence))
	assert.False(t, ResetsOn(host.DirectorCommence))
	assert.False(t, ResetsOn(host.DirectorComplete))
}

func TestSameSeedSameChoices(t *testing.T) {
	d := newDeps(t)
	a := NewBase("a", d)
	b := NewBase("b", d)
	a.SetSeed(1234)
	b.SetSeed(1234)

	for salt := int64(0); salt < 4; salt++ {
		ra, rb := a.Rand(salt), b.Rand(salt)
		for i := 0; i < 16; i++ {
			require.Equal(t, ra.Intn(8), rb.Intn(8))
		}
	}

	b.SetSeed(1235)
	same := true
	ra, rb := a.Rand(0), b.Rand(0)
	for i := 0; i < 16; i++ {
		if ra.Intn(1000) != rb.Intn(1000) {
			same = false
		}
	}
	assert.False(t, same)
}

func TestTrackPrunesDeadHandles(t *testing.T) {
	d := newDeps(t)
	b := NewBase("pruner", d)
	for i := 0; i < pruneAt*3; i++ {
		e := b.Track(d.World.CreateEntity())
		d.World.DestroyEntity(e)
	}
	assert.LessOrEqual(t, len(b.tracked), pruneAt)
	assert.Empty(t, b.Tracked())
	assert.Equal(t, ecs.Nil, b.Track(ecs.Nil))
}

func TestSpawnUnknownKind(t *testing.T) {
	d := newDeps(t)
	b := NewBase("spawner", d)
	_, ok := b.Spawn("Meteor", attack.Spawn{})
	assert.False(t, ok)
	assert.Empty(t, b.Tracked())

	var nothing Base
	_, ok = nothing.Spawn(attack.KindCircle, attack.Spawn{})
	assert.False(t, ok)
}

func TestSafeRecoversPanics(t *testing.T) {
	b := NewBase("boom", Deps{})
	tests := []struct {
		name string
		fn   func()
		ok   bool
	}{
		{"returns", func() {}, true},
		{"panics with error", func() { panic(errors.New("bad")) }, false},
		{"panics with value", func() { panic(42) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ok bool
			assert.NotPanics(t, func() { ok = Safe(zap.NewNop(), &b, "OnCastStart", tt.fn) })
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDefaultsReturnDefaults(t *testing.T) {
	var s Settings = Defaults{}
	assert.True(t, s.EncounterBool("x", true))
	assert.Equal(t, 3, s.EncounterInt("x", 3))
	assert.Equal(t, 0.5, s.EncounterFloat("x", 0.5))
	assert.Equal(t, "seed", s.EncounterString("x", "seed"))
}

func TestLogLinesCarryTheSession(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	d := newDeps(t)
	d.Log = zap.New(core)
	b := NewBase("logger", d)

	b.Log().Info("first pull")
	first := b.Session()
	b.Reset()
	b.Log().Info("second pull")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "logger", entries[0].ContextMap()["mechanic"])
	assert.Equal(t, first.String(), entries[0].ContextMap()["session"])
	assert.Equal(t, b.Session().String(), entries[1].ContextMap()["session"])
	assert.NotEqual(t, first, b.Session())
}
