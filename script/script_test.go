package script

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
	"github.com/milk9111/raidsim/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	deps   mechanic.Deps
	game   *hosttest.Game
	status *hosttest.StatusRecorder
}

func newFixture(t *testing.T, log *zap.Logger) fixture {
	t.Helper()
	game := hosttest.NewGame()
	rec := &hosttest.StatusRecorder{}
	w := ecs.NewWorld()
	w.AddSystem(system.NewPlayerSyncSystem(game))
	w.AddSystem(system.NewDelayedActionSystem(log))
	w.AddSystem(system.NewOmenSystem())
	m := attack.NewManager(w, attack.DefaultRegistry(), log)
	m.Install(attack.Deps{Game: game, Status: rec, Log: log})
	return fixture{
		deps:   mechanic.Deps{World: w, Attacks: m, Game: game, Status: rec, Log: log},
		game:   game,
		status: rec,
	}
}

func TestSpreadDrill(t *testing.T) {
	tests := []struct {
		name  string
		move  geom.Vec3
		stuns int
	}{
		{"stays in the circle", geom.V3(2, 0, 0), 1},
		{"walks out", geom.V3(10, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, zaptest.NewLogger(t))
			m, err := Load("drill", "spread_drill", f.deps)
			require.NoError(t, err)

			m.OnCastStart(host.CastStart{ActionID: 1})
			assert.Zero(t, ecs.Count(f.deps.World, component.OmenComponent.Kind()), "not a trigger")

			m.OnCastStart(host.CastStart{ActionID: 31496})
			require.Equal(t, 1, ecs.Count(f.deps.World, component.OmenComponent.Kind()))

			f.game.MovePlayer(tt.move)
			f.deps.World.Update(1)
			f.deps.World.Update(1)
			assert.Zero(t, f.status.Count(status.Stun))

			f.deps.World.Update(1.1)
			assert.Equal(t, tt.stuns, f.status.Count(status.Stun))
			assert.Zero(t, ecs.Count(f.deps.World, component.OmenComponent.Kind()))
		})
	}
}

func TestResetDropsPendingTimers(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	m, err := Load("drill", "scripts/spread_drill.tengo", f.deps)
	require.NoError(t, err)
	assert.Equal(t, "scripts/spread_drill.tengo", m.Source())

	m.OnCastStart(host.CastStart{ActionID: 31497})
	require.Len(t, m.State()["omens"], 1)

	m.OnDirectorUpdate(host.DirectorWipe)
	assert.Zero(t, ecs.Count(f.deps.World, component.OmenComponent.Kind()))
	assert.Empty(t, m.State()["omens"])

	f.deps.World.Update(5)
	assert.Zero(t, f.status.Count(status.Stun))
}

func TestCompileErrors(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	_, err := New("broken", []byte(`on_cast = func(engine, state, ev) {`), f.deps)
	assert.Error(t, err)

	_, err = New("redeclared", []byte(`on_cast := func(engine, state, ev) {}`), f.deps)
	assert.Error(t, err, "hooks are assigned, not declared")

	_, err = Load("missing", "no_such_script", f.deps)
	assert.Error(t, err)
}

func TestFactoryFallsBackToInert(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, zap.New(core))

	m := Factory("missing", "no_such_script")(f.deps)
	require.NotNil(t, m)
	assert.Equal(t, "missing", m.Name())
	assert.NotPanics(t, func() { m.OnCastStart(host.CastStart{ActionID: 31496}) })
	assert.Equal(t, 1, logs.FilterMessage("failed to load scripted mechanic").Len())
}

func TestRuntimeErrorsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, zap.New(core))
	m, err := New("div", []byte(`
on_cast = func(engine, state, ev) {
	state.n = 1 / (ev.action - ev.action)
}
`), f.deps)
	require.NoError(t, err)

	assert.NotPanics(t, func() { m.OnCastStart(host.CastStart{ActionID: 5}) })
	assert.Equal(t, 1, logs.FilterMessage("script hook failed").Len())
}

func TestEngineFunctions(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	src := []byte(`
on_cast = func(engine, state, ev) {
	state.rolls = [engine.rand(100), engine.rand(100), engine.rand(100)]
	state.seed = engine.seed()
	state.setting = engine.setting("radius", 7)
	h := engine.spawn("Meteor", {})
	state.unknown = h
	c := engine.spawn("CircleOmen", {x: 3, z: 4, scale: 5})
	state.inside = engine.contains(c, 3, 0)
	state.outside = engine.contains(c, 3, 9.5)
	state.alive = engine.alive(c)
	engine.destroy(c)
	engine.toast("hello")
}
`)
	a, err := New("a", src, f.deps)
	require.NoError(t, err)
	b, err := New("b", src, f.deps)
	require.NoError(t, err)
	a.SetSeed(77)
	b.SetSeed(77)

	f.deps.World.Deferred(func() {
		a.OnCastStart(host.CastStart{})
		b.OnCastStart(host.CastStart{})
	})

	sa, sb := a.State(), b.State()
	assert.Equal(t, sa["rolls"], sb["rolls"])
	assert.EqualValues(t, 77, sa["seed"])
	assert.EqualValues(t, 7, sa["setting"])
	assert.EqualValues(t, 0, sa["unknown"])
	assert.Equal(t, true, sa["inside"])
	assert.Equal(t, false, sa["outside"])
	assert.Equal(t, true, sa["alive"])
	assert.Zero(t, ecs.Count(f.deps.World, component.OmenComponent.Kind()))
	assert.Equal(t, []string{"hello", "hello"}, f.game.Toasts)
}

func TestDestroyOnlyReachesOwnEntities(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	foreign, ok := f.deps.Attacks.TryCreate("CircleOmen", attack.Spawn{})
	require.True(t, ok)

	m, err := New("vandal", []byte(`
on_action = func(engine, state, ev) {
	state.foreign = engine.destroy(ev.source)
	own := engine.spawn("CircleOmen", {scale: 2})
	state.own = engine.destroy(own)
}
`), f.deps)
	require.NoError(t, err)

	f.deps.World.Deferred(func() {
		m.OnActionEffect(host.ActionEffect{SourceID: uint64(foreign)})
	})

	st := m.State()
	assert.Equal(t, false, st["foreign"])
	assert.Equal(t, true, st["own"])
	assert.True(t, f.deps.World.IsAlive(foreign))
	assert.Equal(t, 1, ecs.Count(f.deps.World, component.OmenComponent.Kind()))
}

func TestClosedScriptIgnoresEvents(t *testing.T) {
	f := newFixture(t, zap.NewNop())
	m, err := Load("drill", "spread_drill", f.deps)
	require.NoError(t, err)

	m.Reset()
	m.Close()
	m.OnCastStart(host.CastStart{ActionID: 31496})
	assert.Zero(t, ecs.Count(f.deps.World, component.OmenComponent.Kind()))
}
