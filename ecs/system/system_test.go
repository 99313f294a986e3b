package system

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/milk9111/raidsim/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWorld(t *testing.T) (*ecs.World, *hosttest.Game) {
	t.Helper()
	game := hosttest.NewGame()
	w := ecs.NewWorld()
	w.AddSystem(NewPlayerSyncSystem(game))
	w.AddSystem(NewDelayedActionSystem(zap.NewNop()))
	w.AddSystem(NewCooldownSystem())
	w.AddSystem(NewLifetimeSystem())
	w.AddSystem(NewOmenSystem())
	w.AddSystem(NewConditionSystem())
	w.AddSystem(NewParalysisSystem(rand.New(rand.NewSource(7))))
	w.AddSystem(NewHysteriaSystem(rand.New(rand.NewSource(7))))
	w.AddSystem(NewTemperatureSystem())
	w.AddSystem(NewVfxSystem(game))
	w.Update(0)
	return w, game
}

func tickFor(w *ecs.World, seconds, dt float64) {
	for t := 0.0; t < seconds-1e-9; t += dt {
		w.Update(dt)
	}
}

func TestScheduleActionFiresOnceAfterDelay(t *testing.T) {
	w, _ := newTestWorld(t)

	calls := 0
	var firedAt float64
	ScheduleAction(w, 0.25, func() {
		calls++
		firedAt = w.Time()
	}, ecs.Nil)

	for i := 0; i < 20; i++ {
		w.Update(0.1)
	}

	assert.Equal(t, 1, calls)
	assert.GreaterOrEqual(t, firedAt, 0.25)
	assert.InDelta(t, 0.3, firedAt, 1e-9)
	assert.Equal(t, 0, ecs.Count(w, component.DelayedActionComponent.Kind()))
}

func TestScheduleActionCancelledByParent(t *testing.T) {
	w, _ := newTestWorld(t)

	owner := w.CreateEntity()
	calls := 0
	h := ScheduleAction(w, 0.5, func() { calls++ }, owner)
	require.True(t, w.IsAlive(h))

	w.Update(0.1)
	require.True(t, w.DestroyEntity(owner))
	assert.False(t, w.IsAlive(h))

	tickFor(w, 2, 0.1)
	assert.Zero(t, calls)
}

func TestScheduleActionOnDeadParent(t *testing.T) {
	w, _ := newTestWorld(t)
	owner := w.CreateEntity()
	w.DestroyEntity(owner)

	assert.Equal(t, ecs.Nil, ScheduleAction(w, 0, func() {}, owner))
}

func TestScheduleActionZeroDelayRunsNextTick(t *testing.T) {
	w, _ := newTestWorld(t)
	calls := 0
	ScheduleAction(w, 0, func() { calls++ }, ecs.Nil)
	assert.Zero(t, calls)
	w.Update(1.0 / 60)
	assert.Equal(t, 1, calls)
}

func TestScheduleActionPanicIsConsumed(t *testing.T) {
	w, _ := newTestWorld(t)
	h := ScheduleAction(w, 0, func() { panic(errors.New("boom")) }, ecs.Nil)

	assert.NotPanics(t, func() { w.Update(0.1) })
	assert.False(t, w.IsAlive(h))
}

func TestScheduleEveryRepeatsUntilDestroyed(t *testing.T) {
	w, _ := newTestWorld(t)
	calls := 0
	h := ScheduleEvery(w, 0.5, 1, func() { calls++ }, ecs.Nil)

	tickFor(w, 3.0, 0.1)
	assert.Equal(t, 3, calls)

	w.DestroyEntity(h)
	tickFor(w, 3, 0.1)
	assert.Equal(t, 3, calls)
}

func TestOmenSystemAutoDestructAndFade(t *testing.T) {
	w, _ := newTestWorld(t)

	keep := w.CreateEntity()
	_ = ecs.Add(w, keep, component.OmenComponent.Kind(), &component.Omen{Shape: geom.CircleShape{Radius: 5}})
	_ = ecs.Add(w, keep, component.OmenDurationComponent.Kind(), &component.OmenDuration{Duration: 1})

	auto := w.CreateEntity()
	_ = ecs.Add(w, auto, component.OmenDurationComponent.Kind(), &component.OmenDuration{Duration: 1, AutoDestruct: true})

	tickFor(w, 0.5, 0.1)
	assert.False(t, ecs.Has(w, keep, component.FadeOmenComponent.Kind()))
	assert.Equal(t, 1.0, OmenAlpha(w, keep))

	tickFor(w, 0.4, 0.1)
	assert.True(t, ecs.Has(w, keep, component.FadeOmenComponent.Kind()))
	assert.Less(t, OmenAlpha(w, keep), 1.0)

	tickFor(w, 0.3, 0.1)
	assert.False(t, w.IsAlive(auto))
	assert.True(t, w.IsAlive(keep), "omens without auto destruct wait for their owner")
	assert.Equal(t, 0.0, OmenAlpha(w, keep))
}

func TestVfxSystemPlaysOnceAndStopsOnDestroy(t *testing.T) {
	w, game := newTestWorld(t)

	e := SpawnStaticVfx(w, "vfx/test.avfx", geom.V3(1, 0, 2), 0.5, geom.Vec3{}, 0, ecs.Nil)
	w.Update(0.1)
	w.Update(0.1)
	require.Len(t, game.Vfx, 1)
	assert.Equal(t, "vfx/test.avfx", game.Vfx[0].Path)
	assert.Equal(t, geom.V3(1, 0, 2), game.Vfx[0].Position)

	w.DestroyEntity(e)
	w.Update(0.1)
	assert.True(t, game.Vfx[0].Stopped)
}

func TestActorVfxResolvesOwningPlayer(t *testing.T) {
	w, game := newTestWorld(t)
	player, _, ok := LocalPlayer(w)
	require.True(t, ok)

	holder := w.CreateEntity()
	require.NoError(t, ecs.SetParent(w, holder, player))
	SpawnActorVfx(w, "vfx/on-player.avfx", 0, 1, holder)
	w.Update(0.1)

	require.Len(t, game.Vfx, 1)
	assert.Equal(t, game.Player.ID, game.Vfx[0].ActorID)

	tickFor(w, 1.2, 0.1)
	assert.True(t, game.Vfx[0].Stopped)
}

func TestStatusApplierRefreshAndExtend(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	player, _, _ := LocalPlayer(w)

	applier.Apply(game.Player.ID, status.NewHeavy(5, 9))
	applier.Apply(game.Player.ID, status.NewHeavy(3, 9))
	conds := ActiveConditions(w, player)
	require.Len(t, conds, 1)
	assert.Equal(t, 5.0, conds[0].Remaining)

	ext := status.NewHeavy(3, 9)
	ext.Extend = true
	applier.Apply(game.Player.ID, ext)
	assert.Equal(t, 8.0, ActiveConditions(w, player)[0].Remaining)

	applier.Apply(game.Player.ID, status.NewStun(2))
	applier.Apply(game.Player.ID, status.NewStun(2))
	assert.Len(t, ActiveConditions(w, player), 3, "id zero always creates a new condition")
}

func TestStatusApplierPublishesNewConditions(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())

	applier.Apply(game.Player.ID, status.NewSleep(4, 3))
	applier.Apply(game.Player.ID, status.NewSleep(4, 3))
	applier.Apply(404, status.NewStun(1))

	events := w.Events().DrainType(EventConditionApplied)
	require.Len(t, events, 1, "a refresh is not a new condition")
	applied, ok := events[0].Data.(ConditionApplied)
	require.True(t, ok)
	assert.Equal(t, game.Player.ID, applied.Actor)
	assert.Equal(t, status.Sleep, applied.Effect.Kind)
}

func TestConditionsExpireAndClearOnDeath(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	player, _, _ := LocalPlayer(w)

	applier.Apply(game.Player.ID, status.NewBind(0.5))
	applier.Apply(game.Player.ID, status.NewSleep(30, 1))
	tickFor(w, 0.6, 0.1)
	assert.False(t, HasCondition(w, player, status.Bind))
	assert.True(t, HasCondition(w, player, status.Sleep))

	game.Player.Alive = false
	w.Update(0.1)
	w.Update(0.1)
	assert.Empty(t, ActiveConditions(w, player))
}

func TestKnockbackRules(t *testing.T) {
	tests := []struct {
		name       string
		bound      bool
		statuses   []uint32
		resistible bool
		want       bool
	}{
		{name: "applies", want: true},
		{name: "blocked while bound", bound: true, want: false},
		{name: "resisted by immunity", statuses: []uint32{160}, resistible: true, want: false},
		{name: "unresistible ignores immunity", statuses: []uint32{160}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, game := newTestWorld(t)
			game.Player.Statuses = tt.statuses
			w.Update(0)
			applier := NewStatusApplier(w, zap.NewNop())
			player, _, _ := LocalPlayer(w)
			if tt.bound {
				applier.Apply(game.Player.ID, status.NewBind(10))
			}

			applier.Apply(game.Player.ID, status.NewKnockback(cp.Vector{X: 1}, 1, tt.resistible))
			applier.Apply(game.Player.ID, status.NewKnockback(cp.Vector{Y: 1}, 1, tt.resistible))

			n := 0
			for _, child := range ecs.Children(w, player) {
				if ecs.Has(w, child, component.KnockbackComponent.Kind()) {
					n++
				}
			}
			if tt.want {
				assert.Equal(t, 1, n, "a new knockback replaces the previous one")
			} else {
				assert.Zero(t, n)
			}
		})
	}
}

func TestParalysisStunsInsideWindow(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	player, _, _ := LocalPlayer(w)

	applier.Apply(game.Player.ID, status.NewParalysis(30, 3, 1, 0xBAD))

	stuns := 0
	wasStunned := false
	for i := 0; i < 300; i++ {
		w.Update(0.1)
		stunned := HasCondition(w, player, status.Stun)
		if stunned && !wasStunned {
			stuns++
		}
		wasStunned = stunned
	}
	assert.Greater(t, stuns, 0)
	assert.LessOrEqual(t, stuns, 8, "at most one stun per four second period")
}

func TestHysteriaRedirects(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	applier.Apply(game.Player.ID, status.NewHysteria(10, 2, 0xF1B1))
	w.Update(0.1)

	h, ok := ecs.First(w, component.HysteriaComponent.Kind())
	require.True(t, ok)
	hy, _ := ecs.Get(w, h, component.HysteriaComponent.Kind())
	assert.InDelta(t, 1, hy.Direction.Length(), 1e-9)
	first := hy.Direction

	tickFor(w, 2.1, 0.1)
	assert.NotEqual(t, first, hy.Direction)
	assert.Contains(t, game.VfxPaths(), hysteriaVfx)
}

func TestTemperatureDeltasAndBands(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	player, _, _ := LocalPlayer(w)
	EnsureTemperature(w, player)

	applier.Apply(game.Player.ID, status.NewHeatChange(60, 2, 1))
	applier.Apply(game.Player.ID, status.NewHeatChange(60, 2, 1))
	w.Update(0.1)
	temp, ok := Temperature(w, player)
	require.True(t, ok)
	assert.Equal(t, 60.0, temp.Current, "repeat within cooldown is ignored")

	applier.Apply(game.Player.ID, status.NewHeatChange(50, 0, 0))
	w.Update(0.1)
	assert.Equal(t, 110.0, temp.Current)
	assert.Equal(t, status.Overheated, temp.Band)
	w.Update(0.1)
	assert.Contains(t, game.VfxPaths(), OverheatVfx)

	applier.Apply(game.Player.ID, status.NewHeatChange(500, 0, 0))
	w.Update(0.1)
	assert.Equal(t, status.MaxTemperature, temp.Current)

	game.Player.Alive = false
	w.Update(0.1)
	w.Update(0.1)
	assert.Equal(t, 0.0, temp.Current)
	assert.Equal(t, status.Normal, temp.Band)
}

func TestTemperatureCooldownRearms(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	player, _, _ := LocalPlayer(w)
	EnsureTemperature(w, player)

	applier.Apply(game.Player.ID, status.NewHeatChange(-30, 1, 4))
	w.Update(0.1)
	tickFor(w, 1.5, 0.1)
	applier.Apply(game.Player.ID, status.NewHeatChange(-30, 1, 4))
	w.Update(0.1)

	temp, _ := Temperature(w, player)
	assert.Equal(t, -60.0, temp.Current)
}

func TestSetTemperatureDropsPendingDeltas(t *testing.T) {
	w, game := newTestWorld(t)
	applier := NewStatusApplier(w, zap.NewNop())
	player, _, _ := LocalPlayer(w)
	EnsureTemperature(w, player)

	applier.Apply(game.Player.ID, status.NewHeatChange(40, 5, 9))
	w.Update(0.1)
	SetTemperature(w, player, 0)
	w.Update(0.1)

	temp, ok := Temperature(w, player)
	require.True(t, ok)
	assert.Equal(t, 0.0, temp.Current)

	applier.Apply(game.Player.ID, status.NewHeatChange(40, 5, 9))
	w.Update(0.1)
	assert.Equal(t, 40.0, temp.Current, "cooldown went with the delta")
}

func TestPlayerSyncMirrorsAvatar(t *testing.T) {
	w, game := newTestWorld(t)
	game.MovePlayer(geom.V3(4, 0, -2))
	game.Player.Statuses = []uint32{host.StatusTranscendent}
	w.Update(0.1)

	e, p, ok := LocalPlayer(w)
	require.True(t, ok)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	assert.Equal(t, geom.V3(4, 0, -2), tr.Position)
	assert.True(t, p.HasStatus(host.StatusTranscendent))

	game.HasPlayer = false
	w.Update(0.1)
	assert.False(t, p.Alive)
}
