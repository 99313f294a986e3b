package attack

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarSnapshotsOnce(t *testing.T) {
	tests := []struct {
		name   string
		player geom.Vec3
		hits   int
	}{
		{"on a blade", geom.V3(0, 0, 3), 1},
		{"between blades", geom.V3(5, 0, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t)
			r.game.MovePlayer(tt.player)

			hits := 0
			e := r.create(t, KindStar, Spawn{})
			st, ok := ecs.Get(r.w, e, StarComponent.Kind())
			require.True(t, ok)
			st.OmenTime = 1
			st.VfxPath = "vfx/test/star.avfx"
			st.OnHit = func(*ecs.World, host.Actor) { hits++ }

			r.run(6)
			assert.Equal(t, tt.hits, hits)
			assert.Equal(t, 1, countPath(r.game.VfxPaths(), LongStarOmenVfx))
			assert.Equal(t, 2, countPath(r.game.VfxPaths(), "vfx/test/star.avfx"))
			assert.False(t, r.w.IsAlive(e))
		})
	}
}

func TestLightningCorridorSparesTheLane(t *testing.T) {
	tests := []struct {
		name      string
		player    geom.Vec3
		paralysed int
	}{
		{"in the lane", geom.V3(0, 0, 10), 0},
		{"to the side", geom.V3(10, 0, 0), 1},
		{"other side", geom.V3(-12, 0, 5), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t)
			r.game.MovePlayer(tt.player)

			e := r.create(t, KindLightningCorridor, Spawn{})
			r.run(7)
			assert.Equal(t, tt.paralysed, r.status.Count(status.Paralysis))
			assert.Equal(t, 2, countPath(r.game.VfxPaths(), RectangleOmenVfx))
			assert.False(t, r.w.IsAlive(e))
		})
	}
}

func TestVoidGateRunsToCompletion(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindVoidGate, Spawn{})

	r.run(10)
	assert.True(t, r.w.IsAlive(e))
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), voidGateAbsorbVfx))
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), voidGateActorVfx))

	r.run(11)
	assert.False(t, r.w.IsAlive(e))
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), voidGateExpelVfx))
}

func TestExaflareBindsOnce(t *testing.T) {
	r := newTestRig(t)
	r.game.MovePlayer(geom.V3(0, 0, 8))

	e := r.create(t, KindExaflare, Spawn{})
	r.run(2)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), ExaflareOmenVfx))
	assert.Equal(t, 1, ecs.Count(r.w, component.OmenComponent.Kind()))

	r.run(11)
	assert.Equal(t, 1, r.status.Count(status.Bind))
	assert.Equal(t, 6, countPath(r.game.VfxPaths(), exaflareVfx))
	assert.False(t, r.w.IsAlive(e))
	assert.Zero(t, ecs.Count(r.w, component.OmenComponent.Kind()))
}

func TestClearingAnExaflareCancelsItsBind(t *testing.T) {
	r := newTestRig(t)
	r.create(t, KindExaflare, Spawn{})

	pending := func() int { return ecs.Count(r.w, component.DelayedActionComponent.Kind()) }
	for i := 0; i < 120 && pending() == 0; i++ {
		r.w.Update(0.05)
	}
	require.Equal(t, 1, pending(), "the first blast should queue a bind")

	r.m.ClearAll()
	r.run(1)
	assert.Zero(t, pending())
	assert.Zero(t, r.status.Count(status.Bind))
}

func TestExaflareStep(t *testing.T) {
	var x Exaflare
	var all []int
	var done bool
	for i := 0; i < 60 && !done; i++ {
		var due []int
		x, due, done = x.step(0.25)
		all = append(all, due...)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, all)
	assert.True(t, done)
	assert.InDelta(t, 12.0, x.Elapsed, 1e-9)
}

func TestExaflareRowFiresInPairs(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindExaflareRow, Spawn{Rotation: math.Pi / 2})
	row, ok := ecs.Get(r.w, e, ExaflareRowComponent.Kind())
	require.True(t, ok)
	row.Rand = rand.New(rand.NewSource(42))

	r.run(0.25)
	assert.Equal(t, 2, ecs.Count(r.w, ExaflareComponent.Kind()))

	order := append([]int(nil), row.Order...)
	sort.Ints(order)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, order)

	r.run(2.75)
	assert.Equal(t, 4, ecs.Count(r.w, ExaflareComponent.Kind()))
	r.run(3)
	assert.Equal(t, 6, ecs.Count(r.w, ExaflareComponent.Kind()))

	r.run(15)
	assert.False(t, r.w.IsAlive(e))
	assert.Zero(t, ecs.Count(r.w, ExaflareComponent.Kind()))
}

func TestExaflareLanesAreEvenlySpaced(t *testing.T) {
	var got []cp.Vector
	for i := 0; i < exaflareRowLanes; i++ {
		got = append(got, exaflareLane(cp.Vector{}, 0, i))
	}
	assert.InDelta(t, 20, got[0].X, 1e-9)
	assert.InDelta(t, -20, got[5].X, 1e-9)
	for i := 1; i < len(got); i++ {
		assert.InDelta(t, exaflareRowSpacing, got[i].Distance(got[i-1]), 1e-9)
		assert.InDelta(t, 0, got[i].Y, 1e-9)
	}
}

func TestJumpableShockwaveStep(t *testing.T) {
	tests := []struct {
		name    string
		height  float64
		crossed bool
	}{
		{"on the ground", 0, true},
		{"small hop", 1, true},
		{"mid jump", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := JumpableShockwave{Radius: shockwaveStartRadius}
			var crossed bool
			j, crossed = j.step(0.25, 3, tt.height, true)
			require.False(t, crossed, "first sample only records the side")
			assert.Equal(t, WaveOutside, j.Side)

			j, crossed = j.step(0.25, 3, tt.height, true)
			assert.Equal(t, tt.crossed, crossed)
			assert.Equal(t, WaveInside, j.Side)
		})
	}
}

func TestJumpableShockwaveStopsAtMaxRadius(t *testing.T) {
	j := JumpableShockwave{Radius: shockwaveMaxRadius - 0.5, Side: WaveOutside}
	j, crossed := j.step(1, 29.8, 0, true)
	assert.True(t, crossed)
	assert.Equal(t, shockwaveMaxRadius, j.Radius)

	j, crossed = j.step(1, 40, 0, true)
	assert.False(t, crossed)
}

func TestJumpableShockwaveExpires(t *testing.T) {
	r := newTestRig(t)
	r.game.MovePlayer(geom.V3(0, 0, 4))
	e := r.create(t, KindJumpableShockwave, Spawn{})

	r.run(2)
	assert.Equal(t, 1, r.status.Count(status.Stun))
	assert.Equal(t, shockwaveStunID, r.status.Applied[0].Effect.ID)

	r.run(7)
	assert.False(t, r.w.IsAlive(e))
}

func TestTornadoStep(t *testing.T) {
	var tn Tornado
	var hit bool

	tn, hit = tn.step(1, 0, 1, true)
	assert.False(t, hit, "winding up")

	tn, hit = tn.step(1, 2.9, 1, true)
	assert.True(t, hit)

	tn, hit = tn.step(1, 0, 1, true)
	assert.False(t, hit, "cooling down")

	tn, hit = tn.step(2, 3, 1, true)
	assert.False(t, hit, "out of reach")

	tn, hit = tn.step(0.5, 2, 1, false)
	assert.False(t, hit, "no target")

	_, hit = tn.step(0.5, 2, 1, true)
	assert.True(t, hit)
}

func TestOrbitStepDirection(t *testing.T) {
	center := cp.Vector{}
	pos := cp.Vector{X: 10}

	cw := orbitStep(center, pos, Orbit{Clockwise: true, Speed: 5.4}, 1)
	ccw := orbitStep(center, pos, Orbit{Speed: 5.4}, 1)
	assert.InDelta(t, 10, cw.X, 1e-9)
	assert.InDelta(t, -5.4, cw.Y, 1e-9)
	assert.InDelta(t, 10, ccw.X, 1e-9)
	assert.InDelta(t, 5.4, ccw.Y, 1e-9)
}

func TestTwisterStep(t *testing.T) {
	var tw Twister
	var hit bool

	tw, hit = tw.step(0.1, 0.5, true)
	require.True(t, hit)
	tw, hit = tw.step(1, 0.5, true)
	assert.False(t, hit)
	tw, hit = tw.step(2, 0.5, true)
	assert.True(t, hit)
	_, hit = tw.step(5, 0.95, true)
	assert.False(t, hit)
}

func TestObstacleLayout(t *testing.T) {
	center := cp.Vector{X: 100, Y: 100}
	got := obstacleLayout(center, obstacleSets, obstacleOuterRadius, 0)
	assert.Len(t, got, 50)
	for _, p := range got {
		d := p.Distance(center)
		assert.LessOrEqual(t, d, obstacleOuterRadius-twisterRadius+1e-9)
		assert.GreaterOrEqual(t, d, obstacleOuterRadius-twisterRadius-obstacleSpacing*4-1e-9)
	}
}

func TestTwisterKnocksBackAndCoolsDown(t *testing.T) {
	r := newTestRig(t)
	r.game.MovePlayer(geom.V3(0.5, 0, 0))
	r.create(t, KindTwister, Spawn{})

	r.run(1)
	require.Equal(t, 1, r.status.Count(status.Knockback))
	kb := r.status.Applied[0].Effect
	assert.Greater(t, kb.Direction.X, 0.0)
	assert.False(t, kb.Resistible)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), TwisterLaunchVfx[0]))

	r.run(2.5)
	assert.Equal(t, 2, r.status.Count(status.Knockback))
}

func TestOctetDonutBuildsTheArena(t *testing.T) {
	r := newTestRig(t)
	r.game.MovePlayer(geom.V3(0, 0, 20))
	e := r.create(t, KindOctetDonut, Spawn{})

	r.run(5.5)
	assert.Equal(t, 1, r.status.Count(status.Stun))
	assert.Equal(t, 2, ecs.Count(r.w, TornadoComponent.Kind()))
	assert.Equal(t, 2, ecs.Count(r.w, OrbitComponent.Kind()))
	assert.Equal(t, 1, ecs.Count(r.w, TwisterObstacleCourseComponent.Kind()))
	assert.Equal(t, 50, ecs.Count(r.w, TwisterComponent.Kind()))

	r.m.ClearAll()
	assert.False(t, r.w.IsAlive(e))
	assert.Zero(t, ecs.Count(r.w, TwisterComponent.Kind()))
}

func TestDreadknightStep(t *testing.T) {
	d := Dreadknight{StartEnrage: 7, Enrage: 12, TargetID: 9}

	var a dreadAction
	d, a = d.step(1, 100, true)
	assert.Equal(t, dreadWait, a)

	d, a = d.step(1, 100, true)
	assert.Equal(t, dreadFollow, a)

	d, a = d.step(0.5, 1, true)
	assert.Equal(t, dreadHit, a)
	assert.InDelta(t, 5.5, d.NextRefresh, 1e-9)

	d, a = d.step(0.5, 1, true)
	assert.Equal(t, dreadStand, a)

	d, a = d.step(0.5, 1, false)
	assert.Equal(t, dreadTargetLost, a)
	assert.Zero(t, d.TargetID)
	assert.InDelta(t, 13.5, d.StartEnrage, 1e-9)
}

func TestDreadknightEnrageSequence(t *testing.T) {
	d := Dreadknight{StartEnrage: 7, Enrage: 12}

	var a dreadAction
	d, a = d.step(7, 0, false)
	assert.Equal(t, dreadCastEnrage, a)
	assert.Equal(t, -1.0, d.StartEnrage)

	d, a = d.step(1, 0, false)
	assert.Equal(t, dreadWait, a)

	d, a = d.step(4, 0, false)
	assert.Equal(t, dreadEnrage, a)

	d, a = d.step(0.1, 0, false)
	assert.Equal(t, dreadIdle, a)
	assert.Equal(t, dreadknightIdleFrom, d.Elapsed)
}

func TestDreadknightEnragesWithoutTarget(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindDreadknight, Spawn{})

	r.run(14)
	assert.Contains(t, r.game.Toasts, DreadknightEnrageText)
	require.Equal(t, 1, r.status.Count(status.Stun))
	stun := r.status.Applied[0].Effect
	assert.Equal(t, dreadknightEnrageStun, stun.Duration)
	assert.Equal(t, dreadknightStunID, stun.ID)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), dreadknightEnrageVfx))

	r.run(6)
	assert.False(t, r.w.IsAlive(e))
}

func TestDreadknightChasesTetheredTarget(t *testing.T) {
	r := newTestRig(t)
	r.game.MovePlayer(geom.V3(0, 0, 5))
	e := r.create(t, KindDreadknight, Spawn{})
	ApplyTether(r.w, e, r.game.Player.ID)

	r.run(1)
	dk, ok := ecs.Get(r.w, e, DreadknightComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, r.game.Player.ID, dk.TargetID)

	r.run(3)
	assert.Greater(t, transformOf(r.w, e).Position.Z, 0.0)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), dreadknightTetherVfx))

	r.run(2)
	assert.GreaterOrEqual(t, r.status.Count(status.Stun), 1)
	assert.Empty(t, r.game.Toasts)
}

func TestDistanceTetherBreaksOnce(t *testing.T) {
	r := newTestRig(t)
	r.game.AddActor(host.Actor{ID: 2, Alive: true, Position: geom.V3(20, 0, 0)})

	e := r.create(t, KindDistanceTether, Spawn{})
	require.True(t, ConfigureTether(r.w, e, func(th *component.Tether) {
		th.SourceID = 1
		th.TargetID = 2
		th.FailFurtherThan = 10
		th.Penalty = []status.Effect{status.NewStun(5)}
		th.FailVfx = []string{"vfx/test/fail.avfx"}
	}))

	r.run(1)
	assert.Zero(t, r.status.Count(status.Stun), "not activated")

	require.True(t, ActivateTether(r.w, e))
	r.run(1)
	assert.Equal(t, 1, r.status.Count(status.Stun))
	assert.True(t, system.TetherBroken(r.w, e))

	var ends []uint64
	for _, v := range r.game.Vfx {
		if v.Path == "vfx/test/fail.avfx" {
			ends = append(ends, v.ActorID)
		}
	}
	assert.ElementsMatch(t, []uint64{1, 2}, ends)

	r.run(2)
	assert.Equal(t, 1, r.status.Count(status.Stun))
}

func TestDistanceSnapshotTetherResolvesOnce(t *testing.T) {
	tests := []struct {
		name    string
		target  geom.Vec3
		stunned int
		vfx     string
	}{
		{"close enough", geom.V3(5, 0, 0), 0, "vfx/test/ok.avfx"},
		{"too far", geom.V3(15, 0, 0), 1, "vfx/test/fail.avfx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t)
			r.game.AddActor(host.Actor{ID: 2, Alive: true, Position: tt.target})

			e := r.create(t, KindDistanceSnapshotTether, Spawn{})
			ConfigureTether(r.w, e, func(th *component.Tether) {
				th.SourceID = 1
				th.TargetID = 2
				th.FailFurtherThan = 10
				th.Penalty = []status.Effect{status.NewStun(5)}
				th.FailVfx = []string{"vfx/test/fail.avfx"}
				th.SuccessVfx = []string{"vfx/test/ok.avfx"}
				th.VfxTarget = component.TetherOnlyTarget
				th.Snapshot = false
			})
			SetTetherVfx(r.w, e, TetherActivatedFar)
			ActivateTether(r.w, e)

			r.run(1)
			assert.Equal(t, tt.stunned, r.status.Count(status.Stun))
			assert.Equal(t, 1, countPath(r.game.VfxPaths(), tt.vfx))
			assert.False(t, r.w.IsAlive(e))

			r.run(1)
			assert.Equal(t, tt.stunned, r.status.Count(status.Stun))
		})
	}
}

func TestDoomCleanse(t *testing.T) {
	r := newTestRig(t)
	taken := r.create(t, KindDoomCleanse, Spawn{})
	left := r.create(t, KindDoomCleanse, Spawn{})
	d, ok := ecs.Get(r.w, taken, DoomCleanseComponent.Kind())
	require.True(t, ok)
	d.ObjectID = 77

	assert.Zero(t, ConsumeDoomCleanse(r.w, 0))
	assert.Equal(t, 1, ConsumeDoomCleanse(r.w, 77))
	assert.False(t, r.w.IsAlive(taken))

	r.run(3.75)
	assert.True(t, r.w.IsAlive(left))
	r.run(0.5)
	assert.False(t, r.w.IsAlive(left))
}

func TestRollingBallRollsForward(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindRollingBall, Spawn{Rotation: math.Pi / 2})

	r.run(2)
	p := transformOf(r.w, e).Position
	assert.InDelta(t, 10, p.X, 1e-6)
	assert.InDelta(t, 0, p.Z, 1e-6)
}

func TestLiquidHeavenCools(t *testing.T) {
	r := newTestRig(t)
	r.create(t, KindLiquidHeaven, Spawn{})
	puddle := r.create(t, KindExpandingPuddle, Spawn{Position: geom.V3(50, 0, 0)})

	r.game.MovePlayer(geom.V3(4, 0, 0))
	r.run(0.25)
	require.Equal(t, 1, r.status.Count(status.HeatChange))
	assert.Equal(t, liquidHeavenHeat, r.status.Applied[0].Effect.Delta)

	r.game.MovePlayer(geom.V3(6, 0, 0))
	r.run(0.25)
	assert.Equal(t, 1, r.status.Count(status.HeatChange))

	p, ok := ecs.Get(r.w, puddle, ExpandingPuddleComponent.Kind())
	require.True(t, ok)
	p.VfxPath = "vfx/test/puddle.avfx"
	r.run(0.25)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), "vfx/test/puddle.avfx"))

	DimLiquidHeavens(r.w, true)
	ecs.ForEach(r.w, LiquidHeavenComponent.Kind(), func(_ ecs.Entity, l *LiquidHeaven) {
		assert.True(t, l.Dimmed)
	})
}

func TestDreadknightCrowdControl(t *testing.T) {
	d := Dreadknight{Elapsed: 2, StartEnrage: 7, Enrage: 12, TargetID: 9, Stunned: 1}

	var a dreadAction
	d, a = d.step(0.5, 100, true)
	assert.Equal(t, dreadImpaired, a)
	d, a = d.step(0.6, 100, true)
	assert.Equal(t, dreadFollow, a)

	d.Rooted = 1
	d, a = d.step(0.1, 100, true)
	assert.Equal(t, dreadStand, a, "rooted knights turn in place")
	_, a = d.step(0.1, 1, true)
	assert.Equal(t, dreadHit, a, "and still hit what is in reach")

	slowed := Dreadknight{Slowed: 5, SlowFactor: 0.8, SpeedBonus: 0.5}
	assert.InDelta(t, 2.4, slowed.speed(), 1e-9)
	slowed.Slowed = 0
	assert.InDelta(t, 3.0, slowed.speed(), 1e-9)
}

func TestDreadknightSleepBreaks(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindDreadknight, Spawn{})

	require.True(t, ImpairDreadknight(r.w, e, status.Sleep, 15, 0))
	assert.False(t, ImpairDreadknight(r.w, e, status.Pacify, 15, 0))
	r.run(0.25)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), dreadknightSleepVfx))

	require.True(t, WakeDreadknight(r.w, e))
	r.run(0.25)
	dk, _ := ecs.Get(r.w, e, DreadknightComponent.Kind())
	assert.Zero(t, dk.Asleep)
	for _, v := range r.game.Vfx {
		if v.Path == dreadknightSleepVfx {
			assert.True(t, v.Stopped)
		}
	}

	assert.False(t, DreadknightHasTarget(r.w, e))
	assert.True(t, IncrementDreadknightSpeed(r.w, e, 0.5))
	assert.InDelta(t, 3.0, dk.speed(), 1e-9)
}

func TestExpandingPuddleGrowsAndExpires(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindExpandingPuddle, Spawn{Scale: uniform(0.5)})
	p, ok := ecs.Get(r.w, e, ExpandingPuddleComponent.Kind())
	require.True(t, ok)
	p.EndScale = 5
	p.ExpandSpeed = 0.25
	p.Lifetime = 22

	r.run(10)
	assert.InDelta(t, 3.0, transformOf(r.w, e).Scale.X, 1e-9)

	r.run(10)
	assert.InDelta(t, 5.0, transformOf(r.w, e).Scale.X, 1e-9)

	r.run(2.25)
	assert.False(t, r.w.IsAlive(e))
}

func TestRollingBallStaysInArena(t *testing.T) {
	tests := []struct {
		name  string
		arena BallArena
		start geom.Vec3
	}{
		{"circle", BallArena{Shape: ArenaCircle, Size: 5}, geom.V3(0, 0, 0)},
		{"square", BallArena{Shape: ArenaSquare, Center: cp.Vector{X: 100, Y: 100}, Size: 40}, geom.V3(100, 0, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t)
			e := r.create(t, KindRollingBall, Spawn{Position: tt.start, Rotation: 0.3})
			require.True(t, SetBallArena(r.w, e, tt.arena, rand.New(rand.NewSource(5))))

			turned := false
			for i := 0; i < 200; i++ {
				r.w.Update(0.25)
				tr := transformOf(r.w, e)
				if tr.Rotation != 0.3 {
					turned = true
				}
				require.True(t, insideArena(tt.arena, tr.Ground()), "tick %d at %v", i, tr.Position)
			}
			assert.True(t, turned)
		})
	}
}

func insideArena(a BallArena, p cp.Vector) bool {
	const eps = 1e-6
	off := p.Sub(a.Center)
	if a.Shape == ArenaCircle {
		return off.Length() <= a.Size+eps
	}
	return math.Abs(off.X) <= a.Size/2+eps && math.Abs(off.Y) <= a.Size/2+eps
}

func TestVoidGateTimingsAndMarker(t *testing.T) {
	r := newTestRig(t)
	e := r.create(t, KindVoidGate, Spawn{})
	require.True(t, SetVoidGateTimings(r.w, e, 4, 24.2))
	require.True(t, MarkVoidGate(r.w, e, "vfx/test/mark.avfx"))

	r.run(4.5)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), voidGateAbsorbVfx))
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), "vfx/test/mark.avfx"))
	assert.False(t, SetVoidGateTimings(r.w, e, 1, 2), "already open")

	r.run(19.5)
	assert.Zero(t, countPath(r.game.VfxPaths(), voidGateExpelVfx))
	r.run(1)
	assert.Equal(t, 1, countPath(r.game.VfxPaths(), voidGateExpelVfx))
	assert.True(t, r.w.IsAlive(e))

	r.run(4)
	assert.False(t, r.w.IsAlive(e))
}
