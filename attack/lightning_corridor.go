package attack

import (
	"math"

	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/phase"
	"github.com/milk9111/raidsim/status"
)

type CorridorPhase int

const (
	CorridorStart CorridorPhase = iota
	CorridorOmen
	CorridorSnapshot
	CorridorAttack
)

const (
	corridorWidth       = 10.0
	corridorOmenScale   = 40.0
	corridorParalysisID = 6401601
	corridorVfx         = "vfx/monster/gimmick5/eff/x6r4_b_g016_c0t1.avfx"
	corridorSfxTimeline = 11180
	corridorVfxLifetime = 4.0
)

var corridorTimeline = phase.NewCumulativeTimeline(
	phase.At(CorridorStart, 0),
	phase.At(CorridorOmen, 0.7),
	phase.At(CorridorSnapshot, 0),
	phase.At(CorridorAttack, 5),
)

// LightningCorridor leaves a safe lane Width wide along its rotation and
// strikes everything to either side.
type LightningCorridor struct {
	State          phase.State[CorridorPhase]
	HitLocalPlayer bool
}

var LightningCorridorComponent = component.NewComponent[LightningCorridor]()

type LightningCorridorKind struct{}

func (LightningCorridorKind) Name() string { return KindLightningCorridor }

func (LightningCorridorKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, LightningCorridorComponent.Kind(), &LightningCorridor{State: corridorTimeline.Start()})
	return e
}

func (LightningCorridorKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&lightningCorridorSystem{d: d}}
}

// corridorSides returns the transforms of the two struck halves.
func corridorSides(t component.Transform) [2]component.Transform {
	var out [2]component.Transform
	for i, sign := range []float64{1, -1} {
		r := geom.ClampRadians(t.Rotation + sign*math.Pi/2)
		p := t.Ground().Add(geom.RotationToUnitVector(r).Mult(corridorWidth / 2))
		out[i] = component.Transform{
			Position: geom.FromGround(p, t.Position.Y),
			Rotation: r,
			Scale:    uniform(corridorOmenScale),
		}
	}
	return out
}

type lightningCorridorSystem struct {
	d Deps
}

func (s *lightningCorridorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, LightningCorridorComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *LightningCorridor, t *component.Transform) {
		var fired []CorridorPhase
		c.State, fired = corridorTimeline.Tick(c.State, dt)
		for _, p := range fired {
			switch p {
			case CorridorStart:
				omenTime, _ := corridorTimeline.Threshold(CorridorOmen)
				for _, side := range corridorSides(*t) {
					spawnOmen(w, e, rectangleShape(side), RectangleOmenVfx, side, omenTime, false)
				}
			case CorridorOmen:
				target, ok := localTarget(s.d.Game)
				c.HitLocalPlayer = snapshot(w, e, target.Position.Ground(), ok) || c.HitLocalPlayer
			case CorridorSnapshot:
				s.strike(w, e, *t, c.HitLocalPlayer)
			case CorridorAttack:
				ecs.DestroyEntity(w, e)
				return
			}
		}
		if c.State.Phase == CorridorAttack && !ecs.HasChildren(w, e) {
			ecs.DestroyEntity(w, e)
		}
	})
}

// strike plays the lightning along both walls and punishes a player caught
// at the snapshot.
func (s *lightningCorridorSystem) strike(w *ecs.World, e ecs.Entity, t component.Transform, hit bool) {
	forward := t.Facing()
	for side, sign := range []float64{1, -1} {
		r := geom.ClampRadians(t.Rotation + sign*math.Pi/2)
		wall := t.Ground().Add(geom.RotationToUnitVector(r).Mult(corridorWidth/2 + 20))
		for j := 0; j < 2; j++ {
			p := wall.Add(forward.Mult(-20 + float64(j)*40))
			a := spawnFakeActor(w, e, "lightning", -1, component.Transform{
				Position: geom.FromGround(p, t.Position.Y),
				Rotation: t.Rotation,
			})
			_ = ecs.Add(w, a, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: corridorVfx})
			_ = ecs.Add(w, a, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: corridorVfxLifetime})
			if side == 0 && j == 0 {
				if fa, ok := ecs.Get(w, a, component.FakeActorComponent.Kind()); ok {
					fa.OneShot = corridorSfxTimeline
				}
			}
		}
	}

	if !hit {
		return
	}
	if target, ok := localTarget(s.d.Game); ok {
		punish(w, s.d, e, target, 0, status.NewParalysis(30, 3, 1, corridorParalysisID))
	}
}
