package attack

import (
	"math"

	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/phase"
)

type StarPhase int

const (
	StarOmen StarPhase = iota
	StarSnapshot
	StarVisual
)

const (
	starDamageDelay = 0.5
	starVisualTime  = 3.0
)

// Star is an eight-bladed line AoE. The omen shows for OmenTime, the hit is
// locked in at the snapshot and lands DamageDelay later, then VfxPath plays
// along the blades.
type Star struct {
	OmenTime float64
	VfxPath  string
	OnHit    HitFunc

	State phase.State[StarPhase]
	tl    phase.Timeline[StarPhase]
}

var StarComponent = component.NewComponent[Star]()

func starTimeline(omenTime float64) phase.Timeline[StarPhase] {
	return phase.NewTimeline(
		phase.At(StarOmen, 0),
		phase.At(StarSnapshot, omenTime),
		phase.At(StarVisual, omenTime+starDamageDelay),
	)
}

// step advances s. Once every phase has fired it reports expired when the
// star has nothing left to show or has outlived its visual.
func (s Star) step(dt float64, hasChildren bool) (next Star, fired []StarPhase, expired bool) {
	if s.tl.Len() == 0 {
		s.tl = starTimeline(s.OmenTime)
	}
	if s.State.Done {
		s.State.Elapsed += dt
		return s, nil, !hasChildren || s.State.Elapsed > s.OmenTime+starDamageDelay+starVisualTime
	}
	s.State, fired = s.tl.Tick(s.State, dt)
	return s, fired, false
}

type StarKind struct{}

func (StarKind) Name() string { return KindStar }

func (StarKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(5))
	_ = ecs.Add(w, e, StarComponent.Kind(), &Star{})
	return e
}

func (StarKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&starSystem{d: d}}
}

type starSystem struct {
	d Deps
}

func (s *starSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, StarComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *Star, t *component.Transform) {
		var fired []StarPhase
		var expired bool
		*st, fired, expired = st.step(dt, ecs.HasChildren(w, e))
		if expired {
			ecs.DestroyEntity(w, e)
			return
		}
		for _, p := range fired {
			switch p {
			case StarOmen:
				spawnOmen(w, e, longStarShape(*t), LongStarOmenVfx, *t, st.OmenTime, false)
			case StarSnapshot:
				target, ok := localTarget(s.d.Game)
				if snapshot(w, e, target.Position.Ground(), ok) && st.OnHit != nil {
					onHit := st.OnHit
					punishWith(w, s.d, e, target, starDamageDelay, func() { onHit(w, target) })
				}
			case StarVisual:
				if st.VfxPath == "" {
					continue
				}
				for j := 1; j >= 0; j-- {
					ft := component.Transform{Position: t.Position, Rotation: t.Rotation + float64(j)*math.Pi/4, Scale: uniform(1)}
					a := spawnFakeActor(w, e, "star blade", -1, ft)
					_ = ecs.Add(w, a, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: st.VfxPath})
					_ = ecs.Add(w, a, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: starVisualTime})
				}
			}
		}
	})
}
