package attack

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/phase"
	"github.com/milk9111/raidsim/status"
)

const (
	exaflareScale     = 6.5
	exaflareOmenTime  = 2.65
	exaflareStep      = 8.0
	exaflareBind      = 10.0
	exaflareBindDelay = 0.2
	exaflareVfx       = "vfx/monster/gimmick2/eff/f1bz_b0_g02c0i.avfx"
)

var exaflarePulse = phase.Pulse{Offset: exaflareOmenTime + 0.35, Interval: 1.5, Count: 6}

// Exaflare is a line of six blasts advancing along its rotation after a
// warning arrow.
type Exaflare struct {
	Elapsed float64
	Strikes int
}

var ExaflareComponent = component.NewComponent[Exaflare]()

// step returns the 1-based strikes due this tick and whether the line has
// finished.
func (x Exaflare) step(dt float64) (Exaflare, []int, bool) {
	x.Elapsed += dt
	var due []int
	for n := exaflarePulse.Next(x.Elapsed, x.Strikes); n > 0; n-- {
		x.Strikes++
		due = append(due, x.Strikes)
	}
	done := exaflarePulse.Finished(x.Strikes) && x.Elapsed >= exaflarePulse.End()+exaflarePulse.Interval
	return x, due, done
}

// exaflareStrikeAt is the centre of the nth blast.
func exaflareStrikeAt(t component.Transform, n int) cp.Vector {
	return t.Ground().Add(t.Facing().Mult(float64(n-1) * exaflareStep))
}

type ExaflareKind struct{}

func (ExaflareKind) Name() string { return KindExaflare }

func (ExaflareKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(exaflareScale))
	t := transformOf(w, e)
	spawnOmen(w, e, exaflareShape(t), ExaflareOmenVfx, t, exaflareOmenTime, true)
	_ = ecs.Add(w, e, ExaflareComponent.Kind(), &Exaflare{})
	return e
}

func (ExaflareKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&exaflareSystem{d: d}}
}

type exaflareSystem struct {
	d Deps
}

func (s *exaflareSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, ExaflareComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, x *Exaflare, t *component.Transform) {
		var due []int
		var done bool
		*x, due, done = x.step(dt)
		for _, n := range due {
			s.strike(w, e, *t, n)
		}
		if done {
			ecs.DestroyEntity(w, e)
		}
	})
}

func (s *exaflareSystem) strike(w *ecs.World, e ecs.Entity, t component.Transform, n int) {
	p := geom.FromGround(exaflareStrikeAt(t, n), t.Position.Y)
	circle := CircleKind{}.Create(w, Spawn{Position: p, Scale: uniform(t.Scale.X), Parent: e})
	d := s.d
	// The bind belongs to the line, which outlives the blast by a full
	// interval, so clearing the line cancels it.
	if c, ok := ecs.Get(w, circle, CircleComponent.Kind()); ok {
		c.OnHit = func(w *ecs.World, target host.Actor) {
			if localPlayerHasCondition(w, status.Bind) {
				return
			}
			punish(w, d, e, target, exaflareBindDelay, status.NewBind(exaflareBind))
		}
	}
	a := spawnFakeActor(w, e, "exaflare", -1, component.Transform{Position: p, Rotation: t.Rotation})
	_ = ecs.Add(w, a, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: exaflareVfx})
	_ = ecs.Add(w, a, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: exaflarePulse.Interval})
}

const (
	exaflareRowLanes    = 6
	exaflareRowTimeout  = 20.0
	exaflareRowSpacing  = 8.0
	exaflareRowPairWait = 3.0
)

var exaflareRowPulse = phase.Pulse{Interval: exaflareRowPairWait, Count: exaflareRowLanes / 2}

// ExaflareRow fires six exaflares side by side, two lanes at a time, in an
// order drawn from Rand (or the shared generator when nil).
type ExaflareRow struct {
	Elapsed float64
	Pairs   int
	Order   []int
	Rand    *rand.Rand
}

var ExaflareRowComponent = component.NewComponent[ExaflareRow]()

// exaflareLane returns the origin of lane idx across a row facing rotation.
func exaflareLane(center cp.Vector, rotation float64, idx int) cp.Vector {
	off := exaflareRowSpacing * (float64(idx) - 2.5)
	lateral := geom.RotationToUnitVector(rotation).Perp()
	return center.Add(lateral.Mult(off))
}

type ExaflareRowKind struct{}

func (ExaflareRowKind) Name() string { return KindExaflareRow }

func (ExaflareRowKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(exaflareScale))
	_ = ecs.Add(w, e, ExaflareRowComponent.Kind(), &ExaflareRow{})
	return e
}

func (ExaflareRowKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&exaflareRowSystem{d: d}}
}

type exaflareRowSystem struct {
	d Deps
}

func (s *exaflareRowSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, ExaflareRowComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, row *ExaflareRow, t *component.Transform) {
		if row.Order == nil {
			r := row.Rand
			if r == nil {
				r = s.d.Rand
			}
			row.Order = r.Perm(exaflareRowLanes)
		}
		row.Elapsed += dt
		for n := exaflareRowPulse.Next(row.Elapsed, row.Pairs); n > 0; n-- {
			for _, lane := range row.Order[row.Pairs*2 : row.Pairs*2+2] {
				p := exaflareLane(t.Ground(), t.Rotation, lane)
				ExaflareKind{}.Create(w, Spawn{
					Position: geom.FromGround(p, t.Position.Y),
					Rotation: t.Rotation,
					Scale:    t.Scale,
					Parent:   e,
				})
			}
			row.Pairs++
		}
		if row.Elapsed > exaflareRowTimeout || (row.Pairs > 0 && !ecs.HasChildren(w, e)) {
			ecs.DestroyEntity(w, e)
		}
	})
}
