package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/status"
)

const (
	puddleVfx = "bgcommon/world/common/vfx_for_btl/b0195/eff/b0195_yuka_c.avfx"

	liquidHeavenRadius   = 5.0
	liquidHeavenHeat     = -1.0
	liquidHeavenCooldown = 0.1
	liquidHeavenHeatID   = 1234
	// LiquidHeavenDimAlpha is used for puddles shown under a dark sky.
	LiquidHeavenDimAlpha = 0.4
)

// ExpandingPuddle is a ground decal with no hit-test. VfxPath overrides the
// default puddle. When ExpandSpeed is set the decal grows from StartScale to
// EndScale, and a positive Lifetime removes it.
type ExpandingPuddle struct {
	VfxPath     string
	StartScale  float64
	EndScale    float64
	ExpandSpeed float64
	Lifetime    float64
	Elapsed     float64
}

// scale is the puddle's uniform scale after Elapsed seconds.
func (p ExpandingPuddle) scale() float64 {
	if p.ExpandSpeed <= 0 {
		return p.StartScale
	}
	s := p.StartScale + p.ExpandSpeed*p.Elapsed
	if p.EndScale > p.StartScale {
		s = min(s, p.EndScale)
	}
	return s
}

var ExpandingPuddleComponent = component.NewComponent[ExpandingPuddle]()

type ExpandingPuddleKind struct{}

func (ExpandingPuddleKind) Name() string { return KindExpandingPuddle }

func (ExpandingPuddleKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, ExpandingPuddleComponent.Kind(), &ExpandingPuddle{
		VfxPath:    puddleVfx,
		StartScale: transformOf(w, e).Scale.X,
	})
	return e
}

func (ExpandingPuddleKind) Systems(Deps) []ecs.System {
	return []ecs.System{ecs.SystemFunc(updatePuddles)}
}

// updatePuddles grows each puddle, expires it and keeps its decal in step
// with VfxPath.
func updatePuddles(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, ExpandingPuddleComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *ExpandingPuddle, t *component.Transform) {
		p.Elapsed += dt
		if p.Lifetime > 0 && p.Elapsed >= p.Lifetime {
			ecs.DestroyEntity(w, e)
			return
		}
		if p.ExpandSpeed > 0 {
			s := p.scale()
			t.Scale = geom.V3(s, t.Scale.Y, s)
		}

		if p.VfxPath == "" {
			return
		}
		if v, ok := ecs.Get(w, e, component.StaticVfxComponent.Kind()); ok {
			if v.Path != p.VfxPath {
				v.Path = p.VfxPath
			}
			return
		}
		_ = ecs.Add(w, e, component.StaticVfxComponent.Kind(), &component.StaticVfx{Path: p.VfxPath})
	})
}

// LiquidHeaven is a cooling puddle: standing within five yalms lowers the
// player's temperature. Dimmed puddles are drawn at LiquidHeavenDimAlpha.
type LiquidHeaven struct {
	Dimmed bool
}

var LiquidHeavenComponent = component.NewComponent[LiquidHeaven]()

type LiquidHeavenKind struct{}

func (LiquidHeavenKind) Name() string { return KindLiquidHeaven }

func (LiquidHeavenKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	_ = ecs.Add(w, e, component.StaticVfxComponent.Kind(), &component.StaticVfx{Path: puddleVfx})
	_ = ecs.Add(w, e, LiquidHeavenComponent.Kind(), &LiquidHeaven{})
	return e
}

func (LiquidHeavenKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&liquidHeavenSystem{d: d}}
}

type liquidHeavenSystem struct {
	d Deps
}

func (s *liquidHeavenSystem) Update(w *ecs.World) {
	if w == nil || s.d.Status == nil {
		return
	}
	target, ok := localTarget(s.d.Game)
	if !ok {
		return
	}
	ecs.ForEach2(w, LiquidHeavenComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *LiquidHeaven, t *component.Transform) {
		if t.Ground().Distance(target.Position.Ground()) <= liquidHeavenRadius {
			s.d.Status.Apply(target.ID, status.NewHeatChange(liquidHeavenHeat, liquidHeavenCooldown, liquidHeavenHeatID))
		}
	})
}

// DimLiquidHeavens sets the dimmed flag on every cooling puddle.
func DimLiquidHeavens(w *ecs.World, dim bool) {
	ecs.ForEach(w, LiquidHeavenComponent.Kind(), func(_ ecs.Entity, l *LiquidHeaven) {
		l.Dimmed = dim
	})
}
