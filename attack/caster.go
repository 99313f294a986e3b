package attack

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/phase"
	"github.com/milk9111/raidsim/status"
)

// CasterPhase is the timeline shared by every boss-model attack: telegraph,
// swing, snapshot, payoff effect and reset. Kinds order and time the phases
// differently.
type CasterPhase int

const (
	CasterOmen CasterPhase = iota
	CasterAnimation
	CasterSnapshot
	CasterVfx
	CasterReset
)

func (p CasterPhase) String() string {
	switch p {
	case CasterOmen:
		return "omen"
	case CasterAnimation:
		return "animation"
	case CasterSnapshot:
		return "snapshot"
	case CasterVfx:
		return "vfx"
	case CasterReset:
		return "reset"
	}
	return "unknown"
}

const casterVfxLifetime = 4.0

// Caster is the per-instance progress of a caster attack.
type Caster struct {
	State phase.State[CasterPhase]
}

// casterOmen describes the telegraph a caster drops.
type casterOmen struct {
	shape    func(component.Transform) geom.Shape
	vfx      string
	scale    geom.Vec3
	duration float64
	// castVfx plays on the caster while the omen is shown.
	castVfx string
}

// casterSpec is everything that differs between caster kinds.
type casterSpec struct {
	name      string
	model     int
	timeline  phase.Timeline[CasterPhase]
	animation uint16
	omen      casterOmen
	vfx       []string
	penalty   []status.Effect
	hitDelay  float64
	// turret casters go idle at reset instead of being destroyed.
	turret bool
}

// step is the pure transition of a caster: it returns the phases whose side
// effects must run this tick, in order.
func (c casterSpec) step(s Caster, dt float64) (Caster, []CasterPhase) {
	var fired []CasterPhase
	s.State, fired = c.timeline.Tick(s.State, dt)
	return s, fired
}

func (c casterSpec) create(w *ecs.World, s Spawn, kind component.ComponentHandle[Caster], defaultScale geom.Vec3, armed bool) ecs.Entity {
	e := newAttack(w, s, defaultScale)
	_ = ecs.Add(w, e, component.FakeActorComponent.Kind(), &component.FakeActor{Name: c.name, ModelID: c.model, Animation: idleAnimation})
	if armed {
		_ = ecs.Add(w, e, kind.Kind(), &Caster{State: c.timeline.Start()})
	}
	return e
}

type casterSystem struct {
	spec casterSpec
	kind component.ComponentHandle[Caster]
	d    Deps
}

func (s *casterSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, s.kind.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *Caster, t *component.Transform) {
		var fired []CasterPhase
		*c, fired = s.spec.step(*c, dt)
		for _, p := range fired {
			if !s.apply(w, e, *t, p) {
				return
			}
		}
	})
}

// apply runs one phase's side effect. It returns false once e is gone or
// idle.
func (s *casterSystem) apply(w *ecs.World, e ecs.Entity, t component.Transform, p CasterPhase) bool {
	spec := s.spec
	switch p {
	case CasterOmen:
		if spec.omen.castVfx != "" {
			addActorVfx(w, e, spec.omen.castVfx)
		}
		if leader, ok := ecs.Get(w, e, SteppedLeaderComponent.Kind()); ok {
			for _, pt := range leader.Points {
				ot := component.Transform{Position: pt, Scale: uniform(steppedLeaderRadius)}
				spawnOmen(w, e, circleShape(ot), CircleOmenVfx, ot, spec.omen.duration, false)
			}
			break
		}
		ot := component.Transform{Position: t.Position, Rotation: t.Rotation, Scale: spec.omen.scale}
		spawnOmen(w, e, spec.omen.shape(ot), spec.omen.vfx, ot, spec.omen.duration, false)
	case CasterAnimation:
		setAnimation(w, e, spec.animation)
	case CasterSnapshot:
		setAnimation(w, e, idleAnimation)
		target, ok := localTarget(s.d.Game)
		if snapshot(w, e, target.Position.Ground(), ok) {
			punish(w, s.d, e, target, spec.hitDelay, spec.penalty...)
		}
		// the cast bar effect ends with the snapshot
		for _, c := range ecs.Children(w, e) {
			if ecs.Has(w, c, component.ActorVfxComponent.Kind()) {
				ecs.DestroyEntity(w, c)
			}
		}
	case CasterVfx:
		for _, v := range spec.vfx {
			system.SpawnActorVfx(w, v, 0, casterVfxLifetime, e)
		}
	case CasterReset:
		if spec.turret {
			ecs.Remove(w, e, s.kind.Kind())
			ecs.Remove(w, e, SteppedLeaderComponent.Kind())
			return false
		}
		ecs.DestroyEntity(w, e)
		return false
	}
	return true
}

const (
	adsParalysisID   = 0xBAD
	adsAttackAnim    = 2262
	adsModel         = 316
	adsActionVfx     = "vfx/monster/m0653/eff/m0653sp16_c0a1.avfx"
	hysteriaSharedID = 0xF1B1
)

var adsSpec = casterSpec{
	name:  KindADS,
	model: adsModel,
	timeline: phase.NewTimeline(
		phase.At(CasterOmen, 0),
		phase.At(CasterAnimation, 1.5),
		phase.At(CasterSnapshot, 2.2),
		phase.At(CasterVfx, 2.2),
		phase.At(CasterReset, 2.4),
	),
	animation: adsAttackAnim,
	omen: casterOmen{
		shape:   rectangleShape,
		vfx:     RectangleOmenVfx,
		scale:   geom.V3(0.75, 1, 44),
		castVfx: CastingVfx,
	},
	vfx:     []string{adsActionVfx},
	penalty: []status.Effect{status.NewParalysis(30, 3, 1, adsParalysisID)},
	turret:  true,
}

// ADSComponent is present only while an ADS is casting.
var ADSComponent = component.NewComponent[Caster]()

// ADSKind is an idle turret that fires a narrow line when told to with
// CastLineAoe. Hits paralyse.
type ADSKind struct{}

func (ADSKind) Name() string { return KindADS }

func (ADSKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return adsSpec.create(w, s, ADSComponent, uniform(0.5), false)
}

func (ADSKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&casterSystem{spec: adsSpec, kind: ADSComponent, d: d}}
}

// CastLineAoe turns an idle ADS toward angle and starts a cast. It returns
// false while a previous cast is still running.
func CastLineAoe(w *ecs.World, ads ecs.Entity, angle float64) bool {
	if !w.IsAlive(ads) || ecs.Has(w, ads, ADSComponent.Kind()) {
		return false
	}
	if t, ok := ecs.Get(w, ads, component.TransformComponent.Kind()); ok {
		t.Rotation = angle
	}
	return ecs.Add(w, ads, ADSComponent.Kind(), &Caster{State: adsSpec.timeline.Start()}) == nil
}

const steppedLeaderRadius = 3.0

// SteppedLeader turns the next ADS cast into circles dropped on Points
// instead of a line.
type SteppedLeader struct {
	Points []geom.Vec3
}

var SteppedLeaderComponent = component.NewComponent[SteppedLeader]()

// CastSteppedLeader starts an ADS cast that strikes every point. Like
// CastLineAoe it returns false while the ADS is busy.
func CastSteppedLeader(w *ecs.World, ads ecs.Entity, points ...geom.Vec3) bool {
	if len(points) == 0 || !w.IsAlive(ads) || ecs.Has(w, ads, ADSComponent.Kind()) {
		return false
	}
	if !ecs.Has(w, ads, component.FakeActorComponent.Kind()) {
		return false
	}
	pts := append([]geom.Vec3(nil), points...)
	if err := ecs.Add(w, ads, SteppedLeaderComponent.Kind(), &SteppedLeader{Points: pts}); err != nil {
		return false
	}
	return ecs.Add(w, ads, ADSComponent.Kind(), &Caster{State: adsSpec.timeline.Start()}) == nil
}

// casterKinds are the components that hold a caster's progress, one per
// caster kind.
var casterKinds = []component.ComponentHandle[Caster]{
	ADSComponent,
	RepellingCannonADSComponent,
	CircleBladeMelusineComponent,
	NerveGasKaliyaComponent,
}

// DelayCaster pushes every remaining phase of a caster back by delay. It
// reports false when e is not casting.
func DelayCaster(w *ecs.World, e ecs.Entity, delay float64) bool {
	for _, k := range casterKinds {
		if c, ok := ecs.Get(w, e, k.Kind()); ok {
			c.State.Stagger += delay
			return true
		}
	}
	return false
}

var repellingCannonSpec = casterSpec{
	name:  KindRepellingCannonADS,
	model: 321,
	timeline: phase.NewTimeline(
		phase.At(CasterAnimation, 1.7),
		phase.At(CasterOmen, 2),
		phase.At(CasterSnapshot, 2.5),
		phase.At(CasterVfx, 2.5),
		phase.At(CasterReset, 6),
	),
	animation: 2256,
	omen:      casterOmen{shape: circleShape, vfx: CircleOmenVfx, scale: uniform(10)},
	vfx: []string{
		"vfx/monster/m0105/eff/m0105sp_03t0m.avfx",
		"vfx/monster/m0105/eff/m0105sp_03t1m.avfx",
	},
	penalty:  []status.Effect{status.NewHysteria(30, 15, hysteriaSharedID)},
	hitDelay: 0.5,
}

var RepellingCannonADSComponent = component.NewComponent[Caster]()

// RepellingCannonADSKind is a point-blank circle around an ADS model that
// inflicts hysteria.
type RepellingCannonADSKind struct{}

func (RepellingCannonADSKind) Name() string { return KindRepellingCannonADS }

func (RepellingCannonADSKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return repellingCannonSpec.create(w, s, RepellingCannonADSComponent, uniform(0.75), true)
}

func (RepellingCannonADSKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&casterSystem{spec: repellingCannonSpec, kind: RepellingCannonADSComponent, d: d}}
}

var circleBladeSpec = casterSpec{
	name:  KindCircleBladeMelusine,
	model: 16,
	timeline: phase.NewTimeline(
		phase.At(CasterOmen, 2),
		phase.At(CasterAnimation, 2),
		phase.At(CasterSnapshot, 2.5),
		phase.At(CasterVfx, 2.6),
		phase.At(CasterReset, 6),
	),
	animation: 2863,
	omen:      casterOmen{shape: circleShape, vfx: CircleOmenVfx, scale: uniform(15)},
	vfx:       []string{"vfx/monster/d1014/eff/d1014sp04c0h.avfx"},
	penalty:   []status.Effect{status.NewHysteria(30, 15, hysteriaSharedID)},
	hitDelay:  0.5,
}

var CircleBladeMelusineComponent = component.NewComponent[Caster]()

// CircleBladeMelusineKind is a large point-blank circle that inflicts
// hysteria.
type CircleBladeMelusineKind struct{}

func (CircleBladeMelusineKind) Name() string { return KindCircleBladeMelusine }

func (CircleBladeMelusineKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return circleBladeSpec.create(w, s, CircleBladeMelusineComponent, uniform(2), true)
}

func (CircleBladeMelusineKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&casterSystem{spec: circleBladeSpec, kind: CircleBladeMelusineComponent, d: d}}
}

var nerveGasSpec = casterSpec{
	name:  KindNerveGasKaliya,
	model: 822,
	timeline: phase.NewTimeline(
		phase.At(CasterAnimation, 1.9),
		phase.At(CasterOmen, 2),
		phase.At(CasterSnapshot, 2.75),
		phase.At(CasterVfx, 2.75),
		phase.At(CasterReset, 6),
	),
	animation: 3212,
	omen: casterOmen{
		shape:    func(t component.Transform) geom.Shape { return fanShape(t, 120) },
		vfx:      Fan120OmenVfx,
		scale:    uniform(44),
		duration: 0.75,
	},
	vfx:      []string{"vfx/monster/m0070/eff/m0070sp12c0h.avfx"},
	penalty:  []status.Effect{status.NewHysteria(30, 15, 0)},
	hitDelay: 0.25,
}

var NerveGasKaliyaComponent = component.NewComponent[Caster]()

// NerveGasKaliyaKind is a wide frontal cone that inflicts hysteria.
type NerveGasKaliyaKind struct{}

func (NerveGasKaliyaKind) Name() string { return KindNerveGasKaliya }

func (NerveGasKaliyaKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	return nerveGasSpec.create(w, s, NerveGasKaliyaComponent, uniform(1), true)
}

func (NerveGasKaliyaKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&casterSystem{spec: nerveGasSpec, kind: NerveGasKaliyaComponent, d: d}}
}
