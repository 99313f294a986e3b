package attack

import (
	"math"

	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/status"
)

const (
	shockwaveStartRadius = 1.5
	shockwaveMaxRadius   = 30.0
	shockwaveSpeed       = 4.0
	shockwaveJumpHeight  = 1.0
	shockwaveStun        = 10.0
	shockwaveStunID      = 42140
	shockwaveVfx         = "vfx/monster/gimmick3/eff/n4r2_b1_g4c0w.avfx"
)

// WaveSide is where the player stood relative to the ring on the last tick.
type WaveSide int

const (
	WaveUnknown WaveSide = iota
	WaveInside
	WaveOutside
)

// JumpableShockwave is an expanding ring. Crossing it on the ground stuns;
// crossing it mid-jump is safe.
type JumpableShockwave struct {
	Radius float64
	Side   WaveSide
}

var JumpableShockwaveComponent = component.NewComponent[JumpableShockwave]()

// step grows the ring and reports whether the player crossed it on foot.
// height is the player's elevation above the ring.
func (j JumpableShockwave) step(dt, distance, height float64, haveTarget bool) (JumpableShockwave, bool) {
	if j.Radius >= shockwaveMaxRadius {
		return j, false
	}
	j.Radius = math.Min(j.Radius+shockwaveSpeed*dt, shockwaveMaxRadius)
	if !haveTarget {
		j.Side = WaveUnknown
		return j, false
	}
	side := WaveOutside
	if distance < j.Radius {
		side = WaveInside
	}
	crossed := j.Side != WaveUnknown && side != j.Side && height <= shockwaveJumpHeight
	j.Side = side
	return j, crossed
}

type JumpableShockwaveKind struct{}

func (JumpableShockwaveKind) Name() string { return KindJumpableShockwave }

func (JumpableShockwaveKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(1))
	t := transformOf(w, e)
	life := (shockwaveMaxRadius - shockwaveStartRadius) / shockwaveSpeed
	for _, r := range []float64{t.Rotation, t.Rotation + math.Pi} {
		a := spawnFakeActor(w, e, "shockwave", -1, component.Transform{Position: t.Position, Rotation: geom.ClampRadians(r)})
		_ = ecs.Add(w, a, component.ActorVfxComponent.Kind(), &component.ActorVfx{Path: shockwaveVfx})
		_ = ecs.Add(w, a, component.LifetimeComponent.Kind(), &component.Lifetime{Remaining: life})
	}
	_ = ecs.Add(w, e, JumpableShockwaveComponent.Kind(), &JumpableShockwave{Radius: shockwaveStartRadius})
	return e
}

func (JumpableShockwaveKind) Systems(d Deps) []ecs.System {
	return []ecs.System{&shockwaveSystem{d: d}}
}

type shockwaveSystem struct {
	d Deps
}

func (s *shockwaveSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, JumpableShockwaveComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, j *JumpableShockwave, t *component.Transform) {
		if !ecs.HasChildren(w, e) {
			ecs.DestroyEntity(w, e)
			return
		}
		target, ok := localTarget(s.d.Game)
		var crossed bool
		*j, crossed = j.step(dt, t.Ground().Distance(target.Position.Ground()), target.Position.Y-t.Position.Y, ok)
		if crossed {
			punish(w, s.d, ecs.Nil, target, 0, status.NewStun(shockwaveStun).WithID(shockwaveStunID))
		}
	})
}
