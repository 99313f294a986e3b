package attack

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
)

const (
	rollingBallModel     = 1443
	rollingBallAnimation = 41
	rollingBallSpeed     = 5.0
	// rollingBallJitter is the widest random turn added to a bounce.
	rollingBallJitter = 0.35
)

// ArenaShape bounds a rolling ball.
type ArenaShape int

const (
	ArenaNone ArenaShape = iota
	ArenaCircle
	ArenaSquare
)

// BallArena is the floor a ball bounces around in. Size is the radius of a
// circle or the width of a square.
type BallArena struct {
	Shape  ArenaShape
	Center cp.Vector
	Size   float64
}

// bounce keeps p inside the arena. It returns the clamped point and the
// inward normal of the wall that was hit, or false when p is inside.
func (a BallArena) bounce(p cp.Vector) (cp.Vector, cp.Vector, bool) {
	switch a.Shape {
	case ArenaCircle:
		off := p.Sub(a.Center)
		d := off.Length()
		if d <= a.Size || d == 0 {
			return p, cp.Vector{}, false
		}
		n := off.Mult(1 / d)
		return a.Center.Add(n.Mult(a.Size)), n.Neg(), true
	case ArenaSquare:
		half := a.Size / 2
		var n cp.Vector
		hit := false
		if dx := p.X - a.Center.X; math.Abs(dx) > half {
			p.X = a.Center.X + math.Copysign(half, dx)
			n.X = -math.Copysign(1, dx)
			hit = true
		}
		if dy := p.Y - a.Center.Y; math.Abs(dy) > half {
			p.Y = a.Center.Y + math.Copysign(half, dy)
			n.Y = -math.Copysign(1, dy)
			hit = true
		}
		if hit {
			n = n.Normalize()
		}
		return p, n, hit
	}
	return p, cp.Vector{}, false
}

// RollingBall rolls forward along its rotation. Inside an arena it bounces
// off the walls, turned a little by Rand; otherwise it rolls until removed.
type RollingBall struct {
	Arena BallArena
	Rand  *rand.Rand
}

var RollingBallComponent = component.NewComponent[RollingBall]()

type RollingBallKind struct{}

func (RollingBallKind) Name() string { return KindRollingBall }

func (RollingBallKind) Create(w *ecs.World, s Spawn) ecs.Entity {
	e := newAttack(w, s, uniform(0.6))
	_ = ecs.Add(w, e, component.FakeActorComponent.Kind(), &component.FakeActor{
		Name:      KindRollingBall,
		ModelID:   rollingBallModel,
		Animation: rollingBallAnimation,
	})
	_ = ecs.Add(w, e, RollingBallComponent.Kind(), &RollingBall{})
	return e
}

func (RollingBallKind) Systems(Deps) []ecs.System {
	return []ecs.System{ecs.SystemFunc(rollBalls)}
}

// SetBallArena confines the ball on e. r may be nil for a plain reflection.
func SetBallArena(w *ecs.World, e ecs.Entity, arena BallArena, r *rand.Rand) bool {
	b, ok := ecs.Get(w, e, RollingBallComponent.Kind())
	if !ok {
		return false
	}
	b.Arena = arena
	b.Rand = r
	return true
}

func rollBalls(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, RollingBallComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, b *RollingBall, t *component.Transform) {
		dir := t.Facing()
		p := t.Ground().Add(dir.Mult(rollingBallSpeed * dt))
		if clamped, n, hit := b.Arena.bounce(p); hit {
			p = clamped
			dir = reflect(dir, n)
			if b.Rand != nil {
				dir = geom.Rotate(dir, (b.Rand.Float64()*2-1)*rollingBallJitter)
			}
			if dir.Dot(n) <= 0 {
				dir = n
			}
			t.Rotation = geom.VectorToRotation(dir)
		}
		t.Position = geom.FromGround(p, t.Position.Y)
	})
}

// reflect mirrors d about the wall with normal n.
func reflect(d, n cp.Vector) cp.Vector {
	return d.Sub(n.Mult(2 * d.Dot(n)))
}
