package ucob

import (
	"math"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
)

const (
	ballSalt         = 69420
	ballArenaInset   = 0.5
	defaultMaxBalls  = 1
	settingsMaxBalls = "ucob.rolling_ball_max"
)

// RollingBallOnNeurolink rolls a ball across the arena when a neurolink
// drops. Balls spawn nearer the middle more often than at the edge.
type RollingBallOnNeurolink struct {
	mechanic.Base
	arena    attack.BallArena
	maxBalls int
	spawned  int
}

func NewRollingBallOnNeurolink(d mechanic.Deps, radius float64) *RollingBallOnNeurolink {
	m := &RollingBallOnNeurolink{
		Base: mechanic.NewBase("RollingBallOnNeurolink", d),
		arena: attack.BallArena{
			Shape:  attack.ArenaCircle,
			Center: arenaCenter.Ground(),
			Size:   radius - ballArenaInset,
		},
	}
	m.maxBalls = m.Settings().EncounterInt(settingsMaxBalls, defaultMaxBalls)
	return m
}

func (m *RollingBallOnNeurolink) Reset() {
	m.Base.Reset()
	m.spawned = 0
}

func (m *RollingBallOnNeurolink) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *RollingBallOnNeurolink) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != neurolinkObject || m.spawned >= m.maxBalls {
		return
	}
	r := m.Rand(int64(m.spawned) * ballSalt)
	angle := geom.ClampRadians(r.Float64() * 2 * math.Pi)
	u := r.Float64()
	dist := (1 - u*u) * m.arena.Size
	v := m.arena.Center.Add(geom.RotationToUnitVector(angle).Mult(dist))
	rot := geom.ClampRadians(r.Float64() * 2 * math.Pi)

	e, ok := m.Spawn(attack.KindRollingBall, attack.Spawn{Position: geom.FromGround(v, arenaCenter.Y), Rotation: rot})
	if !ok {
		return
	}
	attack.SetBallArena(m.World(), e, m.arena, r)
	m.spawned++
}
