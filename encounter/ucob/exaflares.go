package ucob

import (
	"math"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
)

const exaflareDirections = 8

// MoreExaflares adds a row of exaflares from a random edge of the arena
// after the fight's big raidwides.
type MoreExaflares struct {
	mechanic.Base
	spec prefabs.ExaflareSpec
	rows prefabs.ActionSet

	liquidHells   int
	goldenEnabled bool
	spawned       int
}

func NewMoreExaflares(d mechanic.Deps, spec prefabs.ExaflareSpec) *MoreExaflares {
	if spec.LiquidHellEvery <= 0 {
		spec.LiquidHellEvery = 1
	}
	return &MoreExaflares{
		Base: mechanic.NewBase("MoreExaflares", d),
		spec: spec,
		rows: prefabs.NewActionSet(spec.RowActions...),
	}
}

func (m *MoreExaflares) Reset() {
	m.Base.Reset()
	m.liquidHells = 0
	m.goldenEnabled = false
	m.spawned = 0
}

func (m *MoreExaflares) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *MoreExaflares) OnActionEffect(a host.ActionEffect) {
	if !m.rows.Has(a.ActionID) {
		return
	}
	if a.ActionID == m.spec.LiquidHell {
		// Liquid hell hits several times in a row; only the first of each
		// volley counts.
		m.liquidHells = (m.liquidHells + 1) % m.spec.LiquidHellEvery
		if m.liquidHells != 1%m.spec.LiquidHellEvery {
			return
		}
	}
	m.spawnRow(-1)
}

func (m *MoreExaflares) OnCastStart(c host.CastStart) {
	switch c.ActionID {
	case m.spec.EarthshakerCast:
		m.spawnRow(-1)
	case m.spec.GoldenEnableCast:
		m.goldenEnabled = true
	case m.spec.GoldenCast:
		if !m.goldenEnabled {
			return
		}
		m.goldenEnabled = false
		m.spawnRow(directionOf(c.Rotation))
	}
}

func (m *MoreExaflares) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID == neurolinkObject {
		m.spawnRow(-1)
	}
}

// directionOf maps a facing to the nearest of the eight row directions.
func directionOf(rotation float64) int {
	n := int(math.Round(math.Round(rotation*180/math.Pi) / 45))
	return ((n % exaflareDirections) + exaflareDirections) % exaflareDirections
}

// spawnRow starts a row from one of the eight edge points, never from
// exclude.
func (m *MoreExaflares) spawnRow(exclude int) {
	r := m.Rand(int64(m.spawned))
	m.spawned++

	var dir int
	if exclude < 0 {
		dir = r.Intn(exaflareDirections)
	} else {
		dir = r.Intn(exaflareDirections - 1)
		if dir >= exclude {
			dir++
		}
	}
	angle := geom.DegToRad(float64(dir * 45))
	pos := geom.V3(arenaCenter.X-m.spec.Radius*math.Sin(angle), arenaCenter.Y, arenaCenter.Z-m.spec.Radius*math.Cos(angle))
	e, ok := m.Spawn(attack.KindExaflareRow, attack.Spawn{Position: pos, Rotation: angle})
	if !ok {
		return
	}
	if row, ok := ecs.Get(m.World(), e, attack.ExaflareRowComponent.Kind()); ok {
		row.Rand = r
	}
}
