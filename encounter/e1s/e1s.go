// Package e1s is the Eden Prime test bed: a small fight used to try new
// mechanics before they go into a real encounter.
package e1s

import (
	"math"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/script"
)

const (
	Name      = "E1S"
	Territory = 853
)

const viceOfApathyObject uint32 = 0x1EAE20

const (
	twisterDelay = 1.0
	arenaWidth   = 40.0
)

var arenaCenter = geom.V3(100, 0, 100)

// Descriptor lists the Eden Prime mechanics.
func Descriptor() encounter.Descriptor {
	entry := func(name string, on bool, f mechanic.Factory) encounter.Entry {
		return encounter.Entry{Key: encounter.SettingKey(Name, name), Default: on, Factory: f}
	}
	return encounter.Descriptor{
		Name:      Name,
		Territory: Territory,
		Entries: []encounter.Entry{
			entry("PermanentViceOfApathy", true, func(d mechanic.Deps) mechanic.Mechanic { return NewPermanentViceOfApathy(d) }),
			entry("RollingBallOnViceOfApathy", true, func(d mechanic.Deps) mechanic.Mechanic { return NewRollingBallOnViceOfApathy(d) }),
			entry("SpreadDrill", false, script.Factory("SpreadDrill", "spread_drill")),
		},
	}
}

// PermanentViceOfApathy leaves a twister on every Vice of Apathy puddle a
// second after it appears.
type PermanentViceOfApathy struct {
	mechanic.Base
}

func NewPermanentViceOfApathy(d mechanic.Deps) *PermanentViceOfApathy {
	return &PermanentViceOfApathy{Base: mechanic.NewBase("PermanentViceOfApathy", d)}
}

func (m *PermanentViceOfApathy) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

func (m *PermanentViceOfApathy) OnCombatEnd() { m.Reset() }

func (m *PermanentViceOfApathy) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != viceOfApathyObject {
		return
	}
	m.After(twisterDelay, func() {
		if _, ok := m.LocalPlayer(); !ok {
			return
		}
		m.Spawn(attack.KindTwister, attack.Spawn{Position: o.Position, Rotation: o.Rotation})
	})
}

// RollingBallOnViceOfApathy starts one ball somewhere in the square arena
// the first time Vice of Apathy drops.
type RollingBallOnViceOfApathy struct {
	mechanic.Base
	spawned bool
}

func NewRollingBallOnViceOfApathy(d mechanic.Deps) *RollingBallOnViceOfApathy {
	return &RollingBallOnViceOfApathy{Base: mechanic.NewBase("RollingBallOnViceOfApathy", d)}
}

func (m *RollingBallOnViceOfApathy) Reset() {
	m.Base.Reset()
	m.spawned = false
}

// OnDirectorUpdate keeps the ball rolling through a recommence.
func (m *RollingBallOnViceOfApathy) OnDirectorUpdate(c host.DirectorCategory) {
	if c == host.DirectorWipe {
		m.Reset()
	}
}

func (m *RollingBallOnViceOfApathy) OnObjectCreated(o host.ObjectCreated) {
	if o.DataID != viceOfApathyObject || m.spawned {
		return
	}
	r := m.Rand(int64(viceOfApathyObject))
	x := arenaCenter.X - arenaWidth/2 + r.Float64()*arenaWidth
	z := arenaCenter.Z - arenaWidth/2 + r.Float64()*arenaWidth
	rot := geom.ClampRadians(r.Float64() * 2 * math.Pi)

	e, ok := m.Spawn(attack.KindRollingBall, attack.Spawn{Position: geom.V3(x, arenaCenter.Y, z), Rotation: rot})
	if !ok {
		return
	}
	attack.SetBallArena(m.World(), e, attack.BallArena{
		Shape:  attack.ArenaSquare,
		Center: arenaCenter.Ground(),
		Size:   arenaWidth,
	}, r)
	m.spawned = true
}
