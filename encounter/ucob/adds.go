package ucob

import (
	"math/rand"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"github.com/milk9111/raidsim/rng"
)

const (
	junctionSlots = 8

	voidGateHeight = 1.5
)

// junction places the adds of one telegraph around a circular arena. Both
// the junction coils and the transition replay telegraphs through it.
type junction struct {
	*mechanic.Base
	table  []prefabs.JunctionSpec
	center geom.Vec3
	radius float64
}

// showAdds spawns Kaliya, Melusine and the three cannons for telegraph,
// holding their casts back by delay seconds.
func (j junction) showAdds(telegraph int, delay float64) {
	if telegraph < 0 || telegraph >= len(j.table) {
		return
	}
	row := j.table[telegraph]
	j.spawnAdd(attack.KindNerveGasKaliya, row.Kaliya, delay)
	j.spawnAdd(attack.KindCircleBladeMelusine, row.Melusine, delay)
	for _, s := range row.ADS {
		j.spawnAdd(attack.KindRepellingCannonADS, s, delay)
	}
}

func (j junction) spawnAdd(kind string, slotIdx int, delay float64) {
	pos, angle := slot(j.center, j.radius, slotIdx, junctionSlots)
	e, ok := j.Spawn(kind, attack.Spawn{Position: pos, Rotation: angle})
	if ok && delay > 0 {
		attack.DelayCaster(j.World(), e, delay)
	}
}

// spawnGates rings the arena with void gates and returns them.
func (j junction) spawnGates() []ecs.Entity {
	gates := make([]ecs.Entity, 0, junctionSlots)
	for i := 0; i < junctionSlots; i++ {
		pos, angle := slot(j.center, j.radius, i, junctionSlots)
		pos.Y += voidGateHeight
		if e, ok := j.Spawn(attack.KindVoidGate, attack.Spawn{Position: pos, Rotation: angle}); ok {
			gates = append(gates, e)
		}
	}
	return gates
}

func (j junction) markGates(gates []ecs.Entity, path string) {
	for _, g := range gates {
		attack.MarkVoidGate(j.World(), g, path)
	}
}

// permutation returns 0..n-1 shuffled by r.
func permutation(r *rand.Rand, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	rng.Shuffle(r, n, func(i, k int) { p[i], p[k] = p[k], p[i] })
	return p
}

// partyIndex returns the local player's place in the party after shuffling
// with shuffle, or -1.
func partyIndex(g host.Game, local host.Actor, shuffle func([]host.Actor)) int {
	if g == nil {
		return -1
	}
	party := g.PartyMembers()
	if shuffle != nil {
		shuffle(party)
	}
	for i, p := range party {
		if p.ID == local.ID {
			return i
		}
	}
	return -1
}

// symbolVfx is the limit cut marker for symbol n.
func symbolVfx(n int) string {
	if n < 0 || n >= len(system.LimitCutVfx) {
		return ""
	}
	return system.LimitCutVfx[n]
}
