package ucob

import (
	"math"
	"math/rand"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
	"go.uber.org/zap"
)

const (
	weatherBahamutPrime uint8 = 30

	actionDalamudDive       uint32 = 9921
	actionFlareBreath       uint32 = 9940
	actionCalamitousBlaze   uint32 = 9939
	actionFellruinTrio      uint32 = 9956
	actionAethericProfusion uint32 = 9905
	actionTenstrikeTrio     uint32 = 9958
)

const (
	divesToSpawn        = 2
	flareBreathsToSpawn = 3
	trioStopDelay       = 5.0
	tenstrikeResetDelay = 8.0

	// Salt for the per-difficulty generator.
	adsDifficultySalt = 733
)

type turret struct {
	slot int
	e    ecs.Entity
}

// ADSSquared rings the arena with turrets that keep firing lines and
// stepped leaders through the Bahamut phases. Each phase spawns a bigger,
// faster ring.
type ADSSquared struct {
	mechanic.Base
	spec   prefabs.ADSSpec
	radius float64

	r         *rand.Rand
	turrets   []turret
	available []turret
	lastShot  float64
	shot      bool

	difficulty   int
	stopCasting  bool
	dives        int
	flareBreaths int
	lastBreath   float64
	line         bool
}

func NewADSSquared(d mechanic.Deps, spec prefabs.ADSSpec, radius float64) *ADSSquared {
	return &ADSSquared{
		Base:   mechanic.NewBase("ADSSquared", d),
		spec:   spec,
		radius: radius,
		line:   true,
	}
}

func (m *ADSSquared) Reset() {
	m.softReset()
	m.difficulty = 0
	m.dives = 0
	m.line = true
}

// softReset clears the ring between phases but keeps the phase progress.
func (m *ADSSquared) softReset() {
	m.Base.Reset()
	m.turrets = nil
	m.available = nil
	m.shot = false
	m.stopCasting = false
	m.flareBreaths = 0
}

func (m *ADSSquared) OnDirectorUpdate(c host.DirectorCategory) {
	if mechanic.ResetsOn(c) {
		m.Reset()
	}
}

// OnWeatherChanged stops the divebomb ring once Bahamut Prime arrives.
func (m *ADSSquared) OnWeatherChanged(weather uint8) {
	if weather == weatherBahamutPrime {
		m.stopCasting = true
	}
}

func (m *ADSSquared) OnActionEffect(a host.ActionEffect) {
	switch a.ActionID {
	case actionDalamudDive:
		m.dives++
		if m.dives == divesToSpawn {
			m.spawnRing()
		}
	case actionFlareBreath:
		m.flareBreaths++
		m.lastBreath = m.Now()
		if m.flareBreaths == flareBreathsToSpawn {
			m.spawnRing()
		}
	case actionCalamitousBlaze:
		m.softReset()
		m.difficulty = 1
		m.line = false
	case actionFellruinTrio:
		m.After(trioStopDelay, func() { m.stopCasting = true })
	case actionAethericProfusion:
		m.softReset()
		m.difficulty = 2
	case actionTenstrikeTrio:
		m.After(trioStopDelay, func() { m.stopCasting = true })
		m.After(tenstrikeResetDelay, m.softReset)
	}
}

func (m *ADSSquared) level() prefabs.ADSDifficultySpec {
	d := min(m.difficulty, len(m.spec.Difficulties)-1)
	return m.spec.Difficulties[d]
}

func (m *ADSSquared) OnFrameworkUpdate() {
	now := m.Now()
	if m.flareBreaths > 0 && now-m.lastBreath > m.spec.FlareBreathTimeout {
		m.flareBreaths = 0
	}

	if len(m.turrets) == 0 || m.stopCasting || len(m.available) == 0 {
		return
	}
	if m.shot && now-m.lastShot < m.level().Interval {
		return
	}

	if m.line {
		m.shootLine()
	} else {
		m.shootCircles()
		if m.difficulty == 2 {
			m.shootCircles()
		}
	}
	if m.difficulty == 2 {
		m.line = !m.line
	}
}

func (m *ADSSquared) spawnRing() {
	lvl := m.level()
	m.r = m.Rand(int64(m.difficulty * adsDifficultySalt))
	for i := 0; i < lvl.Count; i++ {
		pos, _ := slot(arenaCenter, m.radius, i, lvl.Count)
		e, ok := m.Spawn(attack.KindADS, attack.Spawn{Position: pos})
		if !ok {
			continue
		}
		m.turrets = append(m.turrets, turret{slot: i, e: e})
		m.available = append(m.available, turret{slot: i, e: e})
	}
	m.Log().Debug("ads ring spawned", zap.Int("difficulty", m.difficulty), zap.Int("turrets", len(m.turrets)))
}

// take removes a random turret from the pool and returns it after the reuse
// delay.
func (m *ADSSquared) take() turret {
	i := m.r.Intn(len(m.available))
	t := m.available[i]
	m.available = append(m.available[:i], m.available[i+1:]...)
	m.After(m.spec.ReuseDelay, func() { m.available = append(m.available, t) })
	m.lastShot = m.Now()
	m.shot = true
	return t
}

// shootLine fires across the arena at a turret that is not the source or
// one of its gap neighbours on either side.
func (m *ADSSquared) shootLine() {
	src := m.take()
	n := len(m.turrets)
	gap := m.level().Gap
	avoid := 2*gap + 1
	if n <= avoid {
		return
	}
	dst := m.turrets[(src.slot+gap+1+m.r.Intn(n-avoid))%n]

	w := m.World()
	from, ok1 := ecs.Get(w, src.e, component.TransformComponent.Kind())
	to, ok2 := ecs.Get(w, dst.e, component.TransformComponent.Kind())
	if !ok1 || !ok2 {
		return
	}
	if !attack.CastLineAoe(w, src.e, geom.AbsoluteAngle(from.Ground(), to.Ground())) {
		m.Log().Debug("ads cast before it was ready", zap.Int("slot", src.slot))
	}
}

func (m *ADSSquared) shootCircles() {
	if len(m.available) == 0 {
		return
	}
	src := m.take()
	if !attack.CastSteppedLeader(m.World(), src.e, m.randomPoint(), m.randomPoint()) {
		m.Log().Debug("ads cast before it was ready", zap.Int("slot", src.slot))
	}
}

// randomPoint is uniform over the arena disc.
func (m *ADSSquared) randomPoint() geom.Vec3 {
	dist := m.radius * math.Sqrt(m.r.Float64())
	angle := m.r.Float64() * 2 * math.Pi
	return geom.V3(arenaCenter.X+math.Cos(angle)*dist, arenaCenter.Y, arenaCenter.Z+math.Sin(angle)*dist)
}
