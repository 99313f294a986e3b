package system

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/status"
)

const (
	stunnedVfx  = "vfx/common/eff/dk05ht_sta0h.avfx"
	hysteriaVfx = "vfx/common/eff/dk05th_stdn0t.avfx"
)

// ConditionSystem counts conditions down and destroys them when they expire
// or when their player dies, unless the condition is persistent.
type ConditionSystem struct{}

func NewConditionSystem() *ConditionSystem {
	return &ConditionSystem{}
}

func (s *ConditionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.ConditionComponent.Kind(), func(e ecs.Entity, c *component.Condition) {
		if !c.Persistent {
			if _, p, ok := owningPlayer(w, e); ok && !p.Alive {
				ecs.DestroyEntity(w, e)
				return
			}
		}
		c.Remaining = math.Max(c.Remaining-dt, 0)
		if c.Remaining <= 0 {
			ecs.DestroyEntity(w, e)
		}
	})
}

// ParalysisSystem stuns the player at the end of every stun interval, with an
// 80% chance per window.
type ParalysisSystem struct {
	rand *rand.Rand
}

func NewParalysisSystem(r *rand.Rand) *ParalysisSystem {
	return &ParalysisSystem{rand: r}
}

func (s *ParalysisSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.ParalysisComponent.Kind(), func(e ecs.Entity, p *component.Paralysis) {
		p.Elapsed += dt

		period := p.StunInterval + p.StunDuration
		if period <= 0 {
			return
		}
		t := p.Elapsed + p.Offset
		n := int(t / period)
		if math.Mod(t, period) <= p.StunInterval {
			p.StunActive = false
			return
		}
		if n == p.LastPeriod {
			return
		}
		p.LastPeriod = n
		if s.rand.Intn(10) <= 1 {
			return
		}
		p.StunActive = true
		SpawnActorVfx(w, stunnedVfx, 0, p.StunDuration, e)
		if player, _, ok := owningPlayer(w, e); ok {
			addCondition(w, player, "Stunned", status.Stun, p.StunDuration, 0, false)
		}
	})
}

// HysteriaSystem re-rolls the forced movement direction every redirect
// interval.
type HysteriaSystem struct {
	rand *rand.Rand
}

func NewHysteriaSystem(r *rand.Rand) *HysteriaSystem {
	return &HysteriaSystem{rand: r}
}

func (s *HysteriaSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.HysteriaComponent.Kind(), func(e ecs.Entity, h *component.Hysteria) {
		h.UntilRedirect -= dt
		if h.UntilRedirect > 0 {
			return
		}
		h.UntilRedirect += h.RedirectInterval
		angle := s.rand.Float64() * 2 * math.Pi
		h.Direction = cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}
	})
}

// ActiveConditions returns the conditions parented to player.
func ActiveConditions(w *ecs.World, player ecs.Entity) []*component.Condition {
	var out []*component.Condition
	for _, child := range ecs.Children(w, player) {
		if c, ok := ecs.Get(w, child, component.ConditionComponent.Kind()); ok {
			out = append(out, c)
		}
	}
	return out
}

// HasCondition reports whether player currently holds a condition of kind.
func HasCondition(w *ecs.World, player ecs.Entity, kind status.Kind) bool {
	for _, c := range ActiveConditions(w, player) {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// addCondition creates a condition under player, or refreshes the existing one
// with the same non-zero id. Refreshing keeps the longer of the two durations;
// with extend the new duration is added instead. The bool is true when a new
// entity was created.
func addCondition(w *ecs.World, player ecs.Entity, name string, kind status.Kind, duration float64, id int, extend bool) (ecs.Entity, bool) {
	if id != 0 {
		for _, child := range ecs.Children(w, player) {
			c, ok := ecs.Get(w, child, component.ConditionComponent.Kind())
			if !ok || c.ID != id {
				continue
			}
			if extend {
				c.Remaining += duration
			} else {
				c.Remaining = math.Max(c.Remaining, duration)
			}
			return child, false
		}
	}
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.ConditionComponent.Kind(), &component.Condition{Name: name, Kind: kind, ID: id, Remaining: duration})
	_ = ecs.SetParent(w, e, player)
	return e, true
}
