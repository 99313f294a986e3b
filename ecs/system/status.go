package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

// conditionLook holds the display name and effects of a condition kind.
// onApply plays once when the condition is created; loop lasts as long as the
// condition.
type conditionLook struct {
	name    string
	onApply string
	loop    string
}

var conditionLooks = map[status.Kind]conditionLook{
	status.Stun:           {name: "Stunned"},
	status.Bind:           {name: "Bound"},
	status.Bound:          {name: "Bound"},
	status.Heavy:          {name: "Slowed", onApply: "vfx/common/eff/dk05ht_grv0h.avfx", loop: "vfx/common/eff/dk10ht_grv0h.avfx"},
	status.Sleep:          {name: "Slept", onApply: "vfx/common/eff/dk05ht_slp0s.avfx", loop: "vfx/common/eff/dk10ht_slp0h.avfx"},
	status.Pacify:         {name: "Pacified", loop: "vfx/common/eff/dk05ht_ipws0t.avfx"},
	status.Paralysis:      {name: "Paralyzed"},
	status.Hysteria:       {name: "Hysteria", loop: hysteriaVfx},
	status.Knockback:      {name: "Knocked Back"},
	status.Overheat:       {name: "Overheated", loop: OverheatVfx},
	status.Deepfreeze:     {name: "Frozen", loop: DeepfreezeVfx},
	status.LimitCutNumber: {name: "Limit Cut"},
}

// LimitCutVfx are the head markers for limit cut numbers one through eight.
var LimitCutVfx = []string{
	"vfx/lockon/eff/m0361trg_a1t.avfx",
	"vfx/lockon/eff/m0361trg_a2t.avfx",
	"vfx/lockon/eff/m0361trg_a3t.avfx",
	"vfx/lockon/eff/m0361trg_a4t.avfx",
	"vfx/lockon/eff/m0361trg_a5t.avfx",
	"vfx/lockon/eff/m0361trg_a6t.avfx",
	"vfx/lockon/eff/m0361trg_a7t.avfx",
	"vfx/lockon/eff/m0361trg_a8t.avfx",
}

// EventConditionApplied is pushed on the world's event queue with the
// ConditionApplied payload whenever a new condition starts.
const EventConditionApplied = "condition_applied"

// ConditionApplied is the payload of EventConditionApplied.
type ConditionApplied struct {
	Actor  uint64
	Effect status.Effect
}

// StatusApplier is the in-world host.StatusSink: it turns status.Effects into
// condition entities under the matching player. Effects for actors without a
// player entity are dropped.
type StatusApplier struct {
	w   *ecs.World
	log *zap.Logger
}

var _ host.StatusSink = (*StatusApplier)(nil)

func NewStatusApplier(w *ecs.World, log *zap.Logger) *StatusApplier {
	if log == nil {
		log = zap.NewNop()
	}
	return &StatusApplier{w: w, log: log}
}

func (a *StatusApplier) Apply(target uint64, e status.Effect) {
	player, p, ok := PlayerByActor(a.w, target)
	if !ok {
		a.log.Debug("status target has no player entity", zap.Uint64("actor", target), zap.Stringer("effect", e))
		return
	}
	if !p.Alive {
		return
	}

	switch e.Kind {
	case status.HeatChange:
		a.heatChange(player, e)
		return
	case status.Knockback:
		a.knockback(player, p, e)
		return
	}

	look, ok := conditionLooks[e.Kind]
	if !ok {
		a.log.Warn("unknown status kind", zap.String("kind", string(e.Kind)))
		return
	}
	c, created := addCondition(a.w, player, look.name, e.Kind, e.Duration, e.ID, e.Extend)
	if !created {
		return
	}
	a.w.Events().Push(ecs.Event{Type: EventConditionApplied, Data: ConditionApplied{Actor: target, Effect: e}})
	if look.onApply != "" {
		SpawnActorVfx(a.w, look.onApply, 0, 2, c)
	}
	if look.loop != "" {
		SpawnActorVfx(a.w, look.loop, 0, 0, c)
	}

	switch e.Kind {
	case status.Paralysis:
		_ = ecs.Add(a.w, c, component.ParalysisComponent.Kind(), &component.Paralysis{
			StunInterval: e.StunInterval,
			StunDuration: e.StunDuration,
			Offset:       e.StunInterval,
			LastPeriod:   -1,
		})
	case status.Hysteria:
		_ = ecs.Add(a.w, c, component.HysteriaComponent.Kind(), &component.Hysteria{RedirectInterval: e.RedirectInterval})
	case status.LimitCutNumber:
		_ = ecs.Add(a.w, c, component.HiddenTagComponent.Kind(), &component.HiddenTag{})
		_ = ecs.Add(a.w, c, component.LimitCutComponent.Kind(), &component.LimitCut{Number: e.Number})
		if e.Number >= 1 && e.Number <= len(LimitCutVfx) {
			SpawnActorVfx(a.w, LimitCutVfx[e.Number-1], 0, 0, c)
		}
	}
}

// knockback is blocked while the player is bound and, when resistible, by
// any knockback immunity buff. A new knockback replaces the previous one.
func (a *StatusApplier) knockback(player ecs.Entity, p *component.Player, e status.Effect) {
	if HasCondition(a.w, player, status.Bind) {
		return
	}
	if e.Resistible && p.HasStatus(host.KnockbackImmunity...) {
		return
	}
	for _, child := range ecs.Children(a.w, player) {
		if ecs.Has(a.w, child, component.KnockbackComponent.Kind()) {
			ecs.DestroyEntity(a.w, child)
		}
	}
	c, _ := addCondition(a.w, player, conditionLooks[status.Knockback].name, status.Knockback, e.Duration, 0, false)
	_ = ecs.Add(a.w, c, component.KnockbackComponent.Kind(), &component.Knockback{Direction: e.Direction})
}

func (a *StatusApplier) heatChange(player ecs.Entity, e status.Effect) {
	gauge, ok := temperatureGauge(a.w, player)
	if !ok {
		a.log.Debug("heat change without a temperature gauge", zap.Stringer("effect", e))
		return
	}
	if e.ID != 0 {
		for _, child := range ecs.Children(a.w, gauge) {
			d, ok := ecs.Get(a.w, child, component.TemperatureDeltaComponent.Kind())
			if !ok || d.ID != e.ID {
				continue
			}
			if !ecs.Has(a.w, child, component.CooldownComponent.Kind()) {
				d.Applied = false
				_ = ecs.Add(a.w, child, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: e.Cooldown})
			}
			return
		}
	}
	d := a.w.CreateEntity()
	_ = ecs.Add(a.w, d, component.TemperatureDeltaComponent.Kind(), &component.TemperatureDelta{Value: e.Delta, ID: e.ID})
	if e.Cooldown > 0 {
		_ = ecs.Add(a.w, d, component.CooldownComponent.Kind(), &component.Cooldown{Remaining: e.Cooldown})
	}
	_ = ecs.SetParent(a.w, d, gauge)
}
