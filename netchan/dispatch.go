package netchan

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"go.uber.org/zap"
)

// Dispatcher applies relay messages to a runtime. It must only be used from
// the goroutine that ticks the runtime.
type Dispatcher struct {
	rt   *encounter.Runtime
	game host.Game
	log  *zap.Logger

	vfx map[string]ecs.Entity
}

func NewDispatcher(rt *encounter.Runtime, game host.Game, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{rt: rt, game: game, log: log, vfx: make(map[string]ecs.Entity)}
}

// Drain applies every message already waiting on in without blocking.
func (d *Dispatcher) Drain(in <-chan Message) int {
	n := 0
	for {
		select {
		case m, ok := <-in:
			if !ok {
				return n
			}
			d.Apply(m)
			n++
		default:
			return n
		}
	}
}

// MechanicKind maps a mechanic id to an attack kind. Ids count from one over
// the registry's sorted kind names, so every viewer on the same build agrees.
func (d *Dispatcher) MechanicKind(id uint32) (string, bool) {
	names := d.rt.Attacks.Registry().Names()
	if id == 0 || int(id) > len(names) {
		return "", false
	}
	return names[id-1], true
}

func (d *Dispatcher) Apply(m Message) {
	if err := m.Validate(); err != nil {
		d.log.Error("ignoring relay message", zap.Error(err))
		return
	}
	switch m.Action {
	case ActionStartMechanic:
		d.startMechanic(*m.StartMechanic)
	case ActionClearMechanics:
		n := d.rt.Attacks.ClearAll()
		d.forgetDeadVfx()
		d.log.Info("mechanics cleared by relay", zap.Int("attacks", n))
	case ActionSeed:
		d.rt.Encounters.SetSeedString(m.Seed.Value)
	case ActionPlayStaticVfx:
		d.playStaticVfx(*m.PlayStaticVfx)
	case ActionStopVfx:
		d.stopVfx(m.StopVfx.ID)
	}
}

func (d *Dispatcher) startMechanic(p StartMechanicPayload) {
	kind, ok := d.MechanicKind(p.MechanicID)
	if !ok {
		d.log.Warn("unknown mechanic", zap.String("request", p.RequestID), zap.Uint32("mechanic", p.MechanicID))
		return
	}
	var at geom.Vec3
	if d.game != nil {
		if player, ok := d.game.LocalPlayer(); ok {
			at = player.Position
		}
	}
	s := attack.Spawn{Position: p.Position(at)}
	if p.Rotation != nil {
		s.Rotation = *p.Rotation
	}
	if _, ok := d.rt.Attacks.TryCreate(kind, s); ok {
		d.log.Debug("mechanic started by relay", zap.String("request", p.RequestID), zap.String("kind", kind))
	}
}

func (d *Dispatcher) playStaticVfx(p PlayStaticVfxPayload) {
	w := d.rt.World
	d.stopVfx(p.ID)
	e := system.SpawnStaticVfx(w, p.VfxPath, geom.V3(p.X, p.Y, p.Z), p.Rotation, geom.V3(1, 1, 1), 0, ecs.Nil)
	_ = ecs.Add(w, e, component.AttackTagComponent.Kind(), &component.AttackTag{})
	if p.IsOmen {
		_ = ecs.Add(w, e, component.OmenTagComponent.Kind(), &component.OmenTag{})
	}
	if p.ID != "" {
		d.vfx[p.ID] = e
	}
}

// forgetDeadVfx drops ids whose effect is already gone.
func (d *Dispatcher) forgetDeadVfx() {
	for id, e := range d.vfx {
		if !d.rt.World.IsAlive(e) {
			delete(d.vfx, id)
		}
	}
}

func (d *Dispatcher) stopVfx(id string) {
	e, ok := d.vfx[id]
	if !ok {
		return
	}
	delete(d.vfx, id)
	w := d.rt.World
	w.Deferred(func() { ecs.DestroyEntity(w, e) })
}
