package encounter

import (
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/rng"
	"github.com/milk9111/raidsim/status"
	"go.uber.org/zap"
)

// Runtime is a fully wired simulation: the world with every core system, the
// attack kinds of a registry and an encounter manager.
type Runtime struct {
	World      *ecs.World
	Attacks    *attack.Manager
	Status     host.StatusSink
	Encounters *Manager
}

// NewRuntime builds a world around game. Effects aimed at the local player
// are dropped while settings report punishment immunity.
func NewRuntime(game host.Game, kinds *attack.Registry, reg *Registry, settings Settings, log *zap.Logger) *Runtime {
	if log == nil {
		log = zap.NewNop()
	}
	if kinds == nil {
		kinds = attack.DefaultRegistry()
	}

	w := ecs.NewWorld()
	applier := system.NewStatusApplier(w, log.Named("status"))
	var sink host.StatusSink = &guardedSink{next: applier, settings: settings}
	r := rng.New(int64(rng.HashToRngSeed(settings.RngSeed())))

	w.AddSystem(system.NewPlayerSyncSystem(game))
	w.AddSystem(system.NewDelayedActionSystem(log.Named("scheduler")))
	w.AddSystem(system.NewCooldownSystem())
	w.AddSystem(system.NewLifetimeSystem())
	w.AddSystem(system.NewOmenSystem())
	w.AddSystem(system.NewConditionSystem())
	w.AddSystem(system.NewParalysisSystem(r))
	w.AddSystem(system.NewHysteriaSystem(r))
	w.AddSystem(system.NewTemperatureSystem())

	attacks := attack.NewManager(w, kinds, log.Named("attack"))
	attacks.Install(attack.Deps{Log: log.Named("attack"), Game: game, Status: sink, Rand: r})
	w.AddSystem(system.NewVfxSystem(game))

	d := mechanic.Deps{
		World:   w,
		Attacks: attacks,
		Game:    game,
		Status:  sink,
		Log:     log.Named("encounter"),
	}
	return &Runtime{
		World:      w,
		Attacks:    attacks,
		Status:     sink,
		Encounters: NewManager(reg, d, settings),
	}
}

// Tick runs the mechanics' frame hooks and advances the world by dt.
func (r *Runtime) Tick(dt float64) {
	r.Encounters.OnFrameworkUpdate()
	r.World.Update(dt)
}

// Close unloads the active encounter.
func (r *Runtime) Close() {
	r.Encounters.Unload()
}

type immunity interface {
	PunishmentImmunity() bool
}

// guardedSink drops every effect while the settings grant immunity.
type guardedSink struct {
	next     host.StatusSink
	settings Settings
}

func (g *guardedSink) Apply(target uint64, e status.Effect) {
	if im, ok := g.settings.(immunity); ok && im.PunishmentImmunity() {
		return
	}
	g.next.Apply(target, e)
}
