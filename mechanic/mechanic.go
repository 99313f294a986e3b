// Package mechanic holds the coordinators that turn combat events into
// attacks. A Mechanic belongs to one encounter, is built when the encounter
// activates, is Reset on wipes and is Closed when the encounter deactivates.
package mechanic

import (
	"fmt"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/host"
	"go.uber.org/zap"
)

// Mechanic receives every combat event of its encounter. Handlers run on the
// simulation goroutine inside a deferred world scope.
type Mechanic interface {
	Name() string
	SetSeed(seed int32)
	// Reset destroys every attack the mechanic created and zeroes its
	// counters. Calling it twice is the same as calling it once.
	Reset()
	// Close is called once after the final Reset when the encounter
	// deactivates. The mechanic receives no events afterwards.
	Close()

	OnFrameworkUpdate()
	OnDirectorUpdate(c host.DirectorCategory)
	OnObjectCreated(o host.ObjectCreated)
	OnActionEffect(a host.ActionEffect)
	OnVfxSpawned(v host.VfxSpawned)
	OnCastStart(c host.CastStart)
	OnCombatStart()
	OnCombatEnd()
	OnWeatherChanged(weather uint8)
}

// Settings are per-encounter tunables. Missing or unparsable values give def.
type Settings interface {
	EncounterBool(key string, def bool) bool
	EncounterInt(key string, def int) int
	EncounterFloat(key string, def float64) float64
	EncounterString(key, def string) string
}

// Defaults is a Settings that always returns the default.
type Defaults struct{}

func (Defaults) EncounterBool(_ string, def bool) bool        { return def }
func (Defaults) EncounterInt(_ string, def int) int           { return def }
func (Defaults) EncounterFloat(_ string, def float64) float64 { return def }
func (Defaults) EncounterString(_ string, def string) string  { return def }

// Deps are the collaborators shared by every mechanic of an encounter.
type Deps struct {
	World    *ecs.World
	Attacks  *attack.Manager
	Game     host.Game
	Status   host.StatusSink
	Log      *zap.Logger
	Settings Settings
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Settings == nil {
		d.Settings = Defaults{}
	}
	if d.World == nil && d.Attacks != nil {
		d.World = d.Attacks.World()
	}
	return d
}

// Factory builds a mechanic.
type Factory func(Deps) Mechanic

// ResetsOn reports whether c ends the current pull.
func ResetsOn(c host.DirectorCategory) bool {
	return c == host.DirectorWipe || c == host.DirectorRecommence
}

// Safe runs one handler of m. A panic is logged and reported as false so the
// other mechanics keep running.
func Safe(log *zap.Logger, m Mechanic, hook string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err, isErr := r.(error)
			if !isErr {
				err = fmt.Errorf("%v", r)
			}
			log.Error("mechanic handler panicked",
				zap.String("mechanic", m.Name()),
				zap.String("hook", hook),
				zap.Error(err))
		}
	}()
	fn()
	return true
}
