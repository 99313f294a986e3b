package mechanic

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/rng"
	"go.uber.org/zap"
)

// pruneAt is the tracked list length at which dead handles are dropped.
const pruneAt = 64

// Base implements every hook as a no-op and owns the entities a mechanic
// creates. Embed it and override what the mechanic reacts to.
type Base struct {
	name    string
	deps    Deps
	log     *zap.Logger
	seed    int32
	session uuid.UUID
	tracked []ecs.Entity
}

var _ Mechanic = (*Base)(nil)

func NewBase(name string, d Deps) Base {
	b := Base{name: name, deps: d.withDefaults()}
	b.newSession()
	return b
}

// newSession starts a pull. Every log line of the mechanic carries the
// session so one pull can be followed through the log.
func (b *Base) newSession() {
	b.session = uuid.New()
	b.log = b.deps.Log.With(zap.String("mechanic", b.name), zap.Stringer("session", b.session))
}

func (b *Base) Name() string { return b.name }

func (b *Base) SetSeed(seed int32) { b.seed = seed }

func (b *Base) Seed() int32 { return b.seed }

// Rand returns a fresh generator for one decision point. The same seed and
// salt always give the same stream.
func (b *Base) Rand(salt int64) *rand.Rand {
	return rng.Salted(b.seed, salt)
}

// Session identifies the current pull. It changes on every Reset.
func (b *Base) Session() uuid.UUID { return b.session }

func (b *Base) Log() *zap.Logger { return b.log }

func (b *Base) Deps() Deps { return b.deps }

func (b *Base) World() *ecs.World { return b.deps.World }

func (b *Base) Game() host.Game { return b.deps.Game }

func (b *Base) Settings() Settings { return b.deps.Settings }

// Now is the simulated time in seconds.
func (b *Base) Now() float64 { return b.deps.World.Time() }

// Track hands e to the mechanic: Reset destroys it if it is still alive.
func (b *Base) Track(e ecs.Entity) ecs.Entity {
	if e == ecs.Nil {
		return e
	}
	if len(b.tracked) >= pruneAt {
		b.tracked = b.Tracked()
	}
	b.tracked = append(b.tracked, e)
	return e
}

// Tracked returns the live tracked entities.
func (b *Base) Tracked() []ecs.Entity {
	out := b.tracked[:0:0]
	for _, e := range b.tracked {
		if b.deps.World.IsAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// Spawn creates and tracks an attack.
func (b *Base) Spawn(kind string, s attack.Spawn) (ecs.Entity, bool) {
	if b.deps.Attacks == nil {
		return ecs.Nil, false
	}
	e, ok := b.deps.Attacks.TryCreate(kind, s)
	if !ok {
		return ecs.Nil, false
	}
	return b.Track(e), true
}

// After runs fn once delay seconds from now unless the mechanic resets
// first.
func (b *Base) After(delay float64, fn func()) ecs.Entity {
	return b.Track(system.ScheduleAction(b.deps.World, delay, fn, ecs.Nil))
}

// Toast shows msg when the host supports it.
func (b *Base) Toast(msg string) {
	if b.deps.Game != nil {
		b.deps.Game.Toast(msg)
	}
}

// LocalPlayer returns the living local player.
func (b *Base) LocalPlayer() (host.Actor, bool) {
	if b.deps.Game == nil {
		return host.Actor{}, false
	}
	p, ok := b.deps.Game.LocalPlayer()
	return p, ok
}

// Reset destroys every tracked entity that is still alive and starts a new
// session.
func (b *Base) Reset() {
	w := b.deps.World
	if len(b.tracked) > 0 {
		w.Deferred(func() {
			for _, e := range b.tracked {
				ecs.DestroyEntity(w, e)
			}
		})
		b.tracked = nil
	}
	b.newSession()
}

// Close ends the mechanic's last session.
func (b *Base) Close() {
	b.log.Debug("mechanic closed")
}

func (b *Base) OnFrameworkUpdate()                     {}
func (b *Base) OnDirectorUpdate(host.DirectorCategory) {}
func (b *Base) OnObjectCreated(host.ObjectCreated)     {}
func (b *Base) OnActionEffect(host.ActionEffect)       {}
func (b *Base) OnVfxSpawned(host.VfxSpawned)           {}
func (b *Base) OnCastStart(host.CastStart)             {}
func (b *Base) OnCombatStart()                         {}
func (b *Base) OnCombatEnd()                           {}
func (b *Base) OnWeatherChanged(uint8)                 {}
