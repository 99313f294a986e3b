// Package attack holds every attack kind and the registry that creates them
// by name. An attack is an entity tagged AttackTag whose kind-specific system
// walks it through a phase.Timeline; omens, delayed actions and effects are
// parented to it so destroying the attack cancels all of them.
package attack

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"go.uber.org/zap"
)

var (
	ErrUnknownKind   = errors.New("attack: unknown kind")
	ErrDuplicateKind = errors.New("attack: kind already registered")
)

// Kind names as used by mechanics, scripts and the out-of-band channel.
const (
	KindCircle                 = "Circle"
	KindCircleOmen             = "CircleOmen"
	KindFan                    = "Fan"
	KindFanOmen                = "FanOmen"
	KindRectangleOmen          = "RectangleOmen"
	KindStar                   = "Star"
	KindLightningCorridor      = "LightningCorridor"
	KindADS                    = "ADS"
	KindRepellingCannonADS     = "RepellingCannonADS"
	KindCircleBladeMelusine    = "CircleBladeMelusine"
	KindNerveGasKaliya         = "NerveGasKaliya"
	KindVoidGate               = "VoidGate"
	KindOctetDonut             = "OctetDonut"
	KindTornado                = "Tornado"
	KindTwister                = "Twister"
	KindTwisterObstacleCourse  = "TwisterObstacleCourse"
	KindExaflare               = "Exaflare"
	KindExaflareRow            = "ExaflareRow"
	KindJumpableShockwave      = "JumpableShockwave"
	KindDistanceTether         = "DistanceTether"
	KindDistanceSnapshotTether = "DistanceSnapshotTether"
	KindRollingBall            = "RollingBall"
	KindExpandingPuddle        = "ExpandingPuddle"
	KindLiquidHeaven           = "LiquidHeaven"
	KindDreadknight            = "Dreadknight"
	KindDoomCleanse            = "DoomCleanse"
)

// Spawn places a new attack. A zero Scale selects the kind's default size.
type Spawn struct {
	Position geom.Vec3
	Rotation float64
	Scale    geom.Vec3
	Parent   ecs.Entity
}

// Deps are the collaborators attack systems read from and write to.
type Deps struct {
	Log    *zap.Logger
	Game   host.Game
	Status host.StatusSink
	Rand   *rand.Rand
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(1))
	}
	return d
}

// Kind is one attack type: it builds the entity and supplies the systems that
// drive it.
type Kind interface {
	Name() string
	Create(w *ecs.World, s Spawn) ecs.Entity
	Systems(d Deps) []ecs.System
}

// Registry maps kind names to kinds. It is built explicitly and passed to
// whoever needs it.
type Registry struct {
	kinds map[string]Kind
}

func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := &Registry{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		if err := r.Register(k); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds k under its name.
func (r *Registry) Register(k Kind) error {
	if k == nil {
		return fmt.Errorf("attack: register: %w", ErrUnknownKind)
	}
	if _, ok := r.kinds[k.Name()]; ok {
		return fmt.Errorf("attack: register %q: %w", k.Name(), ErrDuplicateKind)
	}
	r.kinds[k.Name()] = k
	return nil
}

func (r *Registry) Lookup(name string) (Kind, bool) {
	if r == nil {
		return nil, false
	}
	k, ok := r.kinds[name]
	return k, ok
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for n := range r.kinds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the registered kinds ordered by name.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.kinds))
	for _, n := range r.Names() {
		out = append(out, r.kinds[n])
	}
	return out
}

// DefaultRegistry returns a fresh registry holding every built-in kind.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		CircleKind{},
		CircleOmenKind{},
		FanKind{},
		FanOmenKind{},
		RectangleOmenKind{},
		StarKind{},
		LightningCorridorKind{},
		ADSKind{},
		RepellingCannonADSKind{},
		CircleBladeMelusineKind{},
		NerveGasKaliyaKind{},
		VoidGateKind{},
		OctetDonutKind{},
		TornadoKind{},
		TwisterKind{},
		TwisterObstacleCourseKind{},
		ExaflareKind{},
		ExaflareRowKind{},
		JumpableShockwaveKind{},
		DistanceTetherKind{},
		DistanceSnapshotTetherKind{},
		RollingBallKind{},
		ExpandingPuddleKind{},
		LiquidHeavenKind{},
		DreadknightKind{},
		DoomCleanseKind{},
	)
	if err != nil {
		panic(err)
	}
	return r
}
