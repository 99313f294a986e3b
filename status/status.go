// Package status describes the simulated status effects attacks apply to the
// local player. Effects are plain values handed to a host.StatusSink.
package status

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Kind names a status effect.
type Kind string

const (
	Stun           Kind = "stun"
	Bind           Kind = "bind"
	Bound          Kind = "bound"
	Heavy          Kind = "heavy"
	Sleep          Kind = "sleep"
	Pacify         Kind = "pacify"
	Paralysis      Kind = "paralysis"
	Hysteria       Kind = "hysteria"
	Knockback      Kind = "knockback"
	Deepfreeze     Kind = "deepfreeze"
	Overheat       Kind = "overheat"
	LimitCutNumber Kind = "limit_cut"
	HeatChange     Kind = "heat_change"
)

// Effect is one application request.
type Effect struct {
	Kind     Kind
	Duration float64
	// ID groups repeated applications of the same source; zero means always
	// create a fresh condition.
	ID int
	// Extend adds Duration to an existing condition with the same ID instead
	// of refreshing it.
	Extend bool

	// Paralysis
	StunInterval float64
	StunDuration float64

	// Hysteria
	RedirectInterval float64

	// Knockback
	Direction cp.Vector
	Resistible bool

	// LimitCutNumber
	Number int

	// HeatChange
	Delta    float64
	Cooldown float64
}

func (e Effect) String() string {
	return fmt.Sprintf("%s(%.2fs id=%d)", e.Kind, e.Duration, e.ID)
}

// Disabling reports whether the effect prevents the player from acting.
func (e Effect) Disabling() bool {
	switch e.Kind {
	case Stun, Sleep, Deepfreeze, Knockback:
		return true
	}
	return false
}

func NewStun(duration float64) Effect {
	return Effect{Kind: Stun, Duration: duration}
}

func NewBind(duration float64) Effect {
	return Effect{Kind: Bind, Duration: duration}
}

func NewBound(duration float64) Effect {
	return Effect{Kind: Bound, Duration: duration}
}

func NewHeavy(duration float64, id int) Effect {
	return Effect{Kind: Heavy, Duration: duration, ID: id}
}

func NewSleep(duration float64, id int) Effect {
	return Effect{Kind: Sleep, Duration: duration, ID: id}
}

func NewPacify(duration float64, id int) Effect {
	return Effect{Kind: Pacify, Duration: duration, ID: id}
}

// NewParalysis stuns the player for stunDuration at the end of every
// stunInterval while active.
func NewParalysis(duration, stunInterval, stunDuration float64, id int) Effect {
	return Effect{Kind: Paralysis, Duration: duration, StunInterval: stunInterval, StunDuration: stunDuration, ID: id}
}

// NewHysteria forces movement in a random direction re-rolled every
// redirectInterval.
func NewHysteria(duration, redirectInterval float64, id int) Effect {
	return Effect{Kind: Hysteria, Duration: duration, RedirectInterval: redirectInterval, ID: id}
}

// NewKnockback pushes the player along direction. Resistible knockbacks are
// ignored when the player holds a knockback-immunity buff.
func NewKnockback(direction cp.Vector, duration float64, resistible bool) Effect {
	return Effect{Kind: Knockback, Direction: direction, Duration: duration, Resistible: resistible}
}

func NewLimitCut(duration float64, number int) Effect {
	return Effect{Kind: LimitCutNumber, Duration: duration, Number: number, ID: LimitCutID}
}

// NewHeatChange shifts the player's temperature by delta. Repeats with the
// same non-zero id are ignored until cooldown has elapsed.
func NewHeatChange(delta, cooldown float64, id int) Effect {
	return Effect{Kind: HeatChange, Delta: delta, Cooldown: cooldown, ID: id}
}

// LimitCutID is shared by every limit cut marker so a new number replaces the
// old one.
const LimitCutID = 0xC47C4

// WithID returns e grouped under id.
func (e Effect) WithID(id int) Effect {
	e.ID = id
	return e
}
