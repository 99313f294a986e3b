package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/status"
)

// Condition is a simulated status on the player entity it is parented to.
type Condition struct {
	Name      string
	Kind      status.Kind
	ID        int
	Remaining float64
	// Persistent conditions survive the player's death.
	Persistent bool
}

// Paralysis periodically stuns the player.
type Paralysis struct {
	StunInterval float64
	StunDuration float64
	Elapsed      float64
	Offset       float64
	StunActive   bool
	LastPeriod   int
}

// Hysteria forces movement in Direction, re-rolled every RedirectInterval.
type Hysteria struct {
	RedirectInterval float64
	UntilRedirect    float64
	Direction        cp.Vector
}

// Knockback pushes the player along Direction.
type Knockback struct {
	Direction cp.Vector
}

// LimitCut is the number marker above the player's head.
type LimitCut struct {
	Number int
}

var ConditionComponent = NewComponent[Condition]()
var ParalysisComponent = NewComponent[Paralysis]()
var HysteriaComponent = NewComponent[Hysteria]()
var KnockbackComponent = NewComponent[Knockback]()
var LimitCutComponent = NewComponent[LimitCut]()
