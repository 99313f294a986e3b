package component

import "github.com/milk9111/raidsim/status"

// Temperature is the heat gauge, stored on a persistent child of the player.
type Temperature struct {
	Current float64
	Band    status.Band
}

// TemperatureDelta is a pending or recently applied heat change, parented to
// the gauge. While it carries a Cooldown, repeats with the same ID are ignored.
type TemperatureDelta struct {
	Value   float64
	ID      int
	Applied bool
}

var TemperatureComponent = NewComponent[Temperature]()
var TemperatureDeltaComponent = NewComponent[TemperatureDelta]()
