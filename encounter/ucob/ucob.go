// Package ucob is the rewritten Unending Coil of Bahamut. Each mechanic
// reacts to the real fight's casts, objects and weather and adds its own
// attacks on top.
package ucob

import (
	"fmt"
	"math"

	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/milk9111/raidsim/prefabs"
)

const Name = "UCoB"

// Neurolink is the object left behind when Twintania drops a neurolink.
const neurolinkObject uint32 = 0x1E88FF

var arenaCenter = geom.V3(0, 0, 0)

// Descriptor loads the encounter tables and lists every mechanic.
func Descriptor() (encounter.Descriptor, error) {
	spec, err := prefabs.LoadUCoBSpec()
	if err != nil {
		return encounter.Descriptor{}, fmt.Errorf("ucob: %w", err)
	}
	actions, err := prefabs.LoadActionsSpec()
	if err != nil {
		return encounter.Descriptor{}, fmt.Errorf("ucob: %w", err)
	}
	return NewDescriptor(spec, actions), nil
}

// NewDescriptor builds the descriptor from already loaded tables.
func NewDescriptor(spec prefabs.UCoBSpec, actions prefabs.ActionsSpec) encounter.Descriptor {
	entry := func(name string, on bool, f mechanic.Factory) encounter.Entry {
		return encounter.Entry{Key: encounter.SettingKey(Name, name), Default: on, Factory: f}
	}
	return encounter.Descriptor{
		Name:      Name,
		Territory: spec.Territory,
		Entries: []encounter.Entry{
			entry("PermanentTwister", true, func(d mechanic.Deps) mechanic.Mechanic { return NewPermanentTwister(d) }),
			entry("EarthShakerStar", true, func(d mechanic.Deps) mechanic.Mechanic { return NewEarthShakerStar(d) }),
			entry("ExpandingEarthshakerPuddles", true, func(d mechanic.Deps) mechanic.Mechanic { return NewExpandingEarthshakerPuddles(d) }),
			entry("JumpableShockwaves", true, func(d mechanic.Deps) mechanic.Mechanic { return NewJumpableShockwaves(d, spec.Shockwaves) }),
			entry("LiquidHeaven", true, func(d mechanic.Deps) mechanic.Mechanic { return NewLiquidHeaven(d) }),
			entry("MoreExaflares", true, func(d mechanic.Deps) mechanic.Mechanic { return NewMoreExaflares(d, spec.Exaflares) }),
			entry("Tethers", true, func(d mechanic.Deps) mechanic.Mechanic { return NewTethers(d) }),
			entry("LightningCorridor", true, func(d mechanic.Deps) mechanic.Mechanic { return NewLightningCorridor(d) }),
			entry("ADSSquared", true, func(d mechanic.Deps) mechanic.Mechanic { return NewADSSquared(d, spec.ADS, spec.Arena.Radius) }),
			entry("TankbusterAftershock", true, func(d mechanic.Deps) mechanic.Mechanic {
				return NewTankbusterAftershock(d, spec.AftershockActions)
			}),
			entry("JunctionCoils", true, func(d mechanic.Deps) mechanic.Mechanic {
				return NewJunctionCoils(d, spec.Junction, spec.Arena.Radius)
			}),
			entry("OctetObstacleCourse", false, func(d mechanic.Deps) mechanic.Mechanic { return NewOctetObstacleCourse(d) }),
			entry("TemperatureControl", true, func(d mechanic.Deps) mechanic.Mechanic { return NewTemperatureControl(d, spec) }),
			entry("DreadknightInUCoB", true, func(d mechanic.Deps) mechanic.Mechanic {
				return NewDreadknight(d, spec.CrowdControl, actions)
			}),
			entry("RollingBallOnNeurolink", true, func(d mechanic.Deps) mechanic.Mechanic {
				return NewRollingBallOnNeurolink(d, spec.Arena.Radius)
			}),
			entry("Transition", true, func(d mechanic.Deps) mechanic.Mechanic {
				return NewTransition(d, spec.Junction, spec.Arena.Radius)
			}),
		},
	}
}

// slot is the i-th of n evenly spaced points on a circle of radius around
// center, with the angle it sits at. Slot 0 is due north.
func slot(center geom.Vec3, radius float64, i, n int) (geom.Vec3, float64) {
	angle := 2 * math.Pi / float64(n) * float64(i)
	return geom.V3(center.X-radius*math.Sin(angle), center.Y, center.Z-radius*math.Cos(angle)), angle
}

// actorPosition looks up a live actor through the host.
func actorPosition(g host.Game, id uint64) (geom.Vec3, bool) {
	if g == nil || id == 0 {
		return geom.Vec3{}, false
	}
	a, ok := g.Actor(id)
	if !ok {
		return geom.Vec3{}, false
	}
	return a.Position, true
}
