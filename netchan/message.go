// Package netchan is the out-of-band channel between co-located viewers. It
// carries start signals, clear requests, a shared rng seed and the odd
// decorative vfx; it never decides what happens in the fight.
package netchan

import (
	"fmt"
	"regexp"

	"github.com/milk9111/raidsim/geom"
)

// Action tags a message. Values are shared with the relay.
type Action uint32

const (
	ActionNone           Action = 0
	ActionUpdatePlayer   Action = 1
	ActionUpdateStatus   Action = 2
	ActionStartMechanic  Action = 3
	ActionClearMechanics Action = 4

	ActionPlayStaticVfx Action = 54
	ActionStopVfx       Action = 58
	ActionSeed          Action = 60
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionUpdatePlayer:
		return "update_player"
	case ActionUpdateStatus:
		return "update_status"
	case ActionStartMechanic:
		return "start_mechanic"
	case ActionClearMechanics:
		return "clear_mechanics"
	case ActionPlayStaticVfx:
		return "play_static_vfx"
	case ActionStopVfx:
		return "stop_vfx"
	case ActionSeed:
		return "seed"
	default:
		return fmt.Sprintf("action(%d)", uint32(a))
	}
}

// Message is one frame on the wire. Exactly one payload matches Action.
type Message struct {
	Action        Action                `json:"a"`
	StartMechanic *StartMechanicPayload `json:"sm,omitempty"`
	PlayStaticVfx *PlayStaticVfxPayload `json:"psv,omitempty"`
	StopVfx       *StopVfxPayload       `json:"sv,omitempty"`
	Seed          *SeedPayload          `json:"sd,omitempty"`
}

// StartMechanicPayload starts mechanic MechanicID. Missing coordinates mean
// the receiving player's position; a missing rotation means facing north.
type StartMechanicPayload struct {
	RequestID  string   `json:"ri"`
	MechanicID uint32   `json:"mi"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Z          *float64 `json:"z,omitempty"`
	Rotation   *float64 `json:"r,omitempty"`
}

// Position returns the requested position, filling missing axes from def.
func (p StartMechanicPayload) Position(def geom.Vec3) geom.Vec3 {
	if p.X != nil {
		def.X = *p.X
	}
	if p.Y != nil {
		def.Y = *p.Y
	}
	if p.Z != nil {
		def.Z = *p.Z
	}
	return def
}

type PlayStaticVfxPayload struct {
	ID       string  `json:"id"`
	VfxPath  string  `json:"v"`
	IsOmen   bool    `json:"o"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"r"`
}

type StopVfxPayload struct {
	ID string `json:"id"`
}

type SeedPayload struct {
	Value string `json:"v"`
}

var vfxPathPattern = regexp.MustCompile(`(^vfx|^bg)/[\w/]*\w+\.avfx$`)

// ValidVfxPath reports whether path names a game effect file.
func ValidVfxPath(path string) bool {
	return vfxPathPattern.MatchString(path)
}

// Validate checks that the payload for m.Action is present and well formed.
func (m Message) Validate() error {
	switch m.Action {
	case ActionStartMechanic:
		if m.StartMechanic == nil {
			return fmt.Errorf("%s: %w", m.Action, ErrMissingPayload)
		}
	case ActionClearMechanics:
	case ActionPlayStaticVfx:
		if m.PlayStaticVfx == nil {
			return fmt.Errorf("%s: %w", m.Action, ErrMissingPayload)
		}
		if !ValidVfxPath(m.PlayStaticVfx.VfxPath) {
			return fmt.Errorf("%s %q: %w", m.Action, m.PlayStaticVfx.VfxPath, ErrInvalidVfxPath)
		}
	case ActionStopVfx:
		if m.StopVfx == nil {
			return fmt.Errorf("%s: %w", m.Action, ErrMissingPayload)
		}
	case ActionSeed:
		if m.Seed == nil || m.Seed.Value == "" {
			return fmt.Errorf("%s: %w", m.Action, ErrMissingPayload)
		}
	default:
		return fmt.Errorf("%s: %w", m.Action, ErrUnsupportedAction)
	}
	return nil
}
