// Package host declares the narrow capabilities the simulation needs from the
// game it runs inside: reading actors, playing visual effects and applying
// status effects. Every call is non-blocking.
package host

import (
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/status"
)

// Actor is a snapshot of a game character.
type Actor struct {
	ID       uint64
	Position geom.Vec3
	Rotation float64
	Alive    bool
	IsPlayer bool
	// DataID is the game's row id for non-player characters.
	DataID uint32
	// ContentID orders party members identically on every client.
	ContentID uint64
	// Statuses lists active game buff ids.
	Statuses []uint32
}

// HasStatus reports whether the actor currently holds any of ids.
func (a Actor) HasStatus(ids ...uint32) bool {
	for _, have := range a.Statuses {
		for _, want := range ids {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Avatar reads the local player.
type Avatar interface {
	LocalPlayer() (Actor, bool)
	InCombat() bool
}

// Actors looks up other characters.
type Actors interface {
	Actor(id uint64) (Actor, bool)
	PartyMembers() []Actor
}

// VfxHandle identifies a playing effect.
type VfxHandle uint64

// VfxSink plays visual effects.
type VfxSink interface {
	PlayStatic(path string, pos geom.Vec3, rotation float64, scale geom.Vec3) VfxHandle
	PlayOnActor(path string, actorID uint64) VfxHandle
	Stop(h VfxHandle)
}

// StatusSink applies simulated status effects to an actor.
type StatusSink interface {
	Apply(target uint64, e status.Effect)
}

// Notifier shows short on-screen messages.
type Notifier interface {
	Toast(msg string)
}

// Game bundles every host capability.
type Game interface {
	Avatar
	Actors
	VfxSink
	Notifier
}

// Invulnerability buffs that make hits a no-op.
const (
	StatusTranscendent uint32 = 418
)

// KnockbackImmunity lists buffs that nullify resistible knockbacks.
var KnockbackImmunity = []uint32{160, 1209, 1984, 2663, 2345, 4235, 75, 712}
