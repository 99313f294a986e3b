// Package hosttest provides in-memory host collaborators for tests and the
// debug viewer.
package hosttest

import (
	"sort"
	"sync"

	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/status"
)

// PlayedVfx records one PlayStatic or PlayOnActor call.
type PlayedVfx struct {
	Handle   host.VfxHandle
	Path     string
	ActorID  uint64
	Position geom.Vec3
	Rotation float64
	Scale    geom.Vec3
	Stopped  bool
}

// Game is a scriptable host.Game.
type Game struct {
	mu sync.Mutex

	Player    host.Actor
	HasPlayer bool
	Combat    bool
	Others    map[uint64]host.Actor

	Vfx    []PlayedVfx
	Toasts []string
	next   host.VfxHandle
}

var _ host.Game = (*Game)(nil)

// NewGame returns a game with a living local player at the origin.
func NewGame() *Game {
	return &Game{
		Player:    host.Actor{ID: 1, Alive: true, IsPlayer: true, ContentID: 1},
		HasPlayer: true,
		Others:    make(map[uint64]host.Actor),
	}
}

func (g *Game) LocalPlayer() (host.Actor, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Player, g.HasPlayer
}

func (g *Game) InCombat() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Combat
}

// MovePlayer places the local player.
func (g *Game) MovePlayer(pos geom.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Player.Position = pos
}

func (g *Game) Actor(id uint64) (host.Actor, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.HasPlayer && g.Player.ID == id {
		return g.Player, true
	}
	a, ok := g.Others[id]
	return a, ok
}

// AddActor registers another character.
func (g *Game) AddActor(a host.Actor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Others[a.ID] = a
}

// PartyMembers returns player characters ordered by content id.
func (g *Game) PartyMembers() []host.Actor {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]host.Actor, 0, len(g.Others)+1)
	if g.HasPlayer {
		out = append(out, g.Player)
	}
	for _, a := range g.Others {
		if a.IsPlayer {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContentID < out[j].ContentID })
	return out
}

func (g *Game) PlayStatic(path string, pos geom.Vec3, rotation float64, scale geom.Vec3) host.VfxHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.Vfx = append(g.Vfx, PlayedVfx{Handle: g.next, Path: path, Position: pos, Rotation: rotation, Scale: scale})
	return g.next
}

func (g *Game) PlayOnActor(path string, actorID uint64) host.VfxHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.Vfx = append(g.Vfx, PlayedVfx{Handle: g.next, Path: path, ActorID: actorID})
	return g.next
}

func (g *Game) Stop(h host.VfxHandle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.Vfx {
		if g.Vfx[i].Handle == h {
			g.Vfx[i].Stopped = true
		}
	}
}

func (g *Game) Toast(msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Toasts = append(g.Toasts, msg)
}

// VfxPaths returns every played path in call order.
func (g *Game) VfxPaths() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.Vfx))
	for _, v := range g.Vfx {
		out = append(out, v.Path)
	}
	return out
}

// Applied records one status application.
type Applied struct {
	Target uint64
	Effect status.Effect
}

// StatusRecorder is a host.StatusSink that keeps every application.
type StatusRecorder struct {
	mu      sync.Mutex
	Applied []Applied
}

var _ host.StatusSink = (*StatusRecorder)(nil)

func (r *StatusRecorder) Apply(target uint64, e status.Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Applied = append(r.Applied, Applied{Target: target, Effect: e})
}

// Kinds returns the applied kinds in order.
func (r *StatusRecorder) Kinds() []status.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]status.Kind, 0, len(r.Applied))
	for _, a := range r.Applied {
		out = append(out, a.Effect.Kind)
	}
	return out
}

// Count returns how many applications of kind were recorded.
func (r *StatusRecorder) Count(kind status.Kind) int {
	n := 0
	for _, k := range r.Kinds() {
		if k == kind {
			n++
		}
	}
	return n
}
