package ecs

import "github.com/milk9111/raidsim/ecs/component"

// World owns entities, component stores, the parent/child graph and system
// order. It is not safe for concurrent use; one simulation goroutine drives it.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	hierarchy hierarchy
	scheduler *Scheduler
	events    EventQueue
	commands  CommandBuffer

	deferDepth int
	delta      float64
	elapsed    float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		hierarchy: newHierarchy(),
		scheduler: NewScheduler(),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity destroys e and every descendant. Inside a deferred scope the
// subtree is hidden from queries immediately and freed when the scope closes.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	if w.deferDepth > 0 {
		w.markSubtreeDying(e)
		w.commands.Push(func(w *World) { w.destroyNow(e) })
		return true
	}
	w.destroyNow(e)
	return true
}

func (w *World) markSubtreeDying(e Entity) {
	w.entities.markDying(e)
	for _, child := range w.hierarchy.children[e.id()] {
		w.markSubtreeDying(child)
	}
}

func (w *World) destroyNow(e Entity) {
	if !w.entities.exists(e) {
		return
	}
	for _, child := range w.hierarchy.detachChildren(e) {
		w.destroyNow(child)
	}
	w.hierarchy.detach(e)
	for _, store := range w.stores {
		store.Remove(e.id())
	}
	w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid and not queued for
// destruction.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return len(w.entities.all())
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update advances the world by dt seconds: runs every system in order inside
// one deferred scope, then flushes queued commands and per-tick events.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.delta = dt
	w.elapsed += dt
	w.Deferred(func() {
		w.scheduler.Update(w)
	})
	w.events.flush()
}

// Deferred runs fn with structural destruction queued until the outermost
// scope returns.
func (w *World) Deferred(fn func()) {
	if w == nil || fn == nil {
		return
	}
	w.deferDepth++
	defer func() {
		w.deferDepth--
		if w.deferDepth == 0 {
			w.commands.flush(w)
		}
	}()
	fn()
}

// IsDeferred reports whether a deferred scope is open.
func (w *World) IsDeferred() bool {
	return w != nil && w.deferDepth > 0
}

// DeltaTime returns the delta of the tick being processed.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.delta
}

// Time returns the total simulated seconds.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Commands returns the world command buffer.
func (w *World) Commands() *CommandBuffer {
	if w == nil {
		return nil
	}
	return &w.commands
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if s, ok := w.stores[id]; ok {
		return s
	}
	if !create {
		return nil
	}
	s := newSparseSet()
	w.stores[id] = s
	return s
}
