package ecs

import "errors"

var (
	ErrSelfParent = errors.New("ecs: entity cannot parent itself")
	ErrCycle      = errors.New("ecs: parent would create a cycle")
)

// hierarchy is the owning parent/child graph. Destroying a parent destroys
// its children depth-first.
type hierarchy struct {
	parents  map[entityID]Entity
	children map[entityID][]Entity
}

func newHierarchy() hierarchy {
	return hierarchy{
		parents:  make(map[entityID]Entity),
		children: make(map[entityID][]Entity),
	}
}

func (h *hierarchy) attach(child, parent Entity) {
	h.detach(child)
	h.parents[child.id()] = parent
	h.children[parent.id()] = append(h.children[parent.id()], child)
}

// detach unlinks e from its parent, keeping e's own children.
func (h *hierarchy) detach(e Entity) {
	parent, ok := h.parents[e.id()]
	if !ok {
		return
	}
	delete(h.parents, e.id())
	siblings := h.children[parent.id()]
	for i, s := range siblings {
		if s == e {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(h.children, parent.id())
		return
	}
	h.children[parent.id()] = siblings
}

func (h *hierarchy) detachChildren(e Entity) []Entity {
	kids := h.children[e.id()]
	delete(h.children, e.id())
	for _, k := range kids {
		delete(h.parents, k.id())
	}
	return kids
}

// SetParent makes child owned by parent. A child has at most one parent.
func SetParent(w *World, child, parent Entity) error {
	if w == nil || !w.IsAlive(child) || !w.IsAlive(parent) {
		return ErrEntityNotAlive
	}
	if child == parent {
		return ErrSelfParent
	}
	for p, ok := Parent(w, parent); ok; p, ok = Parent(w, p) {
		if p == child {
			return ErrCycle
		}
	}
	w.hierarchy.attach(child, parent)
	return nil
}

// Parent returns the owner of e, if any.
func Parent(w *World, e Entity) (Entity, bool) {
	if w == nil || !w.entities.exists(e) {
		return Nil, false
	}
	p, ok := w.hierarchy.parents[e.id()]
	return p, ok
}

// Children returns the live children of e.
func Children(w *World, e Entity) []Entity {
	if w == nil || !w.entities.exists(e) {
		return nil
	}
	kids := w.hierarchy.children[e.id()]
	out := make([]Entity, 0, len(kids))
	for _, k := range kids {
		if w.IsAlive(k) {
			out = append(out, k)
		}
	}
	return out
}

// HasChildren reports whether e owns at least one live child.
func HasChildren(w *World, e Entity) bool {
	if w == nil || !w.entities.exists(e) {
		return false
	}
	for _, k := range w.hierarchy.children[e.id()] {
		if w.IsAlive(k) {
			return true
		}
	}
	return false
}
