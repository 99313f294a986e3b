package ecs

import "github.com/milk9111/raidsim/ecs/component"

var (
	ErrEntityNotAlive       = component.ErrEntityNotAlive
	ErrNilComponent         = component.ErrNilComponent
	ErrInvalidComponentKind = component.ErrInvalidComponentKind
)

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Add stores value on e, replacing any existing component of the kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return ErrEntityNotAlive
	}
	if !kind.Valid() {
		return ErrInvalidComponentKind
	}
	if value == nil {
		return ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.exists(e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e.id())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.exists(e) {
		return nil, false
	}
	value, ok := w.store(kind.ID(), false).Get(e.id()).(*T)
	return value, ok && value != nil
}

// First returns any live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return Nil, false
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return Nil, false
	}
	for _, id := range s.denseEntities {
		if e, ok := w.entities.current(id); ok {
			return e, true
		}
	}
	return Nil, false
}

// Count returns the number of live entities carrying kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	n := 0
	ForEach(w, kind, func(Entity, *T) { n++ })
	return n
}

// Query returns the live entities carrying kind.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	var out []Entity
	ForEach(w, kind, func(e Entity, _ *T) { out = append(out, e) })
	return out
}

// DestroyWith destroys every entity carrying kind and returns how many were
// destroyed.
func DestroyWith[T any](w *World, kind component.ComponentKind[T]) int {
	n := 0
	for _, e := range Query(w, kind) {
		if w.DestroyEntity(e) {
			n++
		}
	}
	return n
}

// ForEach walks a snapshot of the store; components added during the walk are
// not visited and entities destroyed during the walk are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(kind.ID(), false)
	for _, id := range s.snapshot() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, ok := s.Get(id).(*T)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sb := w.store(kb.ID(), false)
	if sb == nil {
		return
	}
	ForEach(w, ka, func(e Entity, a *A) {
		b, ok := sb.Get(e.id()).(*B)
		if !ok {
			return
		}
		fn(e, a, b)
	})
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sc := w.store(kc.ID(), false)
	if sc == nil {
		return
	}
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		c, ok := sc.Get(e.id()).(*C)
		if !ok {
			return
		}
		fn(e, a, b, c)
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil || fn == nil {
		return
	}
	sd := w.store(kd.ID(), false)
	if sd == nil {
		return
	}
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		d, ok := sd.Get(e.id()).(*D)
		if !ok {
			return
		}
		fn(e, a, b, c, d)
	})
}
