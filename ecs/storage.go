package ecs

// entityStore tracks slot generations, liveness and free ids. Slot ids start
// at 1 so the zero Entity is never valid.
type entityStore struct {
	gen   []generation
	alive []bool
	dying []bool
	free  []entityID
	live  int
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		s.dying = append(s.dying, false)
		id = entityID(len(s.gen))
	}
	idx := int(id) - 1
	s.alive[idx] = true
	s.dying[idx] = false
	s.live++
	return makeEntity(id, s.gen[idx])
}

// destroy frees the slot and bumps its generation so outstanding handles go
// stale.
func (s *entityStore) destroy(e Entity) bool {
	if !s.exists(e) {
		return false
	}
	idx := int(e.id()) - 1
	s.gen[idx]++
	s.alive[idx] = false
	s.dying[idx] = false
	s.free = append(s.free, e.id())
	s.live--
	return true
}

func (s *entityStore) markDying(e Entity) {
	if s.exists(e) {
		s.dying[int(e.id())-1] = true
	}
}

// exists reports whether the slot still belongs to e, including entities
// whose destruction is queued.
func (s *entityStore) exists(e Entity) bool {
	id := int(e.id())
	if id <= 0 || id > len(s.gen) {
		return false
	}
	return s.alive[id-1] && s.gen[id-1] == e.generation()
}

func (s *entityStore) isAlive(e Entity) bool {
	return s.exists(e) && !s.dying[int(e.id())-1]
}

// current returns the live handle occupying id, if any.
func (s *entityStore) current(id entityID) (Entity, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(s.gen) || !s.alive[idx] || s.dying[idx] {
		return Nil, false
	}
	return makeEntity(id, s.gen[idx]), true
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.live)
	for idx := range s.gen {
		if s.alive[idx] && !s.dying[idx] {
			out = append(out, makeEntity(entityID(idx+1), s.gen[idx]))
		}
	}
	return out
}
