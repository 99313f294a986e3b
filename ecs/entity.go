package ecs

import "fmt"

// Entity packs a 32-bit slot id with the generation the slot had when the
// handle was issued. A handle whose generation no longer matches its slot is
// stale and every operation on it is a no-op.
type Entity uint64

// Nil is never issued by a world.
const Nil Entity = 0

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	if e == Nil {
		return "entity(nil)"
	}
	return fmt.Sprintf("entity(%d#%d)", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e.id() > 0
}
