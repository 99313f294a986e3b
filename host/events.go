package host

import (
	"fmt"

	"github.com/milk9111/raidsim/geom"
)

// DirectorCategory is the instance director's state change.
type DirectorCategory uint32

const (
	DirectorCommence   DirectorCategory = 0x40000001
	DirectorRecommence DirectorCategory = 0x40000006
	DirectorComplete   DirectorCategory = 0x40000003
	DirectorWipe       DirectorCategory = 0x40000005
)

func (c DirectorCategory) String() string {
	switch c {
	case DirectorCommence:
		return "commence"
	case DirectorRecommence:
		return "recommence"
	case DirectorComplete:
		return "complete"
	case DirectorWipe:
		return "wipe"
	}
	return fmt.Sprintf("director(%#x)", uint32(c))
}

// ActionEffect is emitted when an ability resolves.
type ActionEffect struct {
	ActionID uint32
	SourceID uint64
	// SourceIsPlayer is true for abilities used by player characters.
	SourceIsPlayer bool
	SourcePosition geom.Vec3
	SourceRotation float64
	Targets        []uint64
	TargetPosition geom.Vec3
}

// TargetsActor reports whether id is among the targets.
func (a ActionEffect) TargetsActor(id uint64) bool {
	for _, t := range a.Targets {
		if t == id {
			return true
		}
	}
	return false
}

// ObjectCreated is emitted when the game spawns an object.
type ObjectCreated struct {
	ObjectID uint64
	DataID   uint32
	Position geom.Vec3
	Rotation float64
}

// CastStart is emitted when an actor begins casting.
type CastStart struct {
	ActionID uint32
	SourceID uint64
	Position geom.Vec3
	Rotation float64
}

// VfxSpawned is emitted when the game itself plays an effect on an actor.
type VfxSpawned struct {
	TargetID uint64
	Path     string
}
