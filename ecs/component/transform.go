package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/raidsim/geom"
)

// Transform places an entity in the world. Rotation is in radians about the
// vertical axis; a zero Scale means the effect's native size.
type Transform struct {
	Position geom.Vec3
	Rotation float64
	Scale    geom.Vec3
}

// Ground returns the position projected onto the ground plane.
func (t Transform) Ground() cp.Vector {
	return t.Position.Ground()
}

// Facing returns the unit vector the entity is facing on the ground plane.
func (t Transform) Facing() cp.Vector {
	return geom.RotationToUnitVector(t.Rotation)
}

var TransformComponent = NewComponent[Transform]()
