package component

import "github.com/milk9111/raidsim/geom"

// Omen is a frozen telegraph. The shape is stored by value and never edited
// after creation; hit-tests read it once during a snapshot.
type Omen struct {
	Shape geom.Shape
	// Vfx is the ground decal the renderer plays for this omen.
	Vfx string
}

// OmenDuration tracks how long an omen has been displayed.
type OmenDuration struct {
	Duration     float64
	AutoDestruct bool
	Elapsed      float64
}

// FadeOmen is added for the final fade of an omen.
type FadeOmen struct {
	Duration float64
	Elapsed  float64
	Alpha    float64
}

var OmenComponent = NewComponent[Omen]()
var OmenDurationComponent = NewComponent[OmenDuration]()
var FadeOmenComponent = NewComponent[FadeOmen]()
