package component

// FakeActor is a simulated boss or add model. HitRadius is used by chasing
// hazards and by the debug overlay. A ModelID of -1 is an invisible anchor
// used only to carry effects.
type FakeActor struct {
	Name      string
	ModelID   int
	HitRadius float64
	// Animation is the looping base timeline; zero is the model's idle.
	Animation uint16
	// OneShot plays once over Animation and is cleared by the renderer.
	OneShot uint16
}

var FakeActorComponent = NewComponent[FakeActor]()
