package component

// Lifetime destroys an entity once Remaining seconds have passed. Open-ended
// attacks carry one as a failsafe.
type Lifetime struct {
	Remaining float64
}

var LifetimeComponent = NewComponent[Lifetime]()
