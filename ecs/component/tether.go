package component

import "github.com/milk9111/raidsim/status"

// TetherVfxTarget selects which end of a tether plays resolution effects.
type TetherVfxTarget int

const (
	TetherBoth TetherVfxTarget = iota
	TetherOnlySource
	TetherOnlyTarget
)

// Tether links two actors with a distance constraint. Nothing is evaluated
// until Activated is set. Broken is set once a failure has resolved so the
// penalty and its effects fire once. A Snapshot tether is judged on its first
// activated tick and then destroyed.
type Tether struct {
	SourceID uint64
	TargetID uint64
	// A zero bound is ignored.
	FailFurtherThan float64
	FailCloserThan  float64
	// RunOnce stops evaluation after the first failure.
	RunOnce  bool
	Snapshot bool
	Penalty  []status.Effect

	FailVfx    []string
	SuccessVfx []string
	VfxTarget  TetherVfxTarget

	Activated bool
	Broken    bool
}

// Failed reports whether distance violates the constraint.
func (t Tether) Failed(distance float64) bool {
	if t.FailFurtherThan > 0 && distance > t.FailFurtherThan {
		return true
	}
	if t.FailCloserThan > 0 && distance < t.FailCloserThan {
		return true
	}
	return false
}

var TetherComponent = NewComponent[Tether]()
