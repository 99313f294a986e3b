// Package phase implements the timeline every attack follows: an ordered set
// of phases, each guarded by a minimum elapsed time, whose one-time side
// effect runs when the guard is first met.
//
// Timelines are values and Tick is pure, so a kind's progression can be
// tested without a world:
//
//	tl := phase.NewTimeline(
//		phase.At(Omen, 0),
//		phase.At(Snapshot, 2.45),
//		phase.At(Reset, 2.55),
//	)
//	st := tl.Start()
//	st, fired := tl.Tick(st, 0.1)
package phase

// Step is one phase and its guard. In an absolute timeline Guard is the
// elapsed time since the attack started; in a cumulative timeline it is the
// time spent in the previous phase.
type Step[P comparable] struct {
	Phase P
	Guard float64
}

func At[P comparable](p P, guard float64) Step[P] {
	return Step[P]{Phase: p, Guard: guard}
}

// Timeline is an immutable ordered phase list.
type Timeline[P comparable] struct {
	steps      []Step[P]
	thresholds []float64
	index      map[P]int
}

// NewTimeline builds a timeline whose guards are absolute elapsed times.
func NewTimeline[P comparable](steps ...Step[P]) Timeline[P] {
	t := Timeline[P]{
		steps:      append([]Step[P](nil), steps...),
		thresholds: make([]float64, len(steps)),
		index:      make(map[P]int, len(steps)),
	}
	for i, s := range steps {
		t.thresholds[i] = s.Guard
		t.index[s.Phase] = i
	}
	return t
}

// NewCumulativeTimeline builds a timeline whose guards are per-phase
// durations; a phase's threshold is the sum of all guards up to and
// including it.
func NewCumulativeTimeline[P comparable](steps ...Step[P]) Timeline[P] {
	t := NewTimeline(steps...)
	total := 0.0
	for i, s := range steps {
		total += s.Guard
		t.thresholds[i] = total
	}
	return t
}

// State is the per-instance progress through a timeline.
type State[P comparable] struct {
	Phase   P
	Elapsed float64
	// Stagger delays every guard of this instance.
	Stagger float64
	Done    bool
}

// Start returns the state positioned at the first phase.
func (t Timeline[P]) Start() State[P] {
	var s State[P]
	if len(t.steps) > 0 {
		s.Phase = t.steps[0].Phase
	}
	return s
}

// StartStaggered is Start with an instance stagger.
func (t Timeline[P]) StartStaggered(stagger float64) State[P] {
	s := t.Start()
	s.Stagger = stagger
	return s
}

// Threshold returns the elapsed time at which p fires, without stagger.
func (t Timeline[P]) Threshold(p P) (float64, bool) {
	i, ok := t.index[p]
	if !ok {
		return 0, false
	}
	return t.thresholds[i], true
}

// Total is the threshold of the last phase.
func (t Timeline[P]) Total() float64 {
	if len(t.thresholds) == 0 {
		return 0
	}
	return t.thresholds[len(t.thresholds)-1]
}

// Len returns the number of phases.
func (t Timeline[P]) Len() int {
	return len(t.steps)
}

// Tick accumulates dt and returns, in order, every phase whose guard was met
// this tick. The caller runs each returned phase's side effect exactly once.
// When the last phase fires the state is Done and further ticks are no-ops.
func (t Timeline[P]) Tick(s State[P], dt float64) (State[P], []P) {
	if s.Done || len(t.steps) == 0 {
		return s, nil
	}
	s.Elapsed += dt

	var fired []P
	for {
		i, ok := t.index[s.Phase]
		if !ok {
			s.Done = true
			return s, fired
		}
		if s.Elapsed < t.thresholds[i]+s.Stagger {
			return s, fired
		}
		fired = append(fired, s.Phase)
		if i == len(t.steps)-1 {
			s.Done = true
			return s, fired
		}
		s.Phase = t.steps[i+1].Phase
	}
}

// Advance forces the state onto the phase after the current one without
// waiting for its guard. Used when an external event ends a phase early.
func (t Timeline[P]) Advance(s State[P]) State[P] {
	i, ok := t.index[s.Phase]
	if !ok || i == len(t.steps)-1 {
		s.Done = true
		return s
	}
	s.Phase = t.steps[i+1].Phase
	return s
}
