package phase

// Pulse schedules a repeating hit-test: the first pulse at Offset, then one
// every Interval until Count pulses have fired. Kinds that alternate between
// an active and an idle phase keep a Pulse plus the number already fired.
type Pulse struct {
	Offset   float64
	Interval float64
	Count    int
}

// Due returns how many pulses should have fired by elapsed.
func (p Pulse) Due(elapsed float64) int {
	if elapsed < p.Offset || p.Count <= 0 {
		return 0
	}
	if p.Interval <= 0 {
		return p.Count
	}
	n := int((elapsed-p.Offset)/p.Interval) + 1
	if n > p.Count {
		n = p.Count
	}
	return n
}

// Next returns the pulses owed beyond fired at elapsed.
func (p Pulse) Next(elapsed float64, fired int) int {
	if d := p.Due(elapsed) - fired; d > 0 {
		return d
	}
	return 0
}

// Finished reports whether every pulse has fired.
func (p Pulse) Finished(fired int) bool {
	return fired >= p.Count
}

// End is the time of the last pulse.
func (p Pulse) End() float64 {
	if p.Count <= 0 {
		return p.Offset
	}
	return p.Offset + float64(p.Count-1)*p.Interval
}
