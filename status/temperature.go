package status

const (
	MinTemperature        = -100.0
	MaxTemperature        = 200.0
	OverheatTemperature   = 100.0
	DeepfreezeTemperature = -100.0
)

// Band classifies a temperature reading.
type Band int

const (
	Normal Band = iota
	Overheated
	Deepfrozen
)

// Classify returns the band for t. Deepfreeze wins at the shared boundary.
func Classify(t float64) Band {
	switch {
	case t <= DeepfreezeTemperature:
		return Deepfrozen
	case t >= OverheatTemperature:
		return Overheated
	}
	return Normal
}

// ClampTemperature limits t to the gauge range.
func ClampTemperature(t float64) float64 {
	if t < MinTemperature {
		return MinTemperature
	}
	if t > MaxTemperature {
		return MaxTemperature
	}
	return t
}
