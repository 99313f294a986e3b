package system

import (
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
)

// OmenFadeTime is how long before expiry an omen starts fading out.
const OmenFadeTime = 0.25

// OmenSystem ages omens, destroys auto-destructing ones once their duration
// has passed and fades timed omens out over their final OmenFadeTime
// seconds. A zero duration never fades.
type OmenSystem struct{}

func NewOmenSystem() *OmenSystem {
	return &OmenSystem{}
}

func (s *OmenSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach(w, component.OmenDurationComponent.Kind(), func(e ecs.Entity, d *component.OmenDuration) {
		d.Elapsed += dt
		if d.AutoDestruct && d.Elapsed > d.Duration {
			ecs.DestroyEntity(w, e)
			return
		}
		if d.Duration > 0 && d.Duration-d.Elapsed < OmenFadeTime && !ecs.Has(w, e, component.FadeOmenComponent.Kind()) {
			_ = ecs.Add(w, e, component.FadeOmenComponent.Kind(), &component.FadeOmen{Duration: OmenFadeTime, Alpha: 1})
		}
	})

	ecs.ForEach(w, component.FadeOmenComponent.Kind(), func(e ecs.Entity, f *component.FadeOmen) {
		f.Elapsed += dt
		if f.Duration <= 0 {
			f.Alpha = 0
			return
		}
		f.Alpha = clamp01(1 - f.Elapsed/f.Duration)
	})
}

// OmenAlpha returns the display alpha of an omen.
func OmenAlpha(w *ecs.World, e ecs.Entity) float64 {
	if f, ok := ecs.Get(w, e, component.FadeOmenComponent.Kind()); ok {
		return f.Alpha
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
