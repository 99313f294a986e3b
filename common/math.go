// Package common holds small numeric helpers shared by the viewer.
package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Approach moves current toward target, closing the fraction rate of the gap
// every second regardless of frame time.
func Approach(current, target, rate, dt float64) float64 {
	if rate <= 0 || dt <= 0 {
		return current
	}
	t := 1 - math.Pow(1-math.Min(rate, 1), dt)
	return Lerp(current, target, t)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
