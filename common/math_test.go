package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproach(t *testing.T) {
	tests := []struct {
		name                      string
		current, target, rate, dt float64
		want                      float64
	}{
		{"no time", 0, 10, 0.5, 0, 0},
		{"one second at half", 0, 10, 0.5, 1, 5},
		{"two seconds at half", 0, 10, 0.5, 2, 7.5},
		{"full rate snaps", 3, 10, 1, 0.016, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Approach(tt.current, tt.target, tt.rate, tt.dt), 1e-9)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
}
