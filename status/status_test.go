package status

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		temp float64
		want Band
	}{
		{0, Normal},
		{99.9, Normal},
		{100, Overheated},
		{200, Overheated},
		{-99.9, Normal},
		{-100, Deepfrozen},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.temp), "temperature %v", tt.temp)
	}
}

func TestClampTemperature(t *testing.T) {
	assert.Equal(t, MinTemperature, ClampTemperature(-500))
	assert.Equal(t, MaxTemperature, ClampTemperature(500))
	assert.Equal(t, 42.0, ClampTemperature(42))
}

func TestDisabling(t *testing.T) {
	assert.True(t, NewStun(1).Disabling())
	assert.True(t, NewSleep(1, 0).Disabling())
	assert.True(t, NewKnockback(cp.Vector{X: 1}, 0.5, true).Disabling())
	assert.False(t, NewBind(1).Disabling())
	assert.False(t, NewHeavy(1, 3).Disabling())
}

func TestLimitCutsShareAnID(t *testing.T) {
	a, b := NewLimitCut(10, 1), NewLimitCut(10, 8)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 8, b.Number)
	assert.Equal(t, 7, a.WithID(7).ID)
}
