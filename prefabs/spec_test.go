package prefabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/raidsim/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadActionsSpec(t *testing.T) {
	spec, err := LoadActionsSpec()
	require.NoError(t, err)

	damage := spec.Damage()
	assert.NotEmpty(t, spec.Jobs())
	assert.IsIncreasing(t, spec.Jobs())
	assert.Greater(t, len(damage), 100)
	assert.False(t, damage.Has(0))

	auto := NewActionSet(spec.AutoAttacks...)
	assert.True(t, auto.Has(7))
	assert.True(t, auto.Has(8))
}

func TestLoadUCoBSpec(t *testing.T) {
	spec, err := LoadUCoBSpec()
	require.NoError(t, err)

	assert.Equal(t, uint16(733), spec.Territory)
	assert.Equal(t, 22.0, spec.Arena.Radius)
	assert.Len(t, spec.ADS.Difficulties, 3)
	assert.Len(t, spec.Junction, 8)
	assert.Equal(t, 0.7, spec.Shockwaves.Delay)

	heat, ok := spec.HeatFor(9964)
	require.True(t, ok)
	assert.True(t, heat.Stacking)
	heat, ok = spec.HeatFor(9926)
	require.True(t, ok)
	assert.Negative(t, heat.Value)
	_, ok = spec.HeatFor(1)
	assert.False(t, ok)

	cc, ok := spec.CrowdControl.Effect(7554)
	require.True(t, ok)
	assert.Equal(t, status.Heavy, cc.Kind)
	assert.Equal(t, 0.4, cc.Effectiveness)
	_, ok = spec.CrowdControl.Effect(7)
	assert.False(t, ok)
}

func TestUCoBValidation(t *testing.T) {
	tests := []struct {
		name string
		spec UCoBSpec
	}{
		{"no difficulties", UCoBSpec{Junction: make([]JunctionSpec, 8)}},
		{"gap too wide", UCoBSpec{
			ADS:      ADSSpec{Difficulties: []ADSDifficultySpec{{Count: 5, Gap: 2}}},
			Junction: make([]JunctionSpec, 8),
		}},
		{"short junction table", UCoBSpec{
			ADS:      ADSSpec{Difficulties: []ADSDifficultySpec{{Count: 16, Gap: 3}}},
			Junction: make([]JunctionSpec, 7),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.spec.validate())
		})
	}
}

func TestOverrideDirShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	prev := OverrideDir()
	SetOverrideDir(dir)
	t.Cleanup(func() { SetOverrideDir(prev) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "actions.yaml"), []byte("auto_attacks: [99]\n"), 0o644))
	spec, err := LoadActionsSpec()
	require.NoError(t, err)
	assert.Equal(t, []uint32{99}, spec.AutoAttacks)
	_, ok := ModTime("prefabs/actions.yaml")
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "actions.yaml"), []byte("auto_attacks: [\n"), 0o644))
	_, err = LoadActionsSpec()
	assert.Error(t, err)

	SetOverrideDir("")
	spec, err = LoadActionsSpec()
	require.NoError(t, err)
	assert.Equal(t, []uint32{7, 8}, spec.AutoAttacks)
	_, ok = ModTime("actions.yaml")
	assert.False(t, ok)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"spread_drill", "spread_drill.tengo", "scripts/spread_drill.tengo", "prefabs/scripts/spread_drill.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "on_cast =")
	}
	_, err := LoadScript("missing")
	assert.Error(t, err)
	assert.Contains(t, Scripts(), "spread_drill.tengo")
}

func TestLoadSpecMissing(t *testing.T) {
	_, err := LoadSpec[UCoBSpec]("e12s.yaml")
	assert.Error(t, err)
}
