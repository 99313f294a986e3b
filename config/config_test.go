package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
everything_disabled: false
rng_seed: party1
logging:
  level: debug
  format: json
encounter_settings:
  ucob.tethers: "false"
  UCoB.ADSSquared: true
  ucob.ads_difficulty: 2
  ucob.heat_scale: "1.5"
  ucob.broken: "maybe"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raidsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.False(t, snap.EverythingDisabled)
	assert.Equal(t, "party1", snap.RngSeed)
	assert.Equal(t, DefaultServerURL, snap.ServerURL)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, snap.Logging)
	assert.Len(t, snap.EncounterSettings, 5)

	snap.EncounterSettings["ucob.tethers"] = "true"
	assert.False(t, c.EncounterBool("ucob.tethers", true), "snapshots are copies")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEncounterGetters(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"bool set false", c.EncounterBool("ucob.tethers", true), false},
		{"bool keys ignore case", c.EncounterBool("UCOB.ADSSQUARED", false), true},
		{"bool unparsable", c.EncounterBool("ucob.broken", true), true},
		{"bool missing", c.EncounterBool("ucob.nothing", true), true},
		{"int", c.EncounterInt("ucob.ads_difficulty", 0), 2},
		{"int unparsable", c.EncounterInt("ucob.broken", 7), 7},
		{"float", c.EncounterFloat("ucob.heat_scale", 1), 1.5},
		{"float missing", c.EncounterFloat("ucob.none", 0.25), 0.25},
		{"string", c.EncounterString("ucob.broken", ""), "maybe"},
		{"string missing", c.EncounterString("ucob.none", "def"), "def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestSetAndSave(t *testing.T) {
	path := writeConfig(t, sample)
	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, c.SetEncounterSetting("UCoB.Tethers", true))
	require.NoError(t, c.SetEncounterSetting("ucob.ads_difficulty", 3))
	assert.ErrorIs(t, c.SetEncounterSetting("", true), ErrInvalidSetting)
	assert.ErrorIs(t, c.SetEncounterSetting("ucob.x", []int{1}), ErrInvalidSetting)
	c.SetEverythingDisabled(true)
	c.SetRngSeed("party2")
	require.NoError(t, c.Save())

	again, err := Load(path)
	require.NoError(t, err)
	assert.True(t, again.EverythingDisabled())
	assert.Equal(t, "party2", again.RngSeed())
	assert.True(t, again.EncounterBool("ucob.tethers", false))
	assert.Equal(t, 3, again.EncounterInt("ucob.ads_difficulty", 0))
	assert.Equal(t, 1.5, again.EncounterFloat("ucob.heat_scale", 0))
}

func TestReload(t *testing.T) {
	path := writeConfig(t, sample)
	c, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("everything_disabled: true\n"), 0o644))
	require.NoError(t, c.Reload())
	assert.True(t, c.EverythingDisabled())
	assert.Equal(t, 0, c.EncounterInt("ucob.ads_difficulty", 0))

	assert.ErrorIs(t, New().Reload(), ErrNoFile)
	assert.ErrorIs(t, New().Save(), ErrNoFile)
}

func TestNewUsesEnvironment(t *testing.T) {
	t.Setenv("RAIDSIM_RNG_SEED", "from-env")
	t.Setenv("RAIDSIM_LOGGING_LEVEL", "warn")
	c := New()
	assert.Equal(t, "from-env", c.RngSeed())
	assert.Equal(t, "warn", c.Logging().Level)
	assert.False(t, c.PunishmentImmunity())
}

func TestNewLogger(t *testing.T) {
	for _, cfg := range []LoggingConfig{
		{Level: "debug", Format: "json"},
		{Level: "ERROR", Format: "console"},
		{},
	} {
		log, err := NewLogger(cfg)
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "raidsim.yaml")
	require.NoError(t, os.WriteFile(target, []byte("rng_seed: a\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	for range w.Events {
	}
}

func TestWatched(t *testing.T) {
	assert.True(t, Watched("a/raidsim.yaml"))
	assert.True(t, Watched("prefabs/scripts/x.TENGO"))
	assert.False(t, Watched("notes.txt"))
	assert.True(t, IsScript("x.tengo"))
	assert.False(t, IsScript("x.yaml"))
}
