package e1s

import (
	"testing"

	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type settings struct {
	mechanic.Defaults
	enabled map[string]bool
}

func (s *settings) EncounterBool(key string, def bool) bool {
	if v, ok := s.enabled[key]; ok {
		return v
	}
	return def
}

func (s *settings) EverythingDisabled() bool { return false }
func (s *settings) RngSeed() string          { return "eden" }

func newRuntime(t *testing.T, log *zap.Logger, enabled map[string]bool) (*encounter.Runtime, *hosttest.Game) {
	t.Helper()
	reg, err := encounter.NewRegistry(Descriptor())
	require.NoError(t, err)
	game := hosttest.NewGame()
	rt := encounter.NewRuntime(game, nil, reg, &settings{enabled: enabled}, log)
	rt.Tick(0)
	rt.Encounters.OnTerritoryChanged(Territory)
	return rt, game
}

func balls(rt *encounter.Runtime) []geom.Vec3 {
	var out []geom.Vec3
	ecs.ForEach2(rt.World, attack.RollingBallComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *attack.RollingBall, t *component.Transform) {
		out = append(out, t.Position)
	})
	return out
}

func TestDescriptor(t *testing.T) {
	d := Descriptor()
	require.Len(t, d.Entries, 3)
	assert.Equal(t, uint16(853), d.Territory)
	assert.Equal(t, "e1s.spreaddrill", d.Entries[2].Key)
	assert.False(t, d.Entries[2].Default)
}

func TestScriptedEntryLoads(t *testing.T) {
	rt, _ := newRuntime(t, zaptest.NewLogger(t), map[string]bool{"e1s.spreaddrill": true})
	e, ok := rt.Encounters.Active()
	require.True(t, ok)
	names := make([]string, 0)
	for _, m := range e.Mechanics() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"PermanentViceOfApathy", "RollingBallOnViceOfApathy", "SpreadDrill"}, names)
}

func TestViceOfApathyTwisterIsDelayed(t *testing.T) {
	rt, _ := newRuntime(t, zap.NewNop(), nil)
	rt.Encounters.OnObjectCreated(host.ObjectCreated{DataID: viceOfApathyObject, Position: geom.V3(110, 0, 110)})

	rt.Tick(0.5)
	assert.Zero(t, ecs.Count(rt.World, attack.TwisterComponent.Kind()))
	rt.Tick(0.6)
	assert.Equal(t, 1, ecs.Count(rt.World, attack.TwisterComponent.Kind()))

	rt.Encounters.OnDirectorUpdate(host.DirectorRecommence)
	assert.Zero(t, ecs.Count(rt.World, attack.TwisterComponent.Kind()))
}

func TestRollingBallSpawnsOncePerPull(t *testing.T) {
	rt, _ := newRuntime(t, zap.NewNop(), nil)
	em := rt.Encounters
	vice := host.ObjectCreated{DataID: viceOfApathyObject}

	em.OnObjectCreated(vice)
	em.OnObjectCreated(vice)
	first := balls(rt)
	require.Len(t, first, 1)
	assert.InDelta(t, arenaCenter.X, first[0].X, arenaWidth/2)
	assert.InDelta(t, arenaCenter.Z, first[0].Z, arenaWidth/2)

	em.OnDirectorUpdate(host.DirectorWipe)
	assert.Empty(t, balls(rt))
	em.OnObjectCreated(vice)
	assert.Equal(t, first, balls(rt), "same seed, same ball")

	em.OnDirectorUpdate(host.DirectorRecommence)
	assert.Len(t, balls(rt), 1, "recommence keeps the ball")
}
