package netchan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/milk9111/raidsim/attack"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/component"
	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/milk9111/raidsim/mechanic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// echoRelay sends every frame straight back to its sender.
func echoRelay(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(kind, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case m, ok := <-c.Messages():
		require.True(t, ok, "connection closed")
		return m
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no message from relay")
		return Message{}
	}
}

func TestValidVfxPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"vfx/omen/eff/general_1bf.avfx", true},
		{"bgcommon/world/common/vfx_for_btl/b0801/eff/b0801_yuka_o.avfx", true},
		{"vfx/omen/eff/general_1bf.tex", false},
		{"../vfx/omen.avfx", false},
		{"chara/monster/m0005.avfx", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidVfxPath(tt.path), tt.path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		err  error
	}{
		{"start", Message{Action: ActionStartMechanic, StartMechanic: &StartMechanicPayload{MechanicID: 1}}, nil},
		{"start without payload", Message{Action: ActionStartMechanic}, ErrMissingPayload},
		{"clear", Message{Action: ActionClearMechanics}, nil},
		{"empty seed", Message{Action: ActionSeed, Seed: &SeedPayload{}}, ErrMissingPayload},
		{"bad vfx", Message{Action: ActionPlayStaticVfx, PlayStaticVfx: &PlayStaticVfxPayload{VfxPath: "x.avfx"}}, ErrInvalidVfxPath},
		{"status update", Message{Action: ActionUpdateStatus}, ErrUnsupportedAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestWireNames(t *testing.T) {
	x := 1.5
	data, err := json.Marshal(Message{Action: ActionStartMechanic, StartMechanic: &StartMechanicPayload{RequestID: "r", MechanicID: 7, X: &x}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"sm":{"ri":"r","mi":7,"x":1.5}}`, string(data))
}

func TestClientRoundTrip(t *testing.T) {
	url := echoRelay(t)
	c, err := Dial(context.Background(), url, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer c.Close()

	pos := geom.V3(1, 0, 2)
	id, err := c.StartMechanic(4, &pos, nil)
	require.NoError(t, err)
	m := receive(t, c)
	require.Equal(t, ActionStartMechanic, m.Action)
	assert.Equal(t, id, m.StartMechanic.RequestID)
	assert.Equal(t, uint32(4), m.StartMechanic.MechanicID)
	assert.Equal(t, pos, m.StartMechanic.Position(geom.Vec3{}))
	assert.Nil(t, m.StartMechanic.Rotation)

	require.NoError(t, c.ShareSeed("party7"))
	m = receive(t, c)
	assert.Equal(t, "party7", m.Seed.Value)

	require.NoError(t, c.ClearMechanics())
	assert.Equal(t, ActionClearMechanics, receive(t, c).Action)
}

func TestSendAfterClose(t *testing.T) {
	c, err := Dial(context.Background(), echoRelay(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	assert.ErrorIs(t, c.ClearMechanics(), ErrClosed)
	_, ok := <-c.Messages()
	assert.False(t, ok)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/nowhere", zap.NewNop())
	assert.Error(t, err)
}

type settings struct{ mechanic.Defaults }

func (settings) EverythingDisabled() bool { return false }
func (settings) RngSeed() string          { return "local" }

func newDispatcher(t *testing.T) (*Dispatcher, *encounter.Runtime, *hosttest.Game) {
	t.Helper()
	reg, err := encounter.NewRegistry(encounter.Descriptor{Name: "Relay", Territory: 1})
	require.NoError(t, err)
	game := hosttest.NewGame()
	game.MovePlayer(geom.V3(3, 0, 4))
	rt := encounter.NewRuntime(game, nil, reg, settings{}, zap.NewNop())
	rt.Tick(0)
	rt.Encounters.OnTerritoryChanged(1)
	return NewDispatcher(rt, game, zaptest.NewLogger(t)), rt, game
}

func mechanicID(t *testing.T, d *Dispatcher, kind string) uint32 {
	t.Helper()
	for i, n := range d.rt.Attacks.Registry().Names() {
		if n == kind {
			return uint32(i + 1)
		}
	}
	require.FailNow(t, "kind not registered", kind)
	return 0
}

func TestDispatcherStartsAndClears(t *testing.T) {
	d, rt, _ := newDispatcher(t)
	id := mechanicID(t, d, attack.KindCircleOmen)

	d.Apply(Message{Action: ActionStartMechanic, StartMechanic: &StartMechanicPayload{MechanicID: id}})
	var at geom.Vec3
	ecs.ForEach2(rt.World, component.OmenComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Omen, tr *component.Transform) {
		at = tr.Position
	})
	assert.Equal(t, geom.V3(3, 0, 4), at, "defaults to the player's position")

	d.Apply(Message{Action: ActionStartMechanic, StartMechanic: &StartMechanicPayload{MechanicID: 9999}})
	assert.Equal(t, 1, ecs.Count(rt.World, component.AttackTagComponent.Kind()))

	d.Apply(Message{Action: ActionClearMechanics})
	assert.Zero(t, ecs.Count(rt.World, component.AttackTagComponent.Kind()))
}

func TestDispatcherSeedAndVfx(t *testing.T) {
	d, rt, game := newDispatcher(t)
	in := make(chan Message, 4)
	in <- Message{Action: ActionSeed, Seed: &SeedPayload{Value: "shared"}}
	in <- Message{Action: ActionPlayStaticVfx, PlayStaticVfx: &PlayStaticVfxPayload{ID: "a", VfxPath: "vfx/omen/eff/general_1bf.avfx"}}
	in <- Message{Action: ActionPlayStaticVfx, PlayStaticVfx: &PlayStaticVfxPayload{ID: "b", VfxPath: "not/a/vfx"}}
	assert.Equal(t, 3, d.Drain(in))

	seed, ok := rt.Encounters.Seed()
	require.True(t, ok)
	assert.Equal(t, "shared", seed)

	rt.Tick(0.1)
	assert.Equal(t, []string{"vfx/omen/eff/general_1bf.avfx"}, game.VfxPaths())

	d.Apply(Message{Action: ActionStopVfx, StopVfx: &StopVfxPayload{ID: "a"}})
	assert.Zero(t, ecs.Count(rt.World, component.StaticVfxComponent.Kind()))
}

func TestClearForgetsVfxIds(t *testing.T) {
	d, rt, _ := newDispatcher(t)
	d.Apply(Message{Action: ActionPlayStaticVfx, PlayStaticVfx: &PlayStaticVfxPayload{ID: "a", VfxPath: "vfx/omen/eff/general_1bf.avfx"}})
	require.Len(t, d.vfx, 1)

	d.Apply(Message{Action: ActionClearMechanics})
	assert.Zero(t, ecs.Count(rt.World, component.StaticVfxComponent.Kind()))
	assert.Empty(t, d.vfx)

	d.Apply(Message{Action: ActionPlayStaticVfx, PlayStaticVfx: &PlayStaticVfxPayload{ID: "a", VfxPath: "vfx/omen/eff/general_1bf.avfx"}})
	assert.Equal(t, 1, ecs.Count(rt.World, component.StaticVfxComponent.Kind()))
	assert.Len(t, d.vfx, 1)
}
