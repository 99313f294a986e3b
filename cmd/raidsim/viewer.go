package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/raidsim/common"
	"github.com/milk9111/raidsim/config"
	"github.com/milk9111/raidsim/ecs"
	"github.com/milk9111/raidsim/ecs/system"
	"github.com/milk9111/raidsim/encounter"
	"github.com/milk9111/raidsim/geom"
	"github.com/milk9111/raidsim/host/hosttest"
	"github.com/milk9111/raidsim/netchan"
	"go.uber.org/zap"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	ticksPerSecond = 60

	moveSpeed   = 6.0 // yalms per second
	cameraZoom  = 12.0
	minZoom     = 4.0
	maxZoom     = 40.0
	cameraRate  = 0.9
	toastsShown = 4
)

var background = color.NRGBA{R: 0x18, G: 0x1a, B: 0x20, A: 0xff}

// Viewer is the ebiten game driving one simulation runtime.
type Viewer struct {
	rt       *encounter.Runtime
	game     *hosttest.Game
	cfg      *config.Configuration
	playback *Playback
	log      *zap.Logger

	watcher  *config.Watcher
	client   *netchan.Client
	dispatch *netchan.Dispatcher

	cam        ecs.Camera
	conditions []string
	paused     bool
	ui         *ebitenui.UI
	rebuildUI  bool
	frames     int
}

func NewViewer(rt *encounter.Runtime, game *hosttest.Game, cfg *config.Configuration, pb *Playback, log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	p, _ := game.LocalPlayer()
	v := &Viewer{
		rt:       rt,
		game:     game,
		cfg:      cfg,
		playback: pb,
		log:      log,
		cam:      ecs.Camera{CenterX: p.Position.X, CenterZ: p.Position.Z, Zoom: cameraZoom},
	}
	rt.World.AddSystem(ecs.SystemFunc(v.collectConditions))
	return v
}

// collectConditions keeps the most recent conditions landed on the player
// for the HUD. It runs last so it sees everything applied during the tick.
func (v *Viewer) collectConditions(w *ecs.World) {
	for _, evt := range w.Events().DrainType(system.EventConditionApplied) {
		applied, ok := evt.Data.(system.ConditionApplied)
		if !ok {
			continue
		}
		v.conditions = append(v.conditions, applied.Effect.String())
	}
	if len(v.conditions) > toastsShown {
		v.conditions = v.conditions[len(v.conditions)-toastsShown:]
	}
}

func (v *Viewer) Update() error {
	v.frames++
	dt := 1.0 / float64(ticksPerSecond)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.paused = !v.paused
		v.rebuildUI = v.paused
	}
	v.pollWatcher()

	if v.paused {
		if v.rebuildUI || v.ui == nil {
			v.ui = NewSettingsUI(v)
			v.rebuildUI = false
		}
		v.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.playback.Restart()
		v.game.Combat = false
		v.rt.Encounters.OnTerritoryChanged(v.playback.tl.Territory)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.clearMechanics()
	}

	v.movePlayer(dt)
	v.playback.Advance(dt)
	v.pollRelay()
	v.rt.Tick(dt)
	v.followPlayer(dt)
	if _, wy := ebiten.Wheel(); wy != 0 {
		v.cam.Zoom = common.Clamp(v.cam.Zoom*(1+wy*0.1), minZoom, maxZoom)
	}
	return nil
}

func (v *Viewer) movePlayer(dt float64) {
	var dx, dz float64
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dz--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dz++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dx++
	}
	if dx == 0 && dz == 0 {
		return
	}
	p, ok := v.game.LocalPlayer()
	if !ok {
		return
	}
	step := geom.V3(dx, 0, dz)
	step = step.Mult(moveSpeed * dt / step.Distance(geom.Vec3{}))
	v.game.MovePlayer(p.Position.Add(step))
}

func (v *Viewer) followPlayer(dt float64) {
	p, ok := v.game.LocalPlayer()
	if !ok {
		return
	}
	v.cam.CenterX = common.Approach(v.cam.CenterX, p.Position.X, cameraRate, dt)
	v.cam.CenterZ = common.Approach(v.cam.CenterZ, p.Position.Z, cameraRate, dt)
}

// clearMechanics removes every attack locally and asks the relay to do the
// same for everyone else.
func (v *Viewer) clearMechanics() {
	n := v.rt.Attacks.ClearAll()
	v.log.Info("cleared mechanics", zap.Int("count", n))
	if v.client == nil {
		return
	}
	if err := v.client.ClearMechanics(); err != nil {
		v.log.Warn("failed to relay clear", zap.Error(err))
	}
}

func (v *Viewer) shareSeed() {
	seed, ok := v.rt.Encounters.Seed()
	if !ok || v.client == nil {
		return
	}
	if err := v.client.ShareSeed(seed); err != nil {
		v.log.Warn("failed to share seed", zap.Error(err))
	}
}

func (v *Viewer) pollRelay() {
	if v.client == nil {
		return
	}
	select {
	case <-v.client.Done():
		v.log.Warn("relay connection closed")
		v.client, v.dispatch = nil, nil
		return
	default:
	}
	v.dispatch.Drain(v.client.Messages())
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			v.reload(path)
		case err, ok := <-v.watcher.Errors:
			if ok {
				v.log.Warn("file watcher error", zap.Error(err))
			}
		default:
			return
		}
	}
}

// reload picks up a changed file. Script and table changes only need the
// mechanics rebuilt; the config file is re-read first.
func (v *Viewer) reload(path string) {
	log := v.log.With(zap.String("path", path))
	if !config.IsScript(path) && sameFile(path, v.cfg.Path()) {
		if err := v.cfg.Reload(); err != nil {
			log.Error("failed to reload config", zap.Error(err))
			return
		}
	}
	log.Info("reloading mechanics")
	v.rt.Encounters.RefreshMechanics()
	v.rebuildUI = v.paused
}

func sameFile(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	v.rt.World.Draw(screen, v.cam)
	ebitenutil.DebugPrint(screen, v.hud())

	if v.paused && v.ui != nil {
		v.ui.Draw(screen)
	}
}

func (v *Viewer) hud() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f    t: %.1fs\n", ebiten.ActualFPS(), v.playback.Elapsed())
	if enc, ok := v.rt.Encounters.Active(); ok {
		fmt.Fprintf(&b, "%s    seed: %s    mechanics: %d\n", enc.Name(), enc.SeedString(), len(enc.Mechanics()))
	} else {
		b.WriteString("no encounter\n")
	}
	if e, _, ok := system.LocalPlayer(v.rt.World); ok {
		if t, ok := system.Temperature(v.rt.World, e); ok {
			fmt.Fprintf(&b, "temperature: %.0f\n", t.Current)
		}
	}
	if len(v.conditions) > 0 {
		b.WriteString("hit by: " + strings.Join(v.conditions, ", ") + "\n")
	}
	if v.client != nil {
		b.WriteString("relay: connected\n")
	}
	toasts := v.game.Toasts
	if len(toasts) > toastsShown {
		toasts = toasts[len(toasts)-toastsShown:]
	}
	for _, t := range toasts {
		b.WriteString("> " + t + "\n")
	}
	b.WriteString("\nWASD move   R restart   C clear   Esc settings")
	return b.String()
}

func (v *Viewer) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
